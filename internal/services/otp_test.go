package services

import (
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/dentline/internal/database"
	"github.com/example/dentline/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func TestIssueCodeShape(t *testing.T) {
	db := setupDB(t)
	svc := NewOTPService(db, 10*time.Minute)

	for i := 0; i < 25; i++ {
		code, err := svc.Issue("+31612345678")
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6-digit code, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("non-numeric code %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
	}
}

func TestIssueStoresExpiry(t *testing.T) {
	db := setupDB(t)
	svc := NewOTPService(db, 10*time.Minute)

	code, err := svc.Issue("+31612345678")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var record models.OTPCode
	if err := db.Where("phone_number = ? AND code = ?", "+31612345678", code).First(&record).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if record.Used {
		t.Error("fresh code already marked used")
	}

	remaining := time.Until(record.ExpiresAt)
	if remaining < 9*time.Minute || remaining > 10*time.Minute {
		t.Errorf("expected ~10 minute expiry, got %v", remaining)
	}
}

func TestVerifyConsumesCode(t *testing.T) {
	db := setupDB(t)
	svc := NewOTPService(db, 10*time.Minute)

	code, err := svc.Issue("+31612345678")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ok, err := svc.Verify("+31612345678", code)
	if err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if !ok {
		t.Fatal("first verify should succeed")
	}

	ok, err = svc.Verify("+31612345678", code)
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if ok {
		t.Fatal("consumed code verified twice")
	}
}

func TestVerifyWrongCode(t *testing.T) {
	db := setupDB(t)
	svc := NewOTPService(db, 10*time.Minute)

	if _, err := svc.Issue("+31612345678"); err != nil {
		t.Fatalf("issue: %v", err)
	}

	ok, err := svc.Verify("+31612345678", "000000")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("wrong code accepted")
	}
}

func TestVerifyWrongPhone(t *testing.T) {
	db := setupDB(t)
	svc := NewOTPService(db, 10*time.Minute)

	code, err := svc.Issue("+31612345678")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ok, err := svc.Verify("+31698765432", code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("code accepted for a different phone")
	}
}

func TestVerifyExpiredCode(t *testing.T) {
	db := setupDB(t)
	svc := NewOTPService(db, 10*time.Minute)

	record := models.OTPCode{
		PhoneNumber: "+31612345678",
		Code:        "123456",
		ExpiresAt:   time.Now().Add(-time.Minute),
		Used:        false,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := svc.Verify("+31612345678", "123456")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("expired code accepted")
	}
}

func TestMultipleOutstandingCodes(t *testing.T) {
	db := setupDB(t)
	svc := NewOTPService(db, 10*time.Minute)

	first, err := svc.Issue("+31612345678")
	if err != nil {
		t.Fatalf("issue first: %v", err)
	}
	second, err := svc.Issue("+31612345678")
	if err != nil {
		t.Fatalf("issue second: %v", err)
	}

	// Issuing a new code does not invalidate the previous one.
	if ok, _ := svc.Verify("+31612345678", first); !ok {
		t.Fatal("older outstanding code rejected")
	}
	if second != first {
		if ok, _ := svc.Verify("+31612345678", second); !ok {
			t.Fatal("newer outstanding code rejected")
		}
	}
}

func TestVerifyConcurrentSingleUse(t *testing.T) {
	db := setupDB(t)
	svc := NewOTPService(db, 10*time.Minute)

	code, err := svc.Issue("+31612345678")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := svc.Verify("+31612345678", code)
			if err != nil {
				t.Errorf("verify: %v", err)
				return
			}
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for ok := range results {
		if ok {
			successes++
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one successful verification, got %d", successes)
	}
}

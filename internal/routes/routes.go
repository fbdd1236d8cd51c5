package routes

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/example/dentline/internal/config"
	"github.com/example/dentline/internal/handlers"
	"github.com/example/dentline/internal/middleware"
	"github.com/example/dentline/internal/services"
	"github.com/example/dentline/internal/utils"
)

// NewApp builds the Fiber application with middleware and routes attached.
func NewApp(db *gorm.DB, cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Dentline Backend",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	Register(app, db, cfg)

	return app
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	validate := utils.NewValidator()
	smsService := services.NewSMSService(cfg)
	otpService := services.NewOTPService(db, cfg.OTPExpires)

	authHandler := handlers.NewAuthHandler(db, cfg, validate, otpService, smsService)
	appointmentHandler := handlers.NewAppointmentHandler(db)
	adminHandler := handlers.NewAdminHandler(db, cfg, smsService)
	smsHandler := handlers.NewSMSHandler(smsService)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/request-otp", authHandler.RequestOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/logout", authHandler.Logout)

	// Gateway trampoline
	api.Post("/sms/dispatch", smsHandler.Dispatch)

	// Admin routes
	admin := api.Group("/admin", middleware.AdminMiddleware(cfg.AdminToken))
	admin.Get("/appointments", adminHandler.ListAppointments)
	admin.Post("/appointments", adminHandler.CreateAppointment)
	admin.Get("/sms-settings", adminHandler.SMSSettings)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))
	protected.Get("/appointments", appointmentHandler.ListAppointments)
	protected.Get("/auth/me", authHandler.Me)
}

// errorHandler maps handler errors to JSON responses. fiber.Errors keep their
// status and message; anything else is logged and reported as a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

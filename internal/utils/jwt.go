package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers malformed, tampered and expired session tokens.
var ErrInvalidToken = errors.New("invalid session token")

type sessionClaims struct {
	PhoneNumber string `json:"phoneNumber"`
	jwt.RegisteredClaims
}

// GenerateSessionToken creates a signed JWT bound to a phone number.
func GenerateSessionToken(secret, phoneNumber string, ttl time.Duration) (string, error) {
	claims := &sessionClaims{
		PhoneNumber: phoneNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   phoneNumber,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates the token and returns the bound phone number.
// Any verification failure comes back as an error, never a panic.
func ParseSessionToken(secret, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject anything but HMAC to block alg-confusion tokens.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*sessionClaims); ok && token.Valid && claims.PhoneNumber != "" {
		return claims.PhoneNumber, nil
	}

	return "", ErrInvalidToken
}

package utils

import (
	"errors"
	"time"

	"lexcitas/config"

	"github.com/golang-jwt/jwt"
)

// GenerateAdminToken creates a signed JWT carrying the admin role. Minted
// out of band (a CLI or the deploy tooling) and presented to the /api/admin
// endpoints.
func GenerateAdminToken(subject string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateAdminToken parses a token string and verifies the admin role.
func ValidateAdminToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid claims")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return errors.New("missing admin role")
	}
	return nil
}

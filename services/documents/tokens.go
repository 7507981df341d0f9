package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lexcitas/config"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// tokenTTL bounds how long an upload link stays usable.
const tokenTTL = 48 * time.Hour

const tokenRecordPrefix = "uploadToken:"

var (
	ErrTokenInvalid = errors.New("upload token invalid or expired")
	ErrTokenUsed    = errors.New("upload token already used")
)

// TokenService mints and validates single-use document upload tokens. The
// upload storage itself lives outside the core; the engine only needs a
// link it can hand to the client.
type TokenService interface {
	// GenerateUploadToken mints a token bound to an appointment.
	GenerateUploadToken(ctx context.Context, appointmentID string) (string, error)
	// Validate checks signature, expiry and single-use state, returning
	// the appointment id the token is bound to.
	Validate(ctx context.Context, token string) (string, error)
	// MarkUsed burns the token after a successful upload.
	MarkUsed(ctx context.Context, token string) error
	// UploadURL renders the public link for a token.
	UploadURL(token string) string
}

// DefaultTokenService signs tokens with the app JWT secret and records
// their single-use state in Redis.
type DefaultTokenService struct {
	Redis  *redis.Client
	Secret []byte
}

// NewDefaultTokenService builds the service from AppConfig.
func NewDefaultTokenService(client *redis.Client) *DefaultTokenService {
	return &DefaultTokenService{
		Redis:  client,
		Secret: []byte(config.AppConfig.JWTSecret),
	}
}

// GenerateUploadToken mints a signed token and records its jti in Redis.
func (s *DefaultTokenService) GenerateUploadToken(ctx context.Context, appointmentID string) (string, error) {
	jti := uuid.New().String()
	claims := jwt.MapClaims{
		"sub": appointmentID,
		"jti": jti,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign upload token: %w", err)
	}

	if err := s.Redis.Set(ctx, tokenRecordPrefix+jti, "unused", tokenTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to record upload token: %w", err)
	}
	return signed, nil
}

// Validate checks the token and returns the bound appointment id.
func (s *DefaultTokenService) Validate(ctx context.Context, token string) (string, error) {
	appointmentID, jti, err := s.parse(token)
	if err != nil {
		return "", err
	}

	state, err := s.Redis.Get(ctx, tokenRecordPrefix+jti).Result()
	if err == redis.Nil {
		return "", ErrTokenInvalid
	}
	if err != nil {
		return "", fmt.Errorf("failed to check upload token: %w", err)
	}
	if state == "used" {
		return "", ErrTokenUsed
	}
	return appointmentID, nil
}

// MarkUsed burns the token, keeping the record until natural expiry so a
// replay is distinguishable from an unknown token.
func (s *DefaultTokenService) MarkUsed(ctx context.Context, token string) error {
	_, jti, err := s.parse(token)
	if err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, tokenRecordPrefix+jti, "used", redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("failed to mark upload token used: %w", err)
	}
	return nil
}

// UploadURL renders the public upload link for a token.
func (s *DefaultTokenService) UploadURL(token string) string {
	return fmt.Sprintf("%s/documentos/subir?token=%s", config.AppConfig.BaseURL, token)
}

func (s *DefaultTokenService) parse(tokenString string) (appointmentID, jti string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrTokenInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrTokenInvalid
	}
	appointmentID, _ = claims["sub"].(string)
	jti, _ = claims["jti"].(string)
	if appointmentID == "" || jti == "" {
		return "", "", ErrTokenInvalid
	}
	return appointmentID, jti, nil
}

// internal/platform/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Admin credentials come from the environment, never from source.
const (
	envUser = "LIBRARY_ADMIN_USER"
	envPass = "LIBRARY_ADMIN_PASS"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrNotConfigured      = errors.New("auth: admin credentials not configured")
	ErrInvalidToken       = errors.New("auth: invalid token")
)

// Service checks admin credentials against the environment and issues
// HS256 session tokens for the administrative routes.
type Service struct {
	secret []byte
	ttl    time.Duration
	lookup func(string) string
}

func NewService(secret []byte) *Service {
	return &Service{
		secret: secret,
		ttl:    24 * time.Hour,
		lookup: os.Getenv,
	}
}

// Login validates the supplied credentials and returns a signed session
// token. When no credentials are configured at all it fails closed.
func (s *Service) Login(username, password string) (string, error) {
	validUser := s.lookup(envUser)
	validPass := s.lookup(envPass)
	if validUser == "" || validPass == "" {
		return "", ErrNotConfigured
	}
	if username != validUser || password != validPass {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"role": "admin",
		"exp":  time.Now().Add(s.ttl).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and returns the admin username.
func (s *Service) Verify(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

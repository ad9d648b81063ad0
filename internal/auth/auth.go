// Package auth is the identity/session provider consumed by the web layer:
// password hashing, session token issue/verify, and token revocation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quill/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	issuer   = "quill"
	audience = "quill-web"

	// SessionCookie is the cookie the web layer stores session tokens in.
	SessionCookie = "quill_session"
)

// Identity is the resolved caller of a request.
type Identity struct {
	UserID   uint
	Username string
}

// Sessions issues and verifies signed session tokens. The Redis client is
// optional; without it logout simply clears the cookie and tokens expire on
// their own.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	redis  *redis.Client
}

// NewSessions creates a session provider with a 7-day token lifetime.
func NewSessions(secret string, redisClient *redis.Client) *Sessions {
	return &Sessions{
		secret: []byte(secret),
		ttl:    7 * 24 * time.Hour,
		redis:  redisClient,
	}
}

// Issue mints a signed session token for the given user.
func (s *Sessions) Issue(userID uint, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", userID),
		"username": username,
		"iss":      issuer,
		"aud":      audience,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
		"jti":      uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses a session token and returns the caller's identity. Revoked
// and malformed tokens fail with an UNAUTHORIZED typed error.
func (s *Sessions) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, models.NewUnauthorizedError("invalid or expired session")
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" && s.redis != nil {
		revoked, err := s.redis.Exists(ctx, revocationKey(jti)).Result()
		if err == nil && revoked > 0 {
			return nil, models.NewUnauthorizedError("session has been revoked")
		}
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, models.NewUnauthorizedError("invalid session subject")
	}
	var userID uint
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil || userID == 0 {
		return nil, models.NewUnauthorizedError("invalid session subject")
	}

	username, _ := claims["username"].(string)
	return &Identity{UserID: userID, Username: username}, nil
}

// Revoke invalidates a token for its remaining lifetime. A nil Redis client
// makes this a no-op.
func (s *Sessions) Revoke(ctx context.Context, tokenString string) error {
	if s.redis == nil {
		return nil
	}
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}

	ttl := s.ttl
	if exp, ok := claims["exp"].(float64); ok {
		if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
			ttl = remaining
		}
	}
	return s.redis.Set(ctx, revocationKey(jti), "1", ttl).Err()
}

func (s *Sessions) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

func revocationKey(jti string) string {
	return "revoked:" + jti
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a stored hash against a plaintext candidate.
func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// Package token signs and parses the paired access/refresh JWTs. The two
// kinds use independent secrets and lifetimes, so possession of one token
// never permits forging the other.
package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/concours-app/backend/internal/config"
	"github.com/concours-app/backend/internal/domain"
)

// Kind selects which secret and lifetime a codec operation uses.
type Kind int

const (
	Access Kind = iota
	Refresh
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload carried by both token kinds. Subject holds the user
// id and ID holds the jti, one fresh value per issued token.
type Claims struct {
	Role         domain.Role `json:"role"`
	Username     string      `json:"username"`
	TokenVersion int         `json:"token_version"`
	jwt.RegisteredClaims
}

// Codec issues and verifies tokens. It is pure: every method is a function of
// its input and the configured secrets.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewCodec(cfg *config.JWTConfig) *Codec {
	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
	}
}

func (c *Codec) AccessExpiry() time.Duration  { return c.accessExpiry }
func (c *Codec) RefreshExpiry() time.Duration { return c.refreshExpiry }

func (c *Codec) params(kind Kind) ([]byte, time.Duration) {
	if kind == Access {
		return c.accessSecret, c.accessExpiry
	}
	return c.refreshSecret, c.refreshExpiry
}

// Issue signs a token of the given kind for the user. Each call generates a
// fresh jti, so the two halves of a pair are independently trackable.
func (c *Codec) Issue(kind Kind, user *domain.User) (string, error) {
	secret, expiry := c.params(kind)
	now := time.Now()

	claims := &Claims{
		Role:         user.Role,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry of a token of the given kind. It
// returns ErrTokenExpired for an expired but otherwise valid token and
// ErrTokenInvalid for every other failure.
func (c *Codec) Parse(kind Kind, tokenString string) (*Claims, error) {
	secret, _ := c.params(kind)

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Hash returns the hex SHA-256 of a raw token, the only form the ledger ever
// stores.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

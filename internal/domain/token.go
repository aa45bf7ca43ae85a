package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is one outstanding refresh-token grant. Only the SHA-256 hash
// of the raw token is ever stored. Rows are never deleted: a revoked entry is
// what makes presenting the same token again detectable as replay.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"-"`
	Revoked   bool      `json:"revoked"`
	ExpiresAt time.Time `json:"expires_at"`
	UserAgent string    `json:"user_agent,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RefreshTokenRepository interface {
	Create(token *RefreshToken) error

	// GetByUserAndHash does a point lookup scoped to the owning user; hashes
	// are only unique per user in this schema.
	GetByUserAndHash(userID uuid.UUID, tokenHash string) (*RefreshToken, error)

	// Revoke flips the entry to revoked. The returned flag is false when the
	// entry was already revoked, which lets a concurrent duplicate rotation be
	// observed as reuse by the losing request.
	Revoke(id uuid.UUID) (bool, error)

	// RevokeAllForUser revokes every grant owned by the user, regardless of
	// current state. Used for logout and for replay response.
	RevokeAllForUser(userID uuid.UUID) error
}

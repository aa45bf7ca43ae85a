package domain

import (
	"time"

	"github.com/google/uuid"
)

// Auth event kinds.
const (
	AuthEventLogin    = "login"
	AuthEventRefresh  = "refresh"
	AuthEventLogout   = "logout"
	AuthEventReplay   = "replay_detected"
)

// AuthEvent is an advisory audit record of an authentication action. It is
// never consulted for authorization decisions.
type AuthEvent struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Kind      string    `json:"kind"`
	UserAgent string    `json:"user_agent,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Joined for listings.
	Username string `json:"username,omitempty"`
}

type AuthEventRepository interface {
	Create(event *AuthEvent) error
	ListRecent(limit, offset int) ([]*AuthEvent, int, error)
	ListByUser(userID uuid.UUID, limit, offset int) ([]*AuthEvent, error)
	CountByKind(since time.Time) (map[string]int, error)
}

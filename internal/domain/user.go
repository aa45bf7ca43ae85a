package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles used for authorization.
type Role string

const (
	RoleAdmin            Role = "ADMIN"
	RoleChefDepartement  Role = "CHEFDEPARTEMENT"
	RoleCFD              Role = "CFD"
	RoleCelluleAnonymat  Role = "CELLULE_ANONYMAT"
	RoleCorrecteur       Role = "CORRECTEUR"
	RoleResponsableSalle Role = "RESPONSABLE_SALLE"
	RoleDoyen            Role = "DOYEN"
	RoleViceDoyen        Role = "VICEDOYEN"
	RoleRecteur          Role = "RECTEUR"
)

// Roles lists every valid role.
var Roles = []Role{
	RoleAdmin,
	RoleChefDepartement,
	RoleCFD,
	RoleCelluleAnonymat,
	RoleCorrecteur,
	RoleResponsableSalle,
	RoleDoyen,
	RoleViceDoyen,
	RoleRecteur,
}

// Valid reports whether r is a member of the role enumeration.
func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User is an account that can authenticate against the API. TokenVersion is
// embedded in every issued token and compared at refresh time; bumping it
// invalidates all outstanding tokens without touching the refresh-token ledger.
type User struct {
	ID            uuid.UUID  `json:"id"`
	Username      string     `json:"username"`
	Email         *string    `json:"email,omitempty"`
	PasswordHash  string     `json:"-"`
	Role          Role       `json:"role"`
	TokenVersion  int        `json:"-"`
	IsActive      bool       `json:"is_active"`
	SessionActive bool       `json:"session_active"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	MemberID      uuid.UUID  `json:"member_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

type UserRepository interface {
	Create(user *User) error
	GetByID(id uuid.UUID) (*User, error)
	GetByUsername(username string) (*User, error)
	GetByMemberID(memberID uuid.UUID) (*User, error)
	List() ([]*User, error)
	Update(user *User) error
	Delete(id uuid.UUID) error

	// IncrementTokenVersion bumps the user's token version, invalidating every
	// previously issued token at its next refresh.
	IncrementTokenVersion(id uuid.UUID) error

	// RecordLogin stamps last_login and marks the session active.
	RecordLogin(id uuid.UUID) error

	// ClearSession marks the session inactive on logout.
	ClearSession(id uuid.UUID) error
}

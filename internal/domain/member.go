package domain

import "github.com/google/uuid"

// Sex is the closed enumeration used for staff members.
type Sex string

const (
	SexMale   Sex = "HOMME"
	SexFemale Sex = "FEMME"
)

// Member is a staff member (jury member, department head, dean, ...). A user
// account references exactly one member.
type Member struct {
	ID              uuid.UUID `json:"id"`
	LastName        string    `json:"last_name"`
	FirstName       string    `json:"first_name"`
	LastNameArabic  *string   `json:"last_name_ar,omitempty"`
	FirstNameArabic *string   `json:"first_name_ar,omitempty"`
	Grade           *string   `json:"grade,omitempty"`
	Sex             Sex       `json:"sex"`
}

type MemberRepository interface {
	Create(member *Member) error
	GetByID(id uuid.UUID) (*Member, error)
	List() ([]*Member, error)
	Update(member *Member) error
	Delete(id uuid.UUID) error
}

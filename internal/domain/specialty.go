package domain

import "github.com/google/uuid"

// Specialty is one recruitment track within a contest, with a fixed number of
// open seats.
type Specialty struct {
	ID        uuid.UUID `json:"id"`
	Track     string    `json:"track"`
	Name      string    `json:"name"`
	SeatCount int       `json:"seat_count"`
	ContestID uuid.UUID `json:"contest_id"`
}

type SpecialtyRepository interface {
	Create(specialty *Specialty) error
	GetByID(id uuid.UUID) (*Specialty, error)
	List() ([]*Specialty, error)
	ListByContest(contestID uuid.UUID) ([]*Specialty, error)
	Update(specialty *Specialty) error
	Delete(id uuid.UUID) error
}

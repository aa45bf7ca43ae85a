package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus tracks whether a candidate sat an exam.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
)

// Candidate is an applicant registered for one specialty of a contest.
// Matricule is the unique registration number.
type Candidate struct {
	ID              uuid.UUID        `json:"id"`
	LastName        string           `json:"last_name"`
	FirstName       string           `json:"first_name"`
	Matricule       string           `json:"matricule"`
	BirthDate       *time.Time       `json:"birth_date,omitempty"`
	CommonStatus    AttendanceStatus `json:"common_status"`
	SpecialtyStatus AttendanceStatus `json:"specialty_status"`
	SpecialtyID     uuid.UUID        `json:"specialty_id"`
}

type CandidateRepository interface {
	Create(candidate *Candidate) error
	GetByID(id uuid.UUID) (*Candidate, error)
	GetByMatricule(matricule string) (*Candidate, error)
	List() ([]*Candidate, error)
	ListBySpecialty(specialtyID uuid.UUID) ([]*Candidate, error)
	Update(candidate *Candidate) error
	Delete(id uuid.UUID) error
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contest is one exam session (concours) organized by a department.
type Contest struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Year         int        `json:"year"`
	Date         *time.Time `json:"date,omitempty"`
	DepartmentID uuid.UUID  `json:"department_id"`
}

type ContestRepository interface {
	Create(contest *Contest) error
	GetByID(id uuid.UUID) (*Contest, error)
	List() ([]*Contest, error)
	ListByDepartment(departmentID uuid.UUID) ([]*Contest, error)
	Update(contest *Contest) error
	Delete(id uuid.UUID) error
}

package domain

import "github.com/google/uuid"

type Department struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	FacultyID uuid.UUID `json:"faculty_id"`
}

type DepartmentRepository interface {
	Create(department *Department) error
	GetByID(id uuid.UUID) (*Department, error)
	List() ([]*Department, error)
	ListByFaculty(facultyID uuid.UUID) ([]*Department, error)
	Update(department *Department) error
	Delete(id uuid.UUID) error
}

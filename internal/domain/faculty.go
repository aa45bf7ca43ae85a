package domain

import "github.com/google/uuid"

type Faculty struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type FacultyRepository interface {
	Create(faculty *Faculty) error
	GetByID(id uuid.UUID) (*Faculty, error)
	List() ([]*Faculty, error)
	Update(faculty *Faculty) error
	Delete(id uuid.UUID) error
}

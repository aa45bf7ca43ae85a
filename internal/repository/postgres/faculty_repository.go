package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/concours-app/backend/internal/apperr"
	"github.com/concours-app/backend/internal/domain"
)

type FacultyRepository struct {
	db DB
}

func NewFacultyRepository(db DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

func scanFaculty(row pgx.Row) (*domain.Faculty, error) {
	faculty := &domain.Faculty{}
	err := row.Scan(&faculty.ID, &faculty.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return faculty, nil
}

func (r *FacultyRepository) Create(faculty *domain.Faculty) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if faculty.ID == uuid.Nil {
		faculty.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, `INSERT INTO faculties (id, name) VALUES ($1, $2)`, faculty.ID, faculty.Name)
	return err
}

func (r *FacultyRepository) GetByID(id uuid.UUID) (*domain.Faculty, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return scanFaculty(r.db.QueryRow(ctx, `SELECT id, name FROM faculties WHERE id = $1`, id))
}

func (r *FacultyRepository) List() ([]*domain.Faculty, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, name FROM faculties ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faculties []*domain.Faculty
	for rows.Next() {
		faculty := &domain.Faculty{}
		if err := rows.Scan(&faculty.ID, &faculty.Name); err != nil {
			return nil, err
		}
		faculties = append(faculties, faculty)
	}
	return faculties, rows.Err()
}

func (r *FacultyRepository) Update(faculty *domain.Faculty) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE faculties SET name = $2 WHERE id = $1`, faculty.ID, faculty.Name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("faculty")
	}
	return nil
}

func (r *FacultyRepository) Delete(id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM faculties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("faculty")
	}
	return nil
}

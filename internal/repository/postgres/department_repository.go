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

type DepartmentRepository struct {
	db DB
}

func NewDepartmentRepository(db DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

const departmentColumns = `id, name, faculty_id`

func scanDepartment(row pgx.Row) (*domain.Department, error) {
	department := &domain.Department{}
	err := row.Scan(&department.ID, &department.Name, &department.FacultyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return department, nil
}

func (r *DepartmentRepository) Create(department *domain.Department) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if department.ID == uuid.Nil {
		department.ID = uuid.New()
	}

	query := `INSERT INTO departments (id, name, faculty_id) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, department.ID, department.Name, department.FacultyID)
	return err
}

func (r *DepartmentRepository) GetByID(id uuid.UUID) (*domain.Department, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`
	return scanDepartment(r.db.QueryRow(ctx, query, id))
}

func (r *DepartmentRepository) List() ([]*domain.Department, error) {
	return r.list(`SELECT ` + departmentColumns + ` FROM departments ORDER BY name ASC`)
}

func (r *DepartmentRepository) ListByFaculty(facultyID uuid.UUID) ([]*domain.Department, error) {
	return r.list(`SELECT `+departmentColumns+` FROM departments WHERE faculty_id = $1 ORDER BY name ASC`, facultyID)
}

func (r *DepartmentRepository) list(query string, args ...any) ([]*domain.Department, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []*domain.Department
	for rows.Next() {
		department := &domain.Department{}
		if err := rows.Scan(&department.ID, &department.Name, &department.FacultyID); err != nil {
			return nil, err
		}
		departments = append(departments, department)
	}
	return departments, rows.Err()
}

func (r *DepartmentRepository) Update(department *domain.Department) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `UPDATE departments SET name = $2, faculty_id = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, department.ID, department.Name, department.FacultyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("department")
	}
	return nil
}

func (r *DepartmentRepository) Delete(id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("department")
	}
	return nil
}

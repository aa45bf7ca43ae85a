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

type ContestRepository struct {
	db DB
}

func NewContestRepository(db DB) *ContestRepository {
	return &ContestRepository{db: db}
}

const contestColumns = `id, name, year, date, department_id`

func scanContest(row pgx.Row) (*domain.Contest, error) {
	contest := &domain.Contest{}
	err := row.Scan(&contest.ID, &contest.Name, &contest.Year, &contest.Date, &contest.DepartmentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return contest, nil
}

func (r *ContestRepository) Create(contest *domain.Contest) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if contest.ID == uuid.Nil {
		contest.ID = uuid.New()
	}

	query := `INSERT INTO contests (id, name, year, date, department_id) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query, contest.ID, contest.Name, contest.Year, contest.Date, contest.DepartmentID)
	return err
}

func (r *ContestRepository) GetByID(id uuid.UUID) (*domain.Contest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `SELECT ` + contestColumns + ` FROM contests WHERE id = $1`
	return scanContest(r.db.QueryRow(ctx, query, id))
}

func (r *ContestRepository) List() ([]*domain.Contest, error) {
	return r.list(`SELECT ` + contestColumns + ` FROM contests ORDER BY year DESC, name ASC`)
}

func (r *ContestRepository) ListByDepartment(departmentID uuid.UUID) ([]*domain.Contest, error) {
	return r.list(`SELECT `+contestColumns+` FROM contests WHERE department_id = $1 ORDER BY year DESC, name ASC`, departmentID)
}

func (r *ContestRepository) list(query string, args ...any) ([]*domain.Contest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contests []*domain.Contest
	for rows.Next() {
		contest := &domain.Contest{}
		if err := rows.Scan(&contest.ID, &contest.Name, &contest.Year, &contest.Date, &contest.DepartmentID); err != nil {
			return nil, err
		}
		contests = append(contests, contest)
	}
	return contests, rows.Err()
}

func (r *ContestRepository) Update(contest *domain.Contest) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `UPDATE contests SET name = $2, year = $3, date = $4, department_id = $5 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, contest.ID, contest.Name, contest.Year, contest.Date, contest.DepartmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("contest")
	}
	return nil
}

func (r *ContestRepository) Delete(id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM contests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("contest")
	}
	return nil
}

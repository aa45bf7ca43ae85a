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

type SpecialtyRepository struct {
	db DB
}

func NewSpecialtyRepository(db DB) *SpecialtyRepository {
	return &SpecialtyRepository{db: db}
}

const specialtyColumns = `id, track, name, seat_count, contest_id`

func scanSpecialty(row pgx.Row) (*domain.Specialty, error) {
	specialty := &domain.Specialty{}
	err := row.Scan(&specialty.ID, &specialty.Track, &specialty.Name, &specialty.SeatCount, &specialty.ContestID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return specialty, nil
}

func (r *SpecialtyRepository) Create(specialty *domain.Specialty) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if specialty.ID == uuid.Nil {
		specialty.ID = uuid.New()
	}

	query := `INSERT INTO specialties (id, track, name, seat_count, contest_id) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query, specialty.ID, specialty.Track, specialty.Name, specialty.SeatCount, specialty.ContestID)
	return err
}

func (r *SpecialtyRepository) GetByID(id uuid.UUID) (*domain.Specialty, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `SELECT ` + specialtyColumns + ` FROM specialties WHERE id = $1`
	return scanSpecialty(r.db.QueryRow(ctx, query, id))
}

func (r *SpecialtyRepository) List() ([]*domain.Specialty, error) {
	return r.list(`SELECT ` + specialtyColumns + ` FROM specialties ORDER BY name ASC`)
}

func (r *SpecialtyRepository) ListByContest(contestID uuid.UUID) ([]*domain.Specialty, error) {
	return r.list(`SELECT `+specialtyColumns+` FROM specialties WHERE contest_id = $1 ORDER BY name ASC`, contestID)
}

func (r *SpecialtyRepository) list(query string, args ...any) ([]*domain.Specialty, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specialties []*domain.Specialty
	for rows.Next() {
		specialty := &domain.Specialty{}
		if err := rows.Scan(&specialty.ID, &specialty.Track, &specialty.Name, &specialty.SeatCount, &specialty.ContestID); err != nil {
			return nil, err
		}
		specialties = append(specialties, specialty)
	}
	return specialties, rows.Err()
}

func (r *SpecialtyRepository) Update(specialty *domain.Specialty) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `UPDATE specialties SET track = $2, name = $3, seat_count = $4, contest_id = $5 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, specialty.ID, specialty.Track, specialty.Name, specialty.SeatCount, specialty.ContestID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("specialty")
	}
	return nil
}

func (r *SpecialtyRepository) Delete(id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM specialties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("specialty")
	}
	return nil
}

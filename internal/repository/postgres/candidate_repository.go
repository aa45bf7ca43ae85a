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

type CandidateRepository struct {
	db DB
}

func NewCandidateRepository(db DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

const candidateColumns = `id, last_name, first_name, matricule, birth_date, common_status, specialty_status, specialty_id`

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	candidate := &domain.Candidate{}
	err := row.Scan(
		&candidate.ID,
		&candidate.LastName,
		&candidate.FirstName,
		&candidate.Matricule,
		&candidate.BirthDate,
		&candidate.CommonStatus,
		&candidate.SpecialtyStatus,
		&candidate.SpecialtyID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

func (r *CandidateRepository) Create(candidate *domain.Candidate) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}

	query := `
		INSERT INTO candidates (id, last_name, first_name, matricule, birth_date, common_status, specialty_status, specialty_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		candidate.ID,
		candidate.LastName,
		candidate.FirstName,
		candidate.Matricule,
		candidate.BirthDate,
		candidate.CommonStatus,
		candidate.SpecialtyStatus,
		candidate.SpecialtyID,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("matricule already registered")
	}
	return err
}

func (r *CandidateRepository) GetByID(id uuid.UUID) (*domain.Candidate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	return scanCandidate(r.db.QueryRow(ctx, query, id))
}

func (r *CandidateRepository) GetByMatricule(matricule string) (*domain.Candidate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE matricule = $1`
	return scanCandidate(r.db.QueryRow(ctx, query, matricule))
}

func (r *CandidateRepository) List() ([]*domain.Candidate, error) {
	return r.list(`SELECT ` + candidateColumns + ` FROM candidates ORDER BY last_name ASC, first_name ASC`)
}

func (r *CandidateRepository) ListBySpecialty(specialtyID uuid.UUID) ([]*domain.Candidate, error) {
	return r.list(`SELECT `+candidateColumns+` FROM candidates WHERE specialty_id = $1 ORDER BY last_name ASC, first_name ASC`, specialtyID)
}

func (r *CandidateRepository) list(query string, args ...any) ([]*domain.Candidate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*domain.Candidate
	for rows.Next() {
		candidate := &domain.Candidate{}
		if err := rows.Scan(
			&candidate.ID,
			&candidate.LastName,
			&candidate.FirstName,
			&candidate.Matricule,
			&candidate.BirthDate,
			&candidate.CommonStatus,
			&candidate.SpecialtyStatus,
			&candidate.SpecialtyID,
		); err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

func (r *CandidateRepository) Update(candidate *domain.Candidate) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
		UPDATE candidates
		SET last_name = $2, first_name = $3, matricule = $4, birth_date = $5,
		    common_status = $6, specialty_status = $7, specialty_id = $8
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		candidate.ID,
		candidate.LastName,
		candidate.FirstName,
		candidate.Matricule,
		candidate.BirthDate,
		candidate.CommonStatus,
		candidate.SpecialtyStatus,
		candidate.SpecialtyID,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("matricule already registered")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("candidate")
	}
	return nil
}

func (r *CandidateRepository) Delete(id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("candidate")
	}
	return nil
}

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

type MemberRepository struct {
	db DB
}

func NewMemberRepository(db DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = `id, last_name, first_name, last_name_ar, first_name_ar, grade, sex`

func scanMember(row pgx.Row) (*domain.Member, error) {
	member := &domain.Member{}
	err := row.Scan(
		&member.ID,
		&member.LastName,
		&member.FirstName,
		&member.LastNameArabic,
		&member.FirstNameArabic,
		&member.Grade,
		&member.Sex,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *MemberRepository) Create(member *domain.Member) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO members (id, last_name, first_name, last_name_ar, first_name_ar, grade, sex)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		member.ID,
		member.LastName,
		member.FirstName,
		member.LastNameArabic,
		member.FirstNameArabic,
		member.Grade,
		member.Sex,
	)
	return err
}

func (r *MemberRepository) GetByID(id uuid.UUID) (*domain.Member, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return scanMember(r.db.QueryRow(ctx, query, id))
}

func (r *MemberRepository) List() ([]*domain.Member, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := `SELECT ` + memberColumns + ` FROM members ORDER BY last_name ASC, first_name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member := &domain.Member{}
		if err := rows.Scan(
			&member.ID,
			&member.LastName,
			&member.FirstName,
			&member.LastNameArabic,
			&member.FirstNameArabic,
			&member.Grade,
			&member.Sex,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *MemberRepository) Update(member *domain.Member) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
		UPDATE members
		SET last_name = $2, first_name = $3, last_name_ar = $4, first_name_ar = $5, grade = $6, sex = $7
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		member.ID,
		member.LastName,
		member.FirstName,
		member.LastNameArabic,
		member.FirstNameArabic,
		member.Grade,
		member.Sex,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("member")
	}
	return nil
}

func (r *MemberRepository) Delete(id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("member")
	}
	return nil
}

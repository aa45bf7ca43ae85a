package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/concours-app/backend/internal/domain"
)

// RefreshTokenRepository is the durable ledger of refresh-token grants.
// Entries are only ever inserted and flipped to revoked, never deleted: the
// revoked history is what makes replay detection work.
type RefreshTokenRepository struct {
	db DB
}

func NewRefreshTokenRepository(db DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(token *domain.RefreshToken) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, revoked, expires_at, user_agent, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.Revoked = false
	token.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.Revoked,
		token.ExpiresAt,
		token.UserAgent,
		token.IPAddress,
		token.CreatedAt,
	)
	return err
}

func (r *RefreshTokenRepository) GetByUserAndHash(userID uuid.UUID, tokenHash string) (*domain.RefreshToken, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
		SELECT id, user_id, token_hash, revoked, expires_at, user_agent, ip_address, created_at
		FROM refresh_tokens
		WHERE user_id = $1 AND token_hash = $2
	`

	token := &domain.RefreshToken{}
	err := r.db.QueryRow(ctx, query, userID, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.Revoked,
		&token.ExpiresAt,
		&token.UserAgent,
		&token.IPAddress,
		&token.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Revoke marks one entry revoked. The update is conditional on the current
// state, so when two rotations race on the same grant exactly one of them
// wins; the loser sees won == false and must treat the token as reused.
func (r *RefreshTokenRepository) Revoke(id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1 AND revoked = FALSE`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RefreshTokenRepository) RevokeAllForUser(userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concours-app/backend/internal/domain"
)

func newLedgerFixture(t *testing.T) (*RefreshTokenRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRefreshTokenRepository(mock), mock
}

func sampleGrant() *domain.RefreshToken {
	return &domain.RefreshToken{
		UserID:    uuid.New(),
		TokenHash: "deadbeef",
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
		UserAgent: "Mozilla/5.0",
		IPAddress: "192.0.2.10",
	}
}

func TestRefreshTokenRepository_Create(t *testing.T) {
	repo, mock := newLedgerFixture(t)

	grant := sampleGrant()
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(pgxmock.AnyArg(), grant.UserID, grant.TokenHash, false, grant.ExpiresAt,
			grant.UserAgent, grant.IPAddress, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(grant)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, grant.ID)
	assert.False(t, grant.Revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_GetByUserAndHash(t *testing.T) {
	repo, mock := newLedgerFixture(t)

	grant := sampleGrant()
	grant.ID = uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM refresh_tokens").
		WithArgs(grant.UserID, grant.TokenHash).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "token_hash", "revoked", "expires_at", "user_agent", "ip_address", "created_at",
		}).AddRow(grant.ID, grant.UserID, grant.TokenHash, true, grant.ExpiresAt, grant.UserAgent, grant.IPAddress, now))

	got, err := repo.GetByUserAndHash(grant.UserID, grant.TokenHash)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, grant.ID, got.ID)
	assert.True(t, got.Revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_GetByUserAndHash_Missing(t *testing.T) {
	repo, mock := newLedgerFixture(t)

	userID := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM refresh_tokens").
		WithArgs(userID, "unknown").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "token_hash", "revoked", "expires_at", "user_agent", "ip_address", "created_at",
		}))

	got, err := repo.GetByUserAndHash(userID, "unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_RevokeWinsOnce(t *testing.T) {
	repo, mock := newLedgerFixture(t)

	id := uuid.New()
	mock.ExpectExec("UPDATE refresh_tokens SET revoked = TRUE WHERE id").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked = TRUE WHERE id").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	won, err := repo.Revoke(id)
	require.NoError(t, err)
	assert.True(t, won)

	// The second attempt hits an already-revoked row and loses.
	won, err = repo.Revoke(id)
	require.NoError(t, err)
	assert.False(t, won)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_RevokeAllForUser(t *testing.T) {
	repo, mock := newLedgerFixture(t)

	userID := uuid.New()
	mock.ExpectExec("UPDATE refresh_tokens SET revoked = TRUE WHERE user_id").
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	require.NoError(t, repo.RevokeAllForUser(userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

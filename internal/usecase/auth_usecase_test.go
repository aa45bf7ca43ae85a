package usecase

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/concours-app/backend/internal/apperr"
	"github.com/concours-app/backend/internal/config"
	"github.com/concours-app/backend/internal/domain"
	"github.com/concours-app/backend/internal/token"
)

type fakeUserRepo struct {
	users   map[uuid.UUID]*domain.User
	logins  int
	cleared int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserRepo) Create(user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(id uuid.UUID) (*domain.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByUsername(username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByMemberID(memberID uuid.UUID) (*domain.User, error) {
	for _, u := range f.users {
		if u.MemberID == memberID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List() ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) IncrementTokenVersion(id uuid.UUID) error {
	f.users[id].TokenVersion++
	return nil
}

func (f *fakeUserRepo) RecordLogin(id uuid.UUID) error {
	f.logins++
	now := time.Now()
	f.users[id].LastLogin = &now
	f.users[id].SessionActive = true
	return nil
}

func (f *fakeUserRepo) ClearSession(id uuid.UUID) error {
	f.cleared++
	f.users[id].SessionActive = false
	return nil
}

type fakeLedger struct {
	entries []*domain.RefreshToken
}

func (f *fakeLedger) Create(grant *domain.RefreshToken) error {
	grant.ID = uuid.New()
	grant.CreatedAt = time.Now()
	f.entries = append(f.entries, grant)
	return nil
}

func (f *fakeLedger) GetByUserAndHash(userID uuid.UUID, tokenHash string) (*domain.RefreshToken, error) {
	for _, e := range f.entries {
		if e.UserID == userID && e.TokenHash == tokenHash {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) Revoke(id uuid.UUID) (bool, error) {
	for _, e := range f.entries {
		if e.ID == id {
			if e.Revoked {
				return false, nil
			}
			e.Revoked = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) RevokeAllForUser(userID uuid.UUID) error {
	for _, e := range f.entries {
		if e.UserID == userID {
			e.Revoked = true
		}
	}
	return nil
}

func (f *fakeLedger) live() int {
	n := 0
	for _, e := range f.entries {
		if !e.Revoked {
			n++
		}
	}
	return n
}

type fakeEvents struct {
	records []*domain.AuthEvent
}

func (f *fakeEvents) Create(event *domain.AuthEvent) error {
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	f.records = append(f.records, event)
	return nil
}

func (f *fakeEvents) ListRecent(limit, offset int) ([]*domain.AuthEvent, int, error) {
	return f.records, len(f.records), nil
}

func (f *fakeEvents) ListByUser(userID uuid.UUID, limit, offset int) ([]*domain.AuthEvent, error) {
	var out []*domain.AuthEvent
	for _, e := range f.records {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvents) CountByKind(since time.Time) (map[string]int, error) {
	counts := make(map[string]int)
	for _, e := range f.records {
		counts[e.Kind]++
	}
	return counts, nil
}

func (f *fakeEvents) kinds() []string {
	var out []string
	for _, e := range f.records {
		out = append(out, e.Kind)
	}
	return out
}

type authFixture struct {
	uc     *AuthUsecase
	users  *fakeUserRepo
	ledger *fakeLedger
	events *fakeEvents
	codec  *token.Codec
	user   *domain.User
}

const testPassword = "s3cret-pass"

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	codec := token.NewCodec(&config.JWTConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		ID:           uuid.New(),
		Username:     "cfd01",
		PasswordHash: string(hash),
		Role:         domain.RoleCFD,
		TokenVersion: 0,
		IsActive:     true,
		MemberID:     uuid.New(),
	}

	users := newFakeUserRepo()
	users.users[user.ID] = user
	ledger := &fakeLedger{}
	events := &fakeEvents{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &authFixture{
		uc:     NewAuthUsecase(users, ledger, events, codec, logger),
		users:  users,
		ledger: ledger,
		events: events,
		codec:  codec,
		user:   user,
	}
}

var testMeta = ClientMeta{UserAgent: "go-test", IPAddress: "192.0.2.1"}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)

	user, pair, err := f.uc.Login("cfd01", testPassword, testMeta)
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, f.user.ID, user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	require.Len(t, f.ledger.entries, 1)
	entry := f.ledger.entries[0]
	assert.Equal(t, f.user.ID, entry.UserID)
	assert.Equal(t, token.Hash(pair.RefreshToken), entry.TokenHash)
	assert.False(t, entry.Revoked)
	assert.Equal(t, "go-test", entry.UserAgent)

	assert.Equal(t, 1, f.users.logins)
	assert.Equal(t, []string{domain.AuthEventLogin}, f.events.kinds())
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newAuthFixture(t)

	inactive := &domain.User{
		ID:           uuid.New(),
		Username:     "retired",
		PasswordHash: f.user.PasswordHash,
		Role:         domain.RoleCorrecteur,
		IsActive:     false,
		MemberID:     uuid.New(),
	}
	f.users.users[inactive.ID] = inactive

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody", testPassword},
		{"wrong password", "cfd01", "wrong"},
		{"deactivated account", "retired", testPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.uc.Login(tc.username, tc.password, testMeta)
			assert.True(t, apperr.Is(err, "INVALID_CREDENTIALS"))
		})
	}

	assert.Empty(t, f.ledger.entries)
	assert.Empty(t, f.events.records)
}

func TestRefresh_RotatesGrant(t *testing.T) {
	f := newAuthFixture(t)

	_, pair, err := f.uc.Login("cfd01", testPassword, testMeta)
	require.NoError(t, err)

	next, err := f.uc.Refresh(pair.RefreshToken, testMeta)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, next.AccessToken)

	// The presented grant is burned, the replacement is the only live one.
	require.Len(t, f.ledger.entries, 2)
	assert.True(t, f.ledger.entries[0].Revoked)
	assert.False(t, f.ledger.entries[1].Revoked)
	assert.Equal(t, token.Hash(next.RefreshToken), f.ledger.entries[1].TokenHash)

	assert.Equal(t, []string{domain.AuthEventLogin, domain.AuthEventRefresh}, f.events.kinds())
}

func TestRefresh_ReplayRevokesEverything(t *testing.T) {
	f := newAuthFixture(t)

	_, pair, err := f.uc.Login("cfd01", testPassword, testMeta)
	require.NoError(t, err)
	_, err = f.uc.Refresh(pair.RefreshToken, testMeta)
	require.NoError(t, err)

	// Presenting the already-rotated token is treated as theft.
	_, err = f.uc.Refresh(pair.RefreshToken, testMeta)
	assert.True(t, apperr.Is(err, "REFRESH_REUSED_OR_REVOKED"))
	assert.Equal(t, 0, f.ledger.live())
	assert.Contains(t, f.events.kinds(), domain.AuthEventReplay)
}

func TestRefresh_UnknownTokenRevokesEverything(t *testing.T) {
	f := newAuthFixture(t)

	_, pair, err := f.uc.Login("cfd01", testPassword, testMeta)
	require.NoError(t, err)

	// Validly signed but never recorded, e.g. minted before a database restore.
	stray, err := f.codec.Issue(token.Refresh, f.user)
	require.NoError(t, err)

	_, err = f.uc.Refresh(stray, testMeta)
	assert.True(t, apperr.Is(err, "REFRESH_REUSED_OR_REVOKED"))
	assert.Equal(t, 0, f.ledger.live())

	// The legitimate session was burned along with everything else.
	_, err = f.uc.Refresh(pair.RefreshToken, testMeta)
	assert.True(t, apperr.Is(err, "REFRESH_REUSED_OR_REVOKED"))
}

func TestRefresh_MissingAndMalformed(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.uc.Refresh("", testMeta)
	assert.True(t, apperr.Is(err, "MISSING_REFRESH_TOKEN"))

	_, err = f.uc.Refresh("not-a-jwt", testMeta)
	assert.True(t, apperr.Is(err, "REFRESH_INVALID"))

	// Parse failures never trigger bulk revocation.
	assert.Empty(t, f.ledger.entries)
}

func TestRefresh_ExpiredSignature(t *testing.T) {
	f := newAuthFixture(t)

	expiredCodec := token.NewCodec(&config.JWTConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: -time.Minute,
	})
	stale, err := expiredCodec.Issue(token.Refresh, f.user)
	require.NoError(t, err)

	_, err = f.uc.Refresh(stale, testMeta)
	assert.True(t, apperr.Is(err, "REFRESH_EXPIRED"))
}

func TestRefresh_ExpiredInStore(t *testing.T) {
	f := newAuthFixture(t)

	_, pair, err := f.uc.Login("cfd01", testPassword, testMeta)
	require.NoError(t, err)
	f.ledger.entries[0].ExpiresAt = time.Now().Add(-time.Second)

	_, err = f.uc.Refresh(pair.RefreshToken, testMeta)
	assert.True(t, apperr.Is(err, "REFRESH_EXPIRED_IN_STORE"))

	// Ordinary expiry is not a theft signal.
	assert.False(t, f.ledger.entries[0].Revoked)
	assert.NotContains(t, f.events.kinds(), domain.AuthEventReplay)
}

func TestRefresh_TokenVersionMismatch(t *testing.T) {
	f := newAuthFixture(t)

	_, pair, err := f.uc.Login("cfd01", testPassword, testMeta)
	require.NoError(t, err)

	// Password change bumps the version; every outstanding token dies at its
	// next refresh.
	require.NoError(t, f.users.IncrementTokenVersion(f.user.ID))

	_, err = f.uc.Refresh(pair.RefreshToken, testMeta)
	assert.True(t, apperr.Is(err, "REFRESH_REVOKED_BY_VERSION"))
}

func TestRefresh_PrincipalDeleted(t *testing.T) {
	f := newAuthFixture(t)

	_, pair, err := f.uc.Login("cfd01", testPassword, testMeta)
	require.NoError(t, err)
	require.NoError(t, f.users.Delete(f.user.ID))

	_, err = f.uc.Refresh(pair.RefreshToken, testMeta)
	assert.True(t, apperr.Is(err, "PRINCIPAL_NOT_FOUND"))
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)

	_, pair, err := f.uc.Login("cfd01", testPassword, testMeta)
	require.NoError(t, err)

	f.uc.Logout(pair.RefreshToken, testMeta)

	assert.Equal(t, 0, f.ledger.live())
	assert.Equal(t, 1, f.users.cleared)
	assert.False(t, f.user.SessionActive)
	assert.Contains(t, f.events.kinds(), domain.AuthEventLogout)

	// A refresh after logout hits the revoked entry and reads as replay.
	_, err = f.uc.Refresh(pair.RefreshToken, testMeta)
	assert.True(t, apperr.Is(err, "REFRESH_REUSED_OR_REVOKED"))
}

func TestLogout_Idempotent(t *testing.T) {
	f := newAuthFixture(t)

	_, pair, err := f.uc.Login("cfd01", testPassword, testMeta)
	require.NoError(t, err)

	f.uc.Logout(pair.RefreshToken, testMeta)
	f.uc.Logout(pair.RefreshToken, testMeta)
	f.uc.Logout("", testMeta)
	f.uc.Logout("garbage", testMeta)

	assert.Equal(t, 0, f.ledger.live())
}

func TestVerifyAccess(t *testing.T) {
	f := newAuthFixture(t)

	_, pair, err := f.uc.Login("cfd01", testPassword, testMeta)
	require.NoError(t, err)

	claims, err := f.uc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID.String(), claims.Subject)
	assert.Equal(t, domain.RoleCFD, claims.Role)

	// A refresh token must never pass as an access token.
	_, err = f.uc.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, token.ErrTokenInvalid)
}

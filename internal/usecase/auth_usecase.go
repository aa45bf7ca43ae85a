package usecase

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/concours-app/backend/internal/apperr"
	"github.com/concours-app/backend/internal/domain"
	"github.com/concours-app/backend/internal/token"
)

// ClientMeta is advisory request metadata recorded with every grant and audit
// event. It never feeds authorization decisions.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthUsecase is the login/refresh/logout state machine. A refresh grant moves
// from issued to exactly one of rotated or revoked; presenting a grant that
// already left the issued state is treated as theft and burns every session
// the owner has.
type AuthUsecase struct {
	userRepo domain.UserRepository
	ledger   domain.RefreshTokenRepository
	events   domain.AuthEventRepository
	codec    *token.Codec
	logger   *slog.Logger
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	ledger domain.RefreshTokenRepository,
	events domain.AuthEventRepository,
	codec *token.Codec,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo: userRepo,
		ledger:   ledger,
		events:   events,
		codec:    codec,
		logger:   logger,
	}
}

// Login verifies credentials and mints a fresh token pair. Unknown username,
// wrong password and deactivated account all fail identically so the endpoint
// cannot be used to enumerate accounts.
func (u *AuthUsecase) Login(username, password string, meta ClientMeta) (*domain.User, *TokenPair, error) {
	user, err := u.userRepo.GetByUsername(username)
	if err != nil {
		return nil, nil, u.unexpected("login: look up user", err)
	}
	if user == nil {
		return nil, nil, apperr.InvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperr.InvalidCredentials()
	}
	if !user.IsActive {
		return nil, nil, apperr.InvalidCredentials()
	}

	pair, err := u.issuePair(user, meta)
	if err != nil {
		return nil, nil, err
	}

	if err := u.userRepo.RecordLogin(user.ID); err != nil {
		u.logger.Warn("failed to record login", "user_id", user.ID, "error", err)
	}
	u.audit(user.ID, domain.AuthEventLogin, meta)

	return user, pair, nil
}

// Refresh exchanges a refresh token for a new pair. Rotation is mandatory:
// the presented grant is revoked before the new one is recorded, and a grant
// that is unknown or already revoked triggers bulk revocation of the
// subject's sessions.
func (u *AuthUsecase) Refresh(raw string, meta ClientMeta) (*TokenPair, error) {
	if raw == "" {
		return nil, apperr.MissingRefreshToken()
	}

	claims, err := u.codec.Parse(token.Refresh, raw)
	if errors.Is(err, token.ErrTokenExpired) {
		return nil, apperr.RefreshExpired()
	}
	if err != nil {
		return nil, apperr.RefreshInvalid()
	}
	if claims.Subject == "" {
		return nil, apperr.RefreshMalformed()
	}
	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.RefreshMalformed()
	}

	entry, err := u.ledger.GetByUserAndHash(subject, token.Hash(raw))
	if err != nil {
		return nil, u.unexpected("refresh: ledger lookup", err)
	}
	if entry == nil || entry.Revoked {
		return nil, u.flagReuse(subject, meta)
	}
	if !entry.ExpiresAt.After(time.Now()) {
		// Ordinary expiry, not a theft signal: no bulk revocation.
		return nil, apperr.RefreshExpiredInStore()
	}

	user, err := u.userRepo.GetByID(subject)
	if err != nil {
		return nil, u.unexpected("refresh: look up principal", err)
	}
	if user == nil {
		return nil, apperr.PrincipalNotFound()
	}
	if claims.TokenVersion != user.TokenVersion {
		return nil, apperr.RefreshRevokedByVersion()
	}

	won, err := u.ledger.Revoke(entry.ID)
	if err != nil {
		return nil, u.unexpected("refresh: revoke rotated grant", err)
	}
	if !won {
		// A concurrent request rotated this grant first; this one is a replay.
		return nil, u.flagReuse(subject, meta)
	}

	pair, err := u.issuePair(user, meta)
	if err != nil {
		return nil, err
	}
	u.audit(user.ID, domain.AuthEventRefresh, meta)

	return pair, nil
}

// Logout revokes every session of the token's subject. It never fails from
// the caller's perspective: an absent or unparseable token just means there
// is nothing to revoke.
func (u *AuthUsecase) Logout(raw string, meta ClientMeta) {
	if raw == "" {
		return
	}
	claims, err := u.codec.Parse(token.Refresh, raw)
	if err != nil {
		return
	}
	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return
	}

	if err := u.ledger.RevokeAllForUser(subject); err != nil {
		u.logger.Error("logout: failed to revoke sessions", "user_id", subject, "error", err)
		return
	}
	if err := u.userRepo.ClearSession(subject); err != nil {
		u.logger.Warn("logout: failed to clear session flag", "user_id", subject, "error", err)
	}
	u.audit(subject, domain.AuthEventLogout, meta)
}

// VerifyAccess checks an access token. It is stateless: the ledger is never
// consulted for access tokens.
func (u *AuthUsecase) VerifyAccess(raw string) (*token.Claims, error) {
	return u.codec.Parse(token.Access, raw)
}

func (u *AuthUsecase) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return u.userRepo.GetByID(id)
}

func (u *AuthUsecase) issuePair(user *domain.User, meta ClientMeta) (*TokenPair, error) {
	accessToken, err := u.codec.Issue(token.Access, user)
	if err != nil {
		return nil, u.unexpected("issue access token", err)
	}
	refreshToken, err := u.codec.Issue(token.Refresh, user)
	if err != nil {
		return nil, u.unexpected("issue refresh token", err)
	}

	grant := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: token.Hash(refreshToken),
		ExpiresAt: time.Now().Add(u.codec.RefreshExpiry()),
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
	}
	if err := u.ledger.Create(grant); err != nil {
		return nil, u.unexpected("record refresh grant", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// flagReuse handles the replay signal: a replayed refresh token is evidence
// of theft, so the whole session set for the subject is revoked.
func (u *AuthUsecase) flagReuse(userID uuid.UUID, meta ClientMeta) error {
	if err := u.ledger.RevokeAllForUser(userID); err != nil {
		u.logger.Error("failed to revoke sessions after reuse signal", "user_id", userID, "error", err)
	}
	u.logger.Warn("refresh token reuse detected, all sessions revoked", "user_id", userID, "ip", meta.IPAddress)
	u.audit(userID, domain.AuthEventReplay, meta)
	return apperr.RefreshReusedOrRevoked()
}

func (u *AuthUsecase) audit(userID uuid.UUID, kind string, meta ClientMeta) {
	event := &domain.AuthEvent{
		UserID:    userID,
		Kind:      kind,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
	}
	if err := u.events.Create(event); err != nil {
		u.logger.Warn("failed to record auth event", "kind", kind, "user_id", userID, "error", err)
	}
}

func (u *AuthUsecase) unexpected(msg string, err error) error {
	u.logger.Error(msg, "error", err)
	return apperr.Unexpected(err)
}

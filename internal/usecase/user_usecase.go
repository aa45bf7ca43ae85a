package usecase

import (
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/concours-app/backend/internal/apperr"
	"github.com/concours-app/backend/internal/domain"
)

const bcryptCost = 12

// UserUsecase manages accounts. Password changes bump the account's token
// version, which cuts off every outstanding session at its next refresh.
type UserUsecase struct {
	userRepo domain.UserRepository
	ledger   domain.RefreshTokenRepository
	logger   *slog.Logger
}

func NewUserUsecase(userRepo domain.UserRepository, ledger domain.RefreshTokenRepository, logger *slog.Logger) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, ledger: ledger, logger: logger}
}

type CreateUserInput struct {
	Username string
	Email    *string
	Password string
	Role     domain.Role
	MemberID uuid.UUID
}

type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *domain.Role
	IsActive *bool
}

func (u *UserUsecase) Create(in CreateUserInput) (*domain.User, error) {
	if !in.Role.Valid() {
		return nil, apperr.InvalidInput("unknown role")
	}

	existing, err := u.userRepo.GetByUsername(in.Username)
	if err != nil {
		return nil, u.unexpected("create user: username lookup", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("username already in use")
	}
	existing, err = u.userRepo.GetByMemberID(in.MemberID)
	if err != nil {
		return nil, u.unexpected("create user: member lookup", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("member already has an account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, u.unexpected("create user: hash password", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		TokenVersion: 0,
		IsActive:     true,
		MemberID:     in.MemberID,
	}
	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserUsecase) GetByID(id uuid.UUID) (*domain.User, error) {
	user, err := u.userRepo.GetByID(id)
	if err != nil {
		return nil, u.unexpected("get user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}
	return user, nil
}

func (u *UserUsecase) List() ([]*domain.User, error) {
	return u.userRepo.List()
}

// Update applies a partial update. Changing the password invalidates every
// session of the account: the token version is bumped and all refresh grants
// are revoked.
func (u *UserUsecase) Update(id uuid.UUID, in UpdateUserInput) (*domain.User, error) {
	user, err := u.userRepo.GetByID(id)
	if err != nil {
		return nil, u.unexpected("update user: lookup", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = in.Email
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperr.InvalidInput("unknown role")
		}
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	passwordChanged := in.Password != nil && *in.Password != ""
	if passwordChanged {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, u.unexpected("update user: hash password", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}

	if passwordChanged {
		if err := u.userRepo.IncrementTokenVersion(user.ID); err != nil {
			return nil, u.unexpected("update user: bump token version", err)
		}
		user.TokenVersion++
		if err := u.ledger.RevokeAllForUser(user.ID); err != nil {
			u.logger.Error("failed to revoke sessions after password change", "user_id", user.ID, "error", err)
		}
		u.logger.Info("password changed, sessions invalidated", "user_id", user.ID)
	}

	return user, nil
}

func (u *UserUsecase) Delete(id uuid.UUID) error {
	// Revoke first so a concurrent refresh cannot race the delete.
	if err := u.ledger.RevokeAllForUser(id); err != nil {
		u.logger.Error("failed to revoke sessions before delete", "user_id", id, "error", err)
	}
	return u.userRepo.Delete(id)
}

func (u *UserUsecase) unexpected(msg string, err error) error {
	u.logger.Error(msg, "error", err)
	return apperr.Unexpected(err)
}

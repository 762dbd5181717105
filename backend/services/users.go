package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"diaconia/backend/errs"
	"diaconia/backend/models"
	"diaconia/backend/store"
	"diaconia/backend/validation"
)

type UserInput struct {
	Name     string `json:"name" validate:"notblank,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin aluno"`
	Phone    string `json:"phone"`
}

type UserUpdate struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=120"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin aluno"`
	IsActive *bool   `json:"isActive"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// AdminSeed describes the first admin account of a deployment.
type AdminSeed struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

var errSelfLockout = errs.Validation("you cannot disable, demote or delete your own account")

// UserService is the admin side of account management.
type UserService struct {
	users UserDirectory
	log   *zap.Logger
}

func NewUserService(users UserDirectory, log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Phone:        in.Phone,
		IsActive:     true,
	}
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, emailTaken(err)
	}
	s.log.Info("user created", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

func (s *UserService) List(ctx context.Context, f store.UserFilter) ([]models.User, int64, error) {
	return s.users.ListUsers(ctx, f)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// Update changes an account on behalf of actorID. Admins cannot disable or demote themselves.
func (s *UserService) Update(ctx context.Context, actorID, id uint, in UserUpdate) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if id == actorID {
		if in.IsActive != nil && !*in.IsActive {
			return nil, errSelfLockout
		}
		if in.Role != nil && *in.Role != models.RoleAdmin && user.IsAdmin() {
			return nil, errSelfLockout
		}
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleStatus flips IsActive. Disabled accounts can neither log in nor use issued tokens.
func (s *UserService) ToggleStatus(ctx context.Context, actorID, id uint) (*models.User, error) {
	if id == actorID {
		return nil, errSelfLockout
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = !user.IsActive
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user status changed", zap.Uint("user_id", id), zap.Bool("active", user.IsActive))
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actorID, id uint) error {
	if id == actorID {
		return errSelfLockout
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Uint("user_id", id))
	return nil
}

func (s *UserService) Stats(ctx context.Context) (*store.UserStats, error) {
	return s.users.Stats(ctx)
}

// EnsureAdmin makes sure the deployment has an admin. An account already registered under
// seed.Email is promoted and reactivated; otherwise, when no admin exists yet, one is created
// from seed. created reports whether a new account was written.
func (s *UserService) EnsureAdmin(ctx context.Context, seed AdminSeed) (user *models.User, created bool, err error) {
	if err := validation.Struct(seed); err != nil {
		return nil, false, err
	}

	existing, err := s.users.FindByEmail(ctx, seed.Email)
	switch {
	case err == nil:
		if existing.IsAdmin() && existing.IsActive {
			return existing, false, nil
		}
		existing.Role = models.RoleAdmin
		existing.IsActive = true
		if err := s.users.Save(ctx, existing); err != nil {
			return nil, false, err
		}
		s.log.Info("user promoted to admin", zap.Uint("user_id", existing.ID))
		return existing, false, nil
	case !errors.Is(err, errs.ErrNotFound):
		return nil, false, err
	}

	admin, err := s.users.FindAdmin(ctx)
	if err == nil {
		return admin, false, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, false, err
	}

	user, err = s.Create(ctx, UserInput{
		Name:     seed.Name,
		Email:    seed.Email,
		Password: seed.Password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

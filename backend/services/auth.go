package services

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"diaconia/backend/config"
	"diaconia/backend/errs"
	"diaconia/backend/models"
	"diaconia/backend/utils"
	"diaconia/backend/validation"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"notblank,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Phone       *string `json:"phone"`
	Avatar      *string `json:"avatar"`
	OldPassword string  `json:"oldPassword"`
	NewPassword string  `json:"newPassword" validate:"omitempty,min=6"`
}

// Session is returned on register and login.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

var errInvalidCredentials = pkgerrors.Wrap(errs.ErrUnauthenticated, "invalid credentials")

type AuthService struct {
	users UserRepo
	cfg   *config.Config
	log   *zap.Logger
}

func NewAuthService(users UserRepo, cfg *config.Config, log *zap.Logger) *AuthService {
	return &AuthService{users: users, cfg: cfg, log: log}
}

// Register creates a learner account. Admins are promoted out of band.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
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
		Role:         models.RoleStudent,
		Phone:        in.Phone,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, emailTaken(err)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, pkgerrors.Wrap(errs.ErrForbidden, "account disabled")
	}

	return s.session(user)
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile changes profile fields; a password change needs the current password.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
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
	if in.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)); err != nil {
			return nil, errs.Validation("current password is incorrect",
				errs.FieldError{Field: "oldPassword", Error: "does not match"})
		}
		hash, err := hashPassword(in.NewPassword)
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

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := utils.GenerateJWTToken(user.ID, user.Role, s.cfg)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", pkgerrors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

// emailTaken turns a unique-email conflict into a field error.
func emailTaken(err error) error {
	if errors.Is(err, errs.ErrConflict) {
		return errs.Validation("email already registered",
			errs.FieldError{Field: "email", Error: "already registered"})
	}
	return err
}

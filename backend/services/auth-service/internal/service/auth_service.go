package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"water360/backend/libs/identity"
	"water360/backend/libs/metrics"
	"water360/backend/libs/validation"
	"water360/backend/services/auth-service/internal/lockout"
	"water360/backend/services/auth-service/internal/models"
	"water360/backend/services/auth-service/internal/password"
	"water360/backend/services/auth-service/internal/repository"
)

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int64, patch models.UserPatch) (int64, error)
}

// SignupInput is the registration payload.
type SignupInput struct {
	Firstname string `json:"firstname" validate:"required,max=100"`
	Lastname  string `json:"lastname" validate:"required,max=100"`
	Username  string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,has_digit"`
	UserType  string `json:"user_type" validate:"omitempty,oneof=customer admin"`
}

// LoginInput is the credentials payload.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileInput carries the profile fields to change; nil means unchanged.
type ProfileInput struct {
	Firstname *string `json:"firstname" validate:"omitnil,min=1,max=100"`
	Lastname  *string `json:"lastname" validate:"omitnil,min=1,max=100"`
	Email     *string `json:"email" validate:"omitnil,email,max=255"`
	Password  *string `json:"password" validate:"omitnil,min=6,has_digit"`
}

// LoginResult carries the issued token and the signed-in user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// AuthService contains registration/login logic.
type AuthService struct {
	repo   UserRepository
	hasher password.Hasher
	issuer *identity.Issuer
	guard  *lockout.Guard
	logger *zap.Logger
}

// NewAuthService builds AuthService. guard may be nil to disable lockout.
func NewAuthService(repo UserRepository, hasher password.Hasher, issuer *identity.Issuer, guard *lockout.Guard, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		guard:  guard,
		logger: logger,
	}
}

// Signup registers a new user.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Firstname = strings.TrimSpace(in.Firstname)
	in.Lastname = strings.TrimSpace(in.Lastname)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.UserType = strings.ToLower(strings.TrimSpace(in.UserType))
	if err := validation.Struct(in); err != nil {
		return nil, validationFailure(err)
	}
	if in.UserType == "" {
		in.UserType = identity.RoleCustomer
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		UserType:     in.UserType,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.logger.Info("user signed up", zap.Int64("user_id", user.ID), zap.String("user_type", user.UserType))
	return user, nil
}

// Login authenticates a user and produces a JWT. Repeated failures for one
// username lock it for the configured duration.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.Struct(in); err != nil {
		return nil, validationFailure(err)
	}

	remaining, err := s.guard.Check(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		return nil, &LockedError{RetryAfter: remaining}
	}

	user, err := s.repo.GetByUsername(ctx, in.Username)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return nil, s.failLogin(ctx, in.Username)
	case err != nil:
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.logger.Warn("password compare failed", zap.Int64("user_id", user.ID), zap.Error(err))
		}
		return nil, s.failLogin(ctx, in.Username)
	}

	if err := s.guard.Reset(ctx, in.Username); err != nil {
		s.logger.Warn("failed to reset lockout", zap.Error(err))
	}

	token, expiresAt, err := s.issuer.Issue(identity.Caller{ID: user.ID, Role: user.UserType})
	if err != nil {
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Me returns the user behind an authenticated caller.
func (s *AuthService) Me(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// Users lists all accounts, newest first.
func (s *AuthService) Users(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

// UpdateProfile changes the caller's own profile and returns the stored result.
// A new password is rehashed before it reaches the repository.
func (s *AuthService) UpdateProfile(ctx context.Context, id int64, in ProfileInput) (*models.User, error) {
	in.Firstname = trimmed(in.Firstname, strings.TrimSpace)
	in.Lastname = trimmed(in.Lastname, strings.TrimSpace)
	in.Email = trimmed(in.Email, func(v string) string { return strings.ToLower(strings.TrimSpace(v)) })
	if err := validation.Struct(in); err != nil {
		return nil, validationFailure(err)
	}

	patch := models.UserPatch{Firstname: in.Firstname, Lastname: in.Lastname, Email: in.Email}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	if patch.Empty() {
		return nil, &ValidationError{Message: "no fields to update"}
	}

	affected, err := s.repo.UpdateProfile(ctx, id, patch)
	switch {
	case errors.Is(err, repository.ErrUserExists):
		return nil, ErrUserExists
	case err != nil:
		return nil, err
	case affected == 0:
		return nil, ErrNotFound
	}

	s.logger.Info("profile updated", zap.Int64("user_id", id), zap.Bool("password_changed", patch.PasswordHash != nil))
	return s.Me(ctx, id)
}

func trimmed(v *string, clean func(string) string) *string {
	if v == nil {
		return nil
	}
	out := clean(*v)
	return &out
}

func (s *AuthService) failLogin(ctx context.Context, username string) error {
	metrics.LoginAttempts.WithLabelValues("failure").Inc()
	locked, err := s.guard.Fail(ctx, username)
	if err != nil {
		s.logger.Warn("failed to record login failure", zap.Error(err))
		return ErrInvalidCredentials
	}
	if locked > 0 {
		s.logger.Warn("username locked after repeated failures", zap.String("username", username), zap.Duration("duration", locked))
	}
	return ErrInvalidCredentials
}

func validationFailure(err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field, Message: verrs[0].Message}
	}
	return &ValidationError{Message: err.Error()}
}

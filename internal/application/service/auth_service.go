package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dinkominfo-bms/itsa-review/internal/application/port"
	"github.com/dinkominfo-bms/itsa-review/internal/auth"
	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
	"github.com/dinkominfo-bms/itsa-review/pkg/utils"
)

// AuthService registers accounts and exchanges credentials for session
// tokens. The engine itself never authenticates; it consumes the actor
// this service established.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role entity.Role) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
}

type authServiceImpl struct {
	userRepo port.UserRepository
	secret   string
	tokenTTL time.Duration
	logger   Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo port.UserRepository, secret string, tokenTTL time.Duration, logger Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Register creates a new account with a hashed password
func (s *authServiceImpl) Register(ctx context.Context, name, email, password string, role entity.Role) (*entity.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", entity.ErrValidation)
	}
	if !utils.ValidateEmail(email) {
		return nil, fmt.Errorf("%w: malformed email address", entity.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", entity.ErrValidation)
	}
	if role != entity.RoleUser && role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", entity.ErrValidation, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", role.String())
	return user, nil
}

// Login verifies credentials and issues a session token
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", entity.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", entity.ErrForbidden)
	}

	token, err := auth.GenerateToken(s.secret, s.tokenTTL, user.ID, user.Email, user.Role.String())
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

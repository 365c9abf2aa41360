package service

import (
	"context"
	"errors"
	"fmt"

	"industrial-catalog/internal/auth"
	"industrial-catalog/internal/domain"
	"industrial-catalog/internal/repository"

	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// UserService defines the interface for user business logic
type UserService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (accessToken string, user *domain.User, err error)
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
	// EnsureAdmin creates the administrator account unless the username exists
	EnsureAdmin(ctx context.Context, username, password string) error
}

type userService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   *auth.TokenIssuer
	logger   *zap.Logger
}

// NewUserService creates a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens *auth.TokenIssuer,
	logger *zap.Logger,
) UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new user account with hashed password
func (s *userService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.createUser(ctx, username, password, domain.RoleUser)
}

func (s *userService) createUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	// Check if user already exists
	_, exists, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, repository.ErrDuplicateUsername
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The store still rejects a username registered since the check above
	user, err := s.userRepo.CreateUser(ctx, domain.NewUser{
		Username: username,
		Password: hashedPassword,
		Role:     role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns an access token
func (s *userService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, exists, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !exists || !s.hasher.Check(password, user.Password) {
		return "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, exists, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if exists {
		if existing.Role != domain.RoleAdmin {
			s.logger.Warn("Bootstrap admin username belongs to a non-admin account",
				zap.String("username", username),
			)
		}
		return nil
	}

	user, err := s.createUser(ctx, username, password, domain.RoleAdmin)
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("Created bootstrap admin user", zap.Int64("user_id", user.ID))
	return nil
}

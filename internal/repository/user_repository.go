package repository

import (
	"context"
	"database/sql"
	"errors"

	"industrial-catalog/internal/domain"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("user with this username already exists")
)

// UserRepository owns user records.
//
// GetUser treats a missing id as an error (ErrUserNotFound) while
// GetUserByUsername reports absence through its bool result. The login and
// registration flows look up by username and expect absence to be normal; a
// missing id only happens for a stale token.
type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error)
	// CreateUser fails with ErrDuplicateUsername if the username is taken.
	CreateUser(ctx context.Context, in domain.NewUser) (*domain.User, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a UserRepository backed by PostgreSQL
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// GetUser retrieves a user by ID using parameterized queries
func (r *userRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, username, password, role
		FROM users
		WHERE id = $1
	`

	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Role,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, backendError("find user by ID", err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by username using parameterized queries
func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error) {
	query := `
		SELECT id, username, password, role
		FROM users
		WHERE username = $1
	`

	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Role,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, backendError("find user by username", err)
	}

	return user, true, nil
}

// CreateUser inserts a new user; uniqueness of username is enforced by the
// users_username_key constraint.
func (r *userRepository) CreateUser(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	query := `
		INSERT INTO users (username, password, role)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	user := &domain.User{
		Username: in.Username,
		Password: in.Password,
		Role:     roleOrDefault(in.Role),
	}

	err := r.db.QueryRowContext(ctx, query, user.Username, user.Password, string(user.Role)).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, backendError("create user", err)
	}

	return user, nil
}

func roleOrDefault(role domain.Role) domain.Role {
	if role == "" {
		return domain.RoleUser
	}
	return role
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"industrial-catalog/internal/auth"
	"industrial-catalog/internal/domain"
	"industrial-catalog/internal/repository"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock repository for testing
type mockUserRepository struct {
	users  map[string]*domain.User
	lastID int64
	err    error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	user, exists := m.users[username]
	return user, exists, nil
}

func (m *mockUserRepository) CreateUser(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, exists := m.users[in.Username]; exists {
		return nil, repository.ErrDuplicateUsername
	}
	m.lastID++
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	user := &domain.User{ID: m.lastID, Username: in.Username, Password: in.Password, Role: role}
	m.users[in.Username] = user
	return user, nil
}

func testHasher() *auth.ScryptHasher {
	return &auth.ScryptHasher{N: 1024, R: 8, P: 1, KeyLen: 64, SaltLen: 16}
}

func newTestUserService(repo repository.UserRepository) (UserService, *auth.TokenIssuer) {
	tokens := auth.NewTokenIssuer("test-secret-key", 15*time.Minute)
	return NewUserService(repo, testHasher(), tokens, zap.NewNop()), tokens
}

func TestProperty_RegistrationCreatesHashedPasswords(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("passwords are hashed and not stored as plaintext", prop.ForAll(
		func(username string, password string) bool {
			userRepo := newMockUserRepository()
			service, _ := newTestUserService(userRepo)
			ctx := context.Background()

			user, err := service.Register(ctx, username, password)
			if err != nil {
				t.Logf("FAIL: Register returned %v", err)
				return false
			}

			stored := userRepo.users[username]
			if stored == nil || stored.Password == password {
				t.Logf("FAIL: Password stored as plaintext for %s", username)
				return false
			}

			if !testHasher().Check(password, stored.Password) {
				t.Logf("FAIL: Stored hash does not verify")
				return false
			}

			return user.Role == domain.RoleUser
		},
		gen.RegexMatch(`[a-z]{3,12}`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_TokensCarryUserClaims(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("access tokens contain user id and role claims", prop.ForAll(
		func(username string, password string, admin bool) bool {
			userRepo := newMockUserRepository()
			service, tokens := newTestUserService(userRepo)
			ctx := context.Background()

			user, err := service.Register(ctx, username, password)
			if err != nil {
				return false
			}
			if admin {
				user.Role = domain.RoleAdmin
			}

			accessToken, _, err := service.Login(ctx, username, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			claims, err := tokens.Validate(accessToken)
			if err != nil {
				t.Logf("FAIL: Token validation failed: %v", err)
				return false
			}

			return claims.UserID == user.ID &&
				claims.Role == user.Role &&
				claims.ExpiresAt != nil &&
				claims.IssuedAt != nil
		},
		gen.RegexMatch(`[a-z]{3,12}`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	service, _ := newTestUserService(newMockUserRepository())
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	_, err = service.Register(ctx, "alice", "password2")
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	service, _ := newTestUserService(newMockUserRepository())
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	_, _, err = service.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = service.Login(ctx, "bob", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_BackendFailureIsNotInvalidCredentials(t *testing.T) {
	repo := newMockUserRepository()
	repo.err = &repository.BackendError{Op: "find user", Err: errors.New("timeout")}
	service, _ := newTestUserService(repo)

	_, _, err := service.Login(context.Background(), "alice", "password1")
	assert.ErrorIs(t, err, repository.ErrBackendUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUserByID_MissingIsError(t *testing.T) {
	service, _ := newTestUserService(newMockUserRepository())

	_, err := service.GetUserByID(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	repo := newMockUserRepository()
	service, _ := newTestUserService(repo)
	ctx := context.Background()

	require.NoError(t, service.EnsureAdmin(ctx, "gilduck", "gilduck"))
	require.NoError(t, service.EnsureAdmin(ctx, "gilduck", "other"))

	require.Len(t, repo.users, 1)
	admin := repo.users["gilduck"]
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.True(t, testHasher().Check("gilduck", admin.Password), "first password is kept")

	_, user, err := service.Login(ctx, "gilduck", "gilduck")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

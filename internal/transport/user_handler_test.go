package transport

import (
	"net/http"
	"testing"

	"industrial-catalog/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperty_InvalidRegistrationDataIsRejected(t *testing.T) {
	app := newTestApp(t)
	properties := gopter.NewProperties(nil)

	properties.Property("registration with invalid data returns validation errors", prop.ForAll(
		func(invalidCase int) bool {
			var reqBody RegisterRequest

			switch invalidCase % 4 {
			case 0:
				reqBody = RegisterRequest{Username: "", Password: "ValidPass123"}
			case 1:
				reqBody = RegisterRequest{Username: "ab", Password: "ValidPass123"}
			case 2:
				reqBody = RegisterRequest{Username: "operator", Password: "short"}
			case 3:
				reqBody = RegisterRequest{Username: "operator"}
			}

			w := app.do(t, http.MethodPost, "/api/users/register", reqBody)
			if w.Code != http.StatusBadRequest {
				t.Logf("FAIL: Expected 400 status code, got %d", w.Code)
				return false
			}

			body := decodeJSON[map[string]interface{}](t, w)
			_, exists := body["error"]
			return exists
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_SuccessfulRegistrationReturnsProfileData(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("successful registration returns the profile without the password", prop.ForAll(
		func(username string, password string) bool {
			app := newTestApp(t)

			w := app.do(t, http.MethodPost, "/api/users/register", RegisterRequest{Username: username, Password: password})
			if w.Code != http.StatusCreated {
				t.Logf("FAIL: Expected 201 status code, got %d: %s", w.Code, w.Body.String())
				return false
			}

			body := decodeJSON[map[string]interface{}](t, w)
			if _, leaked := body["password"]; leaked {
				t.Logf("FAIL: Password field present in response")
				return false
			}

			profile := decodeJSON[UserProfile](t, w)
			return profile.ID > 0 && profile.Username == username && profile.Role == domain.RoleUser
		},
		gen.RegexMatch(`[a-z]{3,12}`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRegister_DuplicateUsernameConflicts(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/users/register", RegisterRequest{Username: "operator", Password: "password1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodPost, "/api/users/register", RegisterRequest{Username: "operator", Password: "password2"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginAndProfile(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/users/register", RegisterRequest{Username: "operator", Password: "password1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodPost, "/api/users/login", LoginRequest{Username: "operator", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/api/users/login", LoginRequest{Username: "operator", Password: "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decodeJSON[LoginResponse](t, w)
	require.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "operator", login.User.Username)

	w = app.do(t, http.MethodGet, "/api/users/profile", nil, withBearer(login.AccessToken))
	require.Equal(t, http.StatusOK, w.Code)
	profile := decodeJSON[UserProfile](t, w)
	assert.Equal(t, login.User, profile)

	w = app.do(t, http.MethodGet, "/api/users/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfile_StaleTokenIsNotFound(t *testing.T) {
	app := newTestApp(t)

	token, err := app.tokens.Issue(&domain.User{ID: 500, Username: "ghost", Role: domain.RoleUser})
	require.NoError(t, err)

	w := app.do(t, http.MethodGet, "/api/users/profile", nil, withBearer(token))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"industrial-catalog/internal/auth"
	"industrial-catalog/internal/middleware"
	"industrial-catalog/internal/repository"
	"industrial-catalog/internal/seed"
	"industrial-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testAdminUser = "gilduck"
	testAdminPass = "gilduck"
)

type testApp struct {
	router http.Handler
	store  repository.CatalogStore
	tokens *auth.TokenIssuer
	users  service.UserService
}

func testHasher() *auth.ScryptHasher {
	return &auth.ScryptHasher{N: 1024, R: 8, P: 1, KeyLen: 64, SaltLen: 16}
}

// newTestApp wires the handlers over memory stores holding the seeded catalog
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := zap.NewNop()

	store := repository.NewMemoryCatalogStore()
	require.NoError(t, seed.Catalog(context.Background(), store, logger))

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	users := service.NewUserService(repository.NewMemoryUserRepository(), testHasher(), tokens, logger)
	catalogService := service.NewCatalogService(store)

	router := chi.NewRouter()
	router.Use(middleware.ErrorHandlingMiddleware(logger))

	NewCatalogHandler(catalogService, logger).RegisterRoutes(router)
	NewUserHandler(users, logger).RegisterRoutes(router, middleware.AuthMiddleware(tokens, logger))
	NewAdminHandler(catalogService, logger).RegisterRoutes(router, middleware.AdminAuthMiddleware(
		middleware.BasicCredentials{Username: testAdminUser, Password: testAdminPass},
		tokens,
		logger,
	))

	return &testApp{router: router, store: store, tokens: tokens, users: users}
}

type requestOption func(r *http.Request)

func withBasicAdmin() requestOption {
	return func(r *http.Request) { r.SetBasicAuth(testAdminUser, testAdminPass) }
}

func withBearer(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polydraw/polydraw/backend-go/internal/db/dbgen"
)

type memUsers struct {
	mu    sync.Mutex
	byID  map[string]dbgen.User
	email map[string]string
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]dbgen.User{}, email: map[string]string{}}
}

func (m *memUsers) CreateUser(_ context.Context, arg dbgen.CreateUserParams) (dbgen.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.email[arg.Email]; ok {
		return dbgen.User{}, &pgconn.PgError{Code: "23505"}
	}
	u := dbgen.User{ID: arg.ID, Email: arg.Email, Password: arg.Password, DisplayName: arg.DisplayName}
	m.byID[u.ID] = u
	m.email[u.Email] = u.ID
	return u, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (dbgen.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.email[email]
	if !ok {
		return dbgen.User{}, pgx.ErrNoRows
	}
	return m.byID[id], nil
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (dbgen.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return dbgen.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemUsers(), "test-secret")

	reg, err := svc.Register(ctx, " Ada@Example.com ", "correct horse", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", reg.User.Email)
	assert.True(t, strings.HasPrefix(reg.User.ID, "user_"))

	userID, err := svc.ValidateToken(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)

	_, err = svc.Register(ctx, "ada@example.com", "another pass", "Ada 2")
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := svc.Login(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, reg.User, login.User)

	_, err = svc.Login(ctx, "ada@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := svc.GetUser(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.DisplayName)

	_, err = svc.GetUser(ctx, "user_missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewService(newMemUsers(), "test-secret")
	token, err := svc.issueToken("user_1")
	require.NoError(t, err)

	other := NewService(newMemUsers(), "other-secret")
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(2 * tokenTTL) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthMiddleware(t *testing.T) {
	svc := NewService(newMemUsers(), "test-secret")
	token, err := svc.issueToken("user_42")
	require.NoError(t, err)

	var seen string
	h := svc.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/drawings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	assert.Equal(t, "user_42", seen)
}

func TestRegisterHandlerValidation(t *testing.T) {
	h := NewHandler(NewService(newMemUsers(), "test-secret"))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{`, http.StatusBadRequest},
		{"missing fields", `{"email":"a@b.c"}`, http.StatusBadRequest},
		{"short password", `{"email":"a@b.c","password":"short","displayName":"A"}`, http.StatusBadRequest},
		{"bad email", `{"email":"abc","password":"long enough","displayName":"A"}`, http.StatusBadRequest},
		{"ok", `{"email":"a@b.c","password":"long enough","displayName":"A"}`, http.StatusCreated},
		{"taken", `{"email":"a@b.c","password":"long enough","displayName":"A"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

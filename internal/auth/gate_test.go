package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, store UserStore, email, password, role string) *User {
	t.Helper()

	require.NoError(t, EnsureAdmin(context.Background(), store, email, password, "Test Admin"))
	user, err := store.GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	if role != RoleAdmin {
		user.Role = role
		require.NoError(t, store.CreateUser(context.Background(), user))
	}
	return user
}

func TestLogin_Success(t *testing.T) {
	store := NewMemoryStore()
	gate := NewGate([]byte("test-secret"), store)
	seedUser(t, store, "admin@library.edu", "opensesame", RoleAdmin)

	user, token, err := gate.Login(context.Background(), "admin@library.edu", "opensesame")
	require.NoError(t, err)
	assert.Equal(t, "admin@library.edu", user.Email)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := NewMemoryStore()
	gate := NewGate([]byte("test-secret"), store)
	seedUser(t, store, "admin@library.edu", "opensesame", RoleAdmin)

	_, _, err := gate.Login(context.Background(), "admin@library.edu", "guess")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	store := NewMemoryStore()
	gate := NewGate([]byte("test-secret"), store)

	_, _, err := gate.Login(context.Background(), "nobody@library.edu", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// authenticateThrough runs a request through the Verifier middleware and
// then calls Authenticate, the way the HTTP layer composes them.
func authenticateThrough(t *testing.T, gate *Gate, mutate func(*http.Request)) (*User, error) {
	t.Helper()

	var user *User
	var authErr error
	handler := gate.Verifier()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, authErr = gate.Authenticate(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	if mutate != nil {
		mutate(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return user, authErr
}

func TestAuthenticate_BearerToken(t *testing.T) {
	store := NewMemoryStore()
	gate := NewGate([]byte("test-secret"), store)
	seedUser(t, store, "admin@library.edu", "opensesame", RoleAdmin)

	_, token, err := gate.Login(context.Background(), "admin@library.edu", "opensesame")
	require.NoError(t, err)

	user, err := authenticateThrough(t, gate, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@library.edu", user.Email)
}

func TestAuthenticate_Cookie(t *testing.T) {
	store := NewMemoryStore()
	gate := NewGate([]byte("test-secret"), store)
	seedUser(t, store, "admin@library.edu", "opensesame", RoleAdmin)

	_, token, err := gate.Login(context.Background(), "admin@library.edu", "opensesame")
	require.NoError(t, err)

	user, err := authenticateThrough(t, gate, func(r *http.Request) {
		r.AddCookie(gate.TokenCookie(token))
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@library.edu", user.Email)
}

func TestAuthenticate_NoToken(t *testing.T) {
	store := NewMemoryStore()
	gate := NewGate([]byte("test-secret"), store)

	_, err := authenticateThrough(t, gate, nil)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	store := NewMemoryStore()
	gate := NewGate([]byte("test-secret"), store)

	_, err := authenticateThrough(t, gate, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not-a-jwt")
	})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	store := NewMemoryStore()
	issuer := NewGate([]byte("other-secret"), store)
	gate := NewGate([]byte("test-secret"), store)
	seedUser(t, store, "admin@library.edu", "opensesame", RoleAdmin)

	_, token, err := issuer.Login(context.Background(), "admin@library.edu", "opensesame")
	require.NoError(t, err)

	_, err = authenticateThrough(t, gate, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	store := NewMemoryStore()
	gate := NewGate([]byte("test-secret"), store, WithTokenTTL(-time.Minute))
	seedUser(t, store, "admin@library.edu", "opensesame", RoleAdmin)

	_, token, err := gate.Login(context.Background(), "admin@library.edu", "opensesame")
	require.NoError(t, err)

	_, err = authenticateThrough(t, gate, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_NonAdminRole(t *testing.T) {
	store := NewMemoryStore()
	gate := NewGate([]byte("test-secret"), store)
	seedUser(t, store, "reader@library.edu", "opensesame", "reader")

	_, token, err := gate.Login(context.Background(), "reader@library.edu", "opensesame")
	require.NoError(t, err)

	_, err = authenticateThrough(t, gate, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, EnsureAdmin(context.Background(), store, "admin@library.edu", "first", ""))
	first, err := store.GetUserByEmail(context.Background(), "admin@library.edu")
	require.NoError(t, err)

	// Second call with a different password must not replace the hash.
	require.NoError(t, EnsureAdmin(context.Background(), store, "admin@library.edu", "second", ""))
	second, err := store.GetUserByEmail(context.Background(), "admin@library.edu")
	require.NoError(t, err)

	assert.Equal(t, first.PasswordHash, second.PasswordHash)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureAdmin_RequiresCredentials(t *testing.T) {
	store := NewMemoryStore()
	assert.Error(t, EnsureAdmin(context.Background(), store, "", "pw", ""))
	assert.Error(t, EnsureAdmin(context.Background(), store, "admin@library.edu", "", ""))
}

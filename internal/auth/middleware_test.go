package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(TokenConfig{Secret: []byte("test-secret")})
}

func TestValidateRoundTrip(t *testing.T) {
	mgr := newTestManager()

	token, err := mgr.Generate("22EE041", RoleAdmin)
	require.NoError(t, err)

	claims, err := mgr.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "22EE041", claims.Regno)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestValidateRejectsExpired(t *testing.T) {
	mgr := NewManager(TokenConfig{Secret: []byte("test-secret"), TTL: -time.Minute})

	token, err := mgr.Generate("22EE041", "")
	require.NoError(t, err)

	_, err = mgr.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewManager(TokenConfig{Secret: []byte("other")}).Generate("22EE041", "")
	require.NoError(t, err)

	_, err = newTestManager().Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireAdmin(t *testing.T) {
	mgr := newTestManager()
	handler := Middleware(mgr, zerolog.Nop())(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	cases := []struct {
		name   string
		role   string
		token  bool
		status int
	}{
		{name: "admin token", role: RoleAdmin, token: true, status: http.StatusNoContent},
		{name: "participant token", role: "", token: true, status: http.StatusForbidden},
		{name: "no token", token: false, status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/aptitudes", nil)
			if tc.token {
				token, err := mgr.Generate("22EE041", tc.role)
				require.NoError(t, err)
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	handler := Middleware(newTestManager(), zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/aptitudes", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/optima-platform/ledger/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityEcho(t *testing.T, got *auth.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFrom(r.Context())
		require.True(t, ok)
		*got = id
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate_ValidToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret-0123456789", time.Hour)
	accountID := uuid.New()
	token, _, err := issuer.Issue(auth.Identity{Subject: accountID.String(), Email: "ada@example.com", Role: auth.RoleUser})
	require.NoError(t, err)

	var got auth.Identity
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Authenticate(issuer, testLogger())(identityEcho(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, accountID, got.AccountID)
	assert.Equal(t, auth.RoleUser, got.Role)
	assert.Equal(t, "ada@example.com", got.Email)
}

func TestAuthenticate_Rejects(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret-0123456789", time.Hour)
	other := auth.NewTokenIssuer("another-secret-0123456789", time.Hour)
	forged, _, err := other.Issue(auth.Identity{Subject: uuid.NewString(), Role: auth.RoleUser})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "empty token", header: "Bearer "},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "foreign signature", header: "Bearer " + forged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { handlerCalled = true })

			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Authenticate(issuer, testLogger())(next).ServeHTTP(rec, req)

			assert.False(t, handlerCalled)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error":"unauthorized"`)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		identity *auth.Identity
		want     int
	}{
		{name: "no identity", identity: nil, want: http.StatusUnauthorized},
		{name: "user on admin route", identity: &auth.Identity{Subject: "u", Role: auth.RoleUser}, want: http.StatusForbidden},
		{name: "admin", identity: &auth.Identity{Subject: "ops@example.com", Role: auth.RoleAdmin}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/accounts", nil)
			if tt.identity != nil {
				req = req.WithContext(auth.WithIdentity(req.Context(), *tt.identity))
			}
			rec := httptest.NewRecorder()

			RequireRole(auth.RoleAdmin)(testHandler(http.StatusOK, `{}`)).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthcare-appointment-service/internal/models"
)

func TestRemoteVerifierResolvesIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/verify", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"username":"DOC0001","role":"doctor"}`))
	}))
	defer srv.Close()

	verifier := NewRemoteVerifier(srv.URL, zerolog.Nop())
	identity, err := verifier.Verify(context.Background(), "token-123")

	require.NoError(t, err)
	assert.Equal(t, "DOC0001", identity.Username)
	assert.Equal(t, models.RoleDoctor, identity.Role)
}

func TestRemoteVerifierRejectedCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	verifier := NewRemoteVerifier(srv.URL, zerolog.Nop())
	_, err := verifier.Verify(context.Background(), "expired")

	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestRemoteVerifierServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	verifier := NewRemoteVerifier(srv.URL, zerolog.Nop())
	_, err := verifier.Verify(context.Background(), "token")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredential)
}

func TestRemoteVerifierIncompleteIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"username":"someone"}`))
	}))
	defer srv.Close()

	verifier := NewRemoteVerifier(srv.URL, zerolog.Nop())
	_, err := verifier.Verify(context.Background(), "token")

	assert.Error(t, err)
}

func mintToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestLocalVerifierValidToken(t *testing.T) {
	token := mintToken(t, "shared-secret", Claims{
		Username: "PAT0001",
		Role:     models.RolePatient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	identity, err := NewLocalVerifier("shared-secret").Verify(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, Identity{Username: "PAT0001", Role: models.RolePatient}, identity)
}

func TestLocalVerifierUsesSubjectWhenUsernameMissing(t *testing.T) {
	token := mintToken(t, "shared-secret", Claims{
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	identity, err := NewLocalVerifier("shared-secret").Verify(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "admin", identity.Username)
}

func TestLocalVerifierWrongSecret(t *testing.T) {
	token := mintToken(t, "other-secret", Claims{
		Username: "PAT0001",
		Role:     models.RolePatient,
	})

	_, err := NewLocalVerifier("shared-secret").Verify(context.Background(), token)

	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLocalVerifierExpiredToken(t *testing.T) {
	token := mintToken(t, "shared-secret", Claims{
		Username: "PAT0001",
		Role:     models.RolePatient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := NewLocalVerifier("shared-secret").Verify(context.Background(), token)

	assert.ErrorIs(t, err, ErrInvalidCredential)
}

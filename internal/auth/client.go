package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"healthcare-appointment-service/internal/models"
)

// Identity is the resolved caller identity supplied by the auth service.
type Identity struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// ErrInvalidCredential marks credentials the auth collaborator rejected, as
// opposed to failures reaching it.
var ErrInvalidCredential = errors.New("credential rejected")

// Verifier resolves a bearer credential into a caller identity. This service
// never issues or validates credentials itself beyond this delegation.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// RemoteVerifier delegates credential verification to the external auth
// service over HTTP.
type RemoteVerifier struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewRemoteVerifier creates a verifier against the auth service at baseURL.
func NewRemoteVerifier(baseURL string, logger zerolog.Logger) *RemoteVerifier {
	return &RemoteVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Verify forwards the bearer token to the auth service and decodes the
// resolved {username, role} pair.
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/api/auth/verify", nil)
	if err != nil {
		return Identity{}, fmt.Errorf("building auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("calling auth service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Identity{}, ErrInvalidCredential
	default:
		v.logger.Error().Int("status", resp.StatusCode).Msg("unexpected auth service response")
		return Identity{}, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return Identity{}, fmt.Errorf("decoding auth service response: %w", err)
	}
	if id.Username == "" || id.Role == "" {
		return Identity{}, fmt.Errorf("auth service returned incomplete identity")
	}
	id.Role = models.Role(strings.ToUpper(string(id.Role)))

	return id, nil
}

// Claims represents the JWT claims issued by the auth service.
type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// LocalVerifier checks HS256 tokens issued by the auth service against the
// shared secret, avoiding a network round trip per request. The token is
// still owned by the auth collaborator; this only short-circuits the check.
type LocalVerifier struct {
	secret []byte
}

// NewLocalVerifier creates a verifier using the shared signing secret.
func NewLocalVerifier(secret string) *LocalVerifier {
	return &LocalVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token signature and expiry.
func (v *LocalVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	username := claims.Username
	if username == "" {
		username = claims.Subject
	}
	if username == "" || claims.Role == "" {
		return Identity{}, fmt.Errorf("%w: token missing identity claims", ErrInvalidCredential)
	}

	return Identity{
		Username: username,
		Role:     models.Role(strings.ToUpper(string(claims.Role))),
	}, nil
}

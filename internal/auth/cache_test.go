package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthcare-appointment-service/internal/models"
)

type countingVerifier struct {
	identity Identity
	err      error
	calls    int
}

func (v *countingVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	v.calls++
	if v.err != nil {
		return Identity{}, v.err
	}
	return v.identity, nil
}

func newTestCache(t *testing.T, next Verifier) *CachedVerifier {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCachedVerifier(next, client, time.Minute, zerolog.Nop())
}

func TestCachedVerifierCachesSuccess(t *testing.T) {
	next := &countingVerifier{identity: Identity{Username: "DOC0001", Role: models.RoleDoctor}}
	cached := newTestCache(t, next)

	for i := 0; i < 3; i++ {
		identity, err := cached.Verify(context.Background(), "token-abc")
		require.NoError(t, err)
		assert.Equal(t, next.identity, identity)
	}

	assert.Equal(t, 1, next.calls)
}

func TestCachedVerifierDistinctTokens(t *testing.T) {
	next := &countingVerifier{identity: Identity{Username: "staff1", Role: models.RoleStaff}}
	cached := newTestCache(t, next)

	_, err := cached.Verify(context.Background(), "token-a")
	require.NoError(t, err)
	_, err = cached.Verify(context.Background(), "token-b")
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestCachedVerifierDoesNotCacheRejections(t *testing.T) {
	next := &countingVerifier{err: ErrInvalidCredential}
	cached := newTestCache(t, next)

	for i := 0; i < 2; i++ {
		_, err := cached.Verify(context.Background(), "bad-token")
		assert.ErrorIs(t, err, ErrInvalidCredential)
	}

	assert.Equal(t, 2, next.calls)
}

func TestCachedVerifierSurvivesRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	next := &countingVerifier{identity: Identity{Username: "admin", Role: models.RoleAdmin}}
	cached := NewCachedVerifier(next, client, time.Minute, zerolog.Nop())

	mr.Close()

	identity, err := cached.Verify(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "admin", identity.Username)
	assert.Equal(t, 1, next.calls)
}

package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedVerifier fronts another Verifier with a redis cache so repeated
// requests bearing the same credential skip the auth service round trip.
// Only successful verifications are cached; rejections always re-consult
// the underlying verifier.
type CachedVerifier struct {
	next   Verifier
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedVerifier wraps next with a redis verification cache.
func NewCachedVerifier(next Verifier, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedVerifier {
	return &CachedVerifier{next: next, client: client, ttl: ttl, logger: logger}
}

// Verify returns the cached identity for the credential when present,
// otherwise delegates and caches the result. Cache failures are logged and
// treated as misses so redis outages never block requests.
func (v *CachedVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	key := cacheKey(token)

	cached, err := v.client.Get(ctx, key).Result()
	if err == nil {
		var id Identity
		if jsonErr := json.Unmarshal([]byte(cached), &id); jsonErr == nil {
			return id, nil
		}
		// Unreadable entry: drop it and fall through to the verifier.
		v.client.Del(ctx, key)
	} else if err != redis.Nil {
		v.logger.Warn().Err(err).Msg("auth cache read failed")
	}

	id, err := v.next.Verify(ctx, token)
	if err != nil {
		return Identity{}, err
	}

	if payload, jsonErr := json.Marshal(id); jsonErr == nil {
		if setErr := v.client.Set(ctx, key, payload, v.ttl).Err(); setErr != nil {
			v.logger.Warn().Err(setErr).Msg("auth cache write failed")
		}
	}

	return id, nil
}

// Tokens are hashed before use as cache keys so raw credentials never land
// in redis.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:verify:" + hex.EncodeToString(sum[:])
}

package sessions

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Revoker records token IDs that must no longer be accepted.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// Claim revokes tokenID and reports whether this call was the one that
	// did it. Only one of any number of concurrent claims succeeds.
	Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
}

// RevocationStore keeps revoked token IDs in Redis until the token would
// have expired anyway.
type RevocationStore struct {
	client *redis.Client
	prefix string
}

func NewRevocationStore(client *redis.Client, prefix string) *RevocationStore {
	return &RevocationStore{client: client, prefix: prefix}
}

func (s *RevocationStore) key(tokenID string) string {
	return s.prefix + tokenID
}

// Revoke marks tokenID as revoked for ttl. Non-positive TTLs are a no-op,
// the token is already unusable.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return fmt.Errorf("token id is empty")
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", s.key(tokenID), err)
	}
	return nil
}

// Claim sets the revocation key only if it is absent.
func (s *RevocationStore) Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if tokenID == "" {
		return false, fmt.Errorf("token id is empty")
	}
	if ttl <= 0 {
		return false, nil
	}
	ok, err := s.client.SetNX(ctx, s.key(tokenID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis SETNX %s: %w", s.key(tokenID), err)
	}
	return ok, nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis EXISTS %s: %w", s.key(tokenID), err)
	}
	return n > 0, nil
}

// Ping checks the Redis connection.
func (s *RevocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RevocationStore) Close() error {
	return s.client.Close()
}

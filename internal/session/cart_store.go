package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart"

// CartStore persists per-session carts. The caller owns the cart value:
// every mutation reads the cart, changes it, and saves it back.
type CartStore interface {
	// Get loads the session's cart. A missing or expired key yields an
	// empty cart, never an error.
	Get(ctx context.Context, sessionID string) (domain.Cart, error)
	Save(ctx context.Context, sessionID string, cart domain.Cart) error
	// Clear replaces the session's cart with an empty mapping
	Clear(ctx context.Context, sessionID string) error
}

type redisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore creates a CartStore backed by Redis.
// Carts expire after ttl of inactivity; every save refreshes the expiry.
func NewRedisCartStore(client *redis.Client, ttl time.Duration) CartStore {
	return &redisCartStore{client: client, ttl: ttl}
}

func (s *redisCartStore) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return domain.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart := domain.Cart{}
	if err := json.Unmarshal(payload, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	return cart, nil
}

func (s *redisCartStore) Save(ctx context.Context, sessionID string, cart domain.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

func (s *redisCartStore) Clear(ctx context.Context, sessionID string) error {
	return s.Save(ctx, sessionID, domain.Cart{})
}

func (s *redisCartStore) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", cartKeyPrefix, sessionID)
}

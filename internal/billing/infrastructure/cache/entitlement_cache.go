package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

// DefaultEntitlementTTL bounds how stale a cached entitlement view can get.
// Tier mutations invalidate eagerly, so this is a backstop for missed
// invalidations.
const DefaultEntitlementTTL = 15 * time.Minute

// RedisEntitlementCache caches resolved vendor entitlements in Redis.
// Keys are namespaced: entitlements:vendor:{vendor_id}
type RedisEntitlementCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEntitlementCache creates a Redis-backed entitlement cache.
// Pass 0 for ttl to use DefaultEntitlementTTL.
func NewRedisEntitlementCache(client *redis.Client, ttl time.Duration) *RedisEntitlementCache {
	if ttl <= 0 {
		ttl = DefaultEntitlementTTL
	}
	return &RedisEntitlementCache{client: client, ttl: ttl}
}

func entitlementKey(vendorID uuid.UUID) string {
	return fmt.Sprintf("entitlements:vendor:%s", vendorID)
}

// Get retrieves a cached entitlement view. A cache miss returns (nil, nil).
func (c *RedisEntitlementCache) Get(ctx context.Context, vendorID uuid.UUID) (*queries.VendorEntitlementsView, error) {
	val, err := c.client.Get(ctx, entitlementKey(vendorID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var view queries.VendorEntitlementsView
	if err := json.Unmarshal(val, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Set stores a resolved entitlement view with the configured TTL.
func (c *RedisEntitlementCache) Set(ctx context.Context, vendorID uuid.UUID, view *queries.VendorEntitlementsView) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, entitlementKey(vendorID), payload, c.ttl).Err()
}

// Invalidate drops the cached view for a vendor after a tier mutation.
func (c *RedisEntitlementCache) Invalidate(ctx context.Context, vendorID uuid.UUID) error {
	return c.client.Del(ctx, entitlementKey(vendorID)).Err()
}

// InMemoryEntitlementCache is a process-local cache for the local mode and
// tests.
type InMemoryEntitlementCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type inMemoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewInMemoryEntitlementCache creates an in-memory entitlement cache.
// Pass 0 for ttl to use DefaultEntitlementTTL.
func NewInMemoryEntitlementCache(ttl time.Duration) *InMemoryEntitlementCache {
	if ttl <= 0 {
		ttl = DefaultEntitlementTTL
	}
	return &InMemoryEntitlementCache{
		entries: make(map[string]inMemoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves a cached entitlement view. A cache miss returns (nil, nil).
func (c *InMemoryEntitlementCache) Get(_ context.Context, vendorID uuid.UUID) (*queries.VendorEntitlementsView, error) {
	c.mu.RLock()
	entry, ok := c.entries[entitlementKey(vendorID)]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return nil, nil
	}

	var view queries.VendorEntitlementsView
	if err := json.Unmarshal(entry.payload, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Set stores a resolved entitlement view with the configured TTL.
func (c *InMemoryEntitlementCache) Set(_ context.Context, vendorID uuid.UUID, view *queries.VendorEntitlementsView) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[entitlementKey(vendorID)] = inMemoryEntry{
		payload:   payload,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
	return nil
}

// Invalidate drops the cached view for a vendor.
func (c *InMemoryEntitlementCache) Invalidate(_ context.Context, vendorID uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, entitlementKey(vendorID))
	c.mu.Unlock()
	return nil
}

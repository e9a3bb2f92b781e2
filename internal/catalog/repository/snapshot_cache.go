package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gabonshop/gabonshop-backend/internal/catalog/domain"
)

const snapshotKey = "gabonshop:catalog:snapshot"

// SnapshotCache keeps the last loaded catalog in Redis so a starting instance
// can serve listings before its first full load completes.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

func (c *SnapshotCache) Save(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store catalog snapshot: %w", err)
	}
	return nil
}

// Load returns the cached snapshot; ok is false when none is stored.
func (c *SnapshotCache) Load(ctx context.Context) (products []domain.Product, ok bool, err error) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read catalog snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal catalog snapshot: %w", err)
	}
	return products, true, nil
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bookhub/internal/api/models"
)

// BookCache is a read-through cache for single-book lookups. A nil cache is
// valid and turns every operation into a no-op, so the service layer does not
// care whether redis is configured.
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBookCache(addr, password string, ttl time.Duration) (*BookCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &BookCache{client: rdb, ttl: ttl}, nil
}

func key(id int64) string {
	return fmt.Sprintf("book:%d", id)
}

// Get returns the cached book and whether it was present.
func (c *BookCache) Get(ctx context.Context, id int64) (*models.Book, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var b models.Book
	if err := json.Unmarshal(raw, &b); err != nil {
		// stale or corrupt entry, drop it
		c.client.Del(ctx, key(id))
		return nil, false
	}
	return &b, true
}

func (c *BookCache) Set(ctx context.Context, b *models.Book) {
	if c == nil || c.client == nil || b == nil {
		return
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	c.client.Set(ctx, key(b.ID), raw, c.ttl)
}

// Invalidate drops the cache entry for a book. Called on every mutation that
// touches the row or its associations.
func (c *BookCache) Invalidate(ctx context.Context, id int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, key(id))
}

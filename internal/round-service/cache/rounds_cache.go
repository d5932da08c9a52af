package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyHouses() string              { return "teer:houses" }
func keyRounds(houseID int64) string { return fmt.Sprintf("teer:rounds:%d", houseID) }
func keyOpenCount() string           { return "teer:rounds:open_count" }

func (c *Cache) GetHouses(ctx context.Context, dst any) (bool, error) {
	return c.get(ctx, keyHouses(), dst)
}

func (c *Cache) SetHouses(ctx context.Context, v any, ttl time.Duration) error {
	return c.set(ctx, keyHouses(), v, ttl)
}

func (c *Cache) GetRounds(ctx context.Context, houseID int64, dst any) (bool, error) {
	return c.get(ctx, keyRounds(houseID), dst)
}

func (c *Cache) SetRounds(ctx context.Context, houseID int64, v any, ttl time.Duration) error {
	return c.set(ctx, keyRounds(houseID), v, ttl)
}

func (c *Cache) GetOpenCount(ctx context.Context) (int, bool, error) {
	n, err := c.R.Get(ctx, keyOpenCount()).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *Cache) SetOpenCount(ctx context.Context, n int, ttl time.Duration) error {
	return c.R.Set(ctx, keyOpenCount(), n, ttl).Err()
}

// InvalidateRounds derruba o cache de rounds de uma banca (chamado
// quando um resultado é publicado).
func (c *Cache) InvalidateRounds(ctx context.Context, houseID int64) error {
	return c.R.Del(ctx, keyRounds(houseID), keyOpenCount()).Err()
}

func (c *Cache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, key, b, ttl).Err()
}

package territory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apptbook/scheduling-platform/pkg/logging"
)

// Lister is the read surface the cache wraps.
type Lister interface {
	Countries(ctx context.Context) ([]Country, error)
	DivisionsByCountry(ctx context.Context, countryID int) ([]Division, error)
}

// Cache fronts a Lister with redis. Territory data changes rarely, so
// entries live for the configured TTL and a redis outage degrades to
// reading straight through to Postgres.
type Cache struct {
	source Lister
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCache wires the cached territory reader. A nil redis client
// disables caching entirely.
func NewCache(source Lister, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	if source == nil {
		panic("territory: source lister required")
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Cache{source: source, redis: redisClient, ttl: ttl, logger: logger}
}

func countriesKey() string {
	return "territory:countries"
}

func divisionsKey(countryID int) string {
	return fmt.Sprintf("territory:divisions:%d", countryID)
}

// Countries returns all countries, served from redis when possible.
func (c *Cache) Countries(ctx context.Context) ([]Country, error) {
	if c.redis != nil {
		data, err := c.redis.Get(ctx, countriesKey()).Bytes()
		if err == nil {
			var out []Country
			if err := json.Unmarshal(data, &out); err == nil {
				return out, nil
			}
			c.logger.Warn("discarding corrupt cached countries", "key", countriesKey())
		} else if err != redis.Nil {
			c.logger.Warn("redis read failed, falling through", "key", countriesKey(), "error", err)
		}
	}

	out, err := c.source.Countries(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, countriesKey(), out)
	return out, nil
}

// DivisionsByCountry returns one country's divisions, served from redis
// when possible.
func (c *Cache) DivisionsByCountry(ctx context.Context, countryID int) ([]Division, error) {
	key := divisionsKey(countryID)
	if c.redis != nil {
		data, err := c.redis.Get(ctx, key).Bytes()
		if err == nil {
			var out []Division
			if err := json.Unmarshal(data, &out); err == nil {
				return out, nil
			}
			c.logger.Warn("discarding corrupt cached divisions", "key", key)
		} else if err != redis.Nil {
			c.logger.Warn("redis read failed, falling through", "key", key, "error", err)
		}
	}

	out, err := c.source.DivisionsByCountry(ctx, countryID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

func (c *Cache) store(ctx context.Context, key string, v any) {
	if c.redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("failed to marshal territory cache entry", "key", key, "error", err)
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to write territory cache entry", "key", key, "error", err)
	}
}

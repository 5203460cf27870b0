package subject

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/prepmate-api/internal/config"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

const (
	listCacheKey   = "prepmate:subjects:all"
	listVersionKey = "prepmate:subjects:version"
	listCacheTTL   = 5 * time.Minute
	noCacheVersion = int64(-1)
)

// Cache holds the whole subject list under a versioned key. Any write bumps
// the version, so a list loaded before the write can never be stored as
// current.
type Cache interface {
	// Get returns the cached list, or the version a freshly loaded list
	// must be stored under.
	Get(ctx context.Context) (subjects []curriculum.Subject, version int64, ok bool)
	Set(ctx context.Context, version int64, subjects []curriculum.Subject)
	Invalidate(ctx context.Context)
}

type noopCache struct{}

func NewNoopCache() Cache { return noopCache{} }

func (noopCache) Get(context.Context) ([]curriculum.Subject, int64, bool) {
	return nil, noCacheVersion, false
}
func (noopCache) Set(context.Context, int64, []curriculum.Subject) {}
func (noopCache) Invalidate(context.Context)                       {}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb, ttl: listCacheTTL}
}

// NewRedisCacheFromURL parses a redis:// URL and pings the server.
func NewRedisCacheFromURL(ctx context.Context, url string) (Cache, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisCache(rdb), rdb, nil
}

func listKey(version int64) string {
	return fmt.Sprintf("%s:v%d", listCacheKey, version)
}

func (c *redisCache) version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, listVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *redisCache) Get(ctx context.Context) ([]curriculum.Subject, int64, bool) {
	log := config.WithContext(ctx)

	version, err := c.version(ctx)
	if err != nil {
		log.WithError(err).Warn("subject cache version read failed")
		return nil, noCacheVersion, false
	}

	raw, err := c.rdb.Get(ctx, listKey(version)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).Warn("subject cache read failed")
		}
		return nil, version, false
	}

	var subjects []curriculum.Subject
	if err := json.Unmarshal(raw, &subjects); err != nil {
		log.WithError(err).Warn("subject cache entry is corrupt")
		return nil, version, false
	}
	return subjects, version, true
}

// Set stores subjects under version. A write that happened since Get moved
// the version on, so a stale list lands on a key nobody reads.
func (c *redisCache) Set(ctx context.Context, version int64, subjects []curriculum.Subject) {
	if version < 0 {
		return
	}
	raw, err := json.Marshal(subjects)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, listKey(version), raw, c.ttl).Err(); err != nil {
		config.WithContext(ctx).WithError(err).Warn("subject cache write failed")
	}
}

func (c *redisCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, listVersionKey).Err(); err != nil {
		config.WithContext(ctx).WithError(err).Warn("subject cache invalidation failed")
	}
}

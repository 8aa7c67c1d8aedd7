// Package rediscache caches model version resolutions (latest and the
// exclusive stages) in Redis. The cache degrades silently: any Redis error
// is logged at debug level and treated as a miss, so resolution always
// falls back to the database.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
)

// cachedAliases are the only resolutions worth caching. Name and number
// lookups are unique-indexed point reads already.
var cachedAliases = []string{
	domain.StageAliasLatest,
	string(domain.StageStaging),
	string(domain.StageProduction),
}

type versionCache struct {
	pool *redis.Pool
	ttl  time.Duration
}

// NewVersionCache creates a Redis backed version cache. The pool keeps a few
// idle connections around; one sweep of the API rarely needs more.
func NewVersionCache(addr, password string, db int, ttl time.Duration) ports.VersionCache {
	pool := &redis.Pool{
		MaxIdle:     5,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			opts := []redis.DialOption{redis.DialDatabase(db)}
			if password != "" {
				opts = append(opts, redis.DialPassword(password))
			}
			return redis.Dial("tcp", addr, opts...)
		},
	}
	return &versionCache{pool: pool, ttl: ttl}
}

func (c *versionCache) GetVersion(ctx context.Context, workspaceID, modelID uuid.UUID, alias string) (*domain.ModelVersion, bool) {
	key, err := NewKey(workspaceID, modelID, alias)
	if err != nil {
		return nil, false
	}
	cKey, err := key.Key()
	if err != nil {
		return nil, false
	}

	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		log.WithError(err).Debug("version cache: connect failed")
		return nil, false
	}
	defer conn.Close()

	payload, err := redis.Bytes(conn.Do("GET", cKey))
	if err != nil {
		if err != redis.ErrNil {
			log.WithError(err).WithField("key", cKey).Debug("version cache: get failed")
		}
		return nil, false
	}

	version := &domain.ModelVersion{}
	if err := json.Unmarshal(payload, version); err != nil {
		log.WithError(err).WithField("key", cKey).Debug("version cache: corrupt entry")
		return nil, false
	}
	return version, true
}

func (c *versionCache) SetVersion(ctx context.Context, workspaceID, modelID uuid.UUID, alias string, version *domain.ModelVersion) {
	key, err := NewKey(workspaceID, modelID, alias)
	if err != nil {
		return
	}
	cKey, err := key.Key()
	if err != nil {
		return
	}

	payload, err := json.Marshal(version)
	if err != nil {
		log.WithError(err).WithField("key", cKey).Debug("version cache: marshal failed")
		return
	}

	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		log.WithError(err).Debug("version cache: connect failed")
		return
	}
	defer conn.Close()

	if _, err := conn.Do("SET", cKey, payload, "EX", int(c.ttl.Seconds())); err != nil {
		log.WithError(err).WithField("key", cKey).Debug("version cache: set failed")
	}
}

func (c *versionCache) InvalidateModel(ctx context.Context, workspaceID, modelID uuid.UUID) {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		log.WithError(err).Debug("version cache: connect failed")
		return
	}
	defer conn.Close()

	for _, alias := range cachedAliases {
		key, err := NewKey(workspaceID, modelID, alias)
		if err != nil {
			continue
		}
		cKey, err := key.Key()
		if err != nil {
			continue
		}
		if _, err := conn.Do("DEL", cKey); err != nil {
			log.WithError(err).WithField("key", cKey).Debug("version cache: del failed")
		}
	}
}

var _ ports.VersionCache = (*versionCache)(nil)

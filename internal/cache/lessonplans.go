package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/types"
	"github.com/mamamath/mothermath-backend/internal/utils"
)

// LessonPlanCache is a read-through cache over the per-user plan list.
// Postgres stays the source of truth; cache misses and errors fall through
// to the database.
type LessonPlanCache interface {
	GetList(ctx context.Context, userID uuid.UUID) ([]types.LessonPlan, bool)
	SetList(ctx context.Context, userID uuid.UUID, plans []types.LessonPlan)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type redisCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewLessonPlanCache connects to REDIS_ADDR. The caller decides what to do
// when redis is unavailable; NewNoopCache keeps the service usable without
// one.
func NewLessonPlanCache(log *logger.Logger) (LessonPlanCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSec := utils.GetEnvAsInt("LESSON_CACHE_TTL_SECONDS", 300, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{
		log: log.With("service", "LessonPlanCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSec) * time.Second,
	}, nil
}

func listKey(userID uuid.UUID) string {
	return "lessonplans:" + userID.String()
}

func (c *redisCache) GetList(ctx context.Context, userID uuid.UUID) ([]types.LessonPlan, bool) {
	raw, err := c.rdb.Get(ctx, listKey(userID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Cache read failed", "userID", userID, "error", err)
		}
		return nil, false
	}
	var plans []types.LessonPlan
	if err := json.Unmarshal(raw, &plans); err != nil {
		c.log.Warn("Cache entry corrupt; dropping", "userID", userID, "error", err)
		_ = c.rdb.Del(ctx, listKey(userID)).Err()
		return nil, false
	}
	return plans, true
}

func (c *redisCache) SetList(ctx context.Context, userID uuid.UUID, plans []types.LessonPlan) {
	raw, err := json.Marshal(plans)
	if err != nil {
		c.log.Warn("Cache encode failed", "userID", userID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, listKey(userID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", "userID", userID, "error", err)
	}
}

func (c *redisCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.rdb.Del(ctx, listKey(userID)).Err(); err != nil {
		c.log.Warn("Cache invalidation failed", "userID", userID, "error", err)
	}
}

// noopCache disables caching; every read misses.
type noopCache struct{}

func NewNoopCache() LessonPlanCache { return noopCache{} }

func (noopCache) GetList(context.Context, uuid.UUID) ([]types.LessonPlan, bool) { return nil, false }
func (noopCache) SetList(context.Context, uuid.UUID, []types.LessonPlan)        {}
func (noopCache) Invalidate(context.Context, uuid.UUID)                         {}

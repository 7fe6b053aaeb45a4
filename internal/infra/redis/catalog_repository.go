package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"time"

	"starquest/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches the world seed content from a backing store
// (e.g., Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

// CatalogRepository caches the catalog in Redis and falls back to a loader
// on cache miss. Content is stored as one JSON document per entry:
//
//	HSET quest:catalog:tasks   {taskID}   {task JSON}
//	HSET quest:catalog:rewards {rewardID} {reward JSON}
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) (domain.Catalog, error) {
	if catalog, ok := r.readCache(ctx); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do("catalog", func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if catalog, ok := r.readCache(ctx); ok {
			return catalog, nil
		}

		catalog, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return domain.Catalog{}, err
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		for _, task := range catalog.Tasks {
			if raw, err := json.Marshal(task); err == nil {
				pipe.HSet(ctx, taskKey, task.ID, raw)
			}
		}
		for _, reward := range catalog.Rewards {
			if raw, err := json.Marshal(reward); err == nil {
				pipe.HSet(ctx, rewardKey, reward.ID, raw)
			}
		}
		if ttl > 0 {
			pipe.Expire(ctx, taskKey, ttl)
			pipe.Expire(ctx, rewardKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return catalog, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

const (
	taskKey   = "quest:catalog:tasks"
	rewardKey = "quest:catalog:rewards"
)

func (r *CatalogRepository) readCache(ctx context.Context) (domain.Catalog, bool) {
	rawTasks, err := r.client.HGetAll(ctx, taskKey).Result()
	if err != nil || len(rawTasks) == 0 {
		return domain.Catalog{}, false
	}
	rawRewards, _ := r.client.HGetAll(ctx, rewardKey).Result()

	catalog := domain.Catalog{}
	for _, raw := range rawTasks {
		var task domain.Task
		if err := json.Unmarshal([]byte(raw), &task); err != nil {
			return domain.Catalog{}, false
		}
		catalog.Tasks = append(catalog.Tasks, task)
	}
	for _, raw := range rawRewards {
		var reward domain.Reward
		if err := json.Unmarshal([]byte(raw), &reward); err != nil {
			return domain.Catalog{}, false
		}
		catalog.Rewards = append(catalog.Rewards, reward)
	}
	sortCatalog(&catalog)
	return catalog, true
}

// sortCatalog restores a stable board order after the unordered hash read.
func sortCatalog(c *domain.Catalog) {
	sort.Slice(c.Tasks, func(i, j int) bool { return c.Tasks[i].ID < c.Tasks[j].ID })
	sort.Slice(c.Rewards, func(i, j int) bool { return c.Rewards[i].ID < c.Rewards[j].ID })
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

package redis

import (
	"context"
	"sync"
	"time"

	"starquest/internal/app"
	"github.com/redis/go-redis/v9"
)

// WorldStore is a Redis-aware implementation of app.WorldRepository.
// Notes:
//   - It still keeps a local in-memory map of worlds to reuse the existing
//     in-process commit and broadcast logic.
//   - Redis is used to mark world liveness (and could be extended to share
//     snapshots or route cross-instance pub/sub).
type WorldStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	worlds map[string]*app.World
}

func NewWorldStore(client *redis.Client, ttl time.Duration) *WorldStore {
	return &WorldStore{
		client: client,
		ttl:    ttl,
		worlds: make(map[string]*app.World),
	}
}

func (s *WorldStore) GetOrCreate(worldID string) *app.World {
	s.mu.Lock()
	defer s.mu.Unlock()
	if world, ok := s.worlds[worldID]; ok {
		return world
	}
	world := app.NewWorld(worldID)
	s.worlds[worldID] = world
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(worldID), "1", s.ttl).Err()
	return world
}

func (s *WorldStore) Get(worldID string) (*app.World, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	world, ok := s.worlds[worldID]
	return world, ok
}

func (s *WorldStore) DeleteIfEmpty(worldID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	world, ok := s.worlds[worldID]
	if !ok {
		return
	}
	if world.IsEmpty() {
		delete(s.worlds, worldID)
		_ = s.client.Del(context.Background(), s.key(worldID)).Err()
	}
}

func (s *WorldStore) key(worldID string) string {
	return "quest:world:" + worldID
}

package memory

import (
	"sync"

	"starquest/internal/app"
)

// WorldStore is an in-memory implementation of app.WorldRepository.
type WorldStore struct {
	mu     sync.RWMutex
	worlds map[string]*app.World
}

func NewWorldStore() *WorldStore {
	return &WorldStore{
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
	}
}

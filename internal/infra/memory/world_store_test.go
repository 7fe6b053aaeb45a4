package memory

import "testing"

func TestWorldStoreLifecycle(t *testing.T) {
	store := NewWorldStore()

	world := store.GetOrCreate("world-1")
	if world == nil {
		t.Fatalf("expected world")
	}
	if again := store.GetOrCreate("world-1"); again != world {
		t.Fatalf("expected same world instance")
	}
	if _, ok := store.Get("world-1"); !ok {
		t.Fatalf("expected world present")
	}

	store.DeleteIfEmpty("world-1")
	if _, ok := store.Get("world-1"); ok {
		t.Fatalf("expected world removed when empty")
	}
}

package resourcemap

import (
	"sync"
	"testing"
)

func TestMapStore_SetGet(t *testing.T) {
	store := NewMapStore()
	if _, ok := store.Get("/missing"); ok {
		t.Fatal("Get(/missing) = ok, want not found")
	}

	store.Set("/a.png", []byte("bytes"))
	got, ok := store.Get("/a.png")
	if !ok || string(got) != "bytes" {
		t.Errorf("Get(/a.png) = (%q, %v), want (bytes, true)", got, ok)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestMapStore_ConcurrentAccess(t *testing.T) {
	store := NewMapStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Set("/k", []byte{byte(i)})
			store.Get("/k")
		}(i)
	}
	wg.Wait()
}

func TestStore_InterfaceSatisfiedByMapStore(t *testing.T) {
	var _ Store = NewMapStore()
}

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/medregistry/search-gateway/registry/entities"
)

func testPage(name string) *entities.CachedPage {
	return &entities.CachedPage{
		Drugs: []entities.DrugSummary{{
			ID:     "HU-001",
			Name:   name,
			Status: entities.StatusActive,
		}},
		Pagination: entities.NewPaginationInfo(0, 20, 1, 1),
	}
}

func TestMemoryStorePutAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Error("Expected a miss on an empty store")
	}

	page := testPage("Aspirin")
	if err := store.Put(ctx, "key1", page, time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, ok := store.Get(ctx, "key1")
	if !ok {
		t.Fatal("Expected a hit after Put")
	}
	if got.Drugs[0].Name != "Aspirin" {
		t.Errorf("Expected Aspirin, got %s", got.Drugs[0].Name)
	}
}

func TestMemoryStoreLastWriteWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Put(ctx, "key1", testPage("First"), time.Minute)
	_ = store.Put(ctx, "key1", testPage("Second"), time.Minute)

	got, ok := store.Get(ctx, "key1")
	if !ok || got.Drugs[0].Name != "Second" {
		t.Errorf("Expected the later write to win, got %+v", got)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", store.Len())
	}
}

func TestMemoryStoreExpiresOnRead(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Put(ctx, "key1", testPage("Aspirin"), 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, ok := store.Get(ctx, "key1"); ok {
		t.Error("Expected an expired entry to read as a miss")
	}
	if store.Len() != 0 {
		t.Errorf("Expected the expired entry to be removed on read, got %d entries", store.Len())
	}
}

func TestMemoryStorePurgeExpired(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Put(ctx, "stale1", testPage("A"), 10*time.Millisecond)
	_ = store.Put(ctx, "stale2", testPage("B"), 10*time.Millisecond)
	_ = store.Put(ctx, "fresh", testPage("C"), time.Minute)
	time.Sleep(25 * time.Millisecond)

	if purged := store.PurgeExpired(); purged != 2 {
		t.Errorf("Expected 2 purged entries, got %d", purged)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 remaining entry, got %d", store.Len())
	}
	if _, ok := store.Get(ctx, "fresh"); !ok {
		t.Error("Expected the fresh entry to survive the purge")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%5)
			for j := 0; j < 50; j++ {
				_ = store.Put(ctx, key, testPage("Aspirin"), time.Minute)
				store.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 5 {
		t.Errorf("Expected 5 distinct keys, got %d", store.Len())
	}
}

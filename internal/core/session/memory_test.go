package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/infrastructure/config"
)

func newTestStore(t *testing.T, ttl time.Duration, maxSize int) *MemoryStore {
	t.Helper()
	cfg := &config.Config{Session: config.SessionConfig{
		Backend: config.SessionBackendMemory,
		TTL:     ttl,
		MaxSize: maxSize,
	}}
	m := NewMemoryStore(cfg)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Hour, 10)

	s, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.ID == "" || s.Ingredients.Len() != 0 {
		t.Fatalf("unexpected new session %+v", s)
	}

	updated, err := m.Update(ctx, s.ID, func(s *Session) error {
		s.Ingredients = s.Ingredients.Add("Uova")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.Ingredients.Contains("uova") {
		t.Fatal("update result should contain the new ingredient")
	}

	got, err := m.Get(ctx, s.ID)
	if err != nil || !got.Ingredients.Contains("uova") {
		t.Fatalf("Get after update = %+v, %v", got, err)
	}

	if err := m.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := m.Delete(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestMemoryStoreUpdateErrorDiscardsChanges(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Hour, 10)
	s, _ := m.Create(ctx)

	boom := errors.New("boom")
	_, err := m.Update(ctx, s.ID, func(s *Session) error {
		s.Ingredients = s.Ingredients.Add("sale")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	got, _ := m.Get(ctx, s.ID)
	if got.Ingredients.Len() != 0 {
		t.Fatal("failed update must not be written back")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, 10*time.Millisecond, 10)
	s, _ := m.Create(ctx)

	time.Sleep(30 * time.Millisecond)
	if _, err := m.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestMemoryStoreEvictsLeastUsed(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Hour, 2)

	a, _ := m.Create(ctx)
	b, _ := m.Create(ctx)
	if _, err := m.Get(ctx, a.ID); err != nil {
		t.Fatal(err)
	}

	c, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("create at capacity should evict, got %v", err)
	}
	if _, err := m.Get(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("least used session should have been evicted")
	}
	for _, id := range []string{a.ID, c.ID} {
		if _, err := m.Get(ctx, id); err != nil {
			t.Fatalf("session %s should survive: %v", id, err)
		}
	}
}

func TestMemoryStoreStaleResultsDiscarded(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Hour, 10)
	s, _ := m.Create(ctx)

	begin := func() uint64 {
		var token uint64
		_, _ = m.Update(ctx, s.ID, func(s *Session) error {
			token = s.Tracker.Begin()
			return nil
		})
		return token
	}
	apply := func(token uint64, name string) bool {
		var applied bool
		_, _ = m.Update(ctx, s.ID, func(s *Session) error {
			applied = s.Tracker.Apply(token, func() {
				s.Results = &recommend.Outcome{
					State:   recommend.StateScored,
					Recipes: []recipe.ScoredRecipe{{Recipe: recipe.Recipe{Name: name}}},
				}
			})
			return nil
		})
		return applied
	}

	first := begin()
	second := begin()
	if !apply(second, "second") {
		t.Fatal("latest search should be applied")
	}
	if apply(first, "first") {
		t.Fatal("superseded search should be discarded")
	}

	got, _ := m.Get(ctx, s.ID)
	if got.Results == nil || got.Results.Recipes[0].Name != "second" {
		t.Fatalf("visible results = %+v", got.Results)
	}
}

func TestMemoryStoreConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Hour, 10)
	s, _ := m.Create(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Update(ctx, s.ID, func(s *Session) error {
				s.Tracker.Begin()
				return nil
			})
		}()
	}
	wg.Wait()

	got, _ := m.Get(ctx, s.ID)
	if got.Tracker.Current() != 50 {
		t.Fatalf("tracker = %d, want 50", got.Tracker.Current())
	}
}

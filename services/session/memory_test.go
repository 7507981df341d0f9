package session

import (
	"context"
	"sync"
	"testing"

	"lexcitas/models"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if sess, err := store.Get(ctx, "u1"); err != nil || sess != nil {
		t.Fatalf("empty store Get = (%v, %v), want (nil, nil)", sess, err)
	}

	sess := models.NewSession("u1")
	sess.State = models.StateAwaitingTopic
	sess.Personal.Name = "Ana García"
	if err := store.Put(ctx, sess); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.State != models.StateAwaitingTopic || loaded.Personal.Name != "Ana García" {
		t.Errorf("loaded = %+v", loaded)
	}

	// The store hands out copies: mutating a loaded session must not leak
	// back without a Put.
	loaded.Personal.Name = "changed"
	again, _ := store.Get(ctx, "u1")
	if again.Personal.Name != "Ana García" {
		t.Error("store leaked a mutable reference")
	}

	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if sess, _ := store.Get(ctx, "u1"); sess != nil {
		t.Error("session survived Delete")
	}
}

func TestMemoryStoreLockSerializes(t *testing.T) {
	store := NewMemoryStore()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := store.Lock("u1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50: per-user lock did not serialize", counter)
	}
}

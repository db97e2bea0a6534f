package session

import (
	"context"
	"testing"

	"asdenim/internal/kv"
)

func TestManagerStartsUnauthenticated(t *testing.T) {
	m := NewManager(kv.NewMemoryStore())
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if m.Authenticated() {
		t.Fatalf("expected no session on empty store")
	}
}

func TestSetTokenPersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	first := NewManager(store)
	if err := first.SetToken(ctx, "tok-1"); err != nil {
		t.Fatalf("set token: %v", err)
	}

	second := NewManager(store)
	if err := second.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if got := second.Token(); got != "tok-1" {
		t.Fatalf("expected persisted token, got %q", got)
	}
}

func TestSetTokenReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	m := NewManager(kv.NewMemoryStore())
	if err := m.SetToken(ctx, "old"); err != nil {
		t.Fatalf("set old: %v", err)
	}
	if err := m.SetToken(ctx, "new"); err != nil {
		t.Fatalf("set new: %v", err)
	}
	if got := m.Token(); got != "new" {
		t.Fatalf("expected replacement, got %q", got)
	}
}

func TestClearRemovesFromStore(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	m := NewManager(store)
	if err := m.SetToken(ctx, "tok"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := m.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if m.Authenticated() {
		t.Fatalf("expected cleared session")
	}
	if _, ok, _ := store.Get(ctx, TokenKey); ok {
		t.Fatalf("expected token removed from store")
	}
}

func TestInitializeMigratesLegacyPayloads(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"raw string":  "legacy-token",
		"json string": `"legacy-token"`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			store := kv.NewMemoryStore()
			if err := store.Set(ctx, TokenKey, []byte(payload)); err != nil {
				t.Fatalf("seed: %v", err)
			}
			m := NewManager(store)
			if err := m.Initialize(ctx); err != nil {
				t.Fatalf("initialize: %v", err)
			}
			if got := m.Token(); got != "legacy-token" {
				t.Fatalf("expected migrated token, got %q", got)
			}
			data, ok, _ := store.Get(ctx, TokenKey)
			if !ok {
				t.Fatalf("expected rewritten payload")
			}
			if string(data) == payload {
				t.Fatalf("expected payload upgraded to versioned format")
			}
		})
	}
}

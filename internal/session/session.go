// Package session owns the bearer-token lifecycle for the storefront
// client. The token is opaque: it is never parsed or validated locally,
// expiry surfaces only when a protected request is rejected.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"asdenim/internal/kv"
)

// TokenKey is the persistent-store key the session token lives under.
const TokenKey = "session.token"

const schemaVersion = 1

// envelope is the persisted token format. Version 0 payloads (a bare token
// string, possibly JSON-quoted) predate the version field and are migrated
// on load.
type envelope struct {
	Version int    `json:"version"`
	Token   string `json:"token"`
}

// Manager holds the current token and mirrors every change to the
// persistent store.
type Manager struct {
	store kv.Store

	mu    sync.RWMutex
	token string
}

// NewManager builds a manager over the given store. Call Initialize before
// reading the token.
func NewManager(store kv.Store) *Manager {
	return &Manager{store: store}
}

// Initialize loads the persisted token, if any. A present token is trusted
// without contacting the server; validation happens lazily on the first
// protected request. Migrated legacy payloads are rewritten in the
// current format.
func (m *Manager) Initialize(ctx context.Context) error {
	data, ok, err := m.store.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("session: load token: %w", err)
	}
	if !ok {
		return nil
	}
	token, migrated := decodeToken(data)
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	if migrated && token != "" {
		return m.persist(ctx, token)
	}
	return nil
}

// Token returns the current bearer token, empty when unauthenticated.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Authenticated reports whether a token is present.
func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// SetToken atomically replaces and persists the token. Subsequent
// authenticated requests use it immediately.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return m.persist(ctx, token)
}

// Clear drops the token from memory and the persistent store.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	if err := m.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("session: clear token: %w", err)
	}
	return nil
}

func (m *Manager) persist(ctx context.Context, token string) error {
	data, err := json.Marshal(envelope{Version: schemaVersion, Token: token})
	if err != nil {
		return fmt.Errorf("session: encode token: %w", err)
	}
	if err := m.store.Set(ctx, TokenKey, data); err != nil {
		return fmt.Errorf("session: persist token: %w", err)
	}
	return nil
}

// decodeToken reads a persisted payload, reporting whether it was a legacy
// (unversioned) format.
func decodeToken(data []byte) (token string, migrated bool) {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Version >= 1 {
		return env.Token, false
	}
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		return plain, true
	}
	return strings.TrimSpace(string(data)), true
}

// Package cart implements the shopping cart: an ordered collection of
// lines keyed by (product, size), mirrored to the persistent store on
// every mutation, with aggregates recomputed on demand.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"asdenim/internal/kv"
	"asdenim/pkg/domain"
)

// Key is the persistent-store key the serialized cart lives under.
const Key = "cart.items"

const schemaVersion = 1

// ErrNoSnapshot means a product could not be resolved when adding it, so
// no line was inserted.
var ErrNoSnapshot = errors.New("cart: product snapshot unavailable")

// Line is one cart entry: a product (and optional size variant) with a
// quantity and a cached product snapshot. The snapshot may be stale
// relative to the server; it is refreshed opportunistically.
type Line struct {
	ID        string         `json:"id"`
	ProductID string         `json:"productId"`
	Size      string         `json:"size,omitempty"`
	Qty       int            `json:"qty"`
	Product   domain.Product `json:"productData"`
}

// Subtotal is the line's contribution to the cart amount.
func (l Line) Subtotal() int64 {
	return l.Product.UnitPrice() * int64(l.Qty)
}

// envelope is the persisted cart format. A bare JSON array (the
// unversioned legacy format) is migrated on load.
type envelope struct {
	Version int    `json:"version"`
	Lines   []Line `json:"lines"`
}

// SnapshotResolver fetches the product fields cached on a line.
type SnapshotResolver interface {
	ProductByID(ctx context.Context, id string) (domain.Product, error)
}

// Store holds the cart lines and mirrors every mutation to the persistent
// store.
type Store struct {
	kv       kv.Store
	resolver SnapshotResolver

	mu    sync.RWMutex
	lines []Line
}

// NewStore builds an empty cart over the given persistence and snapshot
// resolver. Call Load before the first read to rehydrate.
func NewStore(store kv.Store, resolver SnapshotResolver) *Store {
	return &Store{kv: store, resolver: resolver}
}

// Load rehydrates the cart from the persistent store, migrating legacy
// payloads to the current schema. Lines with a non-positive quantity are
// dropped rather than kept at zero.
func (s *Store) Load(ctx context.Context) error {
	data, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return fmt.Errorf("cart: load: %w", err)
	}
	if !ok {
		return nil
	}
	lines, migrated, err := decodeLines(data)
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, line := range lines {
		if line.Qty < 1 {
			migrated = true
			continue
		}
		if line.ID == "" {
			line.ID = uuid.NewString()
			migrated = true
		}
		kept = append(kept, line)
	}
	s.mu.Lock()
	s.lines = kept
	s.mu.Unlock()
	if migrated {
		return s.persist(ctx)
	}
	return nil
}

// Add inserts a product into the cart, merging with an existing line for
// the same (product, size) by incrementing its quantity. New lines resolve
// a product snapshot first; if that fails the cart is unchanged.
func (s *Store) Add(ctx context.Context, productID, size string) (Line, error) {
	s.mu.Lock()
	for i, line := range s.lines {
		if line.ProductID == productID && line.Size == size {
			s.lines[i].Qty++
			merged := s.lines[i]
			s.mu.Unlock()
			return merged, s.persist(ctx)
		}
	}
	s.mu.Unlock()

	product, err := s.resolver.ProductByID(ctx, productID)
	if err != nil {
		return Line{}, fmt.Errorf("%w: %s: %v", ErrNoSnapshot, productID, err)
	}

	line := Line{
		ID:        uuid.NewString(),
		ProductID: productID,
		Size:      size,
		Qty:       1,
		Product:   product,
	}
	s.mu.Lock()
	// Re-check: the resolver call ran unlocked.
	for i, existing := range s.lines {
		if existing.ProductID == productID && existing.Size == size {
			s.lines[i].Qty++
			line = s.lines[i]
			s.mu.Unlock()
			return line, s.persist(ctx)
		}
	}
	s.lines = append(s.lines, line)
	s.mu.Unlock()
	return line, s.persist(ctx)
}

// UpdateQuantity sets a line's absolute quantity. A quantity of zero or
// less removes the line; the cart never stores non-positive quantities.
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, qty int) error {
	if qty < 1 {
		return s.Remove(ctx, lineID)
	}
	s.mu.Lock()
	changed := false
	for i, line := range s.lines {
		if line.ID == lineID {
			if s.lines[i].Qty != qty {
				s.lines[i].Qty = qty
				changed = true
			}
			break
		}
	}
	s.mu.Unlock()
	if !changed {
		return nil
	}
	return s.persist(ctx)
}

// Remove deletes a line by ID; removing an absent line is a no-op.
func (s *Store) Remove(ctx context.Context, lineID string) error {
	s.mu.Lock()
	kept := s.lines[:0]
	removed := false
	for _, line := range s.lines {
		if line.ID == lineID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	s.lines = kept
	s.mu.Unlock()
	if !removed {
		return nil
	}
	return s.persist(ctx)
}

// Clear empties the cart, e.g. after a successful checkout or on logout.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	if err := s.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("cart: clear: %w", err)
	}
	return nil
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Count is the total quantity across all lines, recomputed on call.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, line := range s.lines {
		total += line.Qty
	}
	return total
}

// Amount is the cart subtotal, recomputed on call. Each line contributes
// its effective unit price times quantity.
func (s *Store) Amount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}

// Weight is the total cart weight in grams, used for shipping quotes.
func (s *Store) Weight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, line := range s.lines {
		total += line.Product.Weight * line.Qty
	}
	return total
}

// RefreshSnapshots re-fetches the product snapshot for every line
// concurrently. Lines whose product can no longer be resolved keep their
// cached snapshot; the refresh is best-effort and returns the first
// resolver error after applying the successes.
func (s *Store) RefreshSnapshots(ctx context.Context) error {
	lines := s.Lines()
	if len(lines) == 0 {
		return nil
	}
	fresh := make([]*domain.Product, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			product, err := s.resolver.ProductByID(gctx, line.ProductID)
			if err != nil {
				return err
			}
			fresh[i] = &product
			return nil
		})
	}
	err := g.Wait()

	s.mu.Lock()
	changed := false
	for i, product := range fresh {
		if product == nil {
			continue
		}
		for j := range s.lines {
			if s.lines[j].ID == lines[i].ID {
				s.lines[j].Product = *product
				changed = true
			}
		}
	}
	s.mu.Unlock()
	if changed {
		if persistErr := s.persist(ctx); persistErr != nil && err == nil {
			err = persistErr
		}
	}
	return err
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.RLock()
	data, err := json.Marshal(envelope{Version: schemaVersion, Lines: s.lines})
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("cart: encode: %w", err)
	}
	if err := s.kv.Set(ctx, Key, data); err != nil {
		return fmt.Errorf("cart: persist: %w", err)
	}
	return nil
}

func decodeLines(data []byte) (lines []Line, migrated bool, err error) {
	var env envelope
	if jsonErr := json.Unmarshal(data, &env); jsonErr == nil && env.Version >= 1 {
		return env.Lines, false, nil
	}
	// Legacy format: a bare array of lines without the version field.
	if jsonErr := json.Unmarshal(data, &lines); jsonErr == nil {
		return lines, true, nil
	}
	return nil, false, fmt.Errorf("cart: unreadable persisted cart")
}

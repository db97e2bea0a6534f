package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"asdenim/internal/kv"
	"asdenim/pkg/domain"
)

type fakeResolver struct {
	products map[string]domain.Product
	calls    int
}

func (f *fakeResolver) ProductByID(_ context.Context, id string) (domain.Product, error) {
	f.calls++
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %s not found", id)
	}
	return p, nil
}

func newTestStore(t *testing.T) (*Store, *fakeResolver, kv.Store) {
	t.Helper()
	resolver := &fakeResolver{products: map[string]domain.Product{
		"1": {ID: 1, Name: "Slim Jeans", OriginalPrice: 100000, SalePrice: 80000, Weight: 500, Stock: 10},
		"2": {ID: 2, Name: "Denim Jacket", OriginalPrice: 50000, Weight: 800, Stock: 5},
	}}
	store := kv.NewMemoryStore()
	return NewStore(store, resolver), resolver, store
}

func TestAddMergesSameProductAndSize(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.Add(ctx, "1", "M"); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	lines := s.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Qty != 3 {
		t.Fatalf("expected qty 3, got %d", lines[0].Qty)
	}
}

func TestAddKeepsSizesAsSeparateLines(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	s.Add(ctx, "1", "M")
	s.Add(ctx, "1", "L")
	s.Add(ctx, "1", "") // product page add without a size

	if got := len(s.Lines()); got != 3 {
		t.Fatalf("expected three lines for distinct sizes, got %d", got)
	}
	if got := s.Count(); got != 3 {
		t.Fatalf("expected count 3, got %d", got)
	}
}

func TestAddWithoutSnapshotIsANoOp(t *testing.T) {
	ctx := context.Background()
	s, _, store := newTestStore(t)

	_, err := s.Add(ctx, "missing", "")
	if !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got: %v", err)
	}
	if len(s.Lines()) != 0 {
		t.Fatalf("failed add must not insert a line")
	}
	if _, ok, _ := store.Get(ctx, Key); ok {
		t.Fatalf("failed add must not persist")
	}
}

func TestAddReusesSnapshotOnMerge(t *testing.T) {
	ctx := context.Background()
	s, resolver, _ := newTestStore(t)

	s.Add(ctx, "1", "M")
	s.Add(ctx, "1", "M")
	if resolver.calls != 1 {
		t.Fatalf("merge must not re-resolve the snapshot, resolver ran %d times", resolver.calls)
	}
}

func TestUpdateQuantitySetsAndClamps(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	line, err := s.Add(ctx, "1", "M")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.UpdateQuantity(ctx, line.ID, 5); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := s.Lines()[0].Qty; got != 5 {
		t.Fatalf("expected qty 5, got %d", got)
	}

	for _, qty := range []int{0, -2} {
		s2, _, _ := newTestStore(t)
		l, _ := s2.Add(ctx, "1", "M")
		if err := s2.UpdateQuantity(ctx, l.ID, qty); err != nil {
			t.Fatalf("update to %d: %v", qty, err)
		}
		if len(s2.Lines()) != 0 {
			t.Fatalf("qty %d must remove the line", qty)
		}
	}
}

func TestRemoveIsNoOpWhenAbsent(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	s.Add(ctx, "1", "M")

	if err := s.Remove(ctx, "nonexistent"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if len(s.Lines()) != 1 {
		t.Fatalf("remove of absent id must not touch other lines")
	}
}

func TestCountTracksEveryMutation(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	check := func(step string) {
		t.Helper()
		want := 0
		for _, line := range s.Lines() {
			want += line.Qty
		}
		if got := s.Count(); got != want {
			t.Fatalf("%s: count %d != sum of quantities %d", step, got, want)
		}
	}

	line, _ := s.Add(ctx, "1", "M")
	check("after add")
	s.Add(ctx, "2", "")
	check("after second add")
	s.UpdateQuantity(ctx, line.ID, 7)
	check("after update")
	s.Remove(ctx, line.ID)
	check("after remove")
	s.Clear(ctx)
	check("after clear")
}

func TestAmountUsesSalePriceOnlyWhenDiscounted(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	// product 1: original 100000, sale 80000, qty 2 -> 160000
	// product 2: original 50000, no sale, qty 1 -> 50000
	line, _ := s.Add(ctx, "1", "M")
	s.UpdateQuantity(ctx, line.ID, 2)
	s.Add(ctx, "2", "")

	if got := s.Amount(); got != 210000 {
		t.Fatalf("expected amount 210000, got %d", got)
	}
}

func TestAmountIgnoresBogusSalePrices(t *testing.T) {
	cases := []struct {
		name     string
		original int64
		sale     int64
		want     int64
	}{
		{"no sale", 50000, 0, 50000},
		{"sale above original", 50000, 60000, 50000},
		{"sale equals original", 50000, 50000, 50000},
		{"real discount", 50000, 40000, 40000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			resolver := &fakeResolver{products: map[string]domain.Product{
				"p": {ID: 9, OriginalPrice: tc.original, SalePrice: tc.sale},
			}}
			s := NewStore(kv.NewMemoryStore(), resolver)
			s.Add(ctx, "p", "")
			if got := s.Amount(); got != tc.want {
				t.Fatalf("amount %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCartRoundTripsThroughStore(t *testing.T) {
	ctx := context.Background()
	s, resolver, store := newTestStore(t)

	s.Add(ctx, "1", "M")
	s.Add(ctx, "2", "")
	line, _ := s.Add(ctx, "1", "M")
	s.UpdateQuantity(ctx, line.ID, 4)
	before := s.Lines()

	reloaded := NewStore(store, resolver)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	after := reloaded.Lines()
	if len(after) != len(before) {
		t.Fatalf("line count changed across restart: %d != %d", len(after), len(before))
	}
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Qty != after[i].Qty ||
			before[i].ProductID != after[i].ProductID || before[i].Size != after[i].Size {
			t.Fatalf("line %d changed across restart:\nbefore %+v\nafter  %+v", i, before[i], after[i])
		}
	}
	if reloaded.Amount() != s.Amount() || reloaded.Count() != s.Count() {
		t.Fatalf("aggregates changed across restart")
	}
}

func TestLoadMigratesLegacyBareArray(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	legacy := `[{"productId":"1","qty":2,"productData":{"id":1,"original_price":100000,"sale_price":80000}},
		{"productId":"2","qty":0,"productData":{"id":2}}]`
	store.Set(ctx, Key, []byte(legacy))

	s := NewStore(store, &fakeResolver{})
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load legacy: %v", err)
	}
	lines := s.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected zero-qty legacy line dropped, got %d lines", len(lines))
	}
	if lines[0].ID == "" {
		t.Fatalf("expected migrated line to gain an id")
	}
	if s.Amount() != 160000 {
		t.Fatalf("unexpected amount after migration: %d", s.Amount())
	}

	data, ok, _ := store.Get(ctx, Key)
	if !ok {
		t.Fatalf("expected migrated payload persisted")
	}
	var env struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &env); err != nil || env.Version != 1 {
		t.Fatalf("expected versioned envelope after migration, got %s", data)
	}
}

func TestWeightSumsLineWeights(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	line, _ := s.Add(ctx, "1", "M") // 500g
	s.UpdateQuantity(ctx, line.ID, 2)
	s.Add(ctx, "2", "") // 800g
	if got := s.Weight(); got != 1800 {
		t.Fatalf("expected weight 1800, got %d", got)
	}
}

func TestRefreshSnapshotsUpdatesStaleData(t *testing.T) {
	ctx := context.Background()
	s, resolver, _ := newTestStore(t)
	s.Add(ctx, "1", "M")

	resolver.products["1"] = domain.Product{ID: 1, Name: "Slim Jeans", OriginalPrice: 120000, Weight: 500}
	if err := s.RefreshSnapshots(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := s.Amount(); got != 120000 {
		t.Fatalf("expected refreshed price in amount, got %d", got)
	}
}

func TestRefreshSnapshotsKeepsCacheOnFailure(t *testing.T) {
	ctx := context.Background()
	s, resolver, _ := newTestStore(t)
	s.Add(ctx, "1", "M")

	delete(resolver.products, "1")
	if err := s.RefreshSnapshots(ctx); err == nil {
		t.Fatalf("expected resolver error to surface")
	}
	if got := s.Amount(); got != 80000 {
		t.Fatalf("expected cached snapshot retained, amount %d", got)
	}
}

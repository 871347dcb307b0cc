package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/erazemk/pressing/internal/db"
	"github.com/erazemk/pressing/internal/kv"
	"github.com/erazemk/pressing/internal/model"
)

func newLoadedCatalog(t *testing.T, s kv.Store) *Catalog {
	t.Helper()
	c := NewCatalog(s)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func typeIDs(types []model.ClothingType) []string {
	ids := make([]string, len(types))
	for i, ct := range types {
		ids[i] = ct.ID
	}
	return ids
}

func TestCatalogLoadDefaults(t *testing.T) {
	s := kv.NewSQLite(db.NewTestDB(t))
	c := newLoadedCatalog(t, s)

	if got := c.List(); !reflect.DeepEqual(got, model.DefaultTypes()) {
		t.Errorf("expected defaults, got %+v", got)
	}

	// Loading alone writes nothing.
	raw, err := s.Get(context.Background(), TypesKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if raw != nil {
		t.Errorf("expected nothing persisted, got %s", raw)
	}
}

func TestCatalogLoadSaved(t *testing.T) {
	s := kv.NewMemory()
	saved := []model.ClothingType{{ID: "robe", Name: "Robe"}}
	if err := kv.SetJSON(context.Background(), s, TypesKey, saved); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	c := newLoadedCatalog(t, s)
	if got := c.List(); !reflect.DeepEqual(got, saved) {
		t.Errorf("expected saved catalog, got %+v", got)
	}
}

func TestCatalogLoadEmptyListFallsBack(t *testing.T) {
	s := kv.NewMemory()
	s.Set(context.Background(), TypesKey, []byte("[]"))

	c := newLoadedCatalog(t, s)
	if got := typeIDs(c.List()); !reflect.DeepEqual(got, []string{"chemise", "pantalon", "costume"}) {
		t.Errorf("expected defaults, got %v", got)
	}
}

func TestCatalogLoadCorrupt(t *testing.T) {
	s := kv.NewMemory()
	s.Set(context.Background(), TypesKey, []byte("{broken"))

	c := NewCatalog(s)
	if err := c.Load(context.Background()); err == nil {
		t.Fatal("expected error for corrupt catalog")
	}
	if err := c.Add(context.Background(), "Robe"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded after failed load, got %v", err)
	}
}

func TestCatalogMutationsRequireLoad(t *testing.T) {
	c := NewCatalog(kv.NewMemory())
	ctx := context.Background()

	if err := c.Add(ctx, "Robe"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Add: expected ErrNotLoaded, got %v", err)
	}
	if err := c.Remove(ctx, "chemise"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Remove: expected ErrNotLoaded, got %v", err)
	}
	if err := c.Edit(ctx, "chemise", "Chemisier"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Edit: expected ErrNotLoaded, got %v", err)
	}
	if err := c.Reset(ctx); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Reset: expected ErrNotLoaded, got %v", err)
	}
	if err := c.Save(ctx); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Save: expected ErrNotLoaded, got %v", err)
	}
}

func TestCatalogAddDeduplicatesBySlug(t *testing.T) {
	s := kv.NewMemory()
	c := newLoadedCatalog(t, s)
	ctx := context.Background()

	if err := c.Add(ctx, "Pantalon Court"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := c.Add(ctx, "pantalon court"); err != nil {
		t.Fatalf("Add duplicate: %v", err)
	}

	count := 0
	for _, ct := range c.List() {
		if ct.ID == "pantalon-court" {
			count++
			if ct.Name != "Pantalon Court" {
				t.Errorf("expected first name to win, got %q", ct.Name)
			}
		}
	}
	if count != 1 {
		t.Errorf("expected one 'pantalon-court' entry, got %d", count)
	}

	// The change is written through.
	reloaded := newLoadedCatalog(t, s)
	if !reflect.DeepEqual(reloaded.List(), c.List()) {
		t.Errorf("expected persisted catalog %+v, got %+v", c.List(), reloaded.List())
	}
}

func TestCatalogAddEmptyName(t *testing.T) {
	c := newLoadedCatalog(t, kv.NewMemory())

	for _, name := range []string{"", "   "} {
		if err := c.Add(context.Background(), name); !errors.Is(err, ErrEmptyName) {
			t.Errorf("Add(%q): expected ErrEmptyName, got %v", name, err)
		}
	}
	if len(c.List()) != 3 {
		t.Errorf("expected catalog unchanged, got %+v", c.List())
	}
}

func TestCatalogRemove(t *testing.T) {
	c := newLoadedCatalog(t, kv.NewMemory())
	ctx := context.Background()

	if err := c.Remove(ctx, "pantalon"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := typeIDs(c.List()); !reflect.DeepEqual(got, []string{"chemise", "costume"}) {
		t.Errorf("expected [chemise costume], got %v", got)
	}

	if err := c.Remove(ctx, "missing"); err != nil {
		t.Errorf("Remove missing: expected nil, got %v", err)
	}
}

func TestCatalogEditKeepsID(t *testing.T) {
	c := newLoadedCatalog(t, kv.NewMemory())
	ctx := context.Background()

	if err := c.Edit(ctx, "chemise", "Chemise en soie"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	got := c.List()[0]
	if got.ID != "chemise" || got.Name != "Chemise en soie" {
		t.Errorf("expected {chemise, Chemise en soie}, got %+v", got)
	}

	if err := c.Edit(ctx, "chemise", ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestCatalogResetIdempotent(t *testing.T) {
	c := newLoadedCatalog(t, kv.NewMemory())
	ctx := context.Background()

	c.Add(ctx, "Robe")
	c.Remove(ctx, "chemise")

	if err := c.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := c.Reset(ctx); err != nil {
		t.Fatalf("Reset again: %v", err)
	}

	if got := c.List(); !reflect.DeepEqual(got, model.DefaultTypes()) {
		t.Errorf("expected exactly the defaults, got %+v", got)
	}
}

func TestCatalogFailedWriteKeepsState(t *testing.T) {
	s := kv.NewMemory()
	c := newLoadedCatalog(t, s)
	before := c.List()

	s.FailWith = errors.New("disk full")
	if err := c.Add(context.Background(), "Robe"); err == nil {
		t.Fatal("expected write error")
	}
	if err := c.Reset(context.Background()); err == nil {
		t.Fatal("expected write error")
	}

	if !reflect.DeepEqual(before, c.List()) {
		t.Errorf("expected catalog unchanged, got %+v", c.List())
	}
}

func TestCatalogSubscribe(t *testing.T) {
	c := NewCatalog(kv.NewMemory())
	ctx := context.Background()

	var calls [][]model.ClothingType
	unsubscribe := c.Subscribe(func(types []model.ClothingType) {
		calls = append(calls, types)
	})

	if err := c.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.Add(ctx, "Robe"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// No-op mutations do not notify.
	c.Add(ctx, "robe")

	if len(calls) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(calls))
	}
	if got := typeIDs(calls[1]); !reflect.DeepEqual(got, []string{"chemise", "pantalon", "costume", "robe"}) {
		t.Errorf("unexpected notified catalog %v", got)
	}

	// Subscribers get copies.
	calls[1][0].Name = "changed"
	if c.List()[0].Name != "Chemise" {
		t.Error("subscriber mutation leaked into the catalog")
	}

	unsubscribe()
	c.Remove(ctx, "robe")
	if len(calls) != 2 {
		t.Errorf("expected no notification after unsubscribe, got %d", len(calls))
	}
}

func TestCatalogListIsCopy(t *testing.T) {
	c := newLoadedCatalog(t, kv.NewMemory())

	list := c.List()
	list[0].Name = "changed"

	if c.List()[0].Name != "Chemise" {
		t.Error("List returned shared storage")
	}
}

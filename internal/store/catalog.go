package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/erazemk/pressing/internal/kv"
	"github.com/erazemk/pressing/internal/metrics"
	"github.com/erazemk/pressing/internal/model"
)

// TypesKey is the backing-store key holding the garment type catalog.
const TypesKey = "pressing_types"

var (
	ErrEmptyName = errors.New("name required")
	ErrNotLoaded = errors.New("catalog not loaded")
)

// Catalog is the list of garment type labels. It is held in memory after
// Load; every mutation writes the full list through to the backing store and
// then notifies subscribers.
type Catalog struct {
	kv kv.Store

	mu      sync.Mutex
	types   []model.ClothingType
	loaded  bool
	subs    map[int]func([]model.ClothingType)
	nextSub int
}

// NewCatalog creates an unloaded catalog over s. Call Load before mutating.
func NewCatalog(s kv.Store) *Catalog {
	return &Catalog{
		kv:   s,
		subs: make(map[int]func([]model.ClothingType)),
	}
}

// Load reads the saved catalog, falling back to the defaults when nothing (or
// an empty list) is saved.
func (c *Catalog) Load(ctx context.Context) error {
	var saved []model.ClothingType
	if _, err := kv.GetJSON(ctx, c.kv, TypesKey, &saved); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("catalog_load").Inc()
		return fmt.Errorf("loading types: %w", err)
	}
	if len(saved) == 0 {
		saved = model.DefaultTypes()
	}

	c.mu.Lock()
	c.types = saved
	c.loaded = true
	c.mu.Unlock()

	c.notify()
	return nil
}

// Save writes the current catalog to the backing store.
func (c *Catalog) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return ErrNotLoaded
	}
	return c.persist(ctx, c.types)
}

// persist writes types. Callers hold mu.
func (c *Catalog) persist(ctx context.Context, types []model.ClothingType) error {
	if err := kv.SetJSON(ctx, c.kv, TypesKey, types); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("catalog_save").Inc()
		return fmt.Errorf("saving types: %w", err)
	}
	return nil
}

// List returns a copy of the current catalog.
func (c *Catalog) List() []model.ClothingType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneTypes(c.types)
}

// Subscribe registers fn to receive a copy of the catalog after every load and
// persisted mutation. The returned func removes the subscription.
func (c *Catalog) Subscribe(fn func([]model.ClothingType)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Add appends a type named name unless one with the same slug exists.
// A blank name is rejected with ErrEmptyName rather than stored as a type
// with an empty slug.
func (c *Catalog) Add(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	id := model.TypeSlug(name)

	return c.mutate(ctx, "add", func(types []model.ClothingType) ([]model.ClothingType, bool) {
		if indexOfType(types, id) >= 0 {
			return types, false
		}
		return append(types, model.ClothingType{ID: id, Name: name}), true
	})
}

// Remove deletes the type with the given id, if present.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	return c.mutate(ctx, "remove", func(types []model.ClothingType) ([]model.ClothingType, bool) {
		i := indexOfType(types, id)
		if i < 0 {
			return types, false
		}
		return append(types[:i], types[i+1:]...), true
	})
}

// Edit renames the type with the given id. The id itself never changes.
// A blank name is rejected with ErrEmptyName.
func (c *Catalog) Edit(ctx context.Context, id, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}

	return c.mutate(ctx, "edit", func(types []model.ClothingType) ([]model.ClothingType, bool) {
		i := indexOfType(types, id)
		if i < 0 {
			return types, false
		}
		types[i].Name = name
		return types, true
	})
}

// Reset replaces the catalog with the built-in defaults.
func (c *Catalog) Reset(ctx context.Context) error {
	return c.mutate(ctx, "reset", func([]model.ClothingType) ([]model.ClothingType, bool) {
		return model.DefaultTypes(), true
	})
}

// mutate applies fn to a copy of the catalog and, if fn reports a change,
// persists the result before making it current. A failed write leaves the
// in-memory catalog as it was.
func (c *Catalog) mutate(ctx context.Context, op string, fn func([]model.ClothingType) ([]model.ClothingType, bool)) error {
	c.mu.Lock()

	if !c.loaded {
		c.mu.Unlock()
		return ErrNotLoaded
	}

	next, changed := fn(cloneTypes(c.types))
	if !changed {
		c.mu.Unlock()
		return nil
	}

	if err := c.persist(ctx, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.types = next
	c.mu.Unlock()

	metrics.CatalogMutationsTotal.WithLabelValues(op).Inc()
	c.notify()
	return nil
}

func (c *Catalog) notify() {
	c.mu.Lock()
	fns := make([]func([]model.ClothingType), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	snapshot := c.types
	c.mu.Unlock()

	for _, fn := range fns {
		fn(cloneTypes(snapshot))
	}
}

func indexOfType(types []model.ClothingType, id string) int {
	for i := range types {
		if types[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTypes(types []model.ClothingType) []model.ClothingType {
	out := make([]model.ClothingType, len(types))
	copy(out, types)
	return out
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/pressing/internal/kv"
	"github.com/erazemk/pressing/internal/metrics"
	"github.com/erazemk/pressing/internal/model"
)

// ItemsKey is the backing-store key holding the full item collection.
const ItemsKey = "pressing_items"

// DefaultPromiseDays is how far after intake a delivery is promised when the
// caller does not say.
const DefaultPromiseDays = 7

var (
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Items is the repository for clothing records. Every call reads the whole
// collection from the backing store; mutations write it back whole.
type Items struct {
	KV          kv.Store
	PromiseDays int
	Now         func() time.Time
	NewID       func() string

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewItems creates a repository over s with the default promise window.
func NewItems(s kv.Store) *Items {
	return &Items{
		KV:          s,
		PromiseDays: DefaultPromiseDays,
		Now:         time.Now,
		NewID:       uuid.NewString,
	}
}

func (s *Items) now() time.Time {
	return s.Now().UTC()
}

// load reads the collection. An absent key is an empty collection. The
// result is freshly decoded, so callers may modify it freely.
func (s *Items) load(ctx context.Context) ([]model.ClothingItem, error) {
	var items []model.ClothingItem
	if _, err := kv.GetJSON(ctx, s.KV, ItemsKey, &items); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("load").Inc()
		return nil, fmt.Errorf("loading items: %w", err)
	}
	if items == nil {
		items = []model.ClothingItem{}
	}
	return items, nil
}

func (s *Items) save(ctx context.Context, items []model.ClothingItem) error {
	if err := kv.SetJSON(ctx, s.KV, ItemsKey, items); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("save").Inc()
		return fmt.Errorf("saving items: %w", err)
	}
	return nil
}

// Create appends a new record built from in and returns it. The record always
// starts as received; owner is upper-cased, price and dates are coerced.
func (s *Items) Create(ctx context.Context, in model.ItemInput) (*model.ClothingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	received := parseDate(in.DateReceived, now)
	promised := parseDate(in.DatePromised, now.AddDate(0, 0, s.PromiseDays))

	item := model.ClothingItem{
		ID:           s.NewID(),
		Items:        model.CloneLines(in.Items),
		Description:  in.Description,
		Owner:        strings.ToUpper(in.Owner),
		Price:        float64(in.Price.Sanitize()),
		Status:       model.StatusReceived,
		DateReceived: received,
		DatePromised: &promised,
		Notes:        optional(in.Notes),
		Contact:      optional(in.Contact),
		Image:        optional(in.Image),
	}
	if in.AmountGiven != nil {
		given := float64(in.AmountGiven.Sanitize())
		item.AmountGiven = &given
	}

	if err := s.save(ctx, append(items, item)); err != nil {
		return nil, err
	}

	metrics.ItemsCreatedTotal.Inc()
	return &item, nil
}

// All returns the whole collection in insertion order.
func (s *Items) All(ctx context.Context) ([]model.ClothingItem, error) {
	return s.load(ctx)
}

// Get returns the record with the given id, or nil, nil if there is none.
func (s *Items) Get(ctx context.Context, id string) (*model.ClothingItem, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(items, id); i >= 0 {
		return &items[i], nil
	}
	return nil, nil
}

// ListByOwner returns the records of one owner, matched case-insensitively.
func (s *Items) ListByOwner(ctx context.Context, owner string) ([]model.ClothingItem, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	owner = strings.ToUpper(owner)
	out := []model.ClothingItem{}
	for _, item := range items {
		if item.Owner == owner {
			out = append(out, item)
		}
	}
	return out, nil
}

// PendingOlderThan returns every record that is not in the cleaned state and
// was received more than days ago. Delivered records are included.
func (s *Items) PendingOlderThan(ctx context.Context, days int) ([]model.ClothingItem, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().AddDate(0, 0, -days)
	out := []model.ClothingItem{}
	for _, item := range items {
		if item.Status != model.StatusCleaned && item.DateReceived.Before(cutoff) {
			out = append(out, item)
		}
	}
	return out, nil
}

// WithDeadlines returns the records that have a promised date, restricted to
// owner when it is non-empty, ordered by promised date.
func (s *Items) WithDeadlines(ctx context.Context, owner string) ([]model.DeadlineItem, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	owner = strings.ToUpper(owner)
	out := []model.DeadlineItem{}
	for _, item := range items {
		if item.DatePromised == nil {
			continue
		}
		if owner != "" && item.Owner != owner {
			continue
		}
		out = append(out, model.DeadlineItem{
			ClothingItem: item,
			DaysLeft:     daysBetween(now, *item.DatePromised),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DatePromised.Before(*out[j].DatePromised)
	})
	return out, nil
}

// UpdateStatus moves a record to status and stamps the matching date. It
// returns nil, nil if no record has the given id.
func (s *Items) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.ClothingItem, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(items, id)
	if i < 0 {
		return nil, nil
	}

	item := &items[i]
	if !model.CanTransition(item.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, item.Status, status)
	}

	now := s.now()
	item.Status = status
	switch status {
	case model.StatusCleaned:
		item.DateCleaned = &now
	case model.StatusDelivered:
		item.DateDelivered = &now
	}

	if err := s.save(ctx, items); err != nil {
		return nil, err
	}

	metrics.StatusChangesTotal.WithLabelValues(string(status)).Inc()
	return item, nil
}

// Stats computes the aggregate summary in one pass. Revenue counts delivered
// records only.
func (s *Items) Stats(ctx context.Context) (*model.Stats, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.Stats{TotalItems: len(items)}
	for _, item := range items {
		switch item.Status {
		case model.StatusReceived:
			stats.PendingItems++
		case model.StatusCleaned:
			stats.CleanedItems++
		case model.StatusDelivered:
			stats.DeliveredItems++
			stats.TotalRevenue += item.Price
		}
	}
	return stats, nil
}

// Export serializes the whole collection into a versioned JSON envelope.
func (s *Items) Export(ctx context.Context) ([]byte, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(model.Envelope{
		Version:    model.ExportVersion,
		ExportedAt: s.now(),
		Items:      items,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}

	metrics.ExportsTotal.Inc()
	return data, nil
}

// Import replaces the whole collection with the records of an exported
// envelope. Nothing is written unless the envelope and every record are valid;
// failures are reported as *ImportError.
func (s *Items) Import(ctx context.Context, data []byte) error {
	items, err := decodeEnvelope(data)
	if err != nil {
		metrics.ImportsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, items); err != nil {
		metrics.ImportsTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.ImportsTotal.WithLabelValues("ok").Inc()
	return nil
}

// Clear removes every record by deleting the collection key. The next read
// sees an empty collection.
func (s *Items) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.KV.Delete(ctx, ItemsKey); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("delete").Inc()
		return fmt.Errorf("clearing items: %w", err)
	}

	metrics.ClearsTotal.Inc()
	return nil
}

func indexOf(items []model.ClothingItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// daysBetween returns the whole days from now until t, truncated toward zero.
func daysBetween(now, t time.Time) int {
	return int(t.Sub(now) / (24 * time.Hour))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDate parses a caller-supplied timestamp, falling back when s is empty
// or unparsable.
func parseDate(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/pressing/internal/model"
)

// ErrInvalidImport is matched by every *ImportError.
var ErrInvalidImport = errors.New("invalid import")

// RecordError describes one imported record that failed validation.
type RecordError struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// ImportError reports why an import was rejected. Records is empty when the
// envelope itself is malformed.
type ImportError struct {
	Reason  string        `json:"reason"`
	Records []RecordError `json:"records,omitempty"`
}

func (e *ImportError) Error() string {
	if len(e.Records) == 0 {
		return "invalid import: " + e.Reason
	}
	parts := make([]string, 0, len(e.Records))
	for _, r := range e.Records {
		if r.ID != "" {
			parts = append(parts, fmt.Sprintf("#%d (%s): %s", r.Index, r.ID, r.Reason))
		} else {
			parts = append(parts, fmt.Sprintf("#%d: %s", r.Index, r.Reason))
		}
	}
	return fmt.Sprintf("invalid import: %s: %s", e.Reason, strings.Join(parts, "; "))
}

func (e *ImportError) Unwrap() error {
	return ErrInvalidImport
}

// decodeEnvelope parses an exported envelope and validates every record.
func decodeEnvelope(data []byte) ([]model.ClothingItem, error) {
	var envelope struct {
		Version *int            `json:"version"`
		Items   json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &ImportError{Reason: fmt.Sprintf("malformed envelope: %v", err)}
	}

	if envelope.Version != nil && *envelope.Version > model.ExportVersion {
		return nil, &ImportError{Reason: fmt.Sprintf("unsupported version %d", *envelope.Version)}
	}

	raw := bytes.TrimSpace(envelope.Items)
	if len(raw) == 0 {
		return nil, &ImportError{Reason: `missing "items" field`}
	}
	if raw[0] != '[' {
		return nil, &ImportError{Reason: `"items" is not a list`}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, &ImportError{Reason: fmt.Sprintf(`"items" is not a list: %v`, err)}
	}

	items := make([]model.ClothingItem, 0, len(elems))
	var bad []RecordError
	seen := make(map[string]bool, len(elems))

	for i, elem := range elems {
		var rec importRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			bad = append(bad, RecordError{Index: i, Reason: fmt.Sprintf("malformed record: %v", err)})
			continue
		}

		item, reason := rec.toItem()
		if reason == "" {
			reason = validateRecord(item, seen)
		}
		if reason != "" {
			bad = append(bad, RecordError{Index: i, ID: item.ID, Reason: reason})
			continue
		}
		seen[item.ID] = true

		item.Owner = strings.ToUpper(item.Owner)
		if item.Items == nil {
			item.Items = []model.GarmentLine{}
		}
		items = append(items, item)
	}

	if len(bad) > 0 {
		return nil, &ImportError{
			Reason:  fmt.Sprintf("%d of %d records failed validation", len(bad), len(elems)),
			Records: bad,
		}
	}
	return items, nil
}

// importRecord decodes an imported record with the same leniency Create
// applies: prices may be numeric strings and dates may use any accepted
// layout. Its fields shadow the embedded record's.
type importRecord struct {
	model.ClothingItem
	Price         json.RawMessage `json:"price"`
	DateReceived  *string         `json:"date_received"`
	DateCleaned   *string         `json:"date_cleaned"`
	DateDelivered *string         `json:"date_delivered"`
	DatePromised  *string         `json:"date_promised"`
	AmountGiven   *model.Amount   `json:"amountGiven"`
}

// toItem converts r to a record, or returns why a field could not be read.
func (r importRecord) toItem() (model.ClothingItem, string) {
	item := r.ClothingItem

	price, reason := importPrice(r.Price)
	if reason != "" {
		return item, reason
	}
	item.Price = price

	if r.DateReceived == nil || strings.TrimSpace(*r.DateReceived) == "" {
		return item, "missing date_received"
	}
	received := parseDate(*r.DateReceived, time.Time{})
	if received.IsZero() {
		return item, fmt.Sprintf("invalid date_received %q", *r.DateReceived)
	}
	item.DateReceived = received

	for _, d := range []struct {
		name string
		in   *string
		out  **time.Time
	}{
		{"date_cleaned", r.DateCleaned, &item.DateCleaned},
		{"date_delivered", r.DateDelivered, &item.DateDelivered},
		{"date_promised", r.DatePromised, &item.DatePromised},
	} {
		*d.out = nil
		if d.in == nil || strings.TrimSpace(*d.in) == "" {
			continue
		}
		t := parseDate(*d.in, time.Time{})
		if t.IsZero() {
			return item, fmt.Sprintf("invalid %s %q", d.name, *d.in)
		}
		*d.out = &t
	}

	item.AmountGiven = nil
	if r.AmountGiven != nil {
		v := float64(*r.AmountGiven)
		item.AmountGiven = &v
	}
	return item, ""
}

// importPrice reads a price given as a JSON number or numeric string.
// Explicitly negative or NaN prices are rejected; other unreadable values
// coerce to 0 as they do on create.
func importPrice(raw json.RawMessage) (float64, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, ""
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, "invalid price"
		}
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && (f < 0 || math.IsNaN(f)) {
		return 0, "negative price"
	}
	return float64(model.ParseAmount(s)), ""
}

// validateRecord returns why item breaks a record invariant, or "".
func validateRecord(item model.ClothingItem, seen map[string]bool) string {
	switch {
	case item.ID == "":
		return "missing id"
	case seen[item.ID]:
		return "duplicate id"
	case !item.Status.Valid():
		return fmt.Sprintf("unknown status %q", item.Status)
	case item.DateReceived.IsZero():
		return "missing date_received"
	case item.Price < 0 || math.IsNaN(item.Price):
		return "negative price"
	}
	return ""
}

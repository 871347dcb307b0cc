package model

import (
	"time"
)

// ClothingItem is one garment-processing order.
type ClothingItem struct {
	ID            string        `json:"id"`
	Items         []GarmentLine `json:"items"`
	Description   string        `json:"description"`
	Owner         string        `json:"owner"`
	Price         float64       `json:"price"`
	Status        Status        `json:"status"`
	DateReceived  time.Time     `json:"date_received"`
	DateCleaned   *time.Time    `json:"date_cleaned"`
	DateDelivered *time.Time    `json:"date_delivered"`
	DatePromised  *time.Time    `json:"date_promised"`
	Notes         *string       `json:"notes"`
	Contact       *string       `json:"contact"`
	Image         *string       `json:"image,omitempty"`
	AmountGiven   *float64      `json:"amountGiven,omitempty"`
}

// GarmentLine is one line of an order: a garment type and how many of it.
type GarmentLine struct {
	Type  string `json:"type"`
	Qty   int    `json:"qty"`
	Notes string `json:"notes,omitempty"`
}

// CloneLines copies a garment line list. A nil list becomes an empty one.
func CloneLines(lines []GarmentLine) []GarmentLine {
	out := make([]GarmentLine, len(lines))
	copy(out, lines)
	return out
}

// ItemInput carries the caller-supplied fields of a new record. Everything is
// optional; dates are free-form strings that get coerced on create.
type ItemInput struct {
	Items        []GarmentLine `json:"items"`
	Description  string        `json:"description"`
	Owner        string        `json:"owner"`
	Price        Amount        `json:"price"`
	DateReceived string        `json:"date_received"`
	DatePromised string        `json:"date_promised"`
	Notes        string        `json:"notes"`
	Contact      string        `json:"contact"`
	Image        string        `json:"image"`
	AmountGiven  *Amount       `json:"amountGiven"`
}

// DeadlineItem is a record with a promised date, annotated with the number of
// whole days left until that date. Negative means overdue.
type DeadlineItem struct {
	ClothingItem
	DaysLeft int `json:"days_left"`
}

// Stats is the aggregate summary of the whole collection.
type Stats struct {
	TotalItems     int     `json:"total_items"`
	CleanedItems   int     `json:"cleaned_items"`
	DeliveredItems int     `json:"delivered_items"`
	PendingItems   int     `json:"pending_items"`
	TotalRevenue   float64 `json:"total_revenue"`
}

// ExportVersion is the envelope version written by export.
const ExportVersion = 1

// Envelope is the versioned wrapper used for export and import.
type Envelope struct {
	Version    int            `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Items      []ClothingItem `json:"items"`
}

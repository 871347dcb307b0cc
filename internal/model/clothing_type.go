package model

import (
	"regexp"
	"strings"
)

// ClothingType is one garment category label in the catalog.
type ClothingType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var whitespace = regexp.MustCompile(`\s+`)

// TypeSlug derives a catalog id from a display name: lower-cased, with every
// whitespace run replaced by a hyphen.
func TypeSlug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "-")
}

// DefaultTypes returns a fresh copy of the built-in catalog.
func DefaultTypes() []ClothingType {
	return []ClothingType{
		{ID: "chemise", Name: "Chemise"},
		{ID: "pantalon", Name: "Pantalon"},
		{ID: "costume", Name: "Costume"},
	}
}

// StorageSuggestion maps description keywords to a storage hint.
type StorageSuggestion struct {
	Keywords   []string `json:"keywords" yaml:"keywords"`
	Suggestion string   `json:"suggestion" yaml:"suggestion"`
}

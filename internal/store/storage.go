package store

import (
	"context"
	"errors"
	"strings"

	"github.com/erazemk/pressing/internal/model"
)

// DefaultStorageSuggestion is used when no suggestions are configured.
const DefaultStorageSuggestion = "Stockage par défaut"

var ErrNotCleaned = errors.New("item not cleaned yet")

// Suggester proposes where to store a cleaned garment, based on keywords in
// its description.
type Suggester struct {
	Items       *Items
	Suggestions []model.StorageSuggestion
}

// Suggest returns the storage hint for the record with the given id. The
// bool is false when no record has that id. Only cleaned records get a hint.
func (s *Suggester) Suggest(ctx context.Context, id string) (string, bool, error) {
	item, err := s.Items.Get(ctx, id)
	if err != nil {
		return "", false, err
	}
	if item == nil {
		return "", false, nil
	}
	if item.Status != model.StatusCleaned {
		return "", true, ErrNotCleaned
	}
	return s.match(item.Description), true, nil
}

// match returns the first suggestion with a keyword contained in description,
// else the last configured suggestion, else the built-in default.
func (s *Suggester) match(description string) string {
	desc := strings.ToLower(description)
	for _, sug := range s.Suggestions {
		for _, kw := range sug.Keywords {
			kw = strings.ToLower(kw)
			if kw != "" && strings.Contains(desc, kw) {
				return sug.Suggestion
			}
		}
	}
	if len(s.Suggestions) > 0 {
		return s.Suggestions[len(s.Suggestions)-1].Suggestion
	}
	return DefaultStorageSuggestion
}

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/pressing/internal/store"
)

// maxBodyBytes bounds request bodies. Imports carry embedded photos, so this
// is generous.
const maxBodyBytes = 64 << 20

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(target)
}

// storeError maps a store error to a response. Unexpected errors are logged
// and reported as 500 with msg.
func storeError(w http.ResponseWriter, err error, msg string) {
	var importErr *store.ImportError
	switch {
	case errors.As(err, &importErr):
		jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error":   importErr.Error(),
			"records": importErr.Records,
		})
	case errors.Is(err, store.ErrInvalidStatus), errors.Is(err, store.ErrEmptyName):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrInvalidTransition), errors.Is(err, store.ErrNotCleaned):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotLoaded):
		jsonError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error(msg, "error", err)
		jsonError(w, http.StatusInternalServerError, msg)
	}
}

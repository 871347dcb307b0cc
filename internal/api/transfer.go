package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/pressing/internal/store"
)

// TransferHandler handles stats, export and import.
type TransferHandler struct {
	Items *store.Items

	// MaxBytes bounds an import body. Zero means maxBodyBytes.
	MaxBytes int64
}

// Stats handles GET /api/stats.
func (h *TransferHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Items.Stats(r.Context())
	if err != nil {
		storeError(w, err, "failed to compute stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Export handles GET /api/export. The envelope is sent as a file download.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.Items.Export(r.Context())
	if err != nil {
		storeError(w, err, "failed to export items")
		return
	}

	name := fmt.Sprintf("pressing-export-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import handles POST /api/import. The body is an exported envelope; it
// replaces the whole collection or, if anything is invalid, nothing.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	limit := h.MaxBytes
	if limit <= 0 {
		limit = maxBodyBytes
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, "import too large")
			return
		}
		jsonError(w, http.StatusBadRequest, "failed to read import body")
		return
	}

	if err := h.Items.Import(r.Context(), data); err != nil {
		storeError(w, err, "failed to import items")
		return
	}

	stats, err := h.Items.Stats(r.Context())
	if err != nil {
		storeError(w, err, "failed to compute stats")
		return
	}

	slog.Info("items imported", "count", stats.TotalItems)
	jsonResponse(w, http.StatusOK, map[string]any{"message": "import complete", "count": stats.TotalItems})
}

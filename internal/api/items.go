package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/pressing/internal/imaging"
	"github.com/erazemk/pressing/internal/model"
	"github.com/erazemk/pressing/internal/store"
)

// ItemsHandler handles clothing record endpoints.
type ItemsHandler struct {
	Items     *store.Items
	Suggester *store.Suggester
}

type updateStatusRequest struct {
	Status model.Status `json:"status"`
}

// List handles GET /api/items. With ?owner= only that owner's records are
// returned.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []model.ClothingItem
		err   error
	)
	if owner := strings.TrimSpace(r.URL.Query().Get("owner")); owner != "" {
		items, err = h.Items.ListByOwner(r.Context(), owner)
	} else {
		items, err = h.Items.All(r.Context())
	}
	if err != nil {
		storeError(w, err, "failed to list items")
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if in.Image != "" {
		image, err := imaging.NormalizeDataURI(in.Image)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.Image = image
	}

	item, err := h.Items.Create(r.Context(), in)
	if err != nil {
		storeError(w, err, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Items.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// UpdateStatus handles PUT /api/items/{id}/status.
func (h *ItemsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Items.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		storeError(w, err, "failed to update status")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Storage handles GET /api/items/{id}/storage.
func (h *ItemsHandler) Storage(w http.ResponseWriter, r *http.Request) {
	suggestion, found, err := h.Suggester.Suggest(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err, "failed to suggest storage")
		return
	}
	if !found {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"suggestion": suggestion})
}

// Pending handles GET /api/items/pending?days=N. days defaults to 7.
func (h *ItemsHandler) Pending(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = n
	}

	items, err := h.Items.PendingOlderThan(r.Context(), days)
	if err != nil {
		storeError(w, err, "failed to list pending items")
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Deadlines handles GET /api/items/deadlines.
func (h *ItemsHandler) Deadlines(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.WithDeadlines(r.Context(), strings.TrimSpace(r.URL.Query().Get("owner")))
	if err != nil {
		storeError(w, err, "failed to list deadlines")
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Clear handles DELETE /api/items.
func (h *ItemsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Items.Clear(r.Context()); err != nil {
		storeError(w, err, "failed to clear items")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "all items deleted"})
}

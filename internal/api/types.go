package api

import (
	"net/http"

	"github.com/erazemk/pressing/internal/store"
)

// TypesHandler handles the garment type catalog.
type TypesHandler struct {
	Catalog *store.Catalog
}

type typeRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/types.
func (h *TypesHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Catalog.List())
}

// Add handles POST /api/types. Adding a name whose slug already exists is a
// no-op.
func (h *TypesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req typeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Catalog.Add(r.Context(), req.Name); err != nil {
		storeError(w, err, "failed to add type")
		return
	}
	jsonResponse(w, http.StatusCreated, h.Catalog.List())
}

// Edit handles PUT /api/types/{id}.
func (h *TypesHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req typeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Catalog.Edit(r.Context(), r.PathValue("id"), req.Name); err != nil {
		storeError(w, err, "failed to edit type")
		return
	}
	jsonResponse(w, http.StatusOK, h.Catalog.List())
}

// Remove handles DELETE /api/types/{id}.
func (h *TypesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Remove(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, err, "failed to remove type")
		return
	}
	jsonResponse(w, http.StatusOK, h.Catalog.List())
}

// Reset handles POST /api/types/reset.
func (h *TypesHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Reset(r.Context()); err != nil {
		storeError(w, err, "failed to reset types")
		return
	}
	jsonResponse(w, http.StatusOK, h.Catalog.List())
}

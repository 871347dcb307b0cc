package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/pressing/internal/store"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(items *store.Items, catalog *store.Catalog, suggester *store.Suggester) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{Items: items, Suggester: suggester}
	transferHandler := &TransferHandler{Items: items}
	typesHandler := &TypesHandler{Catalog: catalog}

	// Items.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("DELETE /api/items", itemsHandler.Clear)
	mux.HandleFunc("GET /api/items/pending", itemsHandler.Pending)
	mux.HandleFunc("GET /api/items/deadlines", itemsHandler.Deadlines)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("PUT /api/items/{id}/status", itemsHandler.UpdateStatus)
	mux.HandleFunc("GET /api/items/{id}/storage", itemsHandler.Storage)

	// Aggregates and backups.
	mux.HandleFunc("GET /api/stats", transferHandler.Stats)
	mux.HandleFunc("GET /api/export", transferHandler.Export)
	mux.HandleFunc("POST /api/import", transferHandler.Import)

	// Garment type catalog.
	mux.HandleFunc("GET /api/types", typesHandler.List)
	mux.HandleFunc("POST /api/types", typesHandler.Add)
	mux.HandleFunc("POST /api/types/reset", typesHandler.Reset)
	mux.HandleFunc("PUT /api/types/{id}", typesHandler.Edit)
	mux.HandleFunc("DELETE /api/types/{id}", typesHandler.Remove)

	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

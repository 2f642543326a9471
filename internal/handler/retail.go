package handler

import (
	"net/http"
	"strings"

	"santachat/internal/retail"
)

// RetailHandler serves the parent view's on-demand retail lookups.
type RetailHandler struct {
	cache *retail.Cache
}

func NewRetailHandler(cache *retail.Cache) *RetailHandler {
	return &RetailHandler{cache: cache}
}

func (h *RetailHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	item := strings.TrimSpace(r.URL.Query().Get("item"))
	if item == "" {
		http.Error(w, "item is required", http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"item":    item,
		"results": h.cache.EnsureLoaded(r.Context(), item),
	})
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"santachat/internal/media"
)

// MediaHandler serves generated assets (avatars, speech clips) by key.
type MediaHandler struct {
	store media.Store
}

func NewMediaHandler(store media.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

func (h *MediaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.PathValue("key"))
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}
	obj, err := h.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	_, _ = w.Write(obj.Data)
}

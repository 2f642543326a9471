package handler

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"santachat/internal/domain"
	"santachat/internal/session"
)

// WishHandler serves the parent view's wish list operations.
type WishHandler struct {
	store *session.Store
	log   *logrus.Logger
}

func NewWishHandler(store *session.Store, log *logrus.Logger) *WishHandler {
	return &WishHandler{store: store, log: log}
}

func (h *WishHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"wishes": h.store.Wishes(),
	})
}

// HandleUpdateStatus sets the status of one wish. An unknown id is a
// silent no-op, not an error.
func (h *WishHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	status, ok := domain.ParseWishStatus(in.Status)
	if !ok {
		http.Error(w, "unknown status: "+in.Status, http.StatusBadRequest)
		return
	}
	h.store.UpdateWishStatus(id, status)
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"wishes": h.store.Wishes(),
	})
}

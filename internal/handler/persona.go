package handler

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"santachat/internal/ai"
	"santachat/internal/chat"
	"santachat/internal/session"
)

// PersonaHandler serves persona selection and avatar lifecycle.
type PersonaHandler struct {
	store *session.Store
	ctrl  *chat.Controller
	log   *logrus.Logger
}

func NewPersonaHandler(store *session.Store, ctrl *chat.Controller, log *logrus.Logger) *PersonaHandler {
	return &PersonaHandler{store: store, ctrl: ctrl, log: log}
}

func (h *PersonaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"persona": h.store.Persona(),
		"phase":   h.ctrl.Phase(),
	})
}

func (h *PersonaHandler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"styles": ai.Styles(),
	})
}

// HandleSetStyle confirms a style selection and generates the avatar.
// On a failed generation the session stays unconfigured and the
// response simply reports that.
func (h *PersonaHandler) HandleSetStyle(w http.ResponseWriter, r *http.Request) {
	var in struct {
		StyleID string `json:"styleId"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.StyleID) == "" {
		http.Error(w, "styleId is required", http.StatusBadRequest)
		return
	}
	configured := h.ctrl.ConfigurePersona(r.Context(), in.StyleID)
	respondJSON(w, http.StatusOK, map[string]any{
		"configured": configured,
		"persona":    h.store.Persona(),
		"phase":      h.ctrl.Phase(),
	})
}

func (h *PersonaHandler) HandleClearAvatar(w http.ResponseWriter, r *http.Request) {
	h.ctrl.ResetPersona()
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"phase": h.ctrl.Phase(),
	})
}

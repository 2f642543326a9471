package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"santachat/internal/domain"
)

// AuthHandler is the demo's non-functional login stand-in: it accepts
// any credentials and only validates the requested role. There is no
// real verification.
type AuthHandler struct {
	log *logrus.Logger
}

func NewAuthHandler(log *logrus.Logger) *AuthHandler {
	return &AuthHandler{log: log}
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Role     string `json:"role"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		http.Error(w, "unknown role: "+in.Role, http.StatusBadRequest)
		return
	}
	h.log.WithField("role", role).Info("demo login")
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"role": role,
	})
}

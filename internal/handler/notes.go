package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"santachat/internal/domain"
	"santachat/internal/session"
)

// NoteHandler serves the parent and teacher views' note operations.
type NoteHandler struct {
	store *session.Store
	log   *logrus.Logger
}

func NewNoteHandler(store *session.Store, log *logrus.Logger) *NoteHandler {
	return &NoteHandler{store: store, log: log}
}

func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"notes": h.store.Notes(),
	})
}

func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Author  string `json:"author"`
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}
	author, ok := domain.ParseRole(in.Author)
	if !ok {
		http.Error(w, "unknown author role: "+in.Author, http.StatusBadRequest)
		return
	}
	noteType, ok := domain.ParseNoteType(in.Type)
	if !ok {
		http.Error(w, "unknown note type: "+in.Type, http.StatusBadRequest)
		return
	}

	note := domain.Note{
		ID:        uuid.NewString(),
		Author:    author,
		Content:   content,
		Type:      noteType,
		Timestamp: time.Now().UnixMilli(),
	}
	h.store.AddNote(note)
	h.log.WithFields(logrus.Fields{"author": author, "type": noteType}).Info("note added")
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"note": note,
	})
}

// HandleDelete removes one note. An unknown id is a silent no-op.
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	h.store.DeleteNote(id)
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"notes": h.store.Notes(),
	})
}

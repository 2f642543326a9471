package server

import (
	"net/http"

	"santachat/internal/handler"
	"santachat/internal/metrics"
	"santachat/internal/middleware"
)

func NewMux(
	authHandler *handler.AuthHandler,
	wishHandler *handler.WishHandler,
	noteHandler *handler.NoteHandler,
	personaHandler *handler.PersonaHandler,
	retailHandler *handler.RetailHandler,
	chatWSHandler *handler.ChatWSHandler,
	mediaHandler *handler.MediaHandler,
) http.Handler {
	mux := http.NewServeMux()

	// API – auth stand-in
	mux.HandleFunc("POST /api/login", authHandler.HandleLogin)

	// API – wishes
	mux.HandleFunc("GET /api/wishes", wishHandler.HandleList)
	mux.HandleFunc("PUT /api/wishes/{id}/status", wishHandler.HandleUpdateStatus)

	// API – notes
	mux.HandleFunc("GET /api/notes", noteHandler.HandleList)
	mux.HandleFunc("POST /api/notes", noteHandler.HandleCreate)
	mux.HandleFunc("DELETE /api/notes/{id}", noteHandler.HandleDelete)

	// API – persona
	mux.HandleFunc("GET /api/persona", personaHandler.HandleGet)
	mux.HandleFunc("GET /api/styles", personaHandler.HandleStyles)
	mux.HandleFunc("POST /api/persona/style", personaHandler.HandleSetStyle)
	mux.HandleFunc("DELETE /api/persona/avatar", personaHandler.HandleClearAvatar)

	// API – retail lookups
	mux.HandleFunc("GET /api/retail", retailHandler.HandleLookup)

	// Chat session
	mux.HandleFunc("GET /ws/chat", chatWSHandler.HandleChatWS)

	// Generated assets
	mux.HandleFunc("GET /media/{key...}", mediaHandler.HandleGet)

	// Operational
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return middleware.CORS(mux)
}

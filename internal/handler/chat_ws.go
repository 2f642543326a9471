package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"santachat/internal/chat"
	"santachat/internal/domain"
	"santachat/internal/session"
)

const (
	chatWSWriteWait = 10 * time.Second
	chatWSPongWait  = 60 * time.Second
	chatWSPingEvery = (chatWSPongWait * 9) / 10
)

var chatWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type chatWSInbound struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	StyleID   string `json:"styleId,omitempty"`
	MessageID string `json:"messageId,omitempty"`
}

type chatWSOutbound struct {
	Type      string               `json:"type"`
	Message   *domain.ChatMessage  `json:"message,omitempty"`
	Wish      *domain.Wish         `json:"wish,omitempty"`
	Thinking  bool                 `json:"thinking,omitempty"`
	Phase     chat.Phase           `json:"phase,omitempty"`
	MessageID string               `json:"messageId,omitempty"`
	AudioURL  string               `json:"audioUrl,omitempty"`
	History   []domain.ChatMessage `json:"history,omitempty"`
	Wishes    []domain.Wish        `json:"wishes,omitempty"`
	Notes     []domain.Note        `json:"notes,omitempty"`
	Persona   any                  `json:"persona,omitempty"`
	Code      string               `json:"code,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// ChatWSHandler drives the chat view over a websocket: inbound user
// actions, outbound controller events.
type ChatWSHandler struct {
	ctrl  *chat.Controller
	store *session.Store
	log   *logrus.Logger
}

func NewChatWSHandler(ctrl *chat.Controller, store *session.Store, log *logrus.Logger) *ChatWSHandler {
	return &ChatWSHandler{ctrl: ctrl, store: store, log: log}
}

func (h *ChatWSHandler) HandleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := chatWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(chatWSPongWait)); err != nil {
		h.log.WithError(err).Warn("chat ws set read deadline failed")
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatWSPongWait))
	})

	writeCh := make(chan chatWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(chatWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Subscriptions are registered before the snapshot so a mutation
	// landing between the two still reaches the view.
	changes := h.store.Subscribe(ctx)
	events := h.ctrl.Subscribe(ctx)

	pushChatWS(writeCh, chatWSOutbound{
		Type:     "snapshot",
		History:  h.ctrl.Messages(),
		Persona:  h.store.Persona(),
		Phase:    h.ctrl.Phase(),
		Thinking: h.ctrl.Thinking(),
	})

	// Store mutations made from the dashboard API are pushed to the
	// connected view as refresh frames.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-changes:
				if !ok {
					return
				}
				switch change.Kind {
				case session.ChangeWishes:
					pushChatWS(writeCh, chatWSOutbound{Type: "wishes", Wishes: h.store.Wishes()})
				case session.ChangeNotes:
					pushChatWS(writeCh, chatWSOutbound{Type: "notes", Notes: h.store.Notes()})
				case session.ChangePersona:
					pushChatWS(writeCh, chatWSOutbound{
						Type:    "persona",
						Persona: h.store.Persona(),
						Phase:   h.ctrl.Phase(),
					})
				}
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				pushChatWS(writeCh, chatWSOutbound{
					Type:      string(evt.Kind),
					Message:   evt.Message,
					Wish:      evt.Wish,
					Thinking:  evt.Thinking,
					Phase:     evt.Phase,
					MessageID: evt.MessageID,
					AudioURL:  evt.AudioURL,
				})
			}
		}
	}()

	for {
		var in chatWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		msgType := strings.ToLower(strings.TrimSpace(in.Type))
		switch msgType {
		case "ping":
			pushChatWS(writeCh, chatWSOutbound{Type: "pong"})
		case "send":
			text := strings.TrimSpace(in.Text)
			if text == "" {
				pushChatWS(writeCh, chatWSOutbound{
					Type:  "error",
					Code:  "invalid_argument",
					Error: "text is required",
				})
				continue
			}
			// The reply arrives as events; the read loop stays free for
			// other session actions while the model is thinking.
			go h.ctrl.SendMessage(ctx, text)
		case "configure":
			go h.ctrl.ConfigurePersona(ctx, in.StyleID)
		case "reset":
			h.ctrl.ResetPersona()
		case "speak":
			go h.ctrl.Speak(ctx, strings.TrimSpace(in.MessageID))
		default:
			pushChatWS(writeCh, chatWSOutbound{
				Type:  "error",
				Code:  "invalid_argument",
				Error: "unsupported type: " + msgType,
			})
		}
	}
}

func pushChatWS(writeCh chan chatWSOutbound, out chatWSOutbound) {
	if writeCh == nil {
		return
	}
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}

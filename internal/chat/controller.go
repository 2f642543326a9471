// Package chat drives one conversation with the Santa persona: message
// history, persona configuration, and the per-turn fan-out to the
// generative gateway.
package chat

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"santachat/internal/ai"
	"santachat/internal/domain"
	"santachat/internal/media"
	"santachat/internal/metrics"
	"santachat/internal/session"
)

// Phase is the session's configuration state.
type Phase string

const (
	// PhaseUnconfigured means no avatar is set and the selection screen
	// is shown.
	PhaseUnconfigured Phase = "unconfigured"
	// PhaseGenerating means an avatar request is in flight.
	PhaseGenerating Phase = "generating"
	// PhaseActive means the session accepts messages.
	PhaseActive Phase = "active"
)

const (
	greetingText = "Ho ho ho! Hello there! I'm checking my list... how are you doing today?"
	// apologyText is the fixed in-persona fallback when the
	// conversational call fails outright.
	apologyText = "Ho ho ho! My magic receiver is having a hiccup. Can you say that again?"
	// snowyText is the fallback when the model answers with nothing.
	snowyText = "Ho ho ho! The signal from the North Pole is a bit snowy."
)

// EventKind identifies a controller event.
type EventKind string

const (
	EventMessage      EventKind = "message"
	EventWishDetected EventKind = "wish_detected"
	EventThinking     EventKind = "thinking"
	EventAudio        EventKind = "audio"
	EventPhase        EventKind = "phase"
)

// Event is pushed to subscribers as the session evolves.
type Event struct {
	Kind      EventKind           `json:"kind"`
	Message   *domain.ChatMessage `json:"message,omitempty"`
	Wish      *domain.Wish        `json:"wish,omitempty"`
	Thinking  bool                `json:"thinking,omitempty"`
	Phase     Phase               `json:"phase,omitempty"`
	MessageID string              `json:"messageId,omitempty"`
	AudioURL  string              `json:"audioUrl,omitempty"`
}

// Controller owns the chat history and the persona state machine. It
// exclusively appends to history; messages are never mutated or
// deleted. No gateway failure is fatal to the session.
type Controller struct {
	gw    ai.Gateway
	store *session.Store
	media media.Store
	log   *logrus.Logger
	now   func() time.Time

	mu       sync.Mutex
	messages []domain.ChatMessage
	phase    Phase
	// thinking counts outstanding conversational replies; the busy
	// state holds until every one of them has resolved.
	thinking int

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// NewController builds a controller for one session and seeds the
// opening greeting.
func NewController(gw ai.Gateway, store *session.Store, mediaStore media.Store, log *logrus.Logger) *Controller {
	c := &Controller{
		gw:    gw,
		store: store,
		media: mediaStore,
		log:   log,
		now:   time.Now,
		phase: PhaseUnconfigured,
		subs:  make(map[int]chan Event),
	}
	c.messages = []domain.ChatMessage{{
		ID:   uuid.NewString(),
		Role: domain.ChatModel,
		Text: greetingText,
	}}
	if store.Persona().Configured() {
		c.phase = PhaseActive
	}
	return c
}

// Phase returns the current configuration state.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Thinking reports whether any conversational reply is outstanding.
// Only the text-submission affordance is disabled while true.
func (c *Controller) Thinking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thinking > 0
}

// Messages returns a copy of the history, oldest first.
func (c *Controller) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// ConfigurePersona selects a style, generates its avatar and activates
// the session. On a failed or empty generation the session returns to
// the unconfigured state with no error surfaced beyond that.
func (c *Controller) ConfigurePersona(ctx context.Context, styleID string) bool {
	styleID = strings.TrimSpace(styleID)
	if styleID == "" {
		styleID = ai.StyleClassic
	}
	c.setPhase(PhaseGenerating)
	c.store.SetPersonaStyle(styleID)

	avatar, err := c.gw.GenerateAvatar(ctx, styleID)
	if err != nil || strings.TrimSpace(avatar) == "" {
		if err != nil {
			c.log.WithError(err).WithField("style", styleID).Warn("avatar generation failed")
		}
		c.setPhase(PhaseUnconfigured)
		return false
	}

	c.store.SetPersonaAvatar(c.storeAvatar(ctx, avatar))
	c.setPhase(PhaseActive)
	return true
}

// ResetPersona clears the avatar so the selection screen is shown
// again. History is kept.
func (c *Controller) ResetPersona() {
	c.store.ClearPersonaAvatar()
	c.setPhase(PhaseUnconfigured)
}

// SendMessage appends the user message and fans out two independent
// gateway calls: wish extraction on the raw text, and the
// conversational reply over the accumulated history. It blocks until
// the reply is appended and returns it; extraction and speech synthesis
// complete in the background. Empty input and inactive sessions are
// ignored.
func (c *Controller) SendMessage(ctx context.Context, text string) *domain.ChatMessage {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.phase != PhaseActive {
		c.mu.Unlock()
		return nil
	}
	history := make([]domain.ChatMessage, len(c.messages))
	copy(history, c.messages)
	userMsg := domain.ChatMessage{
		ID:   uuid.NewString(),
		Role: domain.ChatUser,
		Text: text,
	}
	c.messages = append(c.messages, userMsg)
	c.thinking++
	c.mu.Unlock()

	metrics.ChatTurns.Inc()
	c.emit(Event{Kind: EventMessage, Message: &userMsg})
	c.emit(Event{Kind: EventThinking, Thinking: true})

	persona := c.store.Persona()
	notes := c.store.Notes()

	// Wish extraction runs independently of the reply; a request
	// superseded by later user actions still runs to completion.
	go c.detectWish(context.WithoutCancel(ctx), text)

	reply, err := c.gw.Converse(ctx, history, text, notes, persona.StyleID)
	switch {
	case errors.Is(err, ai.ErrEmptyResponse):
		reply = snowyText
	case err != nil:
		c.log.WithError(err).Warn("converse failed, falling back to apology")
		reply = apologyText
	}

	modelMsg := domain.ChatMessage{
		ID:   uuid.NewString(),
		Role: domain.ChatModel,
		Text: reply,
	}
	c.mu.Lock()
	c.messages = append(c.messages, modelMsg)
	c.thinking--
	stillThinking := c.thinking > 0
	c.mu.Unlock()

	c.emit(Event{Kind: EventThinking, Thinking: stillThinking})
	c.emit(Event{Kind: EventMessage, Message: &modelMsg})

	go c.speak(context.WithoutCancel(ctx), modelMsg.ID, reply, persona.StyleID)

	return &modelMsg
}

// Speak synthesizes speech for an already delivered message, for the
// per-message read-aloud affordance.
func (c *Controller) Speak(ctx context.Context, messageID string) {
	c.mu.Lock()
	var text string
	for _, m := range c.messages {
		if m.ID == messageID && m.Role == domain.ChatModel {
			text = m.Text
			break
		}
	}
	c.mu.Unlock()
	if text == "" {
		return
	}
	c.speak(ctx, messageID, text, c.store.Persona().StyleID)
}

// Subscribe returns a channel of controller events until ctx is done.
// Slow subscribers lose the oldest pending event rather than blocking
// the session.
func (c *Controller) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 32)
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.subMu.Unlock()

	go func() {
		<-ctx.Done()
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
		close(ch)
	}()
	return ch
}

func (c *Controller) detectWish(ctx context.Context, text string) {
	cand, err := c.gw.ExtractWish(ctx, text)
	if err != nil {
		c.log.WithError(err).Debug("wish extraction failed")
		return
	}
	if cand == nil {
		return
	}
	wish := domain.Wish{
		ID:            uuid.NewString(),
		Item:          cand.Item,
		PriceEstimate: cand.PriceEstimate,
		Status:        domain.WishPending,
		Timestamp:     c.now().UnixMilli(),
	}
	after := c.store.AddWish(wish)
	accepted := false
	for _, w := range after {
		if w.ID == wish.ID {
			accepted = true
			break
		}
	}
	if !accepted {
		// Duplicate item; first write wins.
		return
	}
	metrics.WishesDetected.Inc()
	c.emit(Event{Kind: EventWishDetected, Wish: &wish})
}

func (c *Controller) speak(ctx context.Context, messageID, text, styleID string) {
	wav, err := c.gw.SynthesizeSpeech(ctx, text, styleID)
	if err != nil || len(wav) == 0 {
		if err != nil {
			c.log.WithError(err).Debug("speech synthesis failed, suppressing audio")
		}
		return
	}
	key := "audio/" + messageID + ".wav"
	if err := c.media.Put(ctx, key, "audio/wav", wav); err != nil {
		c.log.WithError(err).Warn("storing speech clip failed")
		return
	}
	c.emit(Event{Kind: EventAudio, MessageID: messageID, AudioURL: c.media.URL(key)})
}

// storeAvatar moves a data-URI avatar into the media store and returns
// its serving URL. If the URI cannot be parsed or stored, the data URI
// itself is used.
func (c *Controller) storeAvatar(ctx context.Context, dataURI string) string {
	mime, payload, ok := strings.Cut(strings.TrimPrefix(dataURI, "data:"), ";base64,")
	if !ok || !strings.HasPrefix(dataURI, "data:") {
		return dataURI
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return dataURI
	}
	key := "avatar/" + uuid.NewString()
	if err := c.media.Put(ctx, key, mime, raw); err != nil {
		c.log.WithError(err).Warn("storing avatar failed, serving data URI")
		return dataURI
	}
	return c.media.URL(key)
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
	c.emit(Event{Kind: EventPhase, Phase: p})
}

func (c *Controller) emit(evt Event) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- evt:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- evt:
		default:
		}
	}
}

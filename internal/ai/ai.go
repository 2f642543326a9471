// Package ai wraps the remote generative service behind a small
// gateway interface: conversation, wish extraction, avatar generation,
// speech synthesis and mock retail search.
package ai

import (
	"context"
	"errors"

	"santachat/internal/domain"
)

// ErrEmptyResponse is returned when the model answers with no usable
// candidate payload.
var ErrEmptyResponse = errors.New("ai: empty response from model")

// WishCandidate is the wish-extraction verdict for one chat message.
// A candidate is a genuine wish only when IsWish is set and Item is
// non-empty.
type WishCandidate struct {
	IsWish        bool   `json:"isWish"`
	Item          string `json:"item,omitempty"`
	PriceEstimate string `json:"priceEstimate,omitempty"`
}

// Gateway is the boundary to the generative service. Implementations
// never retry: each call resolves exactly once and callers degrade
// failures to safe fallbacks.
type Gateway interface {
	// Converse produces the persona's reply to message given the
	// accumulated history, the note collection and the active style.
	Converse(ctx context.Context, history []domain.ChatMessage, message string, notes []domain.Note, styleID string) (string, error)

	// ExtractWish inspects raw chat text for an explicit gift request.
	// A nil candidate means no wish was found.
	ExtractWish(ctx context.Context, text string) (*WishCandidate, error)

	// GenerateAvatar renders a persona portrait for the style and
	// returns it as a data URI. An empty string means no image.
	GenerateAvatar(ctx context.Context, styleID string) (string, error)

	// SynthesizeSpeech renders text in the style's voice and returns
	// WAV bytes (24 kHz, 16-bit mono PCM). Nil means no audio.
	SynthesizeSpeech(ctx context.Context, text, styleID string) ([]byte, error)

	// SearchRetail synthesizes retail listings for a product query.
	// The list may be empty.
	SearchRetail(ctx context.Context, query string) ([]domain.RetailResult, error)
}

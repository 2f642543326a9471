package ai

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"santachat/internal/domain"
)

// Fake returns deterministic payloads for offline runs and tests. Zero
// value is usable; the Fail* knobs force each operation to error.
type Fake struct {
	FailConverse  bool
	EmptyConverse bool
	FailExtract   bool
	FailAvatar    bool
	FailSpeech    bool
	FailRetail    bool

	// Wishes maps lowercased trigger words in chat text to the item the
	// extractor reports. Empty means no text ever carries a wish.
	Wishes map[string]string

	// ConverseGate, when non-nil, makes each Converse call wait for one
	// receive before replying, so tests can hold replies in flight.
	ConverseGate chan struct{}

	converseCalls int32
	extractCalls  int32
	speechCalls   int32
	retailCalls   int32

	// LastSpeechStyle records the style passed to the most recent
	// SynthesizeSpeech call.
	LastSpeechStyle atomic.Value
}

func (f *Fake) Converse(_ context.Context, _ []domain.ChatMessage, message string, _ []domain.Note, _ string) (string, error) {
	atomic.AddInt32(&f.converseCalls, 1)
	if f.ConverseGate != nil {
		<-f.ConverseGate
	}
	if f.FailConverse {
		return "", errors.New("converse: transport failure")
	}
	if f.EmptyConverse {
		return "", ErrEmptyResponse
	}
	return "Ho ho ho! I heard you say: " + message, nil
}

func (f *Fake) ExtractWish(_ context.Context, text string) (*WishCandidate, error) {
	atomic.AddInt32(&f.extractCalls, 1)
	if f.FailExtract {
		return nil, ErrEmptyResponse
	}
	lower := strings.ToLower(text)
	for trigger, item := range f.Wishes {
		if strings.Contains(lower, strings.ToLower(trigger)) {
			return &WishCandidate{IsWish: true, Item: item, PriceEstimate: "$20-$50"}, nil
		}
	}
	return nil, nil
}

func (f *Fake) GenerateAvatar(_ context.Context, styleID string) (string, error) {
	if f.FailAvatar {
		return "", ErrEmptyResponse
	}
	return "data:image/png;base64,ZmFrZS1zYW50YS0" + strings.ReplaceAll(styleID, " ", "-"), nil
}

func (f *Fake) SynthesizeSpeech(_ context.Context, _ string, styleID string) ([]byte, error) {
	atomic.AddInt32(&f.speechCalls, 1)
	f.LastSpeechStyle.Store(styleID)
	if f.FailSpeech {
		return nil, ErrEmptyResponse
	}
	return pcmToWAV([]byte{0, 0, 0, 0}), nil
}

func (f *Fake) SearchRetail(_ context.Context, query string) ([]domain.RetailResult, error) {
	atomic.AddInt32(&f.retailCalls, 1)
	if f.FailRetail {
		return nil, ErrEmptyResponse
	}
	return []domain.RetailResult{
		{Title: query, Price: "$29.99", Store: "Walmart", Image: "https://picsum.photos/200/200?random=0", URL: "https://walmart.example/" + query},
		{Title: query + " Deluxe", Price: "$34.99", Store: "Target", Image: "https://picsum.photos/200/200?random=1", URL: "https://target.example/" + query},
		{Title: query + " Pro", Price: "$39.99", Store: "Best Buy", Image: "https://picsum.photos/200/200?random=2", URL: "https://bestbuy.example/" + query},
	}, nil
}

// ConverseCalls reports how many Converse calls the fake has served.
func (f *Fake) ConverseCalls() int { return int(atomic.LoadInt32(&f.converseCalls)) }

// ExtractCalls reports how many ExtractWish calls the fake has served.
func (f *Fake) ExtractCalls() int { return int(atomic.LoadInt32(&f.extractCalls)) }

// SpeechCalls reports how many SynthesizeSpeech calls the fake has served.
func (f *Fake) SpeechCalls() int { return int(atomic.LoadInt32(&f.speechCalls)) }

// RetailCalls reports how many SearchRetail calls the fake has served.
func (f *Fake) RetailCalls() int { return int(atomic.LoadInt32(&f.retailCalls)) }

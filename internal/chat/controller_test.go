package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santachat/internal/ai"
	"santachat/internal/domain"
	"santachat/internal/media"
	"santachat/internal/session"
	"santachat/pkg/logger"
)

func newTestController(t *testing.T, fake *ai.Fake) (*Controller, *session.Store, *media.MemoryStore) {
	t.Helper()
	store := session.New()
	mem, err := media.NewMemoryStore(16)
	require.NoError(t, err)
	ctrl := NewController(fake, store, mem, logger.New("error"))
	return ctrl, store, mem
}

func activate(t *testing.T, ctrl *Controller, style string) {
	t.Helper()
	require.True(t, ctrl.ConfigurePersona(context.Background(), style))
	require.Equal(t, PhaseActive, ctrl.Phase())
}

func TestConfigurePersonaActivatesSession(t *testing.T) {
	fake := &ai.Fake{}
	ctrl, store, _ := newTestController(t, fake)
	assert.Equal(t, PhaseUnconfigured, ctrl.Phase())

	activate(t, ctrl, "Hispanic")

	p := store.Persona()
	assert.Equal(t, "Hispanic", p.StyleID)
	assert.True(t, p.Configured())
}

func TestConfigurePersonaFailureReturnsToUnconfigured(t *testing.T) {
	fake := &ai.Fake{FailAvatar: true}
	ctrl, store, _ := newTestController(t, fake)

	ok := ctrl.ConfigurePersona(context.Background(), "Classic")

	assert.False(t, ok)
	assert.Equal(t, PhaseUnconfigured, ctrl.Phase())
	assert.False(t, store.Persona().Configured())
}

func TestResetPersonaClearsAvatar(t *testing.T) {
	fake := &ai.Fake{}
	ctrl, store, _ := newTestController(t, fake)
	activate(t, ctrl, "Classic")

	ctrl.ResetPersona()

	assert.Equal(t, PhaseUnconfigured, ctrl.Phase())
	assert.False(t, store.Persona().Configured())
}

func TestSendMessageDetectsWish(t *testing.T) {
	fake := &ai.Fake{Wishes: map[string]string{"bicycle": "bicycle"}}
	ctrl, store, _ := newTestController(t, fake)
	activate(t, ctrl, "Classic")

	msg := ctrl.SendMessage(context.Background(), "I would love a bicycle for Christmas")
	require.NotNil(t, msg)
	assert.Equal(t, domain.ChatModel, msg.Role)

	require.Eventually(t, func() bool {
		return len(store.Wishes()) == 1
	}, time.Second, 10*time.Millisecond)

	w := store.Wishes()[0]
	assert.Equal(t, "bicycle", w.Item)
	assert.Equal(t, domain.WishPending, w.Status)
}

func TestSendMessageDuplicateWishIsDropped(t *testing.T) {
	fake := &ai.Fake{Wishes: map[string]string{"bicycle": "bicycle"}}
	ctrl, store, _ := newTestController(t, fake)
	activate(t, ctrl, "Classic")

	ctrl.SendMessage(context.Background(), "I would love a bicycle for Christmas")
	ctrl.SendMessage(context.Background(), "I would love a BICYCLE for Christmas")

	require.Eventually(t, func() bool {
		return fake.ExtractCalls() == 2
	}, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return len(store.Wishes()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSendMessageConverseFailureFallsBackToApology(t *testing.T) {
	fake := &ai.Fake{FailConverse: true}
	ctrl, _, _ := newTestController(t, fake)
	activate(t, ctrl, "Classic")

	msg := ctrl.SendMessage(context.Background(), "hello")

	require.NotNil(t, msg)
	assert.Equal(t, apologyText, msg.Text)

	history := ctrl.Messages()
	// Greeting, user message, fallback reply.
	require.Len(t, history, 3)
	assert.Equal(t, apologyText, history[2].Text)
}

func TestSendMessageEmptyReplyFallsBackToSnowy(t *testing.T) {
	fake := &ai.Fake{EmptyConverse: true}
	ctrl, _, _ := newTestController(t, fake)
	activate(t, ctrl, "Classic")

	msg := ctrl.SendMessage(context.Background(), "hello")

	require.NotNil(t, msg)
	assert.Equal(t, snowyText, msg.Text)
}

func TestSendMessageStoresSpeechClip(t *testing.T) {
	fake := &ai.Fake{}
	ctrl, _, mem := newTestController(t, fake)
	activate(t, ctrl, "Hispanic")

	msg := ctrl.SendMessage(context.Background(), "hello")
	require.NotNil(t, msg)

	key := "audio/" + msg.ID + ".wav"
	require.Eventually(t, func() bool {
		_, err := mem.Get(context.Background(), key)
		return err == nil
	}, time.Second, 10*time.Millisecond)

	obj, err := mem.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", obj.ContentType)
	assert.Equal(t, "Hispanic", fake.LastSpeechStyle.Load())
}

func TestSendMessageSpeechFailureSuppressesAudio(t *testing.T) {
	fake := &ai.Fake{FailSpeech: true}
	ctrl, _, mem := newTestController(t, fake)
	activate(t, ctrl, "Classic")

	msg := ctrl.SendMessage(context.Background(), "hello")
	require.NotNil(t, msg)

	require.Eventually(t, func() bool {
		return fake.SpeechCalls() == 1
	}, time.Second, 10*time.Millisecond)

	_, err := mem.Get(context.Background(), "audio/"+msg.ID+".wav")
	assert.True(t, errors.Is(err, media.ErrNotFound))
}

func TestSendMessageIgnoredWhenUnconfigured(t *testing.T) {
	fake := &ai.Fake{}
	ctrl, _, _ := newTestController(t, fake)

	assert.Nil(t, ctrl.SendMessage(context.Background(), "hello"))
	assert.Equal(t, 0, fake.ConverseCalls())
}

func TestSendMessageIgnoresEmptyText(t *testing.T) {
	fake := &ai.Fake{}
	ctrl, _, _ := newTestController(t, fake)
	activate(t, ctrl, "Classic")

	assert.Nil(t, ctrl.SendMessage(context.Background(), "   "))
	assert.Equal(t, 0, fake.ConverseCalls())
}

func TestThinkingCoversOverlappingReplies(t *testing.T) {
	fake := &ai.Fake{ConverseGate: make(chan struct{})}
	ctrl, _, _ := newTestController(t, fake)
	activate(t, ctrl, "Classic")

	go ctrl.SendMessage(context.Background(), "one")
	go ctrl.SendMessage(context.Background(), "two")

	require.Eventually(t, func() bool {
		return fake.ConverseCalls() == 2
	}, time.Second, 10*time.Millisecond)
	require.True(t, ctrl.Thinking())

	// First reply resolves; the second is still outstanding.
	fake.ConverseGate <- struct{}{}
	require.Eventually(t, func() bool {
		return len(ctrl.Messages()) == 4
	}, time.Second, 10*time.Millisecond)
	assert.True(t, ctrl.Thinking(), "busy state holds while a reply is outstanding")

	fake.ConverseGate <- struct{}{}
	require.Eventually(t, func() bool {
		return !ctrl.Thinking()
	}, time.Second, 10*time.Millisecond)
}

func TestSubscribeReceivesTurnEvents(t *testing.T) {
	fake := &ai.Fake{}
	ctrl, _, _ := newTestController(t, fake)
	activate(t, ctrl, "Classic")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := ctrl.Subscribe(ctx)

	go ctrl.SendMessage(context.Background(), "hello")

	var kinds []EventKind
	deadline := time.After(time.Second)
	for len(kinds) < 4 {
		select {
		case evt := <-events:
			kinds = append(kinds, evt.Kind)
		case <-deadline:
			t.Fatalf("timed out, got kinds %v", kinds)
		}
	}
	assert.Equal(t, EventMessage, kinds[0], "optimistic user append comes first")
	assert.Contains(t, kinds, EventThinking)
}

func TestSpeakExistingMessage(t *testing.T) {
	fake := &ai.Fake{}
	ctrl, _, mem := newTestController(t, fake)
	activate(t, ctrl, "Classic")

	greeting := ctrl.Messages()[0]
	ctrl.Speak(context.Background(), greeting.ID)

	key := "audio/" + greeting.ID + ".wav"
	_, err := mem.Get(context.Background(), key)
	assert.NoError(t, err)
}

func TestHistoryIsAppendOnly(t *testing.T) {
	fake := &ai.Fake{}
	ctrl, _, _ := newTestController(t, fake)
	activate(t, ctrl, "Classic")

	ctrl.SendMessage(context.Background(), "one")
	ctrl.SendMessage(context.Background(), "two")

	history := ctrl.Messages()
	require.Len(t, history, 5)
	assert.Equal(t, "one", history[1].Text)
	assert.Equal(t, "two", history[3].Text)
}

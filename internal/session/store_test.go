package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santachat/internal/domain"
)

func wish(id, item string) domain.Wish {
	return domain.Wish{
		ID:        id,
		Item:      item,
		Status:    domain.WishPending,
		Timestamp: time.Now().UnixMilli(),
	}
}

func TestAddWishDeduplicatesCaseInsensitive(t *testing.T) {
	s := New()

	s.AddWish(wish("w1", "Bicycle"))
	s.AddWish(wish("w2", "bicycle"))
	s.AddWish(wish("w3", "BICYCLE"))

	wishes := s.Wishes()
	require.Len(t, wishes, 1)
	assert.Equal(t, "w1", wishes[0].ID, "first write wins")
	assert.Equal(t, "Bicycle", wishes[0].Item)
}

func TestAddWishDistinctItems(t *testing.T) {
	s := New()

	s.AddWish(wish("w1", "Bicycle"))
	s.AddWish(wish("w2", "Lego Set"))

	wishes := s.Wishes()
	require.Len(t, wishes, 2)
	// Newest first.
	assert.Equal(t, "Lego Set", wishes[0].Item)
	assert.Equal(t, "Bicycle", wishes[1].Item)
}

func TestUpdateWishStatus(t *testing.T) {
	s := New()
	s.AddWish(wish("w1", "Bicycle"))

	s.UpdateWishStatus("w1", domain.WishApproved)
	assert.Equal(t, domain.WishApproved, s.Wishes()[0].Status)
}

func TestUpdateWishStatusUnknownIDIsNoOp(t *testing.T) {
	s := New()
	s.AddWish(wish("w1", "Bicycle"))
	before := s.Wishes()

	s.UpdateWishStatus("missing", domain.WishDenied)

	assert.Equal(t, before, s.Wishes())
}

func TestNotesAreNewestFirst(t *testing.T) {
	s := New()
	base := len(s.Notes())

	a := domain.Note{ID: "a", Author: domain.RoleParent, Content: "first", Type: domain.NoteBehavior}
	b := domain.Note{ID: "b", Author: domain.RoleTeacher, Content: "second", Type: domain.NoteAcademic}
	s.AddNote(a)
	s.AddNote(b)

	notes := s.Notes()
	require.Len(t, notes, base+2)
	assert.Equal(t, "b", notes[0].ID)
	assert.Equal(t, "a", notes[1].ID)
}

func TestDeleteNoteRemovesExactlyOne(t *testing.T) {
	s := New()
	s.AddNote(domain.Note{ID: "a", Author: domain.RoleParent, Content: "keep", Type: domain.NoteBehavior})
	s.AddNote(domain.Note{ID: "b", Author: domain.RoleParent, Content: "drop", Type: domain.NoteBehavior})
	before := len(s.Notes())

	s.DeleteNote("b")

	notes := s.Notes()
	require.Len(t, notes, before-1)
	for _, n := range notes {
		assert.NotEqual(t, "b", n.ID)
	}
}

func TestDeleteNoteUnknownIDIsNoOp(t *testing.T) {
	s := New()
	before := s.Notes()

	s.DeleteNote("missing")

	assert.Equal(t, before, s.Notes())
}

func TestPersonaLifecycle(t *testing.T) {
	s := New()
	assert.False(t, s.Persona().Configured())

	s.SetPersonaStyle("Hispanic")
	s.SetPersonaAvatar("/media/avatar/abc")

	p := s.Persona()
	assert.Equal(t, "Hispanic", p.StyleID)
	assert.True(t, p.Configured())

	s.ClearPersonaAvatar()
	p = s.Persona()
	assert.False(t, p.Configured())
	assert.Equal(t, "Hispanic", p.StyleID, "style survives avatar reset")
}

func TestSubscribeSeesMutations(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	s.AddWish(wish("w1", "Bicycle"))

	select {
	case change := <-ch:
		assert.Equal(t, ChangeWishes, change.Kind)
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestDuplicateWishDoesNotNotify(t *testing.T) {
	s := New()
	s.AddWish(wish("w1", "Bicycle"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.Subscribe(ctx)

	s.AddWish(wish("w2", "bicycle"))

	select {
	case change := <-ch:
		t.Fatalf("unexpected notification: %v", change)
	case <-time.After(50 * time.Millisecond):
	}
}

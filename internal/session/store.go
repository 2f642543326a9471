// Package session holds the single mutable source of truth for
// cross-view state: the wish list, the note collection and the active
// persona configuration. All state is memory resident and lost on
// restart.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"santachat/internal/domain"
)

// ChangeKind identifies which collection a change notification refers to.
type ChangeKind string

const (
	ChangeWishes  ChangeKind = "wishes"
	ChangeNotes   ChangeKind = "notes"
	ChangePersona ChangeKind = "persona"
)

// Change is pushed to subscribers after every mutation.
type Change struct {
	Kind ChangeKind
}

// Store owns wishes, notes and the persona configuration. Every
// operation is synchronous and total: lookups that miss are silent
// no-ops, duplicate wish items are silently dropped.
type Store struct {
	mu      sync.RWMutex
	wishes  []domain.Wish
	notes   []domain.Note
	persona domain.PersonaConfig

	subMu   sync.Mutex
	subs    map[int]chan Change
	nextSub int
}

// New returns a Store seeded with the demo notes the application ships
// with.
func New() *Store {
	now := time.Now().UnixMilli()
	return &Store{
		notes: []domain.Note{
			{
				ID:        uuid.NewString(),
				Author:    domain.RoleTeacher,
				Content:   "Needs to focus more during math class.",
				Type:      domain.NoteAcademic,
				Timestamp: now - 500_000,
			},
			{
				ID:        uuid.NewString(),
				Author:    domain.RoleParent,
				Content:   "Timmy ate all his vegetables this week!",
				Type:      domain.NoteBehavior,
				Timestamp: now - 1_000_000,
			},
		},
		persona: domain.PersonaConfig{StyleID: "Classic"},
		subs:    make(map[int]chan Change),
	}
}

// AddWish inserts w unless an existing wish has the same item under
// case-insensitive comparison. Duplicates are dropped silently; the
// first write wins. The resulting collection is returned either way.
func (s *Store) AddWish(w domain.Wish) []domain.Wish {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	item := strings.TrimSpace(w.Item)
	dup := false
	for _, existing := range s.wishes {
		if strings.EqualFold(existing.Item, item) {
			dup = true
			break
		}
	}
	if !dup {
		w.Item = item
		s.wishes = append([]domain.Wish{w}, s.wishes...)
	}
	out := snapshotWishes(s.wishes)
	s.mu.Unlock()
	if !dup {
		s.notify(ChangeWishes)
	}
	return out
}

// UpdateWishStatus sets the status of the wish with the given id. An
// unknown id leaves the collection unchanged.
func (s *Store) UpdateWishStatus(id string, status domain.WishStatus) {
	if s == nil {
		return
	}
	s.mu.Lock()
	changed := false
	for i := range s.wishes {
		if s.wishes[i].ID == id {
			s.wishes[i].Status = status
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify(ChangeWishes)
	}
}

// AddNote prepends n so the collection stays newest first.
func (s *Store) AddNote(n domain.Note) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.notes = append([]domain.Note{n}, s.notes...)
	s.mu.Unlock()
	s.notify(ChangeNotes)
}

// DeleteNote removes the note with the given id. An unknown id is a
// silent no-op.
func (s *Store) DeleteNote(id string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	changed := false
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify(ChangeNotes)
	}
}

// SetPersonaStyle records the chosen style for subsequent persona and
// voice selection.
func (s *Store) SetPersonaStyle(styleID string) {
	if s == nil {
		return
	}
	styleID = strings.TrimSpace(styleID)
	if styleID == "" {
		return
	}
	s.mu.Lock()
	s.persona.StyleID = styleID
	s.mu.Unlock()
	s.notify(ChangePersona)
}

// SetPersonaAvatar replaces the active persona image.
func (s *Store) SetPersonaAvatar(url string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.persona.AvatarURL = strings.TrimSpace(url)
	s.mu.Unlock()
	s.notify(ChangePersona)
}

// ClearPersonaAvatar returns the session to the unconfigured state; the
// chat view falls back to the selection screen on next render.
func (s *Store) ClearPersonaAvatar() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.persona.AvatarURL = ""
	s.mu.Unlock()
	s.notify(ChangePersona)
}

// Wishes returns a copy of the wish collection, newest first.
func (s *Store) Wishes() []domain.Wish {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotWishes(s.wishes)
}

// Notes returns a copy of the note collection, newest first.
func (s *Store) Notes() []domain.Note {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Persona returns the active persona configuration.
func (s *Store) Persona() domain.PersonaConfig {
	if s == nil {
		return domain.PersonaConfig{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persona
}

// Subscribe returns a channel that receives a Change after every
// mutation until ctx is done. Slow subscribers lose the oldest pending
// notification rather than blocking a mutation.
func (s *Store) Subscribe(ctx context.Context) <-chan Change {
	ch := make(chan Change, 16)
	if s == nil {
		close(ch)
		return ch
	}
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	go func() {
		<-ctx.Done()
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
		close(ch)
	}()
	return ch
}

func (s *Store) notify(kind ChangeKind) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- Change{Kind: kind}:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- Change{Kind: kind}:
		default:
		}
	}
}

func snapshotWishes(in []domain.Wish) []domain.Wish {
	out := make([]domain.Wish, len(in))
	copy(out, in)
	return out
}

// Package domain holds the shared entity definitions used by every
// other component: roles, wishes, notes, chat messages, retail listings
// and the active persona configuration.
package domain

import "strings"

// Role selects which views and mutations a client reaches. It is a
// routing discriminator, not an authorization boundary.
type Role string

const (
	RoleChild   Role = "CHILD"
	RoleParent  Role = "PARENT"
	RoleTeacher Role = "TEACHER"
)

// ParseRole maps a wire value onto a Role. Matching is
// case-insensitive; the legacy "KID" spelling is accepted.
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CHILD", "KID":
		return RoleChild, true
	case "PARENT":
		return RoleParent, true
	case "TEACHER":
		return RoleTeacher, true
	}
	return "", false
}

type WishStatus string

const (
	WishPending  WishStatus = "PENDING"
	WishApproved WishStatus = "APPROVED"
	WishDenied   WishStatus = "DENIED"
	WishMaybe    WishStatus = "MAYBE"
)

// ParseWishStatus maps a wire value onto a WishStatus.
func ParseWishStatus(s string) (WishStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PENDING":
		return WishPending, true
	case "APPROVED":
		return WishApproved, true
	case "DENIED":
		return WishDenied, true
	case "MAYBE":
		return WishMaybe, true
	}
	return "", false
}

// Wish is a detected gift request. Wishes are deduplicated by item name
// under case-insensitive comparison; the first submission wins.
type Wish struct {
	ID            string     `json:"id"`
	Item          string     `json:"item"`
	PriceEstimate string     `json:"priceEstimate,omitempty"`
	Retailer      string     `json:"retailer,omitempty"`
	Status        WishStatus `json:"status"`
	Timestamp     int64      `json:"timestamp"`
}

type NoteType string

const (
	NoteBehavior    NoteType = "BEHAVIOR"
	NoteAcademic    NoteType = "ACADEMIC"
	NoteAchievement NoteType = "ACHIEVEMENT"
)

// ParseNoteType maps a wire value onto a NoteType.
func ParseNoteType(s string) (NoteType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BEHAVIOR":
		return NoteBehavior, true
	case "ACADEMIC":
		return NoteAcademic, true
	case "ACHIEVEMENT":
		return NoteAchievement, true
	}
	return "", false
}

// Note is a parent or teacher observation fed into the chat persona as
// grounding. Notes are kept newest first.
type Note struct {
	ID        string   `json:"id"`
	Author    Role     `json:"author"`
	Content   string   `json:"content"`
	Type      NoteType `json:"type"`
	Timestamp int64    `json:"timestamp"`
}

type ChatRole string

const (
	ChatUser  ChatRole = "user"
	ChatModel ChatRole = "model"
)

// ChatMessage is one turn of a chat session. Messages are appended
// monotonically and never mutated or deleted.
type ChatMessage struct {
	ID                 string   `json:"id"`
	Role               ChatRole `json:"role"`
	Text               string   `json:"text"`
	AudioURL           string   `json:"audioUrl,omitempty"`
	IsWishConfirmation bool     `json:"isWishConfirmation,omitempty"`
}

// RetailResult is one synthesized retail listing for a wish item.
type RetailResult struct {
	Title string `json:"title"`
	Price string `json:"price"`
	Store string `json:"store"`
	Image string `json:"image"`
	URL   string `json:"url"`
}

// PersonaConfig is the session's active Santa configuration. An empty
// AvatarURL means the session is unconfigured and the chat view shows
// the selection screen.
type PersonaConfig struct {
	StyleID   string `json:"styleId"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Configured reports whether the persona has a generated avatar.
func (p PersonaConfig) Configured() bool {
	return strings.TrimSpace(p.AvatarURL) != ""
}

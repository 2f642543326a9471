package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"santachat/internal/domain"
)

func TestVoiceMapping(t *testing.T) {
	cases := map[string]string{
		"Classic":          "Fenrir",
		"African American": "Charon",
		"Asian":            "Zephyr",
		"Hispanic":         "Puck",
		"African":          "Fenrir",
	}
	for style, voice := range cases {
		assert.Equal(t, voice, VoiceFor(style), style)
	}
}

func TestUnknownStyleFallsBackToClassic(t *testing.T) {
	assert.Equal(t, VoiceFor("Classic"), VoiceFor("Martian"))
	assert.Equal(t, PersonaFor("Classic"), PersonaFor("Martian"))
	assert.Equal(t, VoiceFor("Classic"), VoiceFor(""))
}

func TestPersonaTextsAreDistinct(t *testing.T) {
	seen := map[string]string{}
	for _, s := range Styles() {
		p := PersonaFor(s.ID)
		if prev, ok := seen[p]; ok {
			t.Fatalf("styles %q and %q share a persona text", prev, s.ID)
		}
		seen[p] = s.ID
	}
}

func TestSystemInstructionIncludesNotes(t *testing.T) {
	notes := []domain.Note{
		{Author: domain.RoleParent, Content: "Ate all his vegetables", Type: domain.NoteBehavior},
		{Author: domain.RoleTeacher, Content: "Great at reading", Type: domain.NoteAchievement},
	}
	sys := SystemInstruction(notes, "Hispanic")

	assert.Contains(t, sys, "[BEHAVIOR by PARENT]: Ate all his vegetables")
	assert.Contains(t, sys, "[ACHIEVEMENT by TEACHER]: Great at reading")
	assert.Contains(t, sys, "Papa Noel")
	assert.True(t, strings.HasPrefix(sys, PersonaFor("Hispanic")))
}

func TestSystemInstructionWithoutNotes(t *testing.T) {
	sys := SystemInstruction(nil, "Classic")
	assert.Contains(t, sys, "No specific notes yet. Assume they are a good kid!")
}

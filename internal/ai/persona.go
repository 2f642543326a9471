package ai

import (
	"strings"

	"santachat/internal/domain"
)

// StyleClassic is the fallback for any unrecognized style identifier.
const StyleClassic = "Classic"

// Style is one entry of the fixed persona catalog.
type Style struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Desc  string `json:"desc"`
}

// Styles returns the fixed selection catalog shown on the persona
// screen.
func Styles() []Style {
	return []Style{
		{ID: "Classic", Label: "Classic White", Desc: "Traditional Santa"},
		{ID: "African American", Label: "African American", Desc: "Warm & Soulful"},
		{ID: "Asian", Label: "Asian", Desc: "Wise & Kind"},
		{ID: "Hispanic", Label: "Hispanic/Latino", Desc: "Festive & Joyful"},
		{ID: "African", Label: "African", Desc: "Regal & Magical"},
	}
}

var personaByStyle = map[string]string{
	"Classic":          "You are the traditional Santa Claus. Speak with a 'Ho ho ho' and a jolly, old-timey Christmas spirit.",
	"African American": "You are a warm, soulful African American Santa. Speak with a rich, comforting voice. Use language that feels familiar, supportive, and community-focused.",
	"Asian":            "You are a wise, gentle Asian Santa. Speak with a calm, polite, and respectful tone. Reflect a subtle Asian-English cadence (clear, perhaps slightly formal or staccato in a dignified way). Focus on harmony, wisdom, and respect.",
	"Hispanic":         "You are a festive Hispanic Santa (Papa Noel). Speak with high energy and warmth. Use Spanglish naturally—inserting words like 'Hola', 'Amigo', 'Bueno', 'Feliz Navidad' into your English sentences.",
	"African":          "You are a regal African Santa. Speak with a deep, storytelling cadence, like a wise elder or griot. Use metaphors about nature or community.",
}

var voiceByStyle = map[string]string{
	"Classic":          "Fenrir",
	"African American": "Charon",
	"Asian":            "Zephyr",
	"Hispanic":         "Puck",
	"African":          "Fenrir",
}

// PersonaFor returns the persona instruction text for the style,
// falling back to the Classic persona for unknown values.
func PersonaFor(styleID string) string {
	if p, ok := personaByStyle[strings.TrimSpace(styleID)]; ok {
		return p
	}
	return personaByStyle[StyleClassic]
}

// VoiceFor returns the prebuilt voice name for the style, falling back
// to the Classic voice for unknown values.
func VoiceFor(styleID string) string {
	if v, ok := voiceByStyle[strings.TrimSpace(styleID)]; ok {
		return v
	}
	return voiceByStyle[StyleClassic]
}

// SystemInstruction builds the full conversational grounding for the
// persona: tone guidance, conversation rules and the behavior-note
// summary that steers praise and redirection.
func SystemInstruction(notes []domain.Note, styleID string) string {
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, "["+string(n.Type)+" by "+string(n.Author)+"]: "+n.Content)
	}
	summary := strings.Join(lines, "\n")
	if summary == "" {
		summary = "No specific notes yet. Assume they are a good kid!"
	}

	var b strings.Builder
	b.WriteString(PersonaFor(styleID))
	b.WriteString("\n\n")
	b.WriteString("You are currently speaking to a child in a text or voice chat.\n")
	b.WriteString("Your tone must be warm, magical, encouraging, and jolly.\n\n")
	b.WriteString("IMPORTANT RULES:\n")
	b.WriteString("1. NEVER promise specific gifts. If a child asks for a gift, say something like \"That sounds wonderful! I'll have the elves look into it,\" or \"We'll see what fits on the sleigh!\"\n")
	b.WriteString("2. Use the provided NOTES about the child's behavior to guide the conversation. If they have been good, praise them specifically based on the notes. If they have 'redirection' notes, gently encourage them to improve in that area.\n")
	b.WriteString("3. Keep responses relatively short (2-3 sentences) suitable for a chat interface.\n\n")
	b.WriteString("CHILD'S BEHAVIOR NOTES (Invisible to child, for your guidance only):\n")
	b.WriteString(summary)
	return b.String()
}

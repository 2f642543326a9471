package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/sirupsen/logrus"
	genai "google.golang.org/genai"

	"santachat/internal/domain"
	"santachat/internal/metrics"
)

const (
	chatModel   = "gemini-2.5-flash"
	imageModel  = "gemini-2.5-flash-image"
	speechModel = "gemini-2.5-flash-preview-tts"
)

// Gemini is a thin wrapper around the official genai client. It only
// focuses on the API calls themselves; failure policy (fallback
// replies, silent drops) lives with the callers.
type Gemini struct {
	cli *genai.Client
	log *logrus.Logger
}

// NewGemini builds a gateway backed by the Gemini API.
func NewGemini(ctx context.Context, apiKey string, log *logrus.Logger) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	return &Gemini{cli: cli, log: log}, nil
}

func (g *Gemini) Converse(ctx context.Context, history []domain.ChatMessage, message string, notes []domain.Note, styleID string) (string, error) {
	metrics.GatewayCalls.WithLabelValues("converse").Inc()

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, &genai.Content{
			Role:  string(m.Role),
			Parts: []*genai.Part{{Text: m.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  string(domain.ChatUser),
		Parts: []*genai.Part{{Text: message}},
	})

	resp, err := g.cli.Models.GenerateContent(ctx, chatModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SystemInstruction(notes, styleID)}}},
		Temperature:       genai.Ptr[float32](0.7),
	})
	if err != nil {
		metrics.GatewayFailures.WithLabelValues("converse").Inc()
		return "", fmt.Errorf("converse: %w", err)
	}
	text := firstText(resp)
	if text == "" {
		metrics.GatewayFailures.WithLabelValues("converse").Inc()
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *Gemini) ExtractWish(ctx context.Context, text string) (*WishCandidate, error) {
	metrics.GatewayCalls.WithLabelValues("extract_wish").Inc()

	prompt := fmt.Sprintf(`Analyze this text from a child: %q.
If the child is explicitly asking for a specific gift or saying they want something, return JSON.
If not, return null.`, text)

	resp, err := g.cli.Models.GenerateContent(ctx, chatModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"isWish":        {Type: genai.TypeBoolean},
					"item":          {Type: genai.TypeString, Description: "The name of the gift requested"},
					"priceEstimate": {Type: genai.TypeString, Description: "A rough estimated price range (e.g. $20-$50)"},
				},
				Required: []string{"isWish"},
			},
		})
	if err != nil {
		metrics.GatewayFailures.WithLabelValues("extract_wish").Inc()
		return nil, fmt.Errorf("extract wish: %w", err)
	}
	raw := firstText(resp)
	if raw == "" {
		return nil, nil
	}
	var cand WishCandidate
	if err := json.Unmarshal([]byte(raw), &cand); err != nil {
		metrics.GatewayFailures.WithLabelValues("extract_wish").Inc()
		return nil, fmt.Errorf("extract wish: decode: %w", err)
	}
	if !cand.IsWish || strings.TrimSpace(cand.Item) == "" {
		return nil, nil
	}
	if strings.TrimSpace(cand.PriceEstimate) == "" {
		cand.PriceEstimate = "Unknown"
	}
	return &cand, nil
}

func (g *Gemini) GenerateAvatar(ctx context.Context, styleID string) (string, error) {
	metrics.GatewayCalls.WithLabelValues("generate_avatar").Inc()

	description := fmt.Sprintf("A warm, friendly, magical portrait of a %s Santa Claus. Digital art style, soft lighting, detailed texture, festive background, wearing traditional red suit. Aspect ratio 1:1.", styleID)
	resp, err := g.cli.Models.GenerateContent(ctx, imageModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: description}}}},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{AspectRatio: "1:1"},
		},
	)
	if err != nil {
		metrics.GatewayFailures.WithLabelValues("generate_avatar").Inc()
		return "", fmt.Errorf("generate avatar: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return "data:" + part.InlineData.MIMEType + ";base64," +
				base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
		}
	}
	return "", ErrEmptyResponse
}

func (g *Gemini) SynthesizeSpeech(ctx context.Context, text, styleID string) ([]byte, error) {
	metrics.GatewayCalls.WithLabelValues("synthesize_speech").Inc()

	resp, err := g.cli.Models.GenerateContent(ctx, speechModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: VoiceFor(styleID)},
				},
			},
		})
	if err != nil {
		metrics.GatewayFailures.WithLabelValues("synthesize_speech").Inc()
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return pcmToWAV(part.InlineData.Data), nil
		}
	}
	return nil, ErrEmptyResponse
}

func (g *Gemini) SearchRetail(ctx context.Context, query string) ([]domain.RetailResult, error) {
	metrics.GatewayCalls.WithLabelValues("search_retail").Inc()

	prompt := fmt.Sprintf(`Generate 3 realistic retail listings for the product: %q.
One from Walmart, one from Target, one from Best Buy.
Return valid JSON.`, query)

	resp, err := g.cli.Models.GenerateContent(ctx, chatModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: &genai.Schema{
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title": {Type: genai.TypeString},
						"price": {Type: genai.TypeString},
						"store": {Type: genai.TypeString, Enum: []string{"Walmart", "Target", "Best Buy"}},
						"image": {Type: genai.TypeString, Description: "A placeholder URL"},
						"url":   {Type: genai.TypeString, Description: "A dummy URL"},
					},
				},
			},
		})
	if err != nil {
		metrics.GatewayFailures.WithLabelValues("search_retail").Inc()
		return nil, fmt.Errorf("search retail: %w", err)
	}
	raw := firstText(resp)
	if raw == "" {
		return nil, nil
	}
	var results []domain.RetailResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		metrics.GatewayFailures.WithLabelValues("search_retail").Inc()
		return nil, fmt.Errorf("search retail: decode: %w", err)
	}
	// Swap in friendlier placeholder images, matching the mock nature
	// of the listings.
	for i := range results {
		results[i].Image = fmt.Sprintf("https://picsum.photos/200/200?random=%d%d", i, rand.Intn(1_000_000))
	}
	return results, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if strings.TrimSpace(part.Text) != "" {
			return part.Text
		}
	}
	return ""
}

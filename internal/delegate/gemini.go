package delegate

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"codexplain/internal/patterns"
)

// geminiModels is the static catalog of selectable Gemini models.
var geminiModels = []ModelInfo{
	{
		ID:          "gemini-2.5-flash",
		Name:        "Google Gemini Flash",
		Description: "Google's fast and cost-effective model for high-quality code explanations (API-based).",
	},
	{
		ID:          "gemini-2.5-pro",
		Name:        "Google Gemini Pro",
		Description: "Google's strongest reasoning model for in-depth code explanations (API-based).",
	},
}

// Gemini delegates explanations to the Gemini API via the official genai
// client. The client reads its API key from the environment (GEMINI_API_KEY).
type Gemini struct {
	cli          *genai.Client
	defaultModel string
}

// NewGemini creates a Gemini delegate. defaultModel is used when a request
// does not name a model.
func NewGemini(ctx context.Context, defaultModel string) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if defaultModel == "" {
		defaultModel = geminiModels[0].ID
	}
	return &Gemini{cli: cli, defaultModel: defaultModel}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Models() []ModelInfo { return geminiModels }

func (g *Gemini) DefaultModel() string { return g.defaultModel }

// Explain sends the prompt to Gemini and returns the response text verbatim.
func (g *Gemini) Explain(ctx context.Context, code string, lang patterns.Language, model string) (string, error) {
	if model == "" {
		model = g.defaultModel
	}
	prompt := BuildPrompt(code, lang)

	resp, err := g.cli.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"codexplain/internal/patterns"
)

// ollamaModels is the static catalog of selectable local models.
var ollamaModels = []ModelInfo{
	{
		ID:          "codellama",
		Name:        "Code Llama",
		Description: "Meta's code-specialized model served by a local Ollama instance.",
	},
	{
		ID:          "qwen2.5-coder",
		Name:        "Qwen 2.5 Coder",
		Description: "Lightweight local coding model, good quality at small sizes.",
	},
}

// Ollama delegates explanations to a local Ollama inference server over its
// HTTP API. Timeouts are enforced through the request context.
type Ollama struct {
	host         string
	defaultModel string
	client       *http.Client
}

// NewOllama creates an Ollama delegate pointed at the given host
// (e.g. "http://localhost:11434").
func NewOllama(host, defaultModel string) *Ollama {
	if host == "" {
		host = "http://localhost:11434"
	}
	if defaultModel == "" {
		defaultModel = ollamaModels[0].ID
	}
	return &Ollama{
		host:         strings.TrimSuffix(host, "/"),
		defaultModel: defaultModel,
		client:       &http.Client{},
	}
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Models() []ModelInfo { return ollamaModels }

func (o *Ollama) DefaultModel() string { return o.defaultModel }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Explain posts the prompt to /api/generate and returns the completion text.
func (o *Ollama) Explain(ctx context.Context, code string, lang patterns.Language, model string) (string, error) {
	if model == "" {
		model = o.defaultModel
	}

	body, err := json.Marshal(ollamaRequest{
		Model:  model,
		Prompt: BuildPrompt(code, lang),
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("encoding ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ollama: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading ollama response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out ollamaResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decoding ollama response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama error: %s", out.Error)
	}
	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

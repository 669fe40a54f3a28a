// Package delegate abstracts external model backends behind a single
// capability interface. The core pipeline never depends on a specific model
// runtime; each provider is registered and looked up by the models it serves.
package delegate

import (
	"context"
	"errors"

	"codexplain/internal/patterns"
)

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// ModelInfo describes one selectable model for the catalog endpoint.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Delegate forwards code to an external model and returns its raw text
// output. Implementations must honor the context deadline; a single call is
// one attempt with no internal retry.
type Delegate interface {
	// Name returns the provider identifier (e.g. "gemini", "ollama").
	Name() string
	// Models lists the models this provider serves, in catalog order.
	Models() []ModelInfo
	// DefaultModel returns the model id used when a request names none.
	DefaultModel() string
	// Explain returns the model's explanation of the code, verbatim.
	Explain(ctx context.Context, code string, lang patterns.Language, model string) (string, error)
}

// Registry holds registered delegates.
type Registry struct {
	delegates []Delegate
}

// NewRegistry creates a new delegate registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a delegate to the registry.
func (r *Registry) Register(d Delegate) {
	r.delegates = append(r.delegates, d)
}

// Get returns the delegate with the given provider name, or nil.
func (r *Registry) Get(name string) Delegate {
	for _, d := range r.delegates {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// All returns all registered delegates in registration order.
func (r *Registry) All() []Delegate {
	return r.delegates
}

// ForModel returns the delegate serving the given model id. An empty model id
// or an unknown id resolves to the first registered delegate, which acts as
// the default provider.
func (r *Registry) ForModel(model string) Delegate {
	if len(r.delegates) == 0 {
		return nil
	}
	if model == "" {
		return r.delegates[0]
	}
	for _, d := range r.delegates {
		for _, m := range d.Models() {
			if m.ID == model {
				return d
			}
		}
	}
	return r.delegates[0]
}

// Catalog returns the combined model list across all registered delegates.
func (r *Registry) Catalog() []ModelInfo {
	var models []ModelInfo
	for _, d := range r.delegates {
		models = append(models, d.Models()...)
	}
	return models
}

// Package dispatch receives code submissions, validates them, and routes each
// one to the rule-based pipeline or to a model delegate. Every request
// terminates in exactly one of two outcomes: a completed explanation or a
// classified error. There is no retry and no silent fallback between methods.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"codexplain/internal/analyzer"
	"codexplain/internal/delegate"
	"codexplain/internal/patterns"
)

// Analysis methods.
const (
	MethodRule = "rule"
	MethodNLP  = "nlp"
)

// Request is one code submission. It is created per call and fully consumed
// within that call.
type Request struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	Method    string `json:"analysis_method"`
	ModelName string `json:"model_name,omitempty"`
}

// Dispatcher validates requests and runs the chosen analysis path.
type Dispatcher struct {
	delegates *delegate.Registry
	timeout   time.Duration
}

// New creates a Dispatcher. timeout bounds each delegate call; the rule path
// runs synchronously and needs no bound.
func New(delegates *delegate.Registry, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{delegates: delegates, timeout: timeout}
}

// Dispatch runs one request to a terminal outcome. Validation failures are
// reported before any text is scanned or any delegate is contacted.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*analyzer.Result, error) {
	lang, method, err := d.validate(req)
	if err != nil {
		return nil, err
	}

	switch method {
	case MethodNLP:
		return d.delegated(ctx, req, lang)
	default:
		res, err := analyzer.Analyze(req.Code, string(lang))
		if err != nil {
			// Unreachable past validation; keep the classification anyway.
			return nil, unsupportedErr(err.Error())
		}
		return res, nil
	}
}

// validate checks the request and resolves the canonical language and method.
func (d *Dispatcher) validate(req Request) (patterns.Language, string, error) {
	if strings.TrimSpace(req.Code) == "" {
		return "", "", validationErr("code cannot be empty")
	}

	lang, err := patterns.Normalize(req.Language)
	if err != nil {
		return "", "", unsupportedErr(fmt.Sprintf(
			"language %q is not supported; supported languages: %s",
			req.Language, joinLanguages()))
	}

	method := strings.ToLower(strings.TrimSpace(req.Method))
	switch method {
	case "":
		method = MethodRule
	case MethodRule, MethodNLP:
	default:
		return "", "", validationErr(fmt.Sprintf("unknown analysis method %q; use %q or %q", req.Method, MethodRule, MethodNLP))
	}

	return lang, method, nil
}

// delegated runs the NLP path: a single bounded attempt against the delegate
// serving the requested model. Any delegate error surfaces as a
// DelegateFailure; the rule pipeline is never substituted.
func (d *Dispatcher) delegated(ctx context.Context, req Request, lang patterns.Language) (*analyzer.Result, error) {
	if d.delegates == nil || len(d.delegates.All()) == 0 {
		return nil, delegateErr("no model delegate is configured", nil)
	}

	del := d.delegates.ForModel(req.ModelName)

	// Resolve the model up front so the reported metadata names the model
	// the provider actually uses, not a guess from catalog order.
	model := req.ModelName
	if model == "" {
		model = del.DefaultModel()
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	text, err := del.Explain(ctx, req.Code, lang, model)
	if err != nil {
		return nil, delegateErr(fmt.Sprintf("%s analysis failed", del.Name()), err)
	}

	return structureDelegateText(text, lang, del.Name(), model), nil
}

// structureDelegateText wraps the model's verbatim output in the standard
// result shape. The first non-heading lines become the summary; the rest
// become the details. Markdown headings and bullets never count as summary.
func structureDelegateText(text string, lang patterns.Language, provider, model string) *analyzer.Result {
	var summaryLines, detailLines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "-") {
			continue
		}
		if len(summaryLines) < 2 {
			summaryLines = append(summaryLines, line)
		} else {
			detailLines = append(detailLines, line)
		}
	}

	summary := strings.Join(summaryLines, " ")
	if summary == "" {
		summary = truncate(text, 200)
	}

	friendly := fmt.Sprintf("In simple terms, this %s code performs programming operations.", lang)
	if len(summaryLines) > 0 {
		friendly = fmt.Sprintf("In simple terms, this %s code %s", lang, lowerFirst(summaryLines[0]))
	}

	return &analyzer.Result{
		Explanation:         text,
		FullExplanation:     text,
		Summary:             summary,
		UserFriendlySummary: friendly,
		Details:             strings.Join(detailLines, " "),
		Language:            string(lang),
		Metadata: analyzer.Metadata{
			ModelUsed:    model,
			AnalysisType: "nlp",
			Provider:     provider,
		},
	}
}

// truncate caps s at n runes, never splitting a multi-byte character.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func joinLanguages() string {
	langs := patterns.All()
	parts := make([]string, 0, len(langs))
	for _, l := range langs {
		parts = append(parts, string(l))
	}
	return strings.Join(parts, ", ")
}

package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"codexplain/internal/delegate"
	"codexplain/internal/patterns"
)

// stubDelegate is a controllable fake model backend.
type stubDelegate struct {
	name         string
	text         string
	err          error
	block        bool // when set, Explain waits for the context to expire
	calls        int
	gotModel     string
	models       []delegate.ModelInfo
	defaultModel string
}

func (s *stubDelegate) Name() string { return s.name }

func (s *stubDelegate) Models() []delegate.ModelInfo {
	if s.models != nil {
		return s.models
	}
	return []delegate.ModelInfo{{ID: "stub-model", Name: "Stub", Description: "test model"}}
}

func (s *stubDelegate) DefaultModel() string {
	if s.defaultModel != "" {
		return s.defaultModel
	}
	return s.Models()[0].ID
}

func (s *stubDelegate) Explain(ctx context.Context, code string, lang patterns.Language, model string) (string, error) {
	s.calls++
	s.gotModel = model
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.text, s.err
}

func newDispatcher(stubs ...delegate.Delegate) *Dispatcher {
	reg := delegate.NewRegistry()
	for _, s := range stubs {
		reg.Register(s)
	}
	return New(reg, time.Second)
}

func TestDispatchValidation(t *testing.T) {
	d := newDispatcher(&stubDelegate{name: "stub", text: "ok"})

	tests := []struct {
		name string
		req  Request
		kind ErrorKind
	}{
		{"empty code", Request{Code: "", Language: "python"}, KindValidation},
		{"blank code", Request{Code: "   \n\t", Language: "python"}, KindValidation},
		{"unsupported language", Request{Code: "x = 1", Language: "ruby"}, KindUnsupportedLanguage},
		{"unknown method", Request{Code: "x = 1", Language: "python", Method: "quantum"}, KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Dispatch(context.Background(), tt.req)
			de, ok := AsError(err)
			if !ok {
				t.Fatalf("error = %v, want dispatch.Error", err)
			}
			if de.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", de.Kind, tt.kind)
			}
		})
	}
}

func TestDispatchUnsupportedLanguageBeforeScan(t *testing.T) {
	stub := &stubDelegate{name: "stub", text: "ok"}
	d := newDispatcher(stub)

	_, err := d.Dispatch(context.Background(), Request{Code: "puts 'hi'", Language: "ruby", Method: MethodNLP})
	de, ok := AsError(err)
	if !ok || de.Kind != KindUnsupportedLanguage {
		t.Fatalf("error = %v, want UnsupportedLanguage", err)
	}
	if stub.calls != 0 {
		t.Error("delegate must not be contacted for an unsupported language")
	}
}

func TestDispatchRulePath(t *testing.T) {
	d := newDispatcher()

	res, err := d.Dispatch(context.Background(), Request{
		Code:     "def get_name(self): return self.name",
		Language: "python",
		Method:   MethodRule,
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Metadata.AnalysisType != "rule" {
		t.Errorf("analysis type = %q, want rule", res.Metadata.AnalysisType)
	}
	if !strings.Contains(res.Explanation, "get_name") {
		t.Errorf("explanation = %q, want get_name mentioned", res.Explanation)
	}
}

func TestDispatchDefaultMethodIsRule(t *testing.T) {
	stub := &stubDelegate{name: "stub", text: "model output"}
	d := newDispatcher(stub)

	res, err := d.Dispatch(context.Background(), Request{Code: "x = 1", Language: "python"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Metadata.AnalysisType != "rule" {
		t.Errorf("analysis type = %q, want rule", res.Metadata.AnalysisType)
	}
	if stub.calls != 0 {
		t.Error("delegate must not be contacted on the rule path")
	}
}

func TestDispatchDelegated(t *testing.T) {
	stub := &stubDelegate{name: "stub", text: "This code assigns a value.\nIt is very simple."}
	d := newDispatcher(stub)

	res, err := d.Dispatch(context.Background(), Request{
		Code:     "x = 1",
		Language: "python",
		Method:   MethodNLP,
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Explanation != stub.text {
		t.Errorf("explanation = %q, want the delegate's verbatim output", res.Explanation)
	}
	if res.Metadata.AnalysisType != "nlp" || res.Metadata.Provider != "stub" {
		t.Errorf("metadata = %+v", res.Metadata)
	}
	if res.Metadata.ModelUsed != "stub-model" {
		t.Errorf("model used = %q, want the provider default", res.Metadata.ModelUsed)
	}
	if !strings.Contains(res.Summary, "This code assigns a value.") {
		t.Errorf("summary = %q", res.Summary)
	}
	if !strings.HasPrefix(res.UserFriendlySummary, "In simple terms, this python code this code assigns") {
		t.Errorf("friendly summary = %q", res.UserFriendlySummary)
	}
}

func TestDispatchDelegateTimeout(t *testing.T) {
	stub := &stubDelegate{name: "stub", block: true}
	reg := delegate.NewRegistry()
	reg.Register(stub)
	d := New(reg, 20*time.Millisecond)

	start := time.Now()
	res, err := d.Dispatch(context.Background(), Request{
		Code:     "x = 1",
		Language: "python",
		Method:   MethodNLP,
	})
	if res != nil {
		t.Fatal("a timed-out delegate call must not return a result (no silent rule fallback)")
	}
	de, ok := AsError(err)
	if !ok || de.Kind != KindDelegateFailure {
		t.Fatalf("error = %v, want DelegateFailure", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("cause = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("dispatch blocked for %v, want bounded wait", elapsed)
	}
	if stub.calls != 1 {
		t.Errorf("delegate called %d times, want exactly one attempt", stub.calls)
	}
}

func TestDispatchDelegateError(t *testing.T) {
	stub := &stubDelegate{name: "stub", err: errors.New("quota exceeded")}
	d := newDispatcher(stub)

	_, err := d.Dispatch(context.Background(), Request{
		Code:     "x = 1",
		Language: "python",
		Method:   MethodNLP,
	})
	de, ok := AsError(err)
	if !ok || de.Kind != KindDelegateFailure {
		t.Fatalf("error = %v, want DelegateFailure", err)
	}
	if !strings.Contains(de.Error(), "quota exceeded") {
		t.Errorf("error message = %q, want the delegate's reason surfaced", de.Error())
	}
}

func TestDispatchNoDelegateConfigured(t *testing.T) {
	d := newDispatcher()

	_, err := d.Dispatch(context.Background(), Request{
		Code:     "x = 1",
		Language: "python",
		Method:   MethodNLP,
	})
	de, ok := AsError(err)
	if !ok || de.Kind != KindDelegateFailure {
		t.Fatalf("error = %v, want DelegateFailure when no delegate exists", err)
	}
}

func TestDispatchModelRouting(t *testing.T) {
	first := &stubDelegate{name: "first", text: "a", models: []delegate.ModelInfo{{ID: "model-a"}}}
	second := &stubDelegate{name: "second", text: "b", models: []delegate.ModelInfo{{ID: "model-b"}}}
	d := newDispatcher(first, second)

	res, err := d.Dispatch(context.Background(), Request{
		Code:      "x = 1",
		Language:  "python",
		Method:    MethodNLP,
		ModelName: "model-b",
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Metadata.Provider != "second" || res.Metadata.ModelUsed != "model-b" {
		t.Errorf("metadata = %+v, want routed to second/model-b", res.Metadata)
	}
	if first.calls != 0 || second.calls != 1 {
		t.Errorf("calls = first:%d second:%d", first.calls, second.calls)
	}
}

func TestDispatchReportsProviderDefaultModel(t *testing.T) {
	// The configured default is the second catalog entry; the metadata must
	// follow the provider's choice, not catalog position.
	stub := &stubDelegate{
		name: "stub",
		text: "ok",
		models: []delegate.ModelInfo{
			{ID: "model-fast"},
			{ID: "model-strong"},
		},
		defaultModel: "model-strong",
	}
	d := newDispatcher(stub)

	res, err := d.Dispatch(context.Background(), Request{
		Code:     "x = 1",
		Language: "python",
		Method:   MethodNLP,
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Metadata.ModelUsed != "model-strong" {
		t.Errorf("model used = %q, want the provider's default model-strong", res.Metadata.ModelUsed)
	}
	if stub.gotModel != "model-strong" {
		t.Errorf("delegate received model %q, want the resolved default", stub.gotModel)
	}
}

func TestLowerFirstMultiByte(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Éste código", "éste código"},
		{"Ça marche", "ça marche"},
		{"This works", "this works"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lowerFirst(tt.in); got != tt.want {
			t.Errorf("lowerFirst(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateRuneBoundary(t *testing.T) {
	s := strings.Repeat("ñ", 10)
	got := truncate(s, 4)
	if got != strings.Repeat("ñ", 4)+"..." {
		t.Errorf("truncate = %q, want four whole runes", got)
	}
	if got := truncate("short", 200); got != "short" {
		t.Errorf("truncate under limit = %q, want unchanged", got)
	}
}

func TestStructureDelegateTextSkipsHeadings(t *testing.T) {
	text := "# Overview\nThis function sums numbers.\nIt loops over the input.\nMore detail here."
	res := structureDelegateText(text, patterns.Python, "stub", "m")
	if res.Summary != "This function sums numbers. It loops over the input." {
		t.Errorf("summary = %q", res.Summary)
	}
	if !strings.Contains(res.Details, "More detail here.") {
		t.Errorf("details = %q", res.Details)
	}
	if res.Explanation != text {
		t.Error("explanation must keep the verbatim model output")
	}
}

// Package analyzer runs the rule-based explanation pipeline: pattern lookup,
// structural extraction, heuristic description, and report assembly. The
// pipeline is deterministic and never fails on a supported language.
package analyzer

import (
	"strings"

	"codexplain/internal/assemble"
	"codexplain/internal/describe"
	"codexplain/internal/extract"
	"codexplain/internal/patterns"
)

// Symbol is one named element surfaced in the structured result.
type Symbol struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Line        int    `json:"line,omitempty"`
	Description string `json:"description"`
}

// Metadata records how a result was produced.
type Metadata struct {
	ModelUsed    string `json:"model_used"`
	AnalysisType string `json:"analysis_type"`
	Provider     string `json:"provider,omitempty"`
}

// Result is the full explanation payload returned to callers. Explanation is
// the rendered report text; the remaining fields break the same content down
// for clients that render sections themselves.
type Result struct {
	Explanation         string   `json:"explanation"`
	Summary             string   `json:"summary"`
	UserFriendlySummary string   `json:"user_friendly_summary"`
	Details             string   `json:"details"`
	FullExplanation     string   `json:"full_explanation"`
	Functions           []Symbol `json:"functions"`
	Classes             []Symbol `json:"classes"`
	Variables           []Symbol `json:"variables"`
	Imports             []Symbol `json:"imports"`
	Language            string   `json:"language"`
	Metadata            Metadata `json:"metadata"`
}

// Analyze runs the rule-based pipeline on the given code. The language tag
// may be any recognized alias; patterns.ErrUnsupportedLanguage is the only
// possible failure.
func Analyze(code, language string) (*Result, error) {
	set, err := patterns.Get(language)
	if err != nil {
		return nil, err
	}
	lang := set.Language

	elements := extract.Scan(code, set)

	described := make([]assemble.Described, 0, len(elements))
	for _, el := range elements {
		described = append(described, assemble.Described{
			Element: el,
			Lines:   describe.Describe(el, lang),
		})
	}

	exp := assemble.Build(lang, described)
	text := exp.Render()

	res := &Result{
		Explanation:     text,
		FullExplanation: text,
		Language:        string(lang),
		Metadata: Metadata{
			ModelUsed:    "rule-based",
			AnalysisType: "rule",
		},
	}
	fillSummaries(res, exp)
	fillSymbols(res, described)
	return res, nil
}

// fillSummaries copies the Summary section into the flat summary fields.
// The first summary line is the count sentence; the second (when present) is
// the plain-language sentence.
func fillSummaries(res *Result, exp *assemble.Explanation) {
	for _, sec := range exp.Sections {
		if sec.Title != "Summary" {
			continue
		}
		if len(sec.Lines) > 0 {
			res.Summary = sec.Lines[0]
		}
		if len(sec.Lines) > 1 {
			res.UserFriendlySummary = sec.Lines[1]
		} else {
			res.UserFriendlySummary = res.Summary
		}
	}
	// Details carries everything past the summary.
	if idx := strings.Index(res.Explanation, "\n## "); idx >= 0 {
		res.Details = strings.TrimSpace(res.Explanation[idx:])
	}
}

// fillSymbols distributes named elements into the per-kind symbol lists.
func fillSymbols(res *Result, described []assemble.Described) {
	for _, d := range described {
		el := d.Element
		if el.Name == "" {
			continue
		}
		desc := ""
		if len(d.Lines) > 0 {
			desc = d.Lines[0]
		}
		sym := Symbol{Name: el.Name, Type: string(el.Kind), Line: el.Line, Description: desc}
		switch el.Kind {
		case patterns.KindFunction:
			res.Functions = append(res.Functions, sym)
		case patterns.KindClass:
			res.Classes = append(res.Classes, sym)
		case patterns.KindVariable:
			res.Variables = append(res.Variables, sym)
		case patterns.KindImport:
			res.Imports = append(res.Imports, sym)
		}
	}
}

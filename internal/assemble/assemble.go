// Package assemble builds the final explanation report from described
// elements. Section ordering is fixed: Summary always comes first, then
// Functional Analysis, then the remaining kind sections in enumerated order.
// Kinds with no elements are omitted entirely.
package assemble

import (
	"fmt"
	"strings"

	"codexplain/internal/extract"
	"codexplain/internal/patterns"
)

// Section is one titled block of the explanation.
type Section struct {
	Title string
	Lines []string
}

// Explanation is the ordered sequence of sections. It always contains at
// least the Summary section.
type Explanation struct {
	Sections []Section
}

// Render produces the explanation as deterministic markdown text.
func (e *Explanation) Render() string {
	var sb strings.Builder
	for i, sec := range e.Sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("## " + sec.Title + "\n\n")
		for _, line := range sec.Lines {
			if sec.Title == "Summary" {
				sb.WriteString(line + "\n")
			} else {
				sb.WriteString("- " + line + "\n")
			}
		}
	}
	return sb.String()
}

// Described pairs an element with its description lines.
type Described struct {
	Element extract.Element
	Lines   []string
}

// sectionSpec fixes the title and kind grouping for each non-summary section.
var sectionSpecs = []struct {
	Title string
	Kinds []patterns.Kind
}{
	{"Functional Analysis", []patterns.Kind{patterns.KindFunction}},
	{"Classes", []patterns.Kind{patterns.KindClass}},
	{"Variables", []patterns.Kind{patterns.KindVariable}},
	{"Imports", []patterns.Kind{patterns.KindImport}},
	{"Control Flow", []patterns.Kind{patterns.KindLoop, patterns.KindConditional}},
	{"Asynchronous Behavior", []patterns.Kind{patterns.KindAsync}},
}

// Build assembles the ordered explanation for the given language. The input
// order of described elements is preserved within each section.
func Build(lang patterns.Language, described []Described) *Explanation {
	exp := &Explanation{}
	exp.Sections = append(exp.Sections, summarize(lang, described))

	for _, spec := range sectionSpecs {
		var lines []string
		seen := make(map[string]bool)
		for _, d := range described {
			if !kindIn(d.Element.Kind, spec.Kinds) {
				continue
			}
			for _, line := range d.Lines {
				if seen[line] {
					continue // identical repeated findings collapse to one line
				}
				seen[line] = true
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}
		exp.Sections = append(exp.Sections, Section{Title: spec.Title, Lines: lines})
	}

	return exp
}

func kindIn(k patterns.Kind, kinds []patterns.Kind) bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}
	return false
}

// summarize synthesizes the Summary section from aggregate counts plus a
// plain-language sentence about what the code does.
func summarize(lang patterns.Language, described []Described) Section {
	counts := make(map[patterns.Kind]int)
	for _, d := range described {
		counts[d.Element.Kind]++
	}

	if len(described) == 0 {
		return Section{
			Title: "Summary",
			Lines: []string{fmt.Sprintf("No recognizable structure was detected in the provided %s code.", lang)},
		}
	}

	var parts []string
	appendCount := func(k patterns.Kind, singular, plural string) {
		n := counts[k]
		if n == 0 {
			return
		}
		if n == 1 {
			parts = append(parts, fmt.Sprintf("1 %s", singular))
		} else {
			parts = append(parts, fmt.Sprintf("%d %s", n, plural))
		}
	}
	appendCount(patterns.KindFunction, "function", "functions")
	appendCount(patterns.KindClass, "class", "classes")
	appendCount(patterns.KindVariable, "variable", "variables")
	appendCount(patterns.KindImport, "import", "imports")
	appendCount(patterns.KindLoop, "loop", "loops")
	appendCount(patterns.KindConditional, "conditional", "conditionals")

	lines := []string{
		fmt.Sprintf("Found %s in the provided %s code.", joinNatural(parts), lang),
		FriendlySentence(lang, Features(counts)),
	}
	return Section{Title: "Summary", Lines: lines}
}

// Features maps element counts onto the plain-language feature phrases used
// in the friendly summary sentence.
func Features(counts map[patterns.Kind]int) []string {
	var features []string
	if counts[patterns.KindFunction] > 0 {
		features = append(features, "defines reusable functions")
	}
	if counts[patterns.KindClass] > 0 {
		features = append(features, "creates object-oriented classes")
	}
	if counts[patterns.KindVariable] > 0 {
		features = append(features, "stores data in variables")
	}
	if counts[patterns.KindImport] > 0 {
		features = append(features, "uses external libraries")
	}
	if counts[patterns.KindConditional] > 0 {
		features = append(features, "makes decisions based on conditions")
	}
	if counts[patterns.KindLoop] > 0 {
		features = append(features, "repeats operations multiple times")
	}
	if counts[patterns.KindAsync] > 0 {
		features = append(features, "performs operations that take time to complete")
	}
	return features
}

// FriendlySentence renders the "In simple terms" sentence with natural list
// joining (one item, two items, or an Oxford-comma list).
func FriendlySentence(lang patterns.Language, features []string) string {
	if len(features) == 0 {
		return fmt.Sprintf("In simple terms, this %s code performs basic programming operations.", lang)
	}
	return fmt.Sprintf("In simple terms, this %s code %s.", lang, joinNatural(features))
}

// joinNatural joins items as "a", "a and b", or "a, b, and c".
func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// Package extract implements the structural extractor: a best-effort lexical
// scan of source text against a language's pattern set. It is not a parser —
// there is no scope model, so nested declarations are reported as siblings in
// document order.
package extract

import (
	"bufio"
	"strings"

	"codexplain/internal/patterns"
)

// Element is a structural occurrence detected in source text. Elements are
// created here and never mutated afterwards.
type Element struct {
	Kind  patterns.Kind
	Name  string // may be empty for unnamed constructs (loops, conditionals)
	Line  int    // 1-based, approximate
	Raw   string // the trimmed source line the element was found on
	Flags map[string]bool
}

// HasFlag reports whether the element carries the named contextual flag.
func (e Element) HasFlag(name string) bool {
	return e.Flags[name]
}

// Scan walks the code line by line and returns detected elements in document
// order. Within a kind the first matching signature wins per line; different
// kinds may each contribute an element for the same line. Scan never fails:
// unmatched or malformed input simply yields fewer (or zero) elements.
func Scan(code string, set *patterns.Set) []Element {
	var elements []Element

	scanner := bufio.NewScanner(strings.NewReader(code))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isComment(trimmed, set.Language) {
			continue
		}

		var lineFuncs []string
		for _, kp := range set.Kinds() {
			for _, s := range kp.Signatures {
				name, flags, ok := s.Match(line)
				if !ok {
					continue
				}

				// A declaration like `const f = () => ...` matches both the
				// function and variable tables; the function reading wins and
				// the duplicate variable element is dropped.
				if kp.Kind == patterns.KindVariable && contains(lineFuncs, name) {
					break
				}

				el := Element{
					Kind:  kp.Kind,
					Name:  name,
					Line:  lineNum,
					Raw:   trimmed,
					Flags: elementFlags(name, line, flags),
				}
				elements = append(elements, el)
				if kp.Kind == patterns.KindFunction {
					lineFuncs = append(lineFuncs, name)
				}
				break // first match wins within this kind
			}
		}
	}

	return elements
}

// elementFlags merges signature-level flags with flags derived from the
// matched line and name.
func elementFlags(name, line string, sigFlags []string) map[string]bool {
	flags := make(map[string]bool)
	for _, f := range sigFlags {
		flags[f] = true
	}
	if strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__") {
		flags[patterns.FlagPrivate] = true
	}
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") && len(name) > 4 {
		flags[patterns.FlagSpecial] = true
	}
	if hasParameters(line) {
		flags[patterns.FlagHasParams] = true
	}
	return flags
}

// hasParameters reports whether the line carries a non-empty parameter list.
func hasParameters(line string) bool {
	open := strings.Index(line, "(")
	if open < 0 {
		return false
	}
	end := strings.Index(line[open:], ")")
	if end < 0 {
		// Unterminated list on this line; assume parameters follow.
		return strings.TrimSpace(line[open+1:]) != ""
	}
	inner := strings.TrimSpace(line[open+1 : open+end])
	return inner != "" && inner != "void"
}

// isComment reports whether the trimmed line is a comment for the language.
// Block comment bodies are not tracked; this only suppresses obvious cases.
func isComment(trimmed string, lang patterns.Language) bool {
	switch lang {
	case patterns.Python:
		return strings.HasPrefix(trimmed, "#")
	default:
		return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*")
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

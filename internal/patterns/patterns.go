// Package patterns holds the per-language lexical signature tables used by
// the structural extractor. The tables are built once at package init and are
// read-only afterwards, so they are safe to share across concurrent requests
// without locking.
package patterns

import (
	"errors"
	"regexp"
	"strings"
)

// Language identifies a supported source language.
type Language string

// Supported languages.
const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	Java       Language = "java"
	CPP        Language = "c++"
)

// ErrUnsupportedLanguage is returned when a language tag is not one of the
// supported set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Kind classifies a structural element detected in source text.
type Kind string

// Element kinds.
const (
	KindFunction    Kind = "function"
	KindClass       Kind = "class"
	KindVariable    Kind = "variable"
	KindImport      Kind = "import"
	KindLoop        Kind = "loop"
	KindConditional Kind = "conditional"
	KindAsync       Kind = "async"
)

// Flag names attached to extracted elements.
const (
	FlagAsync      = "async"
	FlagPrivate    = "private"
	FlagEntrypoint = "entrypoint"
	FlagHasParams  = "has_params"
	FlagSpecial    = "special"
	FlagArrow      = "arrow"
)

// Signature is a single matchable token pattern. The first capture group, if
// present, is the element name. Exclude lists identifier captures that must
// not produce an element (keywords that the name regex would otherwise pick
// up, e.g. "if" matching a C function signature).
type Signature struct {
	re      *regexp.Regexp
	flags   []string
	exclude []string
}

// sig builds a Signature from a pattern and optional flags.
func sig(pattern string, flags ...string) Signature {
	return Signature{re: regexp.MustCompile(pattern), flags: flags}
}

// sigExcluding builds a Signature that rejects the given captured names.
func sigExcluding(pattern string, exclude []string, flags ...string) Signature {
	return Signature{re: regexp.MustCompile(pattern), flags: flags, exclude: exclude}
}

// Match reports whether the signature matches the line. On a match it returns
// the captured name (empty for unnamed signatures) and the signature's flags.
func (s Signature) Match(line string) (name string, flags []string, ok bool) {
	m := s.re.FindStringSubmatch(line)
	if m == nil {
		return "", nil, false
	}
	if len(m) > 1 {
		name = m[1]
	}
	for _, ex := range s.exclude {
		if name == ex {
			return "", nil, false
		}
	}
	return name, s.flags, true
}

// KindPatterns binds an element kind to its ordered signature list. Within a
// kind, the first matching signature wins for a given line.
type KindPatterns struct {
	Kind       Kind
	Signatures []Signature
}

// Set is the immutable pattern table for one language.
type Set struct {
	Language Language
	kinds    []KindPatterns
}

// Kinds returns the pattern groups in their fixed scan order.
func (s *Set) Kinds() []KindPatterns {
	return s.kinds
}

// HasKind reports whether the set defines patterns for the given kind.
func (s *Set) HasKind(k Kind) bool {
	for _, kp := range s.kinds {
		if kp.Kind == k {
			return true
		}
	}
	return false
}

// aliases maps loose language tags onto the canonical enum.
var aliases = map[string]Language{
	"python":     Python,
	"py":         Python,
	"javascript": JavaScript,
	"js":         JavaScript,
	"java":       Java,
	"c++":        CPP,
	"cpp":        CPP,
}

// Normalize resolves a loose language tag to its canonical Language.
func Normalize(tag string) (Language, error) {
	lang, ok := aliases[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return "", ErrUnsupportedLanguage
	}
	return lang, nil
}

// Get returns the immutable pattern set for the given language tag.
func Get(tag string) (*Set, error) {
	lang, err := Normalize(tag)
	if err != nil {
		return nil, err
	}
	return sets[lang], nil
}

// All returns the canonical names of every supported language, in a fixed
// order suitable for error messages and catalogs.
func All() []Language {
	return []Language{JavaScript, Python, Java, CPP}
}

// sets is the process-wide pattern table, keyed by canonical language.
// Built once here and never mutated.
var sets = map[Language]*Set{
	Python:     pythonSet,
	JavaScript: javascriptSet,
	Java:       javaSet,
	CPP:        cppSet,
}

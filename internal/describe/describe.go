// Package describe turns structural elements into human-readable sentence
// fragments. Naming-convention rules are applied in a fixed priority order so
// the output is deterministic for identical input.
package describe

import (
	"fmt"
	"strings"

	"codexplain/internal/extract"
	"codexplain/internal/patterns"
)

// rule maps a naming convention onto a description. Rules are tried in order;
// the first applicable rule wins.
type rule struct {
	applies func(el extract.Element) bool
	render  func(el extract.Element, lang patterns.Language) string
}

// functionRules is the fixed-priority convention table for functions.
var functionRules = []rule{
	{
		applies: func(el extract.Element) bool {
			return el.HasFlag(patterns.FlagEntrypoint) || el.Name == "main"
		},
		render: func(el extract.Element, lang patterns.Language) string {
			return fmt.Sprintf("Function `%s` is the program's entry point.", el.Name)
		},
	},
	{
		applies: func(el extract.Element) bool {
			return el.HasFlag(patterns.FlagSpecial)
		},
		render: func(el extract.Element, lang patterns.Language) string {
			return fmt.Sprintf("Special method `%s` customizes built-in object behavior.", el.Name)
		},
	},
	{
		applies: hasPrefix("test_", "test"),
		render: func(el extract.Element, lang patterns.Language) string {
			return fmt.Sprintf("Function `%s` is a test case.", el.Name)
		},
	},
	{
		applies: hasPrefix("get_", "get", "fetch"),
		render: func(el extract.Element, lang patterns.Language) string {
			return fmt.Sprintf("Function `%s` is an accessor that retrieves data.", el.Name)
		},
	},
	{
		applies: hasPrefix("set_", "set", "update"),
		render: func(el extract.Element, lang patterns.Language) string {
			return fmt.Sprintf("Function `%s` is an accessor that updates data.", el.Name)
		},
	},
	{
		applies: hasPrefix("is_", "has_", "can_"),
		render: func(el extract.Element, lang patterns.Language) string {
			return fmt.Sprintf("Function `%s` is a predicate that answers a yes/no question.", el.Name)
		},
	},
	{
		applies: hasPrefix("handle_", "handle", "on_", "on"),
		render: func(el extract.Element, lang patterns.Language) string {
			return fmt.Sprintf("Function `%s` handles an event or incoming request.", el.Name)
		},
	},
	{
		applies: hasPrefix("calc", "compute"),
		render: func(el extract.Element, lang patterns.Language) string {
			return fmt.Sprintf("Function `%s` performs a calculation.", el.Name)
		},
	},
	{
		applies: hasPrefix("show", "display", "print", "render"),
		render: func(el extract.Element, lang patterns.Language) string {
			return fmt.Sprintf("Function `%s` displays information to the user.", el.Name)
		},
	},
	{
		applies: func(el extract.Element) bool {
			return el.HasFlag(patterns.FlagPrivate)
		},
		render: func(el extract.Element, lang patterns.Language) string {
			return fmt.Sprintf("Function `%s` is internal/private by convention.", el.Name)
		},
	},
}

// Describe returns the description lines for one element. Functions get the
// convention rules plus qualifiers; other kinds get a generic line by kind.
func Describe(el extract.Element, lang patterns.Language) []string {
	switch el.Kind {
	case patterns.KindFunction:
		return []string{describeFunction(el, lang)}
	case patterns.KindClass:
		return []string{describeClass(el)}
	case patterns.KindVariable:
		if el.Name == "" {
			return nil
		}
		return []string{fmt.Sprintf("Variable `%s` stores data used by the program.", el.Name)}
	case patterns.KindImport:
		if el.Name == "" {
			return nil
		}
		return []string{fmt.Sprintf("Imports `%s`.", el.Name)}
	case patterns.KindLoop:
		return []string{"Repeats operations using a loop."}
	case patterns.KindConditional:
		return []string{"Makes a decision using conditional logic."}
	case patterns.KindAsync:
		return []string{"Performs asynchronous work."}
	default:
		return nil
	}
}

func describeFunction(el extract.Element, lang patterns.Language) string {
	if el.Name == "" {
		return "Defines an unnamed function."
	}

	var line string
	for _, r := range functionRules {
		if r.applies(el) {
			line = r.render(el, lang)
			break
		}
	}
	if line == "" {
		// Generic fallback by kind.
		line = fmt.Sprintf("Function: `%s`.", el.Name)
	}

	var qualifiers []string
	if el.HasFlag(patterns.FlagAsync) {
		qualifiers = append(qualifiers, "declared async")
	}
	if el.HasFlag(patterns.FlagHasParams) {
		qualifiers = append(qualifiers, "takes parameters")
	}
	if len(qualifiers) > 0 {
		line = strings.TrimSuffix(line, ".")
		line += fmt.Sprintf(" (%s).", strings.Join(qualifiers, ", "))
	}
	return line
}

func describeClass(el extract.Element) string {
	if el.Name == "" {
		return "Defines an unnamed class."
	}
	line := fmt.Sprintf("Class `%s` serves as a blueprint for creating objects.", el.Name)
	if el.HasFlag(patterns.FlagPrivate) {
		line = fmt.Sprintf("Class `%s` is internal/private by convention.", el.Name)
	}
	return line
}

// hasPrefix builds an applies func matching any of the given name prefixes,
// case-insensitively. Underscore-suffixed prefixes are tried as written; bare
// prefixes also match camelCase names (getName, fetchRows).
func hasPrefix(prefixes ...string) func(el extract.Element) bool {
	return func(el extract.Element) bool {
		name := strings.ToLower(el.Name)
		for _, p := range prefixes {
			if strings.HasPrefix(name, p) {
				return true
			}
		}
		return false
	}
}

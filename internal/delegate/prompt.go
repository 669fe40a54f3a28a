package delegate

import (
	"fmt"

	"codexplain/internal/patterns"
)

// languageContext carries the language-specific hints woven into the prompt.
type languageContext struct {
	description string
	features    string
	idioms      string
}

var languageContexts = map[patterns.Language]languageContext{
	patterns.Python: {
		description: "Python programming language",
		features:    "dynamic typing, object-oriented programming, functional programming, extensive standard library",
		idioms:      "functions, classes, decorators, list comprehensions, context managers",
	},
	patterns.JavaScript: {
		description: "JavaScript programming language",
		features:    "dynamic typing, event-driven programming, asynchronous programming, DOM manipulation",
		idioms:      "functions, arrow functions, promises, async/await, objects, arrays",
	},
	patterns.Java: {
		description: "Java programming language",
		features:    "static typing, object-oriented programming, platform independence, strong type system",
		idioms:      "classes, interfaces, inheritance, polymorphism, exception handling",
	},
	patterns.CPP: {
		description: "C++ programming language",
		features:    "static typing, low-level control, object-oriented programming, template metaprogramming",
		idioms:      "classes, templates, pointers, memory management, RAII",
	},
}

// BuildPrompt renders the explanation prompt for the given code and language.
// The prompt asks for a structured, educational walkthrough; the model's text
// is returned to the caller verbatim, so the prompt also carries the desired
// output shape.
func BuildPrompt(code string, lang patterns.Language) string {
	lc := languageContexts[lang]
	return fmt.Sprintf(`You are a senior software engineer and coding mentor with expertise in %s.
Explain the following code in a clear, educational manner.

Code (%s):
`+"```"+`
%s
`+"```"+`

Provide:
1. Overview: a one-sentence summary of what this code does.
2. Step-by-step breakdown of each major part, in order.
3. Purpose and functionality: how the code accomplishes its goal.
4. Key concepts: the %s features in use (%s) and relevant patterns (%s).

Write in clear, conversational English. Focus on WHAT the code does, HOW it
works, and WHY it is structured this way. Be thorough but concise.`,
		lc.description, lang, code, lang, lc.features, lc.idioms)
}

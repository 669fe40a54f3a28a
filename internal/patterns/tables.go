package patterns

// Per-language signature tables. Scan order within a set is fixed:
// imports first, then declarations, then control flow, then async markers.
// The extractor relies on this ordering being stable so that identical input
// always produces identical element sequences.

var pythonSet = &Set{
	Language: Python,
	kinds: []KindPatterns{
		{KindImport, []Signature{
			sig(`^\s*from\s+([\w.]+)\s+import\b`),
			sig(`^\s*import\s+([\w.]+)`),
		}},
		{KindFunction, []Signature{
			sig(`^\s*async\s+def\s+([A-Za-z_]\w*)\s*\(`, FlagAsync),
			sig(`^\s*def\s+([A-Za-z_]\w*)\s*\(`),
		}},
		{KindClass, []Signature{
			sig(`^\s*class\s+([A-Za-z_]\w*)`),
		}},
		{KindVariable, []Signature{
			// Module-level assignment only; indented assignments belong to a
			// scope the lexical scan has no model for.
			sig(`^([A-Za-z_]\w*)\s*=\s*[^=]`),
		}},
		{KindLoop, []Signature{
			sig(`^\s*for\s+\w+`),
			sig(`^\s*while\s+`),
		}},
		{KindConditional, []Signature{
			sig(`^\s*(?:if|elif)[\s(]`),
			sig(`^\s*else\s*:`),
		}},
		{KindAsync, []Signature{
			sig(`\bawait\s`),
			sig(`\basyncio\.`),
		}},
	},
}

var javascriptSet = &Set{
	Language: JavaScript,
	kinds: []KindPatterns{
		{KindImport, []Signature{
			sig(`^\s*import\s+.*from\s+['"]([^'"]+)['"]`),
			sig(`^\s*import\s+['"]([^'"]+)['"]`),
			sig(`require\s*\(\s*['"]([^'"]+)['"]`),
		}},
		{KindFunction, []Signature{
			sig(`\basync\s+function\s*\*?\s*([A-Za-z_$][\w$]*)`, FlagAsync),
			sig(`\bfunction\s*\*?\s*([A-Za-z_$][\w$]*)`),
			sig(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*async\b[^;]*=>`, FlagAsync, FlagArrow),
			sig(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=[^;]*=>`, FlagArrow),
			sig(`^\s*([A-Za-z_$][\w$]*)\s*:\s*(?:async\s+)?function\b`),
		}},
		{KindClass, []Signature{
			sig(`\bclass\s+([A-Za-z_$][\w$]*)`),
		}},
		{KindVariable, []Signature{
			sig(`\b(?:let|const|var)\s+([A-Za-z_$][\w$]*)`),
		}},
		{KindLoop, []Signature{
			sig(`\bfor\s*\(`),
			sig(`\bwhile\s*\(`),
			sig(`\.forEach\s*\(`),
		}},
		{KindConditional, []Signature{
			sig(`\bif\s*\(`),
			sig(`\belse\b`),
			sig(`\bswitch\s*\(`),
		}},
		{KindAsync, []Signature{
			sig(`\bawait\s`),
			sig(`\.then\s*\(`),
			sig(`\bnew\s+Promise\b`),
		}},
	},
}

// javaMethodExclusions are control-flow keywords the loose method signature
// regex would otherwise capture as method names.
var javaMethodExclusions = []string{"if", "for", "while", "switch", "catch", "synchronized", "new", "return"}

var javaSet = &Set{
	Language: Java,
	kinds: []KindPatterns{
		{KindImport, []Signature{
			sig(`^\s*import\s+(?:static\s+)?([\w.]+?)\s*;`),
		}},
		{KindClass, []Signature{
			sig(`\b(?:class|interface|enum|record)\s+([A-Za-z_]\w*)`),
		}},
		{KindFunction, []Signature{
			sig(`\bpublic\s+static\s+void\s+(main)\s*\(`, FlagEntrypoint),
			sigExcluding(
				`^\s*(?:(?:public|private|protected|static|final|abstract|synchronized|native)\s+)+[\w<>\[\],.\s]+?\s+([A-Za-z_]\w*)\s*\([^;]*\)\s*(?:throws\b[^{]*)?\{`,
				javaMethodExclusions),
		}},
		{KindVariable, []Signature{
			sigExcluding(
				`^\s*(?:(?:public|private|protected|static|final)\s+)*(?:int|long|short|byte|double|float|boolean|char|String|var)(?:\[\])?\s+([A-Za-z_]\w*)\s*[=;]`,
				javaMethodExclusions),
		}},
		{KindLoop, []Signature{
			sig(`\bfor\s*\(`),
			sig(`\bwhile\s*\(`),
			sig(`\bdo\s*\{`),
		}},
		{KindConditional, []Signature{
			sig(`\bif\s*\(`),
			sig(`\belse\b`),
			sig(`\bswitch\s*\(`),
		}},
		{KindAsync, []Signature{
			sig(`\bCompletableFuture\b`),
			sig(`\bnew\s+Thread\b`),
			sig(`\bExecutorService\b`),
		}},
	},
}

// cppFunctionExclusions mirrors the Java list for the loose C++ signature.
var cppFunctionExclusions = []string{"if", "for", "while", "switch", "catch", "return", "sizeof"}

var cppSet = &Set{
	Language: CPP,
	kinds: []KindPatterns{
		{KindImport, []Signature{
			sig(`^\s*#\s*include\s*[<"]([\w./]+)[>"]`),
		}},
		{KindClass, []Signature{
			sig(`\b(?:class|struct)\s+([A-Za-z_]\w*)`),
		}},
		{KindFunction, []Signature{
			sig(`\bint\s+(main)\s*\(`, FlagEntrypoint),
			sigExcluding(
				`^\s*(?:[\w:~]+(?:<[^<>]*>)?[\s*&]+)+([A-Za-z_]\w*)\s*\([^;]*\)\s*(?:const\s*)?\{`,
				cppFunctionExclusions),
		}},
		{KindVariable, []Signature{
			sigExcluding(
				`^\s*(?:const\s+)?(?:unsigned\s+)?(?:int|long|short|double|float|bool|char|auto|size_t|std::string|string)\s+([A-Za-z_]\w*)\s*[=;{]`,
				cppFunctionExclusions),
		}},
		{KindLoop, []Signature{
			sig(`\bfor\s*\(`),
			sig(`\bwhile\s*\(`),
			sig(`\bdo\s*\{`),
		}},
		{KindConditional, []Signature{
			sig(`\bif\s*\(`),
			sig(`\belse\b`),
			sig(`\bswitch\s*\(`),
		}},
		{KindAsync, []Signature{
			sig(`\bstd::thread\b`),
			sig(`\bstd::async\b`),
			sig(`\bco_await\b`),
		}},
	},
}

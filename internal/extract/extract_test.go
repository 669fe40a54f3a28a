package extract

import (
	"testing"

	"codexplain/internal/patterns"
)

func mustSet(t *testing.T, lang string) *patterns.Set {
	t.Helper()
	set, err := patterns.Get(lang)
	if err != nil {
		t.Fatalf("patterns.Get(%q): %v", lang, err)
	}
	return set
}

func byKind(elements []Element, kind patterns.Kind) []Element {
	var out []Element
	for _, el := range elements {
		if el.Kind == kind {
			out = append(out, el)
		}
	}
	return out
}

func TestScanEmptyInput(t *testing.T) {
	for _, lang := range patterns.All() {
		t.Run(string(lang), func(t *testing.T) {
			if got := Scan("", mustSet(t, string(lang))); len(got) != 0 {
				t.Errorf("Scan(empty) = %d elements, want 0", len(got))
			}
			if got := Scan("   \n\n\t\n", mustSet(t, string(lang))); len(got) != 0 {
				t.Errorf("Scan(blank lines) = %d elements, want 0", len(got))
			}
		})
	}
}

func TestScanSingleFunction(t *testing.T) {
	tests := []struct {
		lang string
		code string
		name string
	}{
		{"python", "def get_name(self):\n    return self.name\n", "get_name"},
		{"javascript", "function fetchData(url) {\n  return fetch(url);\n}\n", "fetchData"},
		{"java", "public static int add(int a, int b) {\n    return a + b;\n}\n", "add"},
		{"c++", "int add(int a, int b) {\n    return a + b;\n}\n", "add"},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			elements := Scan(tt.code, mustSet(t, tt.lang))
			funcs := byKind(elements, patterns.KindFunction)
			if len(funcs) != 1 {
				t.Fatalf("got %d function elements, want 1 (all: %+v)", len(funcs), elements)
			}
			if funcs[0].Name != tt.name {
				t.Errorf("function name = %q, want %q", funcs[0].Name, tt.name)
			}
			if funcs[0].Line != 1 {
				t.Errorf("function line = %d, want 1", funcs[0].Line)
			}
		})
	}
}

func TestScanPython(t *testing.T) {
	code := `import os
from typing import List

MAX_SIZE = 100

class Greeter:
    def __init__(self, name):
        self._name = name

    async def _fetch(self):
        data = await load()
        return data

for i in range(3):
    if i > 1:
        print(i)
`
	elements := Scan(code, mustSet(t, "python"))

	imports := byKind(elements, patterns.KindImport)
	if len(imports) != 2 {
		t.Errorf("imports = %d, want 2", len(imports))
	}
	if imports[0].Name != "os" || imports[1].Name != "typing" {
		t.Errorf("import names = %q, %q", imports[0].Name, imports[1].Name)
	}

	classes := byKind(elements, patterns.KindClass)
	if len(classes) != 1 || classes[0].Name != "Greeter" {
		t.Fatalf("classes = %+v, want one Greeter", classes)
	}

	funcs := byKind(elements, patterns.KindFunction)
	if len(funcs) != 2 {
		t.Fatalf("functions = %d, want 2 (nested methods report as siblings)", len(funcs))
	}
	if funcs[0].Name != "__init__" || !funcs[0].HasFlag(patterns.FlagSpecial) {
		t.Errorf("first function = %+v, want special __init__", funcs[0])
	}
	if funcs[1].Name != "_fetch" {
		t.Fatalf("second function = %q, want _fetch", funcs[1].Name)
	}
	if !funcs[1].HasFlag(patterns.FlagAsync) {
		t.Error("_fetch should carry the async flag")
	}
	if !funcs[1].HasFlag(patterns.FlagPrivate) {
		t.Error("_fetch should carry the private flag")
	}

	vars := byKind(elements, patterns.KindVariable)
	if len(vars) != 1 || vars[0].Name != "MAX_SIZE" {
		t.Errorf("variables = %+v, want module-level MAX_SIZE only", vars)
	}

	if n := len(byKind(elements, patterns.KindLoop)); n != 1 {
		t.Errorf("loops = %d, want 1", n)
	}
	if n := len(byKind(elements, patterns.KindConditional)); n != 1 {
		t.Errorf("conditionals = %d, want 1", n)
	}
	if n := len(byKind(elements, patterns.KindAsync)); n != 1 {
		t.Errorf("async markers = %d, want 1 (the await line)", n)
	}
}

func TestScanJavaScript(t *testing.T) {
	code := `import axios from "axios";
const fetchUser = async (id) => {
  const res = await axios.get("/users/" + id);
  return res.data;
};
class UserStore {}
let count = 0;
`
	elements := Scan(code, mustSet(t, "javascript"))

	funcs := byKind(elements, patterns.KindFunction)
	if len(funcs) != 1 || funcs[0].Name != "fetchUser" {
		t.Fatalf("functions = %+v, want one fetchUser", funcs)
	}
	if !funcs[0].HasFlag(patterns.FlagAsync) || !funcs[0].HasFlag(patterns.FlagArrow) {
		t.Errorf("fetchUser flags = %v, want async arrow", funcs[0].Flags)
	}

	// The arrow declaration must not also surface fetchUser as a variable,
	// but the plain let declaration is still a variable.
	vars := byKind(elements, patterns.KindVariable)
	for _, v := range vars {
		if v.Name == "fetchUser" {
			t.Error("fetchUser reported as both function and variable")
		}
	}
	found := false
	for _, v := range vars {
		if v.Name == "count" {
			found = true
		}
	}
	if !found {
		t.Errorf("variables = %+v, want count present", vars)
	}

	if n := len(byKind(elements, patterns.KindClass)); n != 1 {
		t.Errorf("classes = %d, want 1", n)
	}
	if n := len(byKind(elements, patterns.KindImport)); n != 1 {
		t.Errorf("imports = %d, want 1", n)
	}
}

func TestScanJavaEntrypoint(t *testing.T) {
	code := `import java.util.List;

public class App {
    public static void main(String[] args) {
        System.out.println("hi");
    }
}
`
	elements := Scan(code, mustSet(t, "java"))

	funcs := byKind(elements, patterns.KindFunction)
	if len(funcs) != 1 || funcs[0].Name != "main" {
		t.Fatalf("functions = %+v, want main only", funcs)
	}
	if !funcs[0].HasFlag(patterns.FlagEntrypoint) {
		t.Error("main should carry the entrypoint flag")
	}

	classes := byKind(elements, patterns.KindClass)
	if len(classes) != 1 || classes[0].Name != "App" {
		t.Errorf("classes = %+v, want App", classes)
	}

	imports := byKind(elements, patterns.KindImport)
	if len(imports) != 1 || imports[0].Name != "java.util.List" {
		t.Errorf("imports = %+v, want java.util.List", imports)
	}
}

func TestScanCPP(t *testing.T) {
	code := `#include <iostream>

int main() {
    int total = 0;
    for (int i = 0; i < 3; i++) {
        total += i;
    }
    std::cout << total;
    return 0;
}
`
	elements := Scan(code, mustSet(t, "c++"))

	funcs := byKind(elements, patterns.KindFunction)
	if len(funcs) != 1 || funcs[0].Name != "main" {
		t.Fatalf("functions = %+v, want main only", funcs)
	}
	if !funcs[0].HasFlag(patterns.FlagEntrypoint) {
		t.Error("main should carry the entrypoint flag")
	}

	imports := byKind(elements, patterns.KindImport)
	if len(imports) != 1 || imports[0].Name != "iostream" {
		t.Errorf("imports = %+v, want iostream", imports)
	}

	if n := len(byKind(elements, patterns.KindLoop)); n != 1 {
		t.Errorf("loops = %d, want 1", n)
	}

	vars := byKind(elements, patterns.KindVariable)
	if len(vars) != 1 || vars[0].Name != "total" {
		t.Errorf("variables = %+v, want total", vars)
	}
}

func TestScanCommentsIgnored(t *testing.T) {
	elements := Scan("# def hidden():\nx = 1\n", mustSet(t, "python"))
	for _, el := range elements {
		if el.Kind == patterns.KindFunction {
			t.Errorf("commented-out function surfaced: %+v", el)
		}
	}

	elements = Scan("// function hidden() {}\nlet y = 2;\n", mustSet(t, "javascript"))
	for _, el := range elements {
		if el.Kind == patterns.KindFunction {
			t.Errorf("commented-out function surfaced: %+v", el)
		}
	}
}

func TestScanDocumentOrder(t *testing.T) {
	code := "def first():\n    pass\n\ndef second():\n    pass\n"
	elements := Scan(code, mustSet(t, "python"))
	funcs := byKind(elements, patterns.KindFunction)
	if len(funcs) != 2 || funcs[0].Name != "first" || funcs[1].Name != "second" {
		t.Fatalf("functions = %+v, want first then second", funcs)
	}
	if funcs[0].Line >= funcs[1].Line {
		t.Errorf("lines not increasing: %d then %d", funcs[0].Line, funcs[1].Line)
	}
}

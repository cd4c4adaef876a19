package scaffold

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/steveyegge/workup/internal/errs"
)

// DefaultLanguage is used when Options.Language is empty.
const DefaultLanguage = "python"

// Language describes how stubs and the dependency manifest are written for
// one target language.
type Language struct {
	// Name is the lower-case language name used in configuration.
	Name string

	// Ext is the stub file extension, without the dot.
	Ext string

	// Manifest is the dependency manifest file name.
	Manifest string

	reserved map[string]bool
	stub     func(member, description, fn string) string
	manifest func(project string) (string, error)
}

// commentText puts s on one line so it cannot end a line comment early in
// either language.
var commentText = strings.NewReplacer(
	"\r\n", " ", "\r", " ", "\n", " ", "\v", " ", "\f", " ", "\x00", " ",
	"\x1c", " ", "\x1d", " ", "\x1e", " ",
	"\u0085", " ", "\u2028", " ", "\u2029", " ",
).Replace

// StubName returns the stub file name for a sanitized member name.
func (lang *Language) StubName(sanitized string) string {
	return sanitized + "_task." + lang.Ext
}

// Stub renders the starter source for one member. The output depends only
// on its arguments.
func (lang *Language) Stub(member, description string) string {
	return lang.stub(commentText(member), commentText(description), identifier(description, lang.reserved))
}

var languages = map[string]*Language{
	"python": {
		Name:     "python",
		Ext:      "py",
		Manifest: "requirements.txt",
		reserved: wordSet(
			"False", "None", "True", "and", "as", "assert", "async", "await",
			"break", "class", "continue", "def", "del", "elif", "else", "except",
			"finally", "for", "from", "global", "if", "import", "in", "is",
			"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
			"while", "with", "yield",
		),
		stub: func(member, description, fn string) string {
			var sb strings.Builder
			fmt.Fprintf(&sb, "# Starter code for %s\n", member)
			if description != "" {
				fmt.Fprintf(&sb, "# Task: %s\n", description)
			}
			fmt.Fprintf(&sb, "\n\ndef %s():\n    pass\n", fn)
			return sb.String()
		},
		manifest: func(string) (string, error) {
			return "# Add your project dependencies here\n", nil
		},
	},
	"javascript": {
		Name:     "javascript",
		Ext:      "js",
		Manifest: "package.json",
		reserved: wordSet(
			"await", "break", "case", "catch", "class", "const", "continue",
			"debugger", "default", "delete", "do", "else", "enum", "export",
			"extends", "false", "finally", "for", "function", "if", "implements",
			"import", "in", "instanceof", "interface", "let", "new", "null",
			"package", "private", "protected", "public", "return", "static",
			"super", "switch", "this", "throw", "true", "try", "typeof", "var",
			"void", "while", "with", "yield",
		),
		stub: func(member, description, fn string) string {
			var sb strings.Builder
			fmt.Fprintf(&sb, "// Starter code for %s\n", member)
			if description != "" {
				fmt.Fprintf(&sb, "// Task: %s\n", description)
			}
			fmt.Fprintf(&sb, "\nfunction %s() {\n  // placeholder\n}\n\nmodule.exports = { %s };\n", fn, fn)
			return sb.String()
		},
		manifest: func(project string) (string, error) {
			pkg := struct {
				Name    string `json:"name"`
				Version string `json:"version"`
				Main    string `json:"main"`
				License string `json:"license"`
			}{
				Name:    project,
				Version: "1.0.0",
				Main:    "index.js",
				License: "MIT",
			}
			data, err := json.MarshalIndent(pkg, "", "  ")
			if err != nil {
				return "", err
			}
			return string(data) + "\n", nil
		},
	},
}

// LookupLanguage returns the stub language registered under name
// (case-insensitive). An empty name selects DefaultLanguage.
func LookupLanguage(name string) (*Language, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultLanguage
	}
	lang, ok := languages[key]
	if !ok {
		return nil, errs.Unsupported("language", name)
	}
	return lang, nil
}

// Languages returns the registered language names, sorted.
func Languages() []string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

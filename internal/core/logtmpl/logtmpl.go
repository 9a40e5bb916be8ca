// Package logtmpl renders per-language debug print statements for the
// built-in log-insertion shortcut. Rendering is pure: it produces edits
// for the host to apply, never touching the document itself.
package logtmpl

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/colonyops/ghostmark/internal/editor"
)

// ErrUnsupportedLanguage is returned when no template exists for the
// document's language. Callers surface it as a warning, not a failure.
var ErrUnsupportedLanguage = errors.New("log insertion not supported for language")

// Edit is a single insertion for the host to apply.
type Edit struct {
	Pos  editor.Position
	Text string
}

type importRule struct {
	statement string
	check     *regexp.Regexp
}

type langTemplate struct {
	variable  *template.Template
	selection *template.Template
	imports   *importRule
}

type varData struct{ Name string }

type selData struct{ Placeholder string }

func mustTmpl(name, body string) *template.Template {
	return template.Must(template.New(name).Parse(body))
}

var goImport = &importRule{
	statement: `import "fmt"`,
	check:     regexp.MustCompile(`import\s+(\(|"fmt")`),
}

var templates = map[string]langTemplate{
	"javascript": {
		variable:  mustTmpl("js-var", `console.log('{{.Name}}:', {{.Name}});`),
		selection: mustTmpl("js-sel", `console.log('Selected code:', {{.Placeholder}});`),
	},
	"typescript": {
		variable:  mustTmpl("ts-var", `console.log('{{.Name}}:', {{.Name}});`),
		selection: mustTmpl("ts-sel", `console.log('Selected code:', {{.Placeholder}});`),
	},
	"python": {
		variable:  mustTmpl("py-var", `print(f'{{.Name}}: {{"{"}}{{.Name}}{{"}"}}')`),
		selection: mustTmpl("py-sel", `print(f'Selected code: {{"{"}}{{.Placeholder}}{{"}"}}')`),
	},
	"java": {
		variable:  mustTmpl("java-var", `System.out.println("{{.Name}}: " + {{.Name}});`),
		selection: mustTmpl("java-sel", `System.out.println("Selected code: " + {{.Placeholder}});`),
	},
	"csharp": {
		variable:  mustTmpl("cs-var", `Console.WriteLine($"{{.Name}}: {{"{"}}{{.Name}}{{"}"}}");`),
		selection: mustTmpl("cs-sel", `Console.WriteLine($"Selected code: {{"{"}}{{.Placeholder}}{{"}"}}");`),
	},
	"go": {
		variable:  mustTmpl("go-var", `fmt.Printf("{{.Name}}: %+v\n", {{.Name}})`),
		selection: mustTmpl("go-sel", `fmt.Printf("Selected code: %+v\n", {{.Placeholder}})`),
		imports:   goImport,
	},
	"rust": {
		variable:  mustTmpl("rust-var", `println!("{{.Name}}: {:?}", {{.Name}});`),
		selection: mustTmpl("rust-sel", `println!("Selected code: {:?}", {{.Placeholder}});`),
	},
	"php": {
		variable:  mustTmpl("php-var", `var_dump(${{.Name}});`),
		selection: mustTmpl("php-sel", `var_dump({{.Placeholder}});`),
	},
}

// languageAliases maps host language ids onto their base template.
var languageAliases = map[string]string{
	"javascriptreact": "javascript",
	"typescriptreact": "typescript",
}

// Supported reports whether a language has log templates.
func Supported(languageID string) bool {
	_, ok := lookup(languageID)
	return ok
}

func lookup(languageID string) (langTemplate, bool) {
	if base, ok := languageAliases[languageID]; ok {
		languageID = base
	}
	t, ok := templates[languageID]
	return t, ok
}

// VariableLog builds the edits inserting a debug print for varName on
// the line below pos, matching the line's indentation.
func VariableLog(doc editor.Document, varName string, pos editor.Position) ([]Edit, error) {
	lt, ok := lookup(doc.LanguageID())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, doc.LanguageID())
	}

	// PHP templates re-add the sigil themselves.
	if doc.LanguageID() == "php" {
		varName = strings.TrimPrefix(varName, "$")
	}

	stmt, err := render(lt.variable, varData{Name: varName})
	if err != nil {
		return nil, err
	}

	edits := []Edit{{
		Pos:  editor.Position{Line: pos.Line + 1},
		Text: indentOf(doc, pos.Line) + stmt + "\n",
	}}
	return withImport(doc, lt, edits), nil
}

// SelectionLog builds the edits inserting a debug print above a selected
// range. The selection text itself is summarized, not embedded.
func SelectionLog(doc editor.Document, sel editor.Range) ([]Edit, error) {
	lt, ok := lookup(doc.LanguageID())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, doc.LanguageID())
	}

	placeholder := fmt.Sprintf("%q", fmt.Sprintf("Selected %d line(s)", sel.Lines()))
	stmt, err := render(lt.selection, selData{Placeholder: placeholder})
	if err != nil {
		return nil, err
	}

	edits := []Edit{{
		Pos:  editor.Position{Line: sel.Start.Line},
		Text: indentOf(doc, sel.Start.Line) + stmt + "\n",
	}}
	return withImport(doc, lt, edits), nil
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render log template: %w", err)
	}
	return b.String(), nil
}

// withImport prepends an import edit when the language requires one and
// the document does not already have it.
func withImport(doc editor.Document, lt langTemplate, edits []Edit) []Edit {
	if lt.imports == nil || hasImport(doc, lt.imports.check) {
		return edits
	}
	imp := Edit{
		Pos:  importInsertPos(doc),
		Text: lt.imports.statement + "\n",
	}
	return append([]Edit{imp}, edits...)
}

func hasImport(doc editor.Document, check *regexp.Regexp) bool {
	for i := 0; i < doc.LineCount(); i++ {
		if text, err := doc.LineText(i); err == nil && check.MatchString(text) {
			return true
		}
	}
	return false
}

// importInsertPos scans the top of the file for the package declaration
// or the end of an existing import block.
func importInsertPos(doc editor.Document) editor.Position {
	limit := doc.LineCount()
	if limit > 50 {
		limit = 50
	}
	for i := 0; i < limit; i++ {
		text, err := doc.LineText(i)
		if err != nil {
			break
		}
		trimmed := strings.TrimSpace(text)
		if strings.HasPrefix(trimmed, "package ") {
			return editor.Position{Line: i + 1}
		}
		if i > 0 && !strings.HasPrefix(trimmed, "import") {
			prev, err := doc.LineText(i - 1)
			if err == nil && strings.HasPrefix(strings.TrimSpace(prev), "import") {
				return editor.Position{Line: i}
			}
		}
	}
	return editor.Position{}
}

func indentOf(doc editor.Document, line int) string {
	text, err := doc.LineText(line)
	if err != nil {
		return ""
	}
	return text[:len(text)-len(strings.TrimLeft(text, " \t"))]
}

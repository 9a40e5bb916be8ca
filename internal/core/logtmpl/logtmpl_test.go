package logtmpl

import (
	"errors"
	"testing"

	"github.com/colonyops/ghostmark/internal/editor"
	"github.com/colonyops/ghostmark/internal/editor/editortest"
)

func TestVariableLogLanguages(t *testing.T) {
	cases := []struct {
		language string
		want     string
	}{
		{"javascript", "console.log('count:', count);"},
		{"typescriptreact", "console.log('count:', count);"},
		{"python", "print(f'count: {count}')"},
		{"java", `System.out.println("count: " + count);`},
		{"rust", `println!("count: {:?}", count);`},
	}

	for _, tc := range cases {
		t.Run(tc.language, func(t *testing.T) {
			doc := editortest.NewDoc("file:///ws/a", tc.language, "  let count = 1;")
			edits, err := VariableLog(doc, "count", editor.Position{Line: 0, Col: 6})
			if err != nil {
				t.Fatalf("VariableLog: %v", err)
			}
			if len(edits) != 1 {
				t.Fatalf("got %d edits, want 1", len(edits))
			}
			if edits[0].Text != "  "+tc.want+"\n" {
				t.Errorf("text = %q, want indented %q", edits[0].Text, tc.want)
			}
			if edits[0].Pos.Line != 1 {
				t.Errorf("insert line = %d, want 1 (line below)", edits[0].Pos.Line)
			}
		})
	}
}

func TestVariableLogPHPSigil(t *testing.T) {
	doc := editortest.NewDoc("file:///ws/a.php", "php", "$user = load();")
	edits, err := VariableLog(doc, "$user", editor.Position{Line: 0})
	if err != nil {
		t.Fatalf("VariableLog: %v", err)
	}
	if edits[0].Text != "var_dump($user);\n" {
		t.Errorf("php text = %q", edits[0].Text)
	}
}

func TestVariableLogGoAddsImport(t *testing.T) {
	doc := editortest.NewDoc("file:///ws/main.go", "go",
		"package main",
		"",
		"func run() {",
		"\tn := 1",
		"}",
	)

	edits, err := VariableLog(doc, "n", editor.Position{Line: 3})
	if err != nil {
		t.Fatalf("VariableLog: %v", err)
	}
	if len(edits) != 2 {
		t.Fatalf("got %d edits, want import + statement", len(edits))
	}
	if edits[0].Text != "import \"fmt\"\n" || edits[0].Pos.Line != 1 {
		t.Errorf("import edit = %+v, want after package line", edits[0])
	}
	if edits[1].Text != "\tfmt.Printf(\"n: %+v\\n\", n)\n" {
		t.Errorf("statement = %q", edits[1].Text)
	}
}

func TestVariableLogGoSkipsExistingImport(t *testing.T) {
	doc := editortest.NewDoc("file:///ws/main.go", "go",
		"package main",
		"",
		`import "fmt"`,
		"",
		"func run() { n := 1 }",
	)

	edits, err := VariableLog(doc, "n", editor.Position{Line: 4})
	if err != nil {
		t.Fatalf("VariableLog: %v", err)
	}
	if len(edits) != 1 {
		t.Errorf("got %d edits, want 1 (import already present)", len(edits))
	}
}

func TestSelectionLog(t *testing.T) {
	doc := editortest.NewDoc("file:///ws/a.ts", "typescript",
		"    const a = 1;",
		"    const b = 2;",
		"    const c = 3;",
	)
	sel := editor.Range{Start: editor.Position{Line: 1}, End: editor.Position{Line: 2, Col: 16}}

	edits, err := SelectionLog(doc, sel)
	if err != nil {
		t.Fatalf("SelectionLog: %v", err)
	}
	want := "    console.log('Selected code:', \"Selected 2 line(s)\");\n"
	if edits[0].Text != want {
		t.Errorf("text = %q, want %q", edits[0].Text, want)
	}
	if edits[0].Pos.Line != 1 {
		t.Errorf("insert line = %d, want selection start", edits[0].Pos.Line)
	}
}

func TestUnsupportedLanguage(t *testing.T) {
	doc := editortest.NewDoc("file:///ws/a.txt", "plaintext", "hello")

	if _, err := VariableLog(doc, "x", editor.Position{}); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("VariableLog err = %v, want ErrUnsupportedLanguage", err)
	}
	if _, err := SelectionLog(doc, editor.Range{}); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("SelectionLog err = %v, want ErrUnsupportedLanguage", err)
	}
	if Supported("plaintext") {
		t.Error("Supported(plaintext) = true")
	}
	if !Supported("javascriptreact") {
		t.Error("Supported(javascriptreact) = false")
	}
}

// Package symbols resolves the enclosing symbol and breadcrumb path for a
// document position, using whatever symbol provider the host offers.
package symbols

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/colonyops/ghostmark/internal/editor"
)

// Symbol is one node of the host's document symbol tree.
type Symbol struct {
	Name     string
	Range    editor.Range
	Children []Symbol
}

// Resolver produces the symbol tree for a document. A nil tree (or an error)
// means no provider answered; callers fall back to a line label.
type Resolver interface {
	DocumentSymbols(ctx context.Context, doc editor.Document) ([]Symbol, error)
}

// Breadcrumb is the resolved label for a position.
type Breadcrumb struct {
	Symbol string
	Full   string
}

var declPattern = regexp.MustCompile(`(?:function|class|const|let|var|func|type|def)\s+(\w+)`)

// Resolve returns the innermost enclosing symbol and its dotted ancestor
// path. Resolution is best-effort: on any failure it falls back to a
// declaration scan of the line text, then to a "Line N" label (1-based).
func Resolve(ctx context.Context, r Resolver, doc editor.Document, pos editor.Position) Breadcrumb {
	fallback := lineFallback(doc, pos)

	if r == nil {
		return fallback
	}

	tree, err := r.DocumentSymbols(ctx, doc)
	if err != nil || len(tree) == 0 {
		return fallback
	}

	var path []string
	if !descend(tree, pos, &path) {
		return Breadcrumb{Symbol: lineLabel(pos), Full: lineLabel(pos)}
	}

	return Breadcrumb{
		Symbol: path[len(path)-1],
		Full:   strings.Join(path, "."),
	}
}

// descend walks the tree to the innermost symbol containing pos, recording
// the ancestor names along the way.
func descend(tree []Symbol, pos editor.Position, path *[]string) bool {
	for _, s := range tree {
		if !contains(s.Range, pos) {
			continue
		}
		*path = append(*path, s.Name)
		if len(s.Children) > 0 && descend(s.Children, pos, path) {
			return true
		}
		return true
	}
	return false
}

func contains(r editor.Range, pos editor.Position) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Col < r.Start.Col {
		return false
	}
	if pos.Line == r.End.Line && pos.Col > r.End.Col {
		return false
	}
	return true
}

// lineFallback scans the clicked line for a declaration name before giving
// up and using the line number.
func lineFallback(doc editor.Document, pos editor.Position) Breadcrumb {
	if doc != nil {
		if text, err := doc.LineText(pos.Line); err == nil {
			if m := declPattern.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
				return Breadcrumb{Symbol: m[1], Full: m[1]}
			}
		}
	}
	label := lineLabel(pos)
	return Breadcrumb{Symbol: label, Full: label}
}

func lineLabel(pos editor.Position) string {
	return fmt.Sprintf("Line %d", pos.Line+1)
}

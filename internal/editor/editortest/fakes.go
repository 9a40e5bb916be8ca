// Package editortest provides in-memory fakes for the editor abstraction,
// used across core package tests.
package editortest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/colonyops/ghostmark/internal/editor"
)

// Doc is an in-memory Document.
type Doc struct {
	DocURI   string
	Lines    []string
	Language string
}

func NewDoc(uri, language string, lines ...string) *Doc {
	return &Doc{DocURI: uri, Language: language, Lines: lines}
}

func (d *Doc) URI() string        { return d.DocURI }
func (d *Doc) LineCount() int     { return len(d.Lines) }
func (d *Doc) LanguageID() string { return d.Language }

func (d *Doc) LineText(line int) (string, error) {
	if line < 0 || line >= len(d.Lines) {
		return "", fmt.Errorf("line %d out of range", line)
	}
	return d.Lines[line], nil
}

// View is an in-memory View with a settable selection.
type View struct {
	ViewID string
	Doc    *Doc
	Sel    editor.Range
}

func NewView(id string, doc *Doc) *View {
	return &View{ViewID: id, Doc: doc}
}

func (v *View) ID() string                { return v.ViewID }
func (v *View) Document() editor.Document { return v.Doc }
func (v *View) Selection() editor.Range   { return v.Sel }

// MoveCursor collapses the selection to a caret at the given position.
func (v *View) MoveCursor(line, col int) {
	p := editor.Position{Line: line, Col: col}
	v.Sel = editor.Range{Start: p, End: p}
}

// Select sets a non-empty selection.
func (v *View) Select(startLine, startCol, endLine, endCol int) {
	v.Sel = editor.Range{
		Start: editor.Position{Line: startLine, Col: startCol},
		End:   editor.Position{Line: endLine, Col: endCol},
	}
}

// CaretEvent builds a mouse-click selection event at the view's current caret.
func (v *View) CaretEvent() editor.SelectionEvent {
	return editor.SelectionEvent{View: v, Selections: []editor.Range{v.Sel}, Kind: editor.KindMouse}
}

// RecordingSink records decoration requests.
type RecordingSink struct {
	mu     sync.Mutex
	Ghosts map[string]*editor.Position
	Gutter map[string][]editor.GutterGlyph
	// GhostSets counts SetGhost calls with a non-nil position.
	GhostSets int
}

func NewRecordingSink() *RecordingSink {
	return &RecordingSink{
		Ghosts: map[string]*editor.Position{},
		Gutter: map[string][]editor.GutterGlyph{},
	}
}

func (s *RecordingSink) SetGhost(viewID string, pos *editor.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ghosts[viewID] = pos
	if pos != nil {
		s.GhostSets++
	}
}

func (s *RecordingSink) SetGutter(viewID string, glyphs []editor.GutterGlyph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Gutter[viewID] = glyphs
}

// Ghost returns the current ghost position for a view, if any.
func (s *RecordingSink) Ghost(viewID string) *editor.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Ghosts[viewID]
}

// ScriptedPrompter returns canned answers in order. A nil entry means the
// prompt is cancelled.
type ScriptedPrompter struct {
	Answers []*string
	next    int
}

// Answer is a convenience for building ScriptedPrompter entries.
func Answer(s string) *string { return &s }

func (p *ScriptedPrompter) Input(_ context.Context, _, _ string) (string, bool, error) {
	if p.next >= len(p.Answers) {
		return "", false, nil
	}
	a := p.Answers[p.next]
	p.next++
	if a == nil {
		return "", false, nil
	}
	return *a, true, nil
}

// RecordingRunner records executed command ids and can be told to fail.
type RecordingRunner struct {
	Commands []string
	Err      error
}

func (r *RecordingRunner) Run(_ context.Context, commandID string) error {
	if r.Err != nil {
		return r.Err
	}
	r.Commands = append(r.Commands, commandID)
	return nil
}

// RecordingTextEditor records insertions.
type RecordingTextEditor struct {
	Inserts []Insert
}

// Insert is a single recorded insertion.
type Insert struct {
	ViewID string
	Pos    editor.Position
	Text   string
}

func (e *RecordingTextEditor) Insert(_ context.Context, viewID string, pos editor.Position, text string) error {
	e.Inserts = append(e.Inserts, Insert{ViewID: viewID, Pos: pos, Text: text})
	return nil
}

// ManualTimers is a TimerFactory whose timers fire only when the test calls
// Fire. Arming a new timer never fires automatically.
type ManualTimers struct {
	pending []*manualTimer
}

type manualTimer struct {
	fn        func()
	cancelled bool
}

func (m *ManualTimers) After(_ time.Duration, fn func()) editor.CancelFunc {
	t := &manualTimer{fn: fn}
	m.pending = append(m.pending, t)
	return func() { t.cancelled = true }
}

// Fire runs all pending, non-cancelled timers in arming order.
func (m *ManualTimers) Fire() {
	pending := m.pending
	m.pending = nil
	for _, t := range pending {
		if !t.cancelled {
			t.fn()
		}
	}
}

// Pending returns the number of armed, non-cancelled timers.
func (m *ManualTimers) Pending() int {
	n := 0
	for _, t := range m.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// DumpGutter formats gutter glyphs for test failure messages.
func DumpGutter(glyphs []editor.GutterGlyph) string {
	var b strings.Builder
	for _, g := range glyphs {
		fmt.Fprintf(&b, "%d:%s ", g.Line, g.Key)
	}
	return strings.TrimSpace(b.String())
}

// Package editor defines the host-editor abstraction consumed by the
// interaction core. Implementations adapt a concrete editor (or a test fake)
// to these interfaces; the core never talks to a host directly.
package editor

import (
	"context"
	"time"
)

// Position is a zero-based line/column location in a document.
type Position struct {
	Line int
	Col  int
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position
	End   Position
}

// Empty reports whether the range covers no text.
func (r Range) Empty() bool {
	return r.Start == r.End
}

// Lines returns the number of lines the range touches.
func (r Range) Lines() int {
	return r.End.Line - r.Start.Line + 1
}

// Document is a read-only view of an open document.
type Document interface {
	// URI returns the canonical identifier for the document.
	URI() string
	// LineText returns the text of the given zero-based line.
	LineText(line int) (string, error)
	// LineCount returns the number of lines in the document.
	LineCount() int
	// LanguageID returns the host's language identifier (e.g. "go").
	LanguageID() string
}

// View is a single editor view showing a document.
type View interface {
	ID() string
	Document() Document
	// Selection returns the primary selection. The active position is End.
	Selection() Range
}

// SelectionKind classifies what triggered a selection change.
type SelectionKind int

const (
	KindMouse SelectionKind = iota
	KindKeyboard
	// KindCommand marks programmatic changes; the activation machine
	// ignores these.
	KindCommand
)

// SelectionEvent is delivered on every selection change in a view.
type SelectionEvent struct {
	View       View
	Selections []Range
	Kind       SelectionKind
}

// Active returns the caret position of the primary selection.
func (e SelectionEvent) Active() Position {
	if len(e.Selections) == 0 {
		return Position{}
	}
	return e.Selections[0].End
}

// GutterGlyph is a per-line gutter marker request.
type GutterGlyph struct {
	Line      int
	Key       string
	Completed bool
}

// DecorationSink receives rendering requests. It is write-only; nothing
// flows back into the core.
type DecorationSink interface {
	// SetGhost draws the affordance at pos, or clears it when pos is nil.
	SetGhost(viewID string, pos *Position)
	// SetGutter replaces all gutter glyphs for a view.
	SetGutter(viewID string, glyphs []GutterGlyph)
}

// Prompter solicits free-text input from the user. ok=false means the user
// cancelled, which callers treat as "accept default", never as an error.
type Prompter interface {
	Input(ctx context.Context, prompt, placeholder string) (value string, ok bool, err error)
}

// CommandRunner executes a host command by identifier.
type CommandRunner interface {
	Run(ctx context.Context, commandID string) error
}

// TextEditor applies text insertions to a document.
type TextEditor interface {
	Insert(ctx context.Context, viewID string, pos Position, text string) error
}

// CancelFunc cancels a pending timer. Calling it after the timer fired is a
// no-op.
type CancelFunc func()

// TimerFactory schedules a callback after a delay. Host adapters must
// deliver the callback on the same event loop that delivers selection and
// hover events; the core relies on that for lock-free state handling.
type TimerFactory interface {
	After(d time.Duration, fn func()) CancelFunc
}

// RealTimers is the production TimerFactory backed by time.AfterFunc.
type RealTimers struct{}

// After schedules fn after d.
func (RealTimers) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

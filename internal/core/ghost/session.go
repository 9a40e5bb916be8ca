// Package ghost implements the activation state machine and keystroke
// dispatcher behind the end-of-line affordance. One Session exists per
// editor view; all handling runs on the host event loop.
package ghost

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/ghostmark/internal/core/config"
	"github.com/colonyops/ghostmark/internal/editor"
)

const (
	// StabilizeDelay is how long a click must hold still before it
	// commits an activation. Mouse drags and double-clicks re-fire
	// selection events within this window and abandon the pending one.
	StabilizeDelay = 50 * time.Millisecond

	// Hover tolerance around the end-of-line affordance: a few columns
	// before it, a wider margin into the trailing whitespace after it.
	lineHoverBefore = 5
	lineHoverAfter  = 10

	// Hover tolerance around a selection-anchored affordance.
	selectionHoverTolerance = 2

	// Column drift beyond this while confirmed drops the hover.
	divergeTolerance = 5
)

// State is the per-view activation state. It is a value; mutation happens
// only inside Session handlers.
type State struct {
	Active   bool
	Hovering bool
	// Anchor is the committed caret position for line context, or the
	// affordance position (start line, end-of-line column) for selection
	// context.
	Anchor editor.Position
	// Context selects the shortcut table: config.ContextLine or
	// config.ContextSelection.
	Context string
	// Word is the trimmed text of the anchored line.
	Word string
	// SavedSelection holds the selection a selection-context activation
	// was built from.
	SavedSelection editor.Range
}

// Session owns the activation state for one view and synthesizes click
// and hover-confirmed transitions from raw selection and hover events.
type Session struct {
	view   editor.View
	sink   editor.DecorationSink
	timers editor.TimerFactory
	log    zerolog.Logger

	state   State
	pending editor.CancelFunc
	// seq invalidates stale timer callbacks: each armed timer captures
	// the sequence it was armed at and bails if it no longer matches.
	seq int
}

// NewSession creates a session for a view. Call Dispose on view close.
func NewSession(view editor.View, sink editor.DecorationSink, timers editor.TimerFactory, log zerolog.Logger) *Session {
	return &Session{view: view, sink: sink, timers: timers, log: log}
}

// View returns the session's editor view.
func (s *Session) View() editor.View { return s.view }

// State returns the current activation state.
func (s *Session) State() State { return s.state }

// HandleSelectionChange processes a selection or click event. Programmatic
// changes are ignored; anything else either clears, keeps, or (after the
// stabilization delay) commits an activation.
func (s *Session) HandleSelectionChange(ev editor.SelectionEvent) {
	if ev.Kind == editor.KindCommand {
		return
	}
	if len(ev.Selections) == 0 {
		return
	}

	sel := ev.Selections[0]
	pos := sel.End

	// Divergence while confirmed: drifting off the affordance drops the
	// hover. A line change falls through and clears fully below.
	if s.state.Hovering {
		if pos.Line != s.state.Anchor.Line || abs(pos.Col-s.state.Anchor.Col) > divergeTolerance {
			s.state.Hovering = false
			s.log.Debug().Msg("hover lost: cursor diverged")
		}
	}

	if !sel.Empty() {
		s.armSelection(sel)
		return
	}

	lineText, err := s.view.Document().LineText(pos.Line)
	if err != nil {
		s.log.Debug().Err(err).Int("line", pos.Line).Msg("selection outside document")
		return
	}

	// A blank line can hold no affordance.
	if isBlank(lineText) {
		if s.state.Active {
			s.Clear()
		}
		return
	}

	// Re-clicking the anchored line must not jitter: no re-render, no
	// timer re-arm.
	if s.state.Active && s.state.Anchor.Line == pos.Line {
		return
	}

	if s.state.Active {
		s.Clear()
	}

	s.arm(func() {
		current := s.view.Selection().End
		if current.Line != pos.Line {
			s.log.Debug().Int("armed", pos.Line).Int("now", current.Line).Msg("activation abandoned: cursor moved")
			return
		}
		s.commitLine(pos, lineText)
	})
}

// HoverQuery answers the host's hover callback. It confirms the hover
// (setting Hovering) only when active, on the anchor line, and within the
// tolerance window around the affordance. Re-confirming an already
// confirmed hover is a no-op.
func (s *Session) HoverQuery(pos editor.Position) bool {
	if !s.state.Active {
		return false
	}
	if pos.Line != s.state.Anchor.Line {
		return false
	}

	if s.state.Context == config.ContextSelection {
		if abs(pos.Col-s.state.Anchor.Col) > selectionHoverTolerance {
			return false
		}
	} else {
		ghostCol := s.ghostColumn()
		if pos.Col < ghostCol-lineHoverBefore || pos.Col > ghostCol+lineHoverAfter {
			return false
		}
	}

	if !s.state.Hovering {
		s.state.Hovering = true
		s.log.Debug().Int("line", pos.Line).Msg("hover confirmed")
	}
	return true
}

// ClearHovering drops the hover confirmation but keeps the activation.
func (s *Session) ClearHovering() {
	s.state.Hovering = false
}

// Clear resets the session to idle and removes the affordance.
func (s *Session) Clear() {
	s.invalidate()
	s.state = State{}
	s.sink.SetGhost(s.view.ID(), nil)
}

// Dispose cancels pending work and clears rendering. The session must not
// be used afterwards.
func (s *Session) Dispose() {
	s.Clear()
}

// armSelection stages a selection-context activation behind the same
// stabilization delay, committing only if the selection held still.
func (s *Session) armSelection(sel editor.Range) {
	if s.state.Active {
		s.Clear()
	}

	s.arm(func() {
		if s.view.Selection() != sel {
			s.log.Debug().Msg("selection activation abandoned: selection changed")
			return
		}
		s.commitSelection(sel)
	})
}

// arm schedules fn after the stabilization delay, cancelling any pending
// activation. A stale callback that fires anyway is a no-op.
func (s *Session) arm(fn func()) {
	s.invalidate()
	armed := s.seq
	s.pending = s.timers.After(StabilizeDelay, func() {
		if s.seq != armed {
			return
		}
		fn()
	})
}

func (s *Session) invalidate() {
	s.seq++
	if s.pending != nil {
		s.pending()
		s.pending = nil
	}
}

func (s *Session) commitLine(pos editor.Position, lineText string) {
	s.state = State{
		Active:  true,
		Anchor:  pos,
		Context: config.ContextLine,
		Word:    strings.TrimSpace(lineText),
	}
	s.sink.SetGhost(s.view.ID(), &editor.Position{Line: pos.Line, Col: len(lineText)})
	s.log.Debug().Int("line", pos.Line).Msg("activation committed")
}

func (s *Session) commitSelection(sel editor.Range) {
	startText, err := s.view.Document().LineText(sel.Start.Line)
	if err != nil {
		return
	}
	anchor := editor.Position{Line: sel.Start.Line, Col: len(startText)}
	s.state = State{
		Active:         true,
		Anchor:         anchor,
		Context:        config.ContextSelection,
		Word:           strings.TrimSpace(startText),
		SavedSelection: sel,
	}
	s.sink.SetGhost(s.view.ID(), &anchor)
	s.log.Debug().Int("line", sel.Start.Line).Int("lines", sel.Lines()).Msg("selection activation committed")
}

// ghostColumn is the affordance column for line context: end of the
// anchored line, re-read because the line may have changed length.
func (s *Session) ghostColumn() int {
	text, err := s.view.Document().LineText(s.state.Anchor.Line)
	if err != nil {
		return s.state.Anchor.Col
	}
	return len(text)
}

func isBlank(text string) bool { return strings.TrimSpace(text) == "" }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package ghost

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/colonyops/ghostmark/internal/core/config"
	"github.com/colonyops/ghostmark/internal/core/filters"
	"github.com/colonyops/ghostmark/internal/core/history"
	"github.com/colonyops/ghostmark/internal/core/mark"
	"github.com/colonyops/ghostmark/internal/core/markcfg"
	"github.com/colonyops/ghostmark/internal/core/notify"
	"github.com/colonyops/ghostmark/internal/data/stores"
	"github.com/colonyops/ghostmark/internal/editor"
	"github.com/colonyops/ghostmark/internal/editor/editortest"
)

type dispatcherFixture struct {
	*sessionFixture
	marks    *mark.Store
	cats     *markcfg.Table
	filters  *filters.Set
	hist     *history.Log
	cfg      *config.Config
	prompter *editortest.ScriptedPrompter
	runner   *editortest.RecordingRunner
	text     *editortest.RecordingTextEditor
	rec      *notify.Recorder
	settings int
	markList int
	d        *Dispatcher
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	ctx := context.Background()
	store := stores.NewMemoryKV()
	log := zerolog.Nop()

	marks, err := mark.NewStore(ctx, store, "ghost", "/ws", nil, log)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	cats, err := markcfg.Load(ctx, store, log)
	if err != nil {
		t.Fatalf("markcfg.Load: %v", err)
	}
	fl, err := filters.Load(ctx, store, "/ws", log)
	if err != nil {
		t.Fatalf("filters.Load: %v", err)
	}
	hist, err := history.NewLog(ctx, store, log)
	if err != nil {
		t.Fatalf("history.NewLog: %v", err)
	}

	cfg := config.DefaultConfig()
	f := &dispatcherFixture{
		sessionFixture: newSessionFixture(),
		marks:          marks,
		cats:           cats,
		filters:        fl,
		hist:           hist,
		cfg:            &cfg,
		prompter:       &editortest.ScriptedPrompter{},
		runner:         &editortest.RecordingRunner{},
		text:           &editortest.RecordingTextEditor{},
		rec:            &notify.Recorder{},
	}

	bus := notify.NewBus()
	f.rec.Attach(bus)

	f.d = NewDispatcher(
		f.s, marks, cats, fl, hist, &cfg,
		f.prompter, f.runner, f.text, f.sink, bus,
		Hooks{
			OpenSettings: func() { f.settings++ },
			OpenMarkList: func() { f.markList++ },
		},
		log,
	)
	return f
}

// confirm activates line 1 and confirms the hover over the affordance.
func (f *dispatcherFixture) confirm(t *testing.T) {
	t.Helper()
	f.click(1, 2)
	eol := len("\tcount := 1")
	if !f.s.HoverQuery(editor.Position{Line: 1, Col: eol}) {
		t.Fatal("setup: hover not confirmed")
	}
}

func (f *dispatcherFixture) key(t *testing.T, r rune, shift bool) bool {
	t.Helper()
	return f.d.HandleKey(context.Background(), KeyEvent{Rune: r, Shift: shift})
}

func TestKeysPassThroughUntilConfirmed(t *testing.T) {
	f := newDispatcherFixture(t)

	if f.key(t, 'x', false) {
		t.Error("key consumed with no activation")
	}

	f.click(1, 2) // active but not hovering
	if f.key(t, 'x', false) {
		t.Error("key consumed while active but not hovering")
	}
	if len(f.marks.All()) != 0 {
		t.Error("mark created without hover confirmation")
	}
}

func TestControlKeysOpenSurfaces(t *testing.T) {
	f := newDispatcherFixture(t)
	f.confirm(t)

	if !f.key(t, '/', false) || f.settings != 1 {
		t.Errorf("settings key: consumed=%v opens=%d", f.settings == 1, f.settings)
	}
	if !f.key(t, '@', true) || f.markList != 1 {
		t.Errorf("mark list key: opens=%d, want 1", f.markList)
	}
}

func TestCreateMarkWithAllPromptsCancelled(t *testing.T) {
	f := newDispatcherFixture(t)
	f.confirm(t)
	f.prompter.Answers = []*string{nil} // name cancelled: everything defaults

	if !f.key(t, 't', false) {
		t.Fatal("mark key not consumed")
	}

	m, ok := f.marks.GetAt(f.doc.URI(), 1)
	if !ok {
		t.Fatal("mark not created")
	}
	if m.Name != "NoName" || m.Note != "" || m.Priority != 3 {
		t.Errorf("defaults = %q/%q/%d, want NoName//3", m.Name, m.Note, m.Priority)
	}
	if m.Key != "t" {
		t.Errorf("key = %q, want t", m.Key)
	}
	if got := f.sink.Gutter["view-1"]; len(got) != 1 || got[0].Line != 1 {
		t.Errorf("gutter = %v, want one glyph on line 1", editortest.DumpGutter(got))
	}
}

func TestCreateMarkFullPromptPipeline(t *testing.T) {
	f := newDispatcherFixture(t)
	f.confirm(t)
	f.prompter.Answers = []*string{
		editortest.Answer("check loop bounds"),
		editortest.Answer("off by one under load"),
		editortest.Answer("2"),
	}

	f.key(t, 'b', false)

	m, ok := f.marks.GetAt(f.doc.URI(), 1)
	if !ok {
		t.Fatal("mark not created")
	}
	if m.Name != "check loop bounds" || m.Note != "off by one under load" || m.Priority != 2 {
		t.Errorf("mark = %q/%q/%d", m.Name, m.Note, m.Priority)
	}
}

func TestCreateMarkNoteCancelShortCircuits(t *testing.T) {
	f := newDispatcherFixture(t)
	f.confirm(t)
	f.prompter.Answers = []*string{
		editortest.Answer("named"),
		nil, // note cancelled: priority prompt is skipped
		editortest.Answer("1"),
	}

	f.key(t, 'b', false)

	m, _ := f.marks.GetAt(f.doc.URI(), 1)
	if m.Name != "named" || m.Note != "" || m.Priority != 3 {
		t.Errorf("mark = %q/%q/%d, want named//3", m.Name, m.Note, m.Priority)
	}
}

func TestCreateMarkBadPriorityFallsBack(t *testing.T) {
	f := newDispatcherFixture(t)
	f.confirm(t)
	f.prompter.Answers = []*string{
		editortest.Answer(""),
		editortest.Answer(""),
		editortest.Answer("9"),
	}

	f.key(t, 't', false)

	m, _ := f.marks.GetAt(f.doc.URI(), 1)
	if m.Priority != 3 {
		t.Errorf("priority = %d, want fallback 3", m.Priority)
	}
}

func TestDuplicateMarkWarns(t *testing.T) {
	f := newDispatcherFixture(t)
	f.confirm(t)
	f.prompter.Answers = []*string{nil}
	f.key(t, 't', false)

	if !f.key(t, 'b', false) {
		t.Error("duplicate mark key not consumed")
	}
	if len(f.marks.All()) != 1 {
		t.Errorf("marks = %d, want 1 (second creation rejected)", len(f.marks.All()))
	}
	if warnings := f.rec.Messages(notify.LevelWarning); len(warnings) != 1 {
		t.Errorf("warnings = %v, want one duplicate warning", warnings)
	}
}

func TestDeleteAndToggleKeys(t *testing.T) {
	f := newDispatcherFixture(t)
	f.confirm(t)
	f.prompter.Answers = []*string{nil}
	f.key(t, 't', false)

	if !f.key(t, ':', false) {
		t.Error("toggle key not consumed")
	}
	m, _ := f.marks.GetAt(f.doc.URI(), 1)
	if !m.Completed {
		t.Error("toggle did not complete the mark")
	}

	if !f.key(t, ';', false) {
		t.Error("delete key not consumed")
	}
	if _, ok := f.marks.GetAt(f.doc.URI(), 1); ok {
		t.Error("mark still present after delete key")
	}

	// With no mark present both keys still suppress the character.
	if !f.key(t, ';', false) || !f.key(t, ':', false) {
		t.Error("mark control keys leaked through with no mark present")
	}
}

func TestFilterToggleKeys(t *testing.T) {
	f := newDispatcherFixture(t)
	f.confirm(t)

	f.key(t, 'T', true)
	if got := f.filters.Keys(); len(got) != 1 || got[0] != "t" {
		t.Errorf("filter keys = %v, want [t]", got)
	}

	f.key(t, '3', true)
	if got := f.filters.Priorities(); len(got) != 1 || got[0] != 3 {
		t.Errorf("filter priorities = %v, want [3]", got)
	}

	f.key(t, ' ', true)
	if !f.filters.Empty() {
		t.Error("Shift+Space did not clear filters")
	}

	if len(f.marks.All()) != 0 {
		t.Error("filter keys created marks")
	}
}

func TestShortcutBuiltinInsertLog(t *testing.T) {
	f := newDispatcherFixture(t)
	// Free the letter from mark handling so it reaches the shortcut
	// table, the way a user who unbinds a category would have it.
	f.cats.Remove(context.Background(), "l")
	f.confirm(t)

	if !f.key(t, 'l', false) {
		t.Fatal("shortcut key not consumed")
	}
	if len(f.text.Inserts) == 0 {
		t.Fatal("no edit applied")
	}
	last := f.text.Inserts[len(f.text.Inserts)-1]
	if last.Pos.Line != 2 {
		t.Errorf("log inserted at line %d, want below the anchor", last.Pos.Line)
	}
	if !f.s.State().Hovering {
		t.Error("shortcut execution dropped the hover; it should persist for repeats")
	}
}

func TestShortcutCommandRecordsHistory(t *testing.T) {
	f := newDispatcherFixture(t)
	f.cfg.Shortcuts[config.ContextWord]["?"] = config.Shortcut{
		Label: "Find references", Type: config.ActionCommand, Command: "references-view.findReferences",
	}
	f.confirm(t)

	if !f.key(t, '?', true) {
		t.Fatal("command shortcut not consumed")
	}
	if len(f.runner.Commands) != 1 || f.runner.Commands[0] != "references-view.findReferences" {
		t.Errorf("commands = %v", f.runner.Commands)
	}
	ranked := f.hist.Ranked()
	if len(ranked) != 1 || ranked[0].Command != "references-view.findReferences" {
		t.Errorf("history = %v, want the executed command", ranked)
	}
}

func TestShortcutMacroRunsInOrder(t *testing.T) {
	f := newDispatcherFixture(t)
	f.cfg.Shortcuts[config.ContextWord]["!"] = config.Shortcut{
		Label: "Organize", Type: config.ActionMacro,
		Commands: []string{"editor.action.organizeImports", "editor.action.formatDocument"},
	}
	f.confirm(t)

	f.key(t, '!', true)

	want := []string{"editor.action.organizeImports", "editor.action.formatDocument"}
	if len(f.runner.Commands) != 2 || f.runner.Commands[0] != want[0] || f.runner.Commands[1] != want[1] {
		t.Errorf("commands = %v, want %v", f.runner.Commands, want)
	}
	if len(f.hist.Ranked()) != 2 {
		t.Errorf("history entries = %d, want 2", len(f.hist.Ranked()))
	}
}

func TestShortcutErrorIsCaughtAndStateSurvives(t *testing.T) {
	f := newDispatcherFixture(t)
	f.cfg.Shortcuts[config.ContextWord]["?"] = config.Shortcut{
		Label: "Broken", Type: config.ActionCommand, Command: "does.not.exist",
	}
	f.runner.Err = errors.New("command not found")
	f.confirm(t)

	if !f.key(t, '?', true) {
		t.Error("failing shortcut not consumed")
	}
	if msgs := f.rec.Messages(notify.LevelError); len(msgs) != 1 {
		t.Errorf("error notifications = %v, want one", msgs)
	}
	st := f.s.State()
	if !st.Active || !st.Hovering {
		t.Errorf("state after failure = %+v, want unchanged so the user can retry", st)
	}
}

func TestUnboundKeyClearsHoverAndForwards(t *testing.T) {
	f := newDispatcherFixture(t)
	f.confirm(t)

	if f.key(t, '7', false) {
		t.Error("unbound key consumed; it should forward to insertion")
	}
	st := f.s.State()
	if st.Hovering {
		t.Error("unbound key left hovering set")
	}
	if !st.Active {
		t.Error("unbound key cleared the activation")
	}
}

func TestUnsupportedLanguageWarnsInsteadOfFailing(t *testing.T) {
	f := newDispatcherFixture(t)
	f.doc.Language = "plaintext"
	f.cats.Remove(context.Background(), "l")
	f.confirm(t)

	if !f.key(t, 'l', false) {
		t.Error("shortcut not consumed")
	}
	if msgs := f.rec.Messages(notify.LevelWarning); len(msgs) != 1 {
		t.Errorf("warnings = %v, want unsupported-language warning", msgs)
	}
	if msgs := f.rec.Messages(notify.LevelError); len(msgs) != 0 {
		t.Errorf("errors = %v, want none", msgs)
	}
}

func TestSelectionContextInsertsSelectionLog(t *testing.T) {
	f := newDispatcherFixture(t)
	f.cats.Remove(context.Background(), "l")

	f.view.Select(0, 0, 3, 5)
	f.s.HandleSelectionChange(editor.SelectionEvent{
		View: f.view, Selections: []editor.Range{f.view.Sel}, Kind: editor.KindMouse,
	})
	f.timers.Fire()

	st := f.s.State()
	if !f.s.HoverQuery(editor.Position{Line: 0, Col: st.Anchor.Col}) {
		t.Fatal("setup: selection hover not confirmed")
	}

	f.key(t, 'l', false)

	if len(f.text.Inserts) == 0 {
		t.Fatal("no edit applied")
	}
	last := f.text.Inserts[len(f.text.Inserts)-1]
	if last.Pos.Line != 0 {
		t.Errorf("selection log at line %d, want above the selection", last.Pos.Line)
	}
}

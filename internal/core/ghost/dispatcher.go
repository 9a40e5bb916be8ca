package ghost

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/colonyops/ghostmark/internal/core/config"
	"github.com/colonyops/ghostmark/internal/core/filters"
	"github.com/colonyops/ghostmark/internal/core/history"
	"github.com/colonyops/ghostmark/internal/core/logtmpl"
	"github.com/colonyops/ghostmark/internal/core/mark"
	"github.com/colonyops/ghostmark/internal/core/markcfg"
	"github.com/colonyops/ghostmark/internal/core/notify"
	"github.com/colonyops/ghostmark/internal/editor"
)

// Control keys recognized while an activation is confirmed.
const (
	keySettings       = '/'
	keyMarkList       = '@'
	keyDeleteMark     = ';'
	keyToggleComplete = ':'
)

// KeyEvent is one raw keystroke as delivered by the host. Shift is
// reported separately so shifted non-letters (Shift+Space, Shift+1) are
// distinguishable from their base characters.
type KeyEvent struct {
	Rune  rune
	Shift bool
}

// Hooks are the host surfaces the dispatcher opens on control keys.
type Hooks struct {
	OpenSettings func()
	OpenMarkList func()
}

// Dispatcher is the single interception point for typed characters.
// HandleKey returns true when the keystroke was consumed and the default
// insertion must be suppressed.
type Dispatcher struct {
	session *Session
	marks   *mark.Store
	cats    *markcfg.Table
	filters *filters.Set
	hist    *history.Log
	cfg     *config.Config

	prompter editor.Prompter
	runner   editor.CommandRunner
	text     editor.TextEditor
	sink     editor.DecorationSink
	bus      *notify.Bus
	hooks    Hooks
	log      zerolog.Logger
}

// NewDispatcher wires a dispatcher to its session and collaborators.
func NewDispatcher(
	session *Session,
	marks *mark.Store,
	cats *markcfg.Table,
	fl *filters.Set,
	hist *history.Log,
	cfg *config.Config,
	prompter editor.Prompter,
	runner editor.CommandRunner,
	text editor.TextEditor,
	sink editor.DecorationSink,
	bus *notify.Bus,
	hooks Hooks,
	log zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		session:  session,
		marks:    marks,
		cats:     cats,
		filters:  fl,
		hist:     hist,
		cfg:      cfg,
		prompter: prompter,
		runner:   runner,
		text:     text,
		sink:     sink,
		bus:      bus,
		hooks:    hooks,
		log:      log,
	}
}

// HandleKey routes one keystroke. Characters pass through untouched
// unless the session is confirmed; once confirmed, keys are tried in
// priority order and anything unbound clears the hover and falls through.
func (d *Dispatcher) HandleKey(ctx context.Context, ev KeyEvent) bool {
	st := d.session.State()
	if !st.Active || !st.Hovering {
		return false
	}

	switch ev.Rune {
	case keySettings:
		if d.hooks.OpenSettings != nil {
			d.hooks.OpenSettings()
		}
		return true
	case keyMarkList:
		if d.hooks.OpenMarkList != nil {
			d.hooks.OpenMarkList()
		}
		return true
	}

	uri := d.session.View().Document().URI()
	existing, hasMark := d.marks.GetAt(uri, st.Anchor.Line)

	switch {
	case ev.Rune == keyDeleteMark:
		if hasMark {
			if err := d.marks.Remove(ctx, existing.ID); err != nil {
				d.bus.Errorf("failed to delete mark: %v", err)
			} else {
				d.refreshGutter(uri)
				d.bus.Infof("Deleted mark: %s", existing.Symbol)
			}
		}
		return true

	case ev.Rune == keyToggleComplete:
		if hasMark {
			completed, err := d.marks.ToggleComplete(ctx, existing.ID)
			if err != nil {
				d.bus.Errorf("failed to toggle mark: %v", err)
			} else {
				d.refreshGutter(uri)
				if completed {
					d.bus.Infof("Marked as completed: %s", existing.Symbol)
				} else {
					d.bus.Infof("Marked as incomplete: %s", existing.Symbol)
				}
			}
		}
		return true

	case ev.Rune == ' ' && ev.Shift:
		d.filters.Clear(ctx)
		d.bus.Infof("All filters cleared")
		return true

	case ev.Shift && ev.Rune >= '1' && ev.Rune <= '5':
		p := int(ev.Rune - '0')
		if d.filters.TogglePriority(ctx, p) {
			d.bus.Infof("Priority filter added: %d", p)
		} else {
			d.bus.Infof("Priority filter removed: %d", p)
		}
		return true
	}

	if lower := unicode.ToLower(ev.Rune); lower >= 'a' && lower <= 'z' {
		if handled := d.handleLetter(ctx, ev, string(lower), st, uri, existing, hasMark); handled {
			return true
		}
	}

	if handled := d.dispatchShortcut(ctx, ev, st); handled {
		return true
	}

	// Not a shortcut: the user wants to type. Drop the hover so the next
	// characters flow through without this detour, keep the activation.
	d.session.ClearHovering()
	return false
}

// handleLetter covers filter toggles and mark creation. Letters without a
// configured category fall through to the shortcut table.
func (d *Dispatcher) handleLetter(ctx context.Context, ev KeyEvent, key string, st State, uri string, existing mark.Mark, hasMark bool) bool {
	cat, configured := d.cats.Lookup(key)
	if !configured {
		return false
	}

	if ev.Shift {
		if d.filters.ToggleKey(ctx, key) {
			d.bus.Infof("Filter added: %s", key)
		} else {
			d.bus.Infof("Filter removed: %s", key)
		}
		return true
	}

	if hasMark {
		d.bus.Warnf("Already marked as %s %s. Press ; to remove.", existing.Key, d.labelFor(existing.Key))
		return true
	}

	d.createMark(ctx, key, cat, st, uri)
	return true
}

// createMark runs the three-step prompt pipeline. Cancelling any step
// accepts defaults for it and every remaining step.
func (d *Dispatcher) createMark(ctx context.Context, key string, cat markcfg.Category, st State, uri string) {
	opts := mark.AddOptions{
		Key:      key,
		Doc:      d.session.View().Document(),
		Position: st.Anchor,
		Priority: mark.DefaultPriority,
	}

	name, ok := d.prompt(ctx, fmt.Sprintf("%s %s Mark - Name", cat.Icon, cat.Label), "Enter a name for this mark (or leave blank for NoName)")
	if ok {
		opts.Name = name
		note, ok := d.prompt(ctx, fmt.Sprintf("%s %s Mark - Note", cat.Icon, cat.Label), "Enter a note for this mark (optional)")
		if ok {
			opts.Note = note
			if raw, ok := d.prompt(ctx, fmt.Sprintf("%s %s Mark - Priority", cat.Icon, cat.Label), "1-5 (1=Highest, 5=Lowest, default=3)"); ok {
				if p, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
					opts.Priority = mark.ClampPriority(p)
				}
			}
		}
	}

	m, err := d.marks.Add(ctx, opts)
	if err != nil {
		d.bus.Errorf("failed to create mark: %v", err)
		return
	}
	d.refreshGutter(uri)
	d.bus.Infof("Marked as %s: %s (Priority: %d)", cat.Label, m.Name, m.Priority)
}

// prompt wraps Prompter.Input; errors are treated as cancellation.
func (d *Dispatcher) prompt(ctx context.Context, label, placeholder string) (string, bool) {
	value, ok, err := d.prompter.Input(ctx, label, placeholder)
	if err != nil {
		d.log.Error().Err(err).Str("prompt", label).Msg("prompt failed")
		return "", false
	}
	return value, ok
}

// dispatchShortcut looks the key up in the context shortcut table and
// executes the binding. Execution errors are caught here: the user sees
// them, the activation state does not change.
func (d *Dispatcher) dispatchShortcut(ctx context.Context, ev KeyEvent, st State) bool {
	table := d.cfg.ForContext(st.Context)
	sc, ok := table[string(unicode.ToUpper(ev.Rune))]
	if !ok {
		return false
	}

	if err := d.execute(ctx, sc, st); err != nil {
		d.bus.Errorf("%s failed: %v", sc.Label, err)
		d.log.Error().Err(err).Str("label", sc.Label).Msg("shortcut failed")
		return true
	}

	if sc.Label != "" {
		d.bus.Infof("%s", sc.Label)
	}
	return true
}

func (d *Dispatcher) execute(ctx context.Context, sc config.Shortcut, st State) error {
	switch sc.Type {
	case config.ActionBuiltin:
		return d.insertLog(ctx, st)

	case config.ActionCommand:
		if err := d.runner.Run(ctx, sc.Command); err != nil {
			return err
		}
		d.hist.Record(ctx, sc.Command)
		return nil

	case config.ActionMacro:
		for _, cmd := range sc.Commands {
			if err := d.runner.Run(ctx, cmd); err != nil {
				return fmt.Errorf("macro step %q: %w", cmd, err)
			}
			d.hist.Record(ctx, cmd)
		}
		return nil

	default:
		return fmt.Errorf("unknown shortcut type %q", sc.Type)
	}
}

// insertLog renders the built-in debug print for the activation and
// applies it. An unsupported language is a warning, not an error.
func (d *Dispatcher) insertLog(ctx context.Context, st State) error {
	doc := d.session.View().Document()

	var (
		edits []logtmpl.Edit
		err   error
	)
	if st.Context == config.ContextSelection && !st.SavedSelection.Empty() {
		edits, err = logtmpl.SelectionLog(doc, st.SavedSelection)
	} else {
		edits, err = logtmpl.VariableLog(doc, st.Word, st.Anchor)
	}
	if err != nil {
		if errors.Is(err, logtmpl.ErrUnsupportedLanguage) {
			d.bus.Warnf("Log insertion is not supported for %s", doc.LanguageID())
			return nil
		}
		return err
	}

	viewID := d.session.View().ID()
	for _, e := range edits {
		if err := d.text.Insert(ctx, viewID, e.Pos, e.Text); err != nil {
			return fmt.Errorf("apply log edit: %w", err)
		}
	}
	return nil
}

// refreshGutter repaints the per-mark gutter glyphs for a document.
func (d *Dispatcher) refreshGutter(uri string) {
	marks := d.marks.ForDocument(uri)
	glyphs := make([]editor.GutterGlyph, 0, len(marks))
	for _, m := range marks {
		glyphs = append(glyphs, editor.GutterGlyph{Line: m.Line, Key: m.Key, Completed: m.Completed})
	}
	d.sink.SetGutter(d.session.View().ID(), glyphs)
}

func (d *Dispatcher) labelFor(key string) string {
	if cat, ok := d.cats.Lookup(key); ok {
		return cat.Label
	}
	return key
}

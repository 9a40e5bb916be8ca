// Package history keeps a frequency-ranked log of host commands executed
// through shortcut dispatch. The log feeds the settings surface's "recent
// commands" suggestions; recording is fire-and-forget.
package history

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/ghostmark/internal/core/kv"
)

// MaxEntries caps the log; exceeding it trims to the top-ranked entries.
const MaxEntries = 50

const logKey = "commands"

// Entry is one command's accumulated execution record.
type Entry struct {
	Command      string    `json:"command"`
	Count        int       `json:"count"`
	LastExecuted time.Time `json:"lastExecuted"`
}

var internalCommand = regexp.MustCompile(`^_`)

// excludedCommands are typing, cursor, and scrolling noise that would
// otherwise dominate the ranking.
var excludedCommands = map[string]struct{}{
	"type":                {},
	"replacePreviousChar": {},
	"default:type":        {},
	"cursorMove":          {},
	"cursorUp":            {},
	"cursorDown":          {},
	"cursorLeft":          {},
	"cursorRight":         {},
	"cursorHome":          {},
	"cursorEnd":           {},
	"cursorPageUp":        {},
	"cursorPageDown":      {},
	"cursorWordLeft":      {},
	"cursorWordRight":     {},
	"scrollLineUp":        {},
	"scrollLineDown":      {},
	"scrollPageUp":        {},
	"scrollPageDown":      {},
	"cancelSelection":     {},
	"setContext":          {},
	"showHover":           {},
	"closeHover":          {},
}

// Log is the persisted command log.
type Log struct {
	kv      *kv.TypedKV[[]Entry]
	entries map[string]*Entry
	now     func() time.Time
	log     zerolog.Logger
}

// NewLog loads the persisted log. A missing log is an empty one.
func NewLog(ctx context.Context, store kv.KV, log zerolog.Logger) (*Log, error) {
	l := &Log{
		kv:      kv.Scoped[[]Entry](store, "history"),
		entries: map[string]*Entry{},
		now:     time.Now,
		log:     log,
	}

	persisted, err := l.kv.GetOr(ctx, logKey, nil)
	if err != nil {
		return nil, fmt.Errorf("load command history: %w", err)
	}
	for i := range persisted {
		e := persisted[i]
		l.entries[e.Command] = &e
	}

	return l, nil
}

// SetClock overrides the log clock. Tests only.
func (l *Log) SetClock(now func() time.Time) { l.now = now }

// Record notes one execution of a command. Excluded commands are dropped
// silently. Persistence failures are logged, never surfaced.
func (l *Log) Record(ctx context.Context, commandID string) {
	if commandID == "" || l.excluded(commandID) {
		return
	}

	if e, ok := l.entries[commandID]; ok {
		e.Count++
		e.LastExecuted = l.now()
	} else {
		l.entries[commandID] = &Entry{Command: commandID, Count: 1, LastExecuted: l.now()}
	}

	if len(l.entries) > MaxEntries {
		l.trim()
	}
	l.persist(ctx)
}

// Ranked returns entries by count descending, ties broken by most recent
// execution.
func (l *Log) Ranked() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].LastExecuted.After(out[j].LastExecuted)
	})
	return out
}

// Clear drops every entry.
func (l *Log) Clear(ctx context.Context) {
	l.entries = map[string]*Entry{}
	l.persist(ctx)
}

func (l *Log) excluded(commandID string) bool {
	if _, ok := excludedCommands[commandID]; ok {
		return true
	}
	return internalCommand.MatchString(commandID)
}

// trim keeps only the top MaxEntries by rank.
func (l *Log) trim() {
	ranked := l.Ranked()
	l.entries = make(map[string]*Entry, MaxEntries)
	for i := range ranked[:MaxEntries] {
		e := ranked[i]
		l.entries[e.Command] = &e
	}
}

func (l *Log) persist(ctx context.Context) {
	if err := l.kv.Set(ctx, logKey, l.Ranked()); err != nil {
		l.log.Error().Err(err).Msg("failed to persist command history")
	}
}

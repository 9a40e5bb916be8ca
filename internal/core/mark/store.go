package mark

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/colonyops/ghostmark/internal/core/kv"
	"github.com/colonyops/ghostmark/internal/core/symbols"
	"github.com/colonyops/ghostmark/internal/editor"
)

const collectionKey = "marks"

// Store owns the canonical mark collection. All mutation happens on the
// host's single event loop; the store persists the whole collection after
// every mutation and notifies subscribers once per mutation.
type Store struct {
	kv            *kv.TypedKV[[]Mark]
	resolver      symbols.Resolver
	workspaceRoot string
	marks         []Mark
	subs          []func()
	now           func() time.Time
	log           zerolog.Logger
}

// NewStore creates a store and loads the persisted collection. A missing
// collection is an empty one, not an error.
func NewStore(ctx context.Context, store kv.KV, namespace, workspaceRoot string, resolver symbols.Resolver, log zerolog.Logger) (*Store, error) {
	s := &Store{
		kv:            kv.Scoped[[]Mark](store, namespace),
		resolver:      resolver,
		workspaceRoot: workspaceRoot,
		now:           time.Now,
		log:           log,
	}

	marks, err := s.kv.GetOr(ctx, collectionKey, nil)
	if err != nil {
		return nil, fmt.Errorf("load marks: %w", err)
	}
	s.marks = marks

	return s, nil
}

// SetClock overrides the store clock. Tests only.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// OnChange registers a callback invoked after every successful mutation.
func (s *Store) OnChange(fn func()) {
	s.subs = append(s.subs, fn)
}

// WorkspaceRoot returns the workspace root marks are anchored under.
func (s *Store) WorkspaceRoot() string { return s.workspaceRoot }

// AddOptions carries the user-provided fields for a new mark.
type AddOptions struct {
	Key      string
	Doc      editor.Document
	Position editor.Position
	Name     string
	Note     string
	Priority int
}

// Add creates a mark at the given position, resolving the enclosing symbol
// best-effort, then persists and notifies.
func (s *Store) Add(ctx context.Context, opts AddOptions) (Mark, error) {
	if !ValidKey(opts.Key) {
		return Mark{}, fmt.Errorf("add mark %q: %w", opts.Key, ErrInvalidKey)
	}

	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = DefaultName
	}

	crumb := symbols.Resolve(ctx, s.resolver, opts.Doc, opts.Position)
	now := s.now()

	m := Mark{
		ID:          NewID(now),
		Key:         opts.Key,
		DocumentRef: opts.Doc.URI(),
		Line:        opts.Position.Line,
		Symbol:      crumb.Symbol,
		Breadcrumb:  crumb.Full,
		Name:        name,
		Note:        strings.TrimSpace(opts.Note),
		Priority:    ClampPriority(opts.Priority),
		Created:     now,
	}

	s.marks = append(s.marks, m)
	s.persist(ctx)
	s.notify()

	s.log.Debug().Str("id", m.ID).Str("key", m.Key).Int("line", m.Line).Msg("mark added")
	return m, nil
}

// Remove deletes a mark by id. Returns ErrNotFound if absent.
func (s *Store) Remove(ctx context.Context, id string) error {
	for i, m := range s.marks {
		if m.ID == id {
			s.marks = append(s.marks[:i], s.marks[i+1:]...)
			s.persist(ctx)
			s.notify()
			return nil
		}
	}
	return fmt.Errorf("remove %q: %w", id, ErrNotFound)
}

// RemoveAt deletes the first mark at (documentRef, line).
func (s *Store) RemoveAt(ctx context.Context, documentRef string, line int) error {
	for i, m := range s.marks {
		if m.DocumentRef == documentRef && m.Line == line {
			s.marks = append(s.marks[:i], s.marks[i+1:]...)
			s.persist(ctx)
			s.notify()
			return nil
		}
	}
	return fmt.Errorf("remove at %s:%d: %w", documentRef, line, ErrNotFound)
}

// ToggleComplete flips a mark's completed flag, setting or clearing
// completedAt to match. Returns the new completed state.
func (s *Store) ToggleComplete(ctx context.Context, id string) (bool, error) {
	for i := range s.marks {
		if s.marks[i].ID != id {
			continue
		}
		s.marks[i].Completed = !s.marks[i].Completed
		if s.marks[i].Completed {
			at := s.now()
			s.marks[i].CompletedAt = &at
		} else {
			s.marks[i].CompletedAt = nil
		}
		s.persist(ctx)
		s.notify()
		return s.marks[i].Completed, nil
	}
	return false, fmt.Errorf("toggle complete %q: %w", id, ErrNotFound)
}

// GetAt returns the first mark at (documentRef, line). The store does not
// enforce position uniqueness; lookups see insertion order.
func (s *Store) GetAt(documentRef string, line int) (Mark, bool) {
	for _, m := range s.marks {
		if m.DocumentRef == documentRef && m.Line == line {
			return m, true
		}
	}
	return Mark{}, false
}

// ForDocument returns all marks in a document, in insertion order.
func (s *Store) ForDocument(documentRef string) []Mark {
	var out []Mark
	for _, m := range s.marks {
		if m.DocumentRef == documentRef {
			out = append(out, m)
		}
	}
	return out
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []Mark {
	out := make([]Mark, len(s.marks))
	copy(out, s.marks)
	return out
}

// CountByKey returns the number of marks carrying the given category key.
func (s *Store) CountByKey(key string) int {
	n := 0
	for _, m := range s.marks {
		if m.Key == key {
			n++
		}
	}
	return n
}

// ReplaceAll swaps in a reconciled collection (import merge), persists, and
// notifies once.
func (s *Store) ReplaceAll(ctx context.Context, marks []Mark) {
	s.marks = marks
	s.persist(ctx)
	s.notify()
}

// Query returns marks matching q, ordered per q.SortBy.
func (s *Store) Query(q Query) []Mark {
	filtered := make([]Mark, 0, len(s.marks))

	for _, m := range s.marks {
		if len(q.FilterKeys) > 0 && !containsString(q.FilterKeys, m.Key) {
			continue
		}
		if len(q.FilterPriorities) > 0 && !containsInt(q.FilterPriorities, m.Priority) {
			continue
		}
		if q.HideCompleted && m.Completed {
			continue
		}
		if !matchesSearch(m, q.SearchText) {
			continue
		}
		if q.PathGlob != "" && !s.matchesGlob(m, q.PathGlob) {
			continue
		}
		filtered = append(filtered, m)
	}

	sortMarks(filtered, q.SortBy)
	return filtered
}

// RelPath returns the workspace-relative path for a mark's document,
// falling back to the raw ref when it lies outside the workspace.
func (s *Store) RelPath(m Mark) string {
	return RelPath(s.workspaceRoot, m.DocumentRef)
}

func (s *Store) matchesGlob(m Mark, glob string) bool {
	ok, err := doublestar.Match(glob, filepath.ToSlash(s.RelPath(m)))
	if err != nil {
		s.log.Warn().Err(err).Str("glob", glob).Msg("invalid path glob")
		return false
	}
	return ok
}

// persist writes the full collection snapshot. Failures are logged, not
// surfaced: the in-memory collection stays authoritative for the session.
func (s *Store) persist(ctx context.Context) {
	if err := s.kv.Set(ctx, collectionKey, s.marks); err != nil {
		s.log.Error().Err(err).Msg("failed to persist marks")
	}
}

func (s *Store) notify() {
	for _, fn := range s.subs {
		fn()
	}
}

func matchesSearch(m Mark, search string) bool {
	search = strings.TrimSpace(strings.ToLower(search))
	if search == "" {
		return true
	}
	for _, field := range []string{m.Name, m.Note, m.Symbol, m.Breadcrumb} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func sortMarks(marks []Mark, by SortBy) {
	switch by {
	case SortPriority:
		sort.SliceStable(marks, func(i, j int) bool {
			if marks[i].Priority != marks[j].Priority {
				return marks[i].Priority < marks[j].Priority
			}
			return marks[i].Created.After(marks[j].Created)
		})
	case SortKey:
		sort.SliceStable(marks, func(i, j int) bool {
			if marks[i].Key != marks[j].Key {
				return marks[i].Key < marks[j].Key
			}
			return marks[i].Created.After(marks[j].Created)
		})
	default: // SortCreated, newest first
		sort.SliceStable(marks, func(i, j int) bool {
			return marks[i].Created.After(marks[j].Created)
		})
	}
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

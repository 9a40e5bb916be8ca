// Package filters holds the persisted jump-filter sets: category letter
// keys and priorities. Both are workspace-scoped; toggling a member
// persists immediately.
package filters

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/colonyops/ghostmark/internal/core/kv"
)

const (
	keysKey       = "keys"
	prioritiesKey = "priorities"
)

// Set is the pair of filter sets consulted by jump navigation and the
// mark browser. The zero state (both empty) means no filtering.
type Set struct {
	keys       *kv.TypedKV[[]string]
	priorities *kv.TypedKV[[]int]
	log        zerolog.Logger

	letterKeys   []string
	priorityVals []int
}

// Namespace derives the workspace-scoped kv namespace for filter state.
func Namespace(workspaceRoot string) string {
	sum := sha256.Sum256([]byte(workspaceRoot))
	return "filters." + hex.EncodeToString(sum[:8])
}

// Load reads the persisted sets for a workspace. Missing entries are
// empty sets, not errors.
func Load(ctx context.Context, store kv.KV, workspaceRoot string, log zerolog.Logger) (*Set, error) {
	ns := Namespace(workspaceRoot)
	s := &Set{
		keys:       kv.Scoped[[]string](store, ns),
		priorities: kv.Scoped[[]int](store, ns),
		log:        log,
	}

	var err error
	if s.letterKeys, err = s.keys.GetOr(ctx, keysKey, nil); err != nil {
		return nil, fmt.Errorf("load filter keys: %w", err)
	}
	if s.priorityVals, err = s.priorities.GetOr(ctx, prioritiesKey, nil); err != nil {
		return nil, fmt.Errorf("load filter priorities: %w", err)
	}
	return s, nil
}

// ToggleKey adds or removes a category letter. Returns true when the key
// is now in the set.
func (s *Set) ToggleKey(ctx context.Context, key string) bool {
	on := toggle(&s.letterKeys, key)
	sort.Strings(s.letterKeys)
	s.persistKeys(ctx)
	return on
}

// TogglePriority adds or removes a priority (1-5). Returns true when the
// priority is now in the set.
func (s *Set) TogglePriority(ctx context.Context, p int) bool {
	on := toggle(&s.priorityVals, p)
	sort.Ints(s.priorityVals)
	s.persistPriorities(ctx)
	return on
}

// Clear empties both sets.
func (s *Set) Clear(ctx context.Context) {
	s.letterKeys = nil
	s.priorityVals = nil
	s.persistKeys(ctx)
	s.persistPriorities(ctx)
}

// Keys returns the active letter filters, sorted.
func (s *Set) Keys() []string {
	out := make([]string, len(s.letterKeys))
	copy(out, s.letterKeys)
	return out
}

// Priorities returns the active priority filters, sorted.
func (s *Set) Priorities() []int {
	out := make([]int, len(s.priorityVals))
	copy(out, s.priorityVals)
	return out
}

// Empty reports whether no filters are active.
func (s *Set) Empty() bool {
	return len(s.letterKeys) == 0 && len(s.priorityVals) == 0
}

func (s *Set) persistKeys(ctx context.Context) {
	if err := s.keys.Set(ctx, keysKey, s.letterKeys); err != nil {
		s.log.Error().Err(err).Msg("failed to persist filter keys")
	}
}

func (s *Set) persistPriorities(ctx context.Context) {
	if err := s.priorities.Set(ctx, prioritiesKey, s.priorityVals); err != nil {
		s.log.Error().Err(err).Msg("failed to persist filter priorities")
	}
}

func toggle[T comparable](xs *[]T, x T) bool {
	for i, v := range *xs {
		if v == x {
			*xs = append((*xs)[:i], (*xs)[i+1:]...)
			return false
		}
	}
	*xs = append(*xs, x)
	return true
}

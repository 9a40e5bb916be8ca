// Package nav computes jump targets across the mark collection. The
// functions are pure: they take a snapshot of marks and the current
// cursor location and return the mark to jump to.
package nav

import (
	"sort"

	"github.com/colonyops/ghostmark/internal/core/mark"
)

// Cursor is the jump origin.
type Cursor struct {
	DocumentRef string
	Line        int
}

// Order sorts marks into the jump ring: priority first (1 before 5),
// creation time breaking ties (older first). The input is not mutated.
func Order(marks []mark.Mark) []mark.Mark {
	ring := make([]mark.Mark, len(marks))
	copy(ring, marks)
	sort.SliceStable(ring, func(i, j int) bool {
		if ring[i].Priority != ring[j].Priority {
			return ring[i].Priority < ring[j].Priority
		}
		return ring[i].Created.Before(ring[j].Created)
	})
	return ring
}

// Next returns the mark after the cursor in the jump ring, wrapping to
// the first. When the cursor is not on a mark, it falls back to the
// nearest mark below it in the same document, then to the ring start.
func Next(marks []mark.Mark, cur Cursor) (mark.Mark, bool) {
	ring := Order(marks)
	if len(ring) == 0 {
		return mark.Mark{}, false
	}

	if i, ok := indexOf(ring, cur); ok {
		return ring[(i+1)%len(ring)], true
	}

	if m, ok := nearestBelow(ring, cur); ok {
		return m, true
	}
	return ring[0], true
}

// Prev returns the mark before the cursor in the jump ring, wrapping to
// the last. When the cursor is not on a mark, it falls back to the
// nearest mark above it in the same document, then to the ring end.
func Prev(marks []mark.Mark, cur Cursor) (mark.Mark, bool) {
	ring := Order(marks)
	if len(ring) == 0 {
		return mark.Mark{}, false
	}

	if i, ok := indexOf(ring, cur); ok {
		return ring[(i+len(ring)-1)%len(ring)], true
	}

	if m, ok := nearestAbove(ring, cur); ok {
		return m, true
	}
	return ring[len(ring)-1], true
}

func indexOf(ring []mark.Mark, cur Cursor) (int, bool) {
	for i, m := range ring {
		if m.DocumentRef == cur.DocumentRef && m.Line == cur.Line {
			return i, true
		}
	}
	return 0, false
}

func nearestBelow(ring []mark.Mark, cur Cursor) (mark.Mark, bool) {
	var best mark.Mark
	found := false
	for _, m := range ring {
		if m.DocumentRef != cur.DocumentRef || m.Line <= cur.Line {
			continue
		}
		if !found || m.Line < best.Line {
			best = m
			found = true
		}
	}
	return best, found
}

func nearestAbove(ring []mark.Mark, cur Cursor) (mark.Mark, bool) {
	var best mark.Mark
	found := false
	for _, m := range ring {
		if m.DocumentRef != cur.DocumentRef || m.Line >= cur.Line {
			continue
		}
		if !found || m.Line > best.Line {
			best = m
			found = true
		}
	}
	return best, found
}

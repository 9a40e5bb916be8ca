// Package mark defines the persistent annotation domain model and its store.
package mark

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a mark does not exist.
	ErrNotFound = errors.New("mark not found")
	// ErrInvalidKey is returned when a category key is not a single a-z letter.
	ErrInvalidKey = errors.New("mark key must be a single letter a-z")
)

const (
	// DefaultName is used when the user provides no name.
	DefaultName = "NoName"
	// DefaultPriority is used when the user provides no priority or an
	// out-of-range one.
	DefaultPriority = 3
)

// Mark is a user-created, position-anchored annotation.
type Mark struct {
	ID          string     `json:"id"`
	Key         string     `json:"key"`
	DocumentRef string     `json:"uri"`
	Line        int        `json:"line"`
	Symbol      string     `json:"symbol"`
	Breadcrumb  string     `json:"breadcrumb"`
	Name        string     `json:"name"`
	Note        string     `json:"note,omitempty"`
	Priority    int        `json:"priority"`
	Created     time.Time  `json:"created"`
	Completed   bool       `json:"completed,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ValidKey reports whether key is a single lowercase letter a-z.
func ValidKey(key string) bool {
	return len(key) == 1 && key[0] >= 'a' && key[0] <= 'z'
}

// ClampPriority normalizes a priority to [1,5], falling back to the default.
func ClampPriority(p int) int {
	if p < 1 || p > 5 {
		return DefaultPriority
	}
	return p
}

// NewID generates a mark identifier that embeds the creation time, so ids
// sort roughly by creation order.
func NewID(now time.Time) string {
	return fmt.Sprintf("mark_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

// SortBy selects the ordering of query results.
type SortBy string

const (
	SortCreated  SortBy = "created"  // newest first
	SortPriority SortBy = "priority" // 1 first
	SortKey      SortBy = "key"      // lexicographic
)

// Query filters and orders the mark collection.
type Query struct {
	FilterKeys       []string
	FilterPriorities []int
	SearchText       string
	// PathGlob filters by workspace-relative file path, doublestar syntax.
	PathGlob string
	SortBy   SortBy
	// HideCompleted excludes completed marks; the zero value keeps them,
	// matching the browser's default view.
	HideCompleted bool
}

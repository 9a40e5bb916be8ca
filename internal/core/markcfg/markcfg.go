// Package markcfg holds the per-letter mark category table: the icon,
// label, and gutter color shown for each category key. Defaults cover the
// full a-z range; user edits are persisted as overrides.
package markcfg

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/ghostmark/internal/core/kv"
)

const tableKey = "table"

// Category is the display configuration for one mark key.
type Category struct {
	Key   string `json:"key"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Defaults returns the built-in a-z category table.
func Defaults() []Category {
	return []Category{
		{Key: "a", Icon: "📌", Label: "Attention", Color: "#FF4444"},
		{Key: "b", Icon: "🐛", Label: "Bug", Color: "#FF6B6B"},
		{Key: "c", Icon: "💬", Label: "Comment", Color: "#4488FF"},
		{Key: "d", Icon: "📚", Label: "Documentation", Color: "#8844FF"},
		{Key: "e", Icon: "✨", Label: "Enhancement", Color: "#44DDFF"},
		{Key: "f", Icon: "🔥", Label: "Fix", Color: "#FF8844"},
		{Key: "g", Icon: "🎯", Label: "Goal", Color: "#FF44DD"},
		{Key: "h", Icon: "❓", Label: "Help", Color: "#FFAA00"},
		{Key: "i", Icon: "💡", Label: "Idea", Color: "#FFDD44"},
		{Key: "j", Icon: "🔗", Label: "Join", Color: "#88DD44"},
		{Key: "k", Icon: "🔑", Label: "Key", Color: "#DD88FF"},
		{Key: "l", Icon: "📝", Label: "Log", Color: "#44DD88"},
		{Key: "m", Icon: "📧", Label: "Message", Color: "#88DDFF"},
		{Key: "n", Icon: "📄", Label: "Note", Color: "#FFDD88"},
		{Key: "o", Icon: "⚙️", Label: "Option", Color: "#DD4488"},
		{Key: "p", Icon: "⚡", Label: "Performance", Color: "#FF6B6B"},
		{Key: "q", Icon: "❔", Label: "Question", Color: "#8888FF"},
		{Key: "r", Icon: "🔧", Label: "Refactor", Color: "#FFA500"},
		{Key: "s", Icon: "🔒", Label: "Security", Color: "#DD4444"},
		{Key: "t", Icon: "✅", Label: "TODO", Color: "#87CEEB"},
		{Key: "u", Icon: "🆙", Label: "Update", Color: "#44FF88"},
		{Key: "v", Icon: "✔️", Label: "Verify", Color: "#88FF44"},
		{Key: "w", Icon: "⚠️", Label: "Warning", Color: "#FFAA00"},
		{Key: "x", Icon: "❌", Label: "Delete", Color: "#FF4444"},
		{Key: "y", Icon: "👍", Label: "Yes", Color: "#44FF44"},
		{Key: "z", Icon: "💤", Label: "Later", Color: "#888888"},
	}
}

// Table is the persisted category table.
type Table struct {
	kv         *kv.TypedKV[[]Category]
	categories []Category
	log        zerolog.Logger
}

// Load reads the persisted table, seeding the defaults on first use.
func Load(ctx context.Context, store kv.KV, log zerolog.Logger) (*Table, error) {
	t := &Table{
		kv:  kv.Scoped[[]Category](store, "markcfg"),
		log: log,
	}

	stored, err := t.kv.GetOr(ctx, tableKey, nil)
	if err != nil {
		return nil, fmt.Errorf("load mark categories: %w", err)
	}
	if len(stored) == 0 {
		t.categories = Defaults()
		t.persist(ctx)
	} else {
		t.categories = stored
	}

	return t, nil
}

// Lookup returns the category for a key.
func (t *Table) Lookup(key string) (Category, bool) {
	for _, c := range t.categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// All returns the table in stored order.
func (t *Table) All() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Update replaces the non-empty fields of an existing category. Returns
// false when the key is not configured.
func (t *Table) Update(ctx context.Context, key string, icon, label, color string) bool {
	for i := range t.categories {
		if t.categories[i].Key != key {
			continue
		}
		if icon != "" {
			t.categories[i].Icon = icon
		}
		if label != "" {
			t.categories[i].Label = label
		}
		if color != "" {
			t.categories[i].Color = color
		}
		t.persist(ctx)
		return true
	}
	return false
}

// Add appends a new category. Returns false if the key already exists.
func (t *Table) Add(ctx context.Context, c Category) bool {
	if _, exists := t.Lookup(c.Key); exists {
		return false
	}
	t.categories = append(t.categories, c)
	t.persist(ctx)
	return true
}

// Remove deletes a category by key.
func (t *Table) Remove(ctx context.Context, key string) bool {
	for i, c := range t.categories {
		if c.Key == key {
			t.categories = append(t.categories[:i], t.categories[i+1:]...)
			t.persist(ctx)
			return true
		}
	}
	return false
}

// Reset restores the default table.
func (t *Table) Reset(ctx context.Context) {
	t.categories = Defaults()
	t.persist(ctx)
}

func (t *Table) persist(ctx context.Context) {
	if err := t.kv.Set(ctx, tableKey, t.categories); err != nil {
		t.log.Error().Err(err).Msg("failed to persist mark categories")
	}
}

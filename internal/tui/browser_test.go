package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ghostmark/internal/core/filters"
	"github.com/colonyops/ghostmark/internal/core/mark"
	"github.com/colonyops/ghostmark/internal/core/markcfg"
	"github.com/colonyops/ghostmark/internal/core/notify"
	"github.com/colonyops/ghostmark/internal/data/stores"
	"github.com/colonyops/ghostmark/internal/editor"
	"github.com/colonyops/ghostmark/internal/editor/editortest"
)

type browserFixture struct {
	store   *mark.Store
	filters *filters.Set
	b       *Browser
}

func newBrowserFixture(t *testing.T) *browserFixture {
	t.Helper()
	ctx := context.Background()
	kvs := stores.NewMemoryKV()
	log := zerolog.Nop()

	store, err := mark.NewStore(ctx, kvs, "ghost", "/ws", nil, log)
	require.NoError(t, err)
	cats, err := markcfg.Load(ctx, kvs, log)
	require.NoError(t, err)
	fl, err := filters.Load(ctx, kvs, "/ws", log)
	require.NoError(t, err)

	doc := editortest.NewDoc("file:///ws/main.go", "go", "package main", "var a = 1", "var b = 2")
	for _, opts := range []mark.AddOptions{
		{Key: "t", Doc: doc, Position: editor.Position{Line: 1}, Name: "first", Priority: 1},
		{Key: "b", Doc: doc, Position: editor.Position{Line: 2}, Name: "second", Priority: 4},
	} {
		_, err := store.Add(ctx, opts)
		require.NoError(t, err)
	}

	b := NewBrowser(store, cats, fl, notify.NewBus())
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &browserFixture{store: store, filters: fl, b: b}
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowserEnterSelectsJumpTarget(t *testing.T) {
	f := newBrowserFixture(t)

	_, cmd := f.b.Update(keyMsg("enter"))
	require.NotNil(t, cmd, "enter should quit the program")

	target, ok := f.b.JumpTarget()
	require.True(t, ok)
	// Default sort is newest first.
	assert.Equal(t, "second", target.Name)
}

func TestBrowserToggleAndDelete(t *testing.T) {
	f := newBrowserFixture(t)

	f.b.Update(keyMsg("c"))
	marks := f.store.Query(mark.Query{})
	require.Len(t, marks, 2)
	assert.True(t, marks[0].Completed, "c should complete the selected mark")

	f.b.Update(keyMsg("d"))
	assert.Len(t, f.store.All(), 1, "d should delete the selected mark")
}

func TestBrowserPriorityFilter(t *testing.T) {
	f := newBrowserFixture(t)

	f.b.Update(keyMsg("1"))
	require.Len(t, f.b.list.Items(), 1)
	item := f.b.list.Items()[0].(markItem)
	assert.Equal(t, "first", item.Mark.Name)

	f.b.Update(keyMsg("0"))
	assert.Len(t, f.b.list.Items(), 2, "0 should clear filters")
}

func TestBrowserKeyFilter(t *testing.T) {
	f := newBrowserFixture(t)

	f.b.Update(keyMsg("B"))
	require.Len(t, f.b.list.Items(), 1)
	item := f.b.list.Items()[0].(markItem)
	assert.Equal(t, "second", item.Mark.Name)
	assert.Equal(t, []string{"b"}, f.filters.Keys())

	// Toggling again removes the filter.
	f.b.Update(keyMsg("B"))
	assert.Len(t, f.b.list.Items(), 2)
}

func TestBrowserHideCompleted(t *testing.T) {
	f := newBrowserFixture(t)

	f.b.Update(keyMsg("c")) // complete the selected mark
	f.b.Update(keyMsg("x"))
	assert.Len(t, f.b.list.Items(), 1, "x should hide completed marks")

	f.b.Update(keyMsg("x"))
	assert.Len(t, f.b.list.Items(), 2)
}

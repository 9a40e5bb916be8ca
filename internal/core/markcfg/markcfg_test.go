package markcfg

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/colonyops/ghostmark/internal/data/stores"
)

func loadTable(t *testing.T, store *stores.MemoryKV) *Table {
	t.Helper()
	tbl, err := Load(context.Background(), store, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tbl
}

func TestDefaultsCoverAllLetters(t *testing.T) {
	tbl := loadTable(t, stores.NewMemoryKV())

	for r := 'a'; r <= 'z'; r++ {
		c, ok := tbl.Lookup(string(r))
		if !ok {
			t.Errorf("no default category for %q", string(r))
			continue
		}
		if c.Icon == "" || c.Label == "" || c.Color == "" {
			t.Errorf("incomplete default for %q: %+v", string(r), c)
		}
	}
}

func TestUpdatePersists(t *testing.T) {
	store := stores.NewMemoryKV()
	tbl := loadTable(t, store)
	ctx := context.Background()

	if !tbl.Update(ctx, "b", "", "Blocker", "#000000") {
		t.Fatal("Update returned false for existing key")
	}
	if tbl.Update(ctx, "9", "", "Nope", "") {
		t.Error("Update returned true for unknown key")
	}

	reloaded := loadTable(t, store)
	c, ok := reloaded.Lookup("b")
	if !ok || c.Label != "Blocker" || c.Color != "#000000" {
		t.Errorf("reloaded b = %+v, want updated label and color", c)
	}
	if c.Icon != "🐛" {
		t.Errorf("empty update field overwrote icon: %q", c.Icon)
	}
}

func TestAddRemoveReset(t *testing.T) {
	tbl := loadTable(t, stores.NewMemoryKV())
	ctx := context.Background()

	if tbl.Add(ctx, Category{Key: "a", Label: "dup"}) {
		t.Error("Add allowed a duplicate key")
	}
	if !tbl.Remove(ctx, "z") {
		t.Error("Remove returned false for existing key")
	}
	if _, ok := tbl.Lookup("z"); ok {
		t.Error("z still present after Remove")
	}

	tbl.Reset(ctx)
	if _, ok := tbl.Lookup("z"); !ok {
		t.Error("Reset did not restore defaults")
	}
	if got := len(tbl.All()); got != 26 {
		t.Errorf("Reset table has %d categories, want 26", got)
	}
}

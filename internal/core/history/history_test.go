package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/ghostmark/internal/data/stores"
)

func newLog(t *testing.T, store *stores.MemoryKV) *Log {
	t.Helper()
	l, err := NewLog(context.Background(), store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}
	return l
}

func tickingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestRecordRanksByCountThenRecency(t *testing.T) {
	l := newLog(t, stores.NewMemoryKV())
	l.SetClock(tickingClock(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	l.Record(ctx, "editor.action.rename")
	l.Record(ctx, "editor.action.rename")
	l.Record(ctx, "workbench.action.files.save")
	l.Record(ctx, "editor.action.formatDocument")

	ranked := l.Ranked()
	if len(ranked) != 3 {
		t.Fatalf("ranked %d entries, want 3", len(ranked))
	}
	if ranked[0].Command != "editor.action.rename" || ranked[0].Count != 2 {
		t.Errorf("top = %+v, want rename with count 2", ranked[0])
	}
	// Equal counts: most recently executed first.
	if ranked[1].Command != "editor.action.formatDocument" {
		t.Errorf("second = %q, want formatDocument (more recent)", ranked[1].Command)
	}
}

func TestRecordExcludesNoise(t *testing.T) {
	l := newLog(t, stores.NewMemoryKV())
	ctx := context.Background()

	for _, cmd := range []string{"type", "cursorDown", "_internal.probe", ""} {
		l.Record(ctx, cmd)
	}

	if got := l.Ranked(); len(got) != 0 {
		t.Errorf("excluded commands were recorded: %v", got)
	}
}

func TestTrimKeepsTopEntries(t *testing.T) {
	l := newLog(t, stores.NewMemoryKV())
	l.SetClock(tickingClock(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	// One heavy hitter, then enough distinct commands to overflow.
	for i := 0; i < 5; i++ {
		l.Record(ctx, "editor.action.rename")
	}
	for i := 0; i < MaxEntries+10; i++ {
		l.Record(ctx, fmt.Sprintf("custom.command.%d", i))
	}

	ranked := l.Ranked()
	if len(ranked) > MaxEntries {
		t.Fatalf("log holds %d entries, want at most %d", len(ranked), MaxEntries)
	}
	if ranked[0].Command != "editor.action.rename" {
		t.Errorf("trim dropped the highest-count entry; top = %+v", ranked[0])
	}
}

func TestHistoryPersistsAcrossReload(t *testing.T) {
	store := stores.NewMemoryKV()
	ctx := context.Background()

	l1 := newLog(t, store)
	l1.Record(ctx, "editor.action.rename")
	l1.Record(ctx, "editor.action.rename")

	l2 := newLog(t, store)
	ranked := l2.Ranked()
	if len(ranked) != 1 || ranked[0].Count != 2 {
		t.Errorf("reloaded = %v, want rename with count 2", ranked)
	}

	l2.Clear(ctx)
	l3 := newLog(t, store)
	if got := l3.Ranked(); len(got) != 0 {
		t.Errorf("clear did not persist: %v", got)
	}
}

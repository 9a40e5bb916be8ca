// Package app wires the ghostmark collaborators for the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/ghostmark/internal/core/config"
	"github.com/colonyops/ghostmark/internal/core/filters"
	"github.com/colonyops/ghostmark/internal/core/history"
	"github.com/colonyops/ghostmark/internal/core/kv"
	"github.com/colonyops/ghostmark/internal/core/mark"
	"github.com/colonyops/ghostmark/internal/core/markcfg"
	"github.com/colonyops/ghostmark/internal/core/marksync"
	"github.com/colonyops/ghostmark/internal/core/notify"
)

// markNamespace scopes the mark collection in the kv store.
const markNamespace = "ghost"

// App bundles the wired collaborators commands operate on.
type App struct {
	Config        *config.Config
	KV            kv.KV
	Marks         *mark.Store
	Cats          *markcfg.Table
	Filters       *filters.Set
	History       *history.Log
	Syncer        *marksync.Syncer
	Bus           *notify.Bus
	WorkspaceRoot string
}

// New loads every store against the given kv backend. The symbol resolver
// is nil in the CLI: marks created here fall back to line labels.
func New(ctx context.Context, cfg *config.Config, kvs kv.KV, workspaceRoot string, log zerolog.Logger) (*App, error) {
	marks, err := mark.NewStore(ctx, kvs, markNamespace, workspaceRoot, nil, log)
	if err != nil {
		return nil, fmt.Errorf("load mark store: %w", err)
	}

	cats, err := markcfg.Load(ctx, kvs, log)
	if err != nil {
		return nil, fmt.Errorf("load mark categories: %w", err)
	}

	fl, err := filters.Load(ctx, kvs, workspaceRoot, log)
	if err != nil {
		return nil, fmt.Errorf("load filters: %w", err)
	}

	hist, err := history.NewLog(ctx, kvs, log)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	return &App{
		Config:        cfg,
		KV:            kvs,
		Marks:         marks,
		Cats:          cats,
		Filters:       fl,
		History:       hist,
		Syncer:        marksync.New(workspaceRoot),
		Bus:           notify.NewBus(),
		WorkspaceRoot: workspaceRoot,
	}, nil
}

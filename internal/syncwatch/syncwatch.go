// Package syncwatch watches the shared sync file and imports it into the
// mark store whenever another instance writes it.
package syncwatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/ghostmark/internal/core/mark"
	"github.com/colonyops/ghostmark/internal/core/marksync"
	"github.com/colonyops/ghostmark/internal/core/notify"
)

const debounceDelay = 50 * time.Millisecond

// Store is the slice of the mark store the watcher needs.
type Store interface {
	All() []mark.Mark
	ReplaceAll(ctx context.Context, marks []mark.Mark)
}

// Watcher re-imports the sync file on every external write. Editors save
// through temp-file renames, so the parent directory is watched and
// events are filtered by name and debounced.
type Watcher struct {
	path    string
	syncer  *marksync.Syncer
	store   Store
	bus     *notify.Bus
	watcher *fsnotify.Watcher
	log     zerolog.Logger

	mu       sync.Mutex
	debounce *time.Timer
	// suppressed marks self-inflicted writes (our own export) so they do
	// not bounce back as an import.
	suppressed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New starts watching the directory containing path. The sync file itself
// does not have to exist yet.
func New(path string, syncer *marksync.Syncer, store Store, bus *notify.Bus, log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:    path,
		syncer:  syncer,
		store:   store,
		bus:     bus,
		watcher: fw,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Suppress marks the next change to the sync file as self-inflicted; it
// is skipped instead of imported. Call it right before exporting.
func (w *Watcher) Suppress() {
	w.mu.Lock()
	w.suppressed = true
	w.mu.Unlock()
}

// Close stops the watcher and waits for in-flight work.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("sync watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return
	}

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, w.importOnce)
	w.mu.Unlock()
}

// importOnce reads the sync file and merges it into the store. A file
// that vanished between the event and the read is not an error.
func (w *Watcher) importOnce() {
	w.mu.Lock()
	w.debounce = nil
	if w.suppressed {
		w.suppressed = false
		w.mu.Unlock()
		w.log.Debug().Msg("skipping self-inflicted sync write")
		return
	}
	w.mu.Unlock()

	select {
	case <-w.ctx.Done():
		return
	default:
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.bus.Errorf("failed to read sync file: %v", err)
		}
		return
	}

	result, err := w.syncer.Import(w.store.All(), data)
	if err != nil {
		if errors.Is(err, marksync.ErrInvalidFormat) {
			w.bus.Warnf("sync file is not a valid export; ignoring")
		} else {
			w.bus.Errorf("sync import failed: %v", err)
		}
		return
	}

	if result.New == 0 && result.Updated == 0 {
		w.log.Debug().Int("skipped", result.Skipped).Msg("sync file unchanged")
		return
	}

	w.store.ReplaceAll(w.ctx, result.Merged)
	w.log.Info().
		Int("new", result.New).
		Int("updated", result.Updated).
		Int("conflicts", len(result.Conflicts)).
		Msg("sync file imported")

	if len(result.Conflicts) > 0 {
		w.bus.Warnf("Imported %d marks with %d conflicts", result.New+result.Updated, len(result.Conflicts))
	} else {
		w.bus.Infof("Imported %d marks from sync file", result.New+result.Updated)
	}
}

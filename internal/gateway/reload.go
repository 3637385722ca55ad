package gateway

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/seftonlabs/mqttgateway/internal/infrastructure/logging"
	"github.com/seftonlabs/mqttgateway/internal/mapping"
)

// Reloader watches the mapping file and swaps a freshly validated table
// into the gateway when the file changes.
//
// A definition that fails validation is logged and discarded; the
// gateway keeps translating with the table it already has.
type Reloader struct {
	gw     *Gateway
	log    *logging.Logger
	path   string
	sender string

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

// NewReloader creates a reloader for the given mapping file.
//
// sender is the keyword substituted into outbound messages with no
// sender of their own, carried over to each rebuilt codec.
func NewReloader(gw *Gateway, logger *logging.Logger, path, sender string) (*Reloader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("reloader: absolute path: %w", err)
	}

	return &Reloader{
		gw:     gw,
		log:    logger.With("component", "reloader"),
		path:   absPath,
		sender: sender,
		stopCh: make(chan struct{}),
	}, nil
}

// Start begins watching the mapping file for changes.
//
// The watch is registered on the containing directory so that editors
// and config management tools that replace the file atomically still
// trigger a reload.
func (r *Reloader) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("reloader: create watcher: %w", err)
	}
	r.watcher = watcher

	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("reloader: watch directory: %w", err)
	}

	go r.watchLoop()

	r.log.Info("watching mapping file", "path", r.path)

	return nil
}

// Stop stops watching. Safe to call once, even if Start was never
// called.
func (r *Reloader) Stop() {
	close(r.stopCh)
	if r.watcher != nil {
		r.watcher.Close()
	}
}

// Reload reads and validates the mapping file, then swaps the new table
// into the gateway. The old table stays active if anything fails.
func (r *Reloader) Reload() error {
	r.log.Info("reloading mapping file", "path", r.path)

	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("reloader: read mapping file: %w", err)
	}

	def, err := mapping.LoadDefinition(data)
	if err != nil {
		return fmt.Errorf("reloader: %w", err)
	}

	table, err := mapping.NewTable(def)
	if err != nil {
		return fmt.Errorf("reloader: %w", err)
	}

	if err := r.gw.ApplyCodec(mapping.NewCodec(table, r.sender)); err != nil {
		return fmt.Errorf("reloader: apply table: %w", err)
	}

	r.log.Info("mapping table reloaded",
		"root", table.Root(),
		"topics", len(table.Topics()))

	return nil
}

func (r *Reloader) watchLoop() {
	filename := filepath.Base(r.path)

	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			// Write for in-place edits, Create for atomic saves.
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				r.log.Debug("mapping file changed",
					"event", event.Op.String(),
					"file", event.Name)

				if err := r.Reload(); err != nil {
					r.log.Error("mapping reload failed, keeping current table",
						"error", err)
				}
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.log.Error("mapping file watcher error", "error", err)

		case <-r.stopCh:
			return
		}
	}
}

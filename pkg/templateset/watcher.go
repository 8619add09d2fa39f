package templateset

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a directory of template-set files and reapplies them to a
// registrar when they change. Sessions are untouched; hosts re-fire
// activation when they want refreshed sets installed.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	debounce  time.Duration
	registrar Registrar
	onReload  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Dir       string
	Debounce  time.Duration
	Registrar Registrar
}

// NewWatcher creates a watcher over cfg.Dir. Debounce defaults to one second.
func NewWatcher(cfg Config) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("templateset: watch directory is required")
	}
	if cfg.Registrar == nil {
		return nil, fmt.Errorf("templateset: registrar is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = time.Second
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("templateset: create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		dir:       cfg.Dir,
		debounce:  cfg.Debounce,
		registrar: cfg.Registrar,
		onReload:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start applies the directory's current contents, then begins watching.
// Returns a channel that receives a signal after each successful reload.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.reload(); err != nil {
		return nil, err
	}
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return nil, fmt.Errorf("templateset: watch %s: %w", w.dir, err)
	}

	go w.loop()

	return w.onReload, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) reload() error {
	documents, err := LoadFS(os.DirFS(w.dir))
	if err != nil {
		return err
	}
	return Apply(w.registrar, documents)
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				pending = false
				// A half-written file can fail to parse; keep the previous
				// registrations and wait for the next event.
				if err := w.reload(); err != nil {
					continue
				}
				select {
				case w.onReload <- struct{}{}:
				default:
				}
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return isSetFile(filepath.Base(event.Name))
}

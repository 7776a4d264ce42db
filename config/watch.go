package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce drops repeated events for the config file arriving closer together than this.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk.
//
// The directory holding the file is watched rather than the file itself so editors that save
// by renaming a temporary file keep triggering reloads. Successfully validated configurations
// are sent on Configs; read, parse and validation failures are sent on Errors and the previous
// configuration stays in effect.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *slog.Logger

	Configs chan Config
	Errors  chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// WatcherOption is a functional option for configuring a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the minimum spacing between reloads.
//
// Parameters:
//   - d: the debounce window
//
// Returns:
//   - WatcherOption: option function to apply
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger used to report reloads.
//
// Parameters:
//   - logger: the slog logger
//
// Returns:
//   - WatcherOption: option function to apply
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher starts watching path.
//
// Parameters:
//   - path: the config file
//   - options: functional options
//
// Returns:
//   - *Watcher: the running watcher; call Close to stop it
//   - error: an error if the directory cannot be watched
func NewWatcher(path string, options ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		path:     abs,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
		Configs:  make(chan Config, 4),
		Errors:   make(chan error, 4),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and closes Configs and Errors. Safe to call more than once.
//
// Returns:
//   - error: the error from closing the underlying fsnotify watcher
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Configs)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	var last time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			now := time.Now()
			if now.Sub(last) < w.debounce {
				continue
			}
			last = now

			// Give the writer a moment to finish before reading.
			select {
			case <-time.After(w.debounce / 2):
			case <-w.closeCh:
				return
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(nil, err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", "path", w.path, "error", err)
		w.send(nil, err)
		return
	}
	w.logger.Info("config reloaded", "path", w.path, "duration", cfg.Duration, "curve", cfg.Curve.Preset)
	w.send(&cfg, nil)
}

// send delivers a result without blocking past Close.
func (w *Watcher) send(cfg *Config, err error) {
	if cfg != nil {
		select {
		case w.Configs <- *cfg:
		case <-w.closeCh:
		}
		return
	}
	select {
	case w.Errors <- err:
	case <-w.closeCh:
	}
}

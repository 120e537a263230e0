package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path string
	fn   func(Config)
	w    *fsnotify.Watcher
	done chan struct{}
	once sync.Once
}

// Watch starts reloading path on every write, create or rename of the file
// and calls fn with each config that parses and validates. Invalid edits are
// logged and the previous config stays in effect. The parent directory is
// watched so editors that replace the file are followed.
//
// Parameters:
//   - path: the config file
//   - fn: called from the watcher goroutine with every reloaded config
//
// Returns:
//   - *Watcher: the running watcher, stopped by Close
//   - error: an error if the watch could not be set up
func Watch(path string, fn func(Config)) (*Watcher, error) {
	if _, err := FormatOf(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}

	cw := &Watcher{path: abs, fn: fn, w: w, done: make(chan struct{})}
	go cw.loop()
	return cw, nil
}

func (cw *Watcher) loop() {
	defer close(cw.done)
	for {
		select {
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			cfg, err := Load(cw.path)
			if err != nil {
				common.Logger().Warn("config reload failed", "path", cw.path, "error", err)
				continue
			}
			common.Logger().Info("config reloaded", "path", cw.path)
			cw.fn(cfg)
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			common.Logger().Warn("config watch error", "path", cw.path, "error", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (cw *Watcher) Close() error {
	var err error
	cw.once.Do(func() {
		err = cw.w.Close()
		<-cw.done
	})
	return err
}

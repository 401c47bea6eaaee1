package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// Watcher re-reads the config file when it changes on disk and hands the
// reloaded config to the registered callback. Only the tunables matter to
// callers; addresses and paths applied at startup are not re-wired.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	onLoad  func(*Config)
}

// NewWatcher starts watching the directory containing path. Watching the
// directory instead of the file survives editors that replace-on-save.
func NewWatcher(path string, onLoad func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		path:    path,
		onLoad:  onLoad,
	}

	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	go w.processEvents()
	return w, nil
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := Load(w.path)
			if err != nil {
				util.LogWarnf("Config reload failed: %v", err)
				continue
			}
			util.LogInfof("Config reloaded from %s", w.path)
			w.onLoad(cfg)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("Config watch error: " + err.Error())
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

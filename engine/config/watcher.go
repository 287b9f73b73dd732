package config

import (
	"errors"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/scena/engine/core"
)

/**
 * @brief Watcher observes a settings file and publishes freshly parsed
 * settings whenever it is rewritten on disk. Broken intermediate writes
 * are logged and skipped; the last good settings stay in effect.
 */
type Watcher struct {
	path     string
	fsnotify *fsnotify.Watcher
	isClosed bool

	done    chan struct{}
	updates chan *Settings
}

func NewWatcher(path string) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors replace files and the
	// watch on the inode would be lost.
	if err := fsWatch.Add(filepath.Dir(path)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		updates:  make(chan *Settings, 1),
	}
	go w.start()
	return w, nil
}

// Updates delivers re-parsed settings after each change to the file.
func (w *Watcher) Updates() <-chan *Settings {
	return w.updates
}

func (w *Watcher) Close() error {
	if w.isClosed {
		return errors.New("settings watcher already closed")
	}
	w.isClosed = true
	close(w.done)
	return w.fsnotify.Close()
}

func (w *Watcher) start() {
	for {
		select {
		case event, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			settings, err := Load(w.path)
			if err != nil {
				core.LogWarn("settings reload skipped: %v", err)
				continue
			}
			// Drop the stale pending update, if any, so slow consumers
			// always see the newest settings.
			select {
			case <-w.updates:
			default:
			}
			w.updates <- settings
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("settings watcher: %v", err)
		case <-w.done:
			return
		}
	}
}

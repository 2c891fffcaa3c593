package player

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// FileEvent reports a content change of a watched lecture file.
type FileEvent struct {
	Path      string
	Operation string
}

// CaptionWatcher watches lecture files for content changes. Directories are
// watched so editors that replace files by rename are still seen; events
// for files whose content fingerprint is unchanged are dropped.
type CaptionWatcher struct {
	watcher *fsnotify.Watcher
	events  chan FileEvent
	done    chan struct{}

	mu      sync.Mutex
	targets map[string]string // path -> last fingerprint
}

// NewCaptionWatcher starts watching files.
func NewCaptionWatcher(files []string) (*CaptionWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	cw := &CaptionWatcher{
		watcher: watcher,
		events:  make(chan FileEvent, 16),
		done:    make(chan struct{}),
		targets: make(map[string]string),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		fp, _ := util.FileFingerprint(abs)
		cw.targets[abs] = fp

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, err
		}
		dirs[dir] = true
	}

	go cw.processEvents()
	return cw, nil
}

func (cw *CaptionWatcher) processEvents() {
	defer close(cw.done)
	defer close(cw.events)

	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !cw.changed(event.Name) {
				continue
			}
			select {
			case cw.events <- FileEvent{Path: event.Name, Operation: event.Op.String()}:
			default:
				util.LogDebugf("Dropping caption change event for %s, consumer busy", event.Name)
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// changed records the new fingerprint of path and reports whether it moved.
func (cw *CaptionWatcher) changed(path string) bool {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	last, ok := cw.targets[path]
	if !ok {
		return false
	}
	fp, err := util.FileFingerprint(path)
	if err != nil {
		// Mid-rename; the following create event carries the content.
		return false
	}
	if fp == last {
		return false
	}
	cw.targets[path] = fp
	return true
}

// Events returns the change channel. It is closed by Close.
func (cw *CaptionWatcher) Events() <-chan FileEvent {
	return cw.events
}

// Close stops watching and waits for the event goroutine to exit.
func (cw *CaptionWatcher) Close() error {
	err := cw.watcher.Close()
	<-cw.done
	return err
}

package main

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const defaultDebounce = 200 * time.Millisecond

// watchFiles calls onChange after files in dirs accepted by match are
// created, written, removed or renamed. Events closer together than
// debounce are coalesced. onChange runs on the calling goroutine; watchFiles
// returns when ctx is done.
func watchFiles(ctx context.Context, dirs []string, match func(string) bool, debounce time.Duration, logger logrus.FieldLogger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range dirs {
		logger.WithField("path", dir).Debug("Watching path")
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	mask := fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if evt.Op&mask == 0 || !match(evt.Name) {
				continue
			}
			logger.WithField("event", evt.String()).Debug("Registered file event")
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("File watcher error")
		case <-timer.C:
			onChange()
		}
	}
}

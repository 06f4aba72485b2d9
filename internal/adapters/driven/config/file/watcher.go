package file

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/quill-labs/paperdesk/internal/logger"
)

// Watch reloads the config file whenever it changes on disk and invokes
// onReload after each successful reload. It blocks until stop is closed.
//
// The parent directory is watched rather than the file itself so that
// editors replacing the file via rename keep the watch alive.
func (s *ConfigStore) Watch(stop <-chan struct{}, onReload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.filePath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Load(); err != nil {
				logger.Warn("reloading config %s: %v", s.filePath, err)
				continue
			}
			logger.Debug("config reloaded from %s", s.filePath)
			if onReload != nil {
				onReload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)
		case <-stop:
			return nil
		}
	}
}

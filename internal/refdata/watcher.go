package refdata

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDelay = 250 * time.Millisecond

// Watch reloads a table whenever its file is written, created or renamed
// into place. It blocks until ctx is cancelled. Directories are watched
// rather than files so editors that replace the file keep working.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	reloaders := make(map[string]func() error)
	if s.synonymsPath != "" {
		reloaders[filepath.Clean(s.synonymsPath)] = s.ReloadSynonyms
	}
	if s.substitutionsPath != "" {
		reloaders[filepath.Clean(s.substitutionsPath)] = s.ReloadSubstitutions
	}
	if len(reloaders) == 0 {
		<-ctx.Done()
		return nil
	}

	dirs := make(map[string]struct{})
	for path := range reloaders {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		s.logger.Info("watching reference data", zap.String("dir", dir))
	}

	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(event.Name)
			reload, ok := reloaders[path]
			if !ok {
				continue
			}

			mu.Lock()
			if t, exists := timers[path]; exists {
				t.Stop()
			}
			timers[path] = time.AfterFunc(debounceDelay, func() {
				if err := reload(); err != nil {
					s.logger.Warn("reference data reload failed, keeping previous table", zap.String("path", path), zap.Error(err))
				}
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

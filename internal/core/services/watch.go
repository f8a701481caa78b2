package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/studyhall-labs/studyhall-cli/internal/logger"
)

// Watch re-ingests transcripts as they are created or rewritten in dir.
// An updated file replaces its course wholesale. Blocks until the
// context is cancelled.
func (s *IngestService) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("Watching %s for transcript changes", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !transcriptExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}

			logger.Debug("Watch event: %s %s", event.Op, event.Name)
			if _, _, err := s.AddCourseDocument(ctx, event.Name); err != nil {
				logger.Warn("Re-ingest %s failed: %v", event.Name, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

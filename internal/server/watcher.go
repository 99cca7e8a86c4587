package server

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceTime batches the burst of filesystem events a single git command
// produces into one rebuild.
const debounceTime = 200 * time.Millisecond

// startWatcher begins monitoring the .git directory for reference changes.
// The top-level directory covers HEAD and packed-refs; the refs/ tree is
// watched per-directory because fsnotify is not recursive.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(s.cfg.GitDir); err != nil {
		watcher.Close()
		return err
	}
	refsDir := filepath.Join(s.cfg.GitDir, "refs")
	_ = filepath.WalkDir(refsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			_ = watcher.Add(path)
		}
		return nil
	})

	go s.watchLoop(ctx, watcher)

	s.logger.Debugf("Watching %s for reference changes", s.cfg.GitDir)
	return nil
}

func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// New ref directories (e.g. the first feat/* branch) must be
			// watched before anything inside them changes.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if shouldIgnoreEvent(event) {
				continue
			}

			s.logger.Debugf("Change detected: %s", filepath.Base(event.Name))
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceTime, func() {
				s.rebuild(ctx)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Errorf("Watcher error: %v", err)
		}
	}
}

// shouldIgnoreEvent filters events that do not indicate a reference change.
func shouldIgnoreEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return true
	}
	if strings.HasSuffix(base, ".lock") {
		return true
	}
	if strings.Contains(event.Name, string(filepath.Separator)+"logs"+string(filepath.Separator)) {
		return true
	}
	switch base {
	case "config", "index", "COMMIT_EDITMSG", "FETCH_HEAD", "ORIG_HEAD":
		return true
	}
	return false
}

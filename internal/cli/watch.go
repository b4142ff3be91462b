package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/lanegraph/pkg/pipeline"
	"github.com/matzehuels/lanegraph/pkg/source/gitlog"
)

// watchDebounce collapses the burst of writes a single git command makes.
const watchDebounce = 250 * time.Millisecond

// watchPaths returns the files and directories whose changes alter the
// history: the input file, or HEAD, the refs and the reflogs of the
// repository.
func watchPaths(ctx context.Context, opts pipeline.Options) ([]string, error) {
	if opts.Input != "" {
		abs, err := filepath.Abs(opts.Input)
		if err != nil {
			return nil, err
		}
		// Editors replace files on save, so the directory is watched.
		return []string{filepath.Dir(abs)}, nil
	}

	gitDir, err := gitlog.GitDir(ctx, "", opts.RepoPath)
	if err != nil {
		return nil, err
	}
	paths := []string{gitDir}
	for _, sub := range []string{"refs/heads", "refs/remotes", "refs/tags", "logs", "logs/refs"} {
		p := filepath.Join(gitDir, sub)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// relevant reports whether an event can change the history. Lock files
// and the index change on every git command without moving any ref.
func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(ev.Name)
	return !strings.HasSuffix(name, ".lock") && name != "index" && !strings.HasPrefix(name, ".tmp-")
}

// watch calls redraw after every burst of relevant changes below paths
// until ctx is cancelled. A failed redraw is logged and the watch goes on.
func (c *CLI) watch(ctx context.Context, paths []string, redraw func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	for _, p := range paths {
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}
	c.Logger.Debug("watching for changes", "paths", len(paths))

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if relevant(ev) {
				c.Logger.Debug("history changed", "file", ev.Name, "op", ev.Op)
				timer.Reset(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "error", err)
		case <-timer.C:
			if err := redraw(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.Logger.Error("redraw failed", "error", err)
			}
		}
	}
}

// Package watch polls a directory tree for new and modified files.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const DefaultInterval = time.Second

// Watcher remembers the modification time of every matching file under
// root. Hidden directories are skipped.
type Watcher struct {
	root     string
	pattern  string
	interval time.Duration
	modTimes map[string]time.Time
}

func New(root, pattern string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		root:     root,
		pattern:  pattern,
		interval: interval,
		modTimes: make(map[string]time.Time),
	}
}

// Scan returns the paths, relative to root and sorted, of files that
// appeared or changed since the previous scan. The first scan returns
// every matching file. Deleted files are forgotten.
func (w *Watcher) Scan() ([]string, error) {
	current := make(map[string]bool)
	var changed []string

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ok, err := filepath.Match(w.pattern, d.Name())
		if err != nil || !ok {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return err
		}

		current[rel] = true
		lastMod, known := w.modTimes[rel]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[rel] = info.ModTime()
			changed = append(changed, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for rel := range w.modTimes {
		if !current[rel] {
			delete(w.modTimes, rel)
		}
	}
	sort.Strings(changed)
	return changed, nil
}

// Run scans on every tick and calls fn with the changed files, until ctx
// is done. Scan errors end the loop.
func (w *Watcher) Run(ctx context.Context, fn func(changed []string)) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			changed, err := w.Scan()
			if err != nil {
				return err
			}
			if len(changed) > 0 {
				fn(changed)
			}
		}
	}
}

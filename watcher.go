package archivekit

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before it is validated
const DefaultDebounce = 500 * time.Millisecond

// Watch validates archives under root as they are created or rewritten,
// until ctx is done. Each file is validated once it has received no write
// for debounce. Records go to fn and, like every record, to the record
// hook and log writer. Subdirectories created while watching are added.
func (v *Validator) Watch(ctx context.Context, root string, debounce time.Duration, fn func(Record)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	info, err := os.Stat(root)
	if err != nil {
		return pathError("watch", root, err)
	}
	if !info.IsDir() {
		return &PathError{Op: "watch", Path: root, Err: ErrNotSupported}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &PathError{Op: "watch", Path: root, Err: err}
	}
	defer watcher.Close()

	if err := v.addTree(watcher, root); err != nil {
		return err
	}

	// path -> time the file has been quiet long enough to validate
	pending := make(map[string]time.Time)

	interval := debounce / 4
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	v.logger.Info("watching for archives", zap.String("root", root))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			st, err := os.Lstat(event.Name)
			if err != nil {
				continue
			}
			if st.IsDir() {
				if err := v.addTree(watcher, event.Name); err != nil {
					v.logger.Warn("cannot watch directory", zap.String("path", event.Name), zap.Error(err))
				}
				continue
			}
			if !st.Mode().IsRegular() || !v.watched(root, event.Name, st) {
				continue
			}
			pending[event.Name] = time.Now().Add(debounce)

		case now := <-ticker.C:
			for path, due := range pending {
				if now.Before(due) {
					continue
				}
				delete(pending, path)

				rec := v.ValidateFile(ctx, path)
				if v.hook != nil {
					v.hook(rec)
				}
				if fn != nil {
					fn(rec)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			v.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// watched reports whether a changed file is an archive the selector accepts
func (v *Validator) watched(root, path string, st os.FileInfo) bool {
	if _, ok := v.registry.Lookup(path); !ok {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return v.selector.Match(&FileInfo{
		Name:    st.Name(),
		Path:    path,
		RelPath: filepath.ToSlash(rel),
		Size:    st.Size(),
		ModTime: st.ModTime(),
	})
}

// addTree watches dir and every directory below it
func (v *Validator) addTree(watcher *fsnotify.Watcher, dir string) error {
	dir = followRoot(dir)
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return pathError("watch", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return &PathError{Op: "watch", Path: path, Err: err}
		}
		return nil
	})
}

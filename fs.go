package archivekit

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileInfo describes a file discovered under a validation root
type FileInfo struct {
	Name    string
	Path    string
	RelPath string // slash-separated path relative to the walk root
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// WalkFunc is called for every regular file accepted by the selector
type WalkFunc func(file FileInfo) error

// Walk visits every regular file under root. A root that is itself a
// symbolic link to a directory is followed; links below it are neither
// followed nor reported, so cycles cannot occur. Directories the selector
// declines are skipped whole. An unreadable subdirectory is logged and
// skipped; only an unreadable root fails the walk.
func Walk(ctx context.Context, root string, selector FileSelector, logger *zap.Logger, fn WalkFunc) error {
	if selector == nil {
		selector = All()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	root = followRoot(root)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return pathError("walk", root, err)
			}
			logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			info := fileInfo(root, path, d)
			if !selector.TraverseDescendants(&info) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info := fileInfo(root, path, d)
		if st, err := d.Info(); err == nil {
			info.Size = st.Size()
			info.ModTime = st.ModTime()
		}
		if !selector.Match(&info) {
			return nil
		}
		return fn(info)
	})
}

// followRoot makes WalkDir descend into root when root itself is a
// symbolic link to a directory. Links below the root are still skipped.
func followRoot(root string) string {
	st, err := os.Lstat(root)
	if err != nil || st.Mode()&os.ModeSymlink == 0 {
		return root
	}
	if strings.HasSuffix(root, string(filepath.Separator)) {
		return root
	}
	// a trailing separator makes the lstat of the root resolve the link
	return root + string(filepath.Separator)
}

func fileInfo(root, path string, d fs.DirEntry) FileInfo {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return FileInfo{
		Name:    d.Name(),
		Path:    path,
		RelPath: filepath.ToSlash(rel),
		IsDir:   d.IsDir(),
	}
}

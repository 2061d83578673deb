package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jadenpxrk/cfl/pkg/cfl"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"go.uber.org/zap"
)

// listCandidates returns the paths under root that survive the ignore
// rules, in walk order.
func listCandidates(root string, noIgnore bool, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	filter, err := cfl.NewIgnoreFilter(abs, cfl.IgnoreOptions{NoIgnore: noIgnore, Logger: logger})
	if err != nil {
		return nil, err
	}

	var candidates []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if path == abs || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if filter.Ignored(path, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return nil
		}
		candidates = append(candidates, filepath.Join(root, rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning for files/directories: %w", err)
	}
	return candidates, nil
}

// runInteractiveFinder lets the user pick paths under the working directory.
// A nil slice with a nil error means the user aborted.
func runInteractiveFinder(noIgnore bool, logger *zap.Logger) ([]string, error) {
	candidates, err := listCandidates(".", noIgnore, logger)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errors.New("no files or directories found to select from")
	}

	idx, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string {
			return candidates[i]
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select files or directories to copy. Press Tab to multi-select, Enter to confirm."
			}
			path := candidates[i]
			info, statErr := os.Stat(path)
			if statErr != nil {
				return fmt.Sprintf("Path: %s\nError getting info: %v", path, statErr)
			}
			kind := "File"
			if info.IsDir() {
				kind = "Directory"
			}
			return fmt.Sprintf("Path: %s\nType: %s\nSize: %d bytes", path, kind, info.Size())
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			logger.Info("interactive selection aborted")
			return nil, nil
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	selected := make([]string, len(idx))
	for i, index := range idx {
		selected[i] = candidates[index]
	}
	return selected, nil
}

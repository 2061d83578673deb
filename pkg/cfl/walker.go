package cfl

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jadenpxrk/cfl/pkg/tokenizer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Walker turns one root path into an ordered list of accepted files.
//
// Directory entries are visited in lexical order and symbolic links below a
// root are never followed, so the output is stable and cycle-free. Files that
// cannot be read are skipped with a warning unless Config.Strict is set.
type Walker struct {
	cfg     Config
	baseDir string
	include *PatternSet
	exclude *PatternSet
	tk      tokenizer.Tokenizer
	logger  *zap.Logger
}

type candidate struct {
	abs string
	rel string
}

// NewWalker validates cfg's patterns and returns a Walker.
func NewWalker(cfg Config) (*Walker, error) {
	include, err := CompilePatterns(cfg.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := CompilePatterns(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		if baseDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	if baseDir, err = resolvePath(baseDir); err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", cfg.BaseDir, err)
	}

	tk := cfg.Tokenizer
	if tk == nil {
		tk = tokenizer.Heuristic{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Walker{
		cfg:     cfg,
		baseDir: baseDir,
		include: include,
		exclude: exclude,
		tk:      tk,
		logger:  logger,
	}, nil
}

// BaseDir returns the resolved base directory.
func (w *Walker) BaseDir() string {
	return w.baseDir
}

// Walk collects every accepted regular file under root. A relative root is
// resolved against the base directory.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	target := root
	if !filepath.IsAbs(target) {
		target = filepath.Join(w.baseDir, target)
	}
	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PathNotFoundError{Path: root, Err: err}
		}
		return nil, &IoError{Path: root, Err: err}
	}
	abs, err := resolvePath(target)
	if err != nil {
		return nil, &IoError{Path: root, Err: err}
	}

	var candidates []candidate
	if info.IsDir() {
		w.logger.Debug("processing directory", zap.String("path", abs))
		candidates, err = w.collectDir(abs)
	} else {
		w.logger.Debug("processing file", zap.String("path", abs))
		candidates, err = w.collectFile(abs, info)
	}
	if err != nil {
		return nil, err
	}
	return w.read(candidates)
}

func (w *Walker) collectDir(root string) ([]candidate, error) {
	filter, err := NewIgnoreFilter(root, IgnoreOptions{NoIgnore: w.cfg.NoIgnore, Logger: w.logger})
	if err != nil {
		return nil, &IoError{Path: root, Err: err}
	}

	var candidates []candidate
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return &IoError{Path: path, Err: err}
			}
			if w.cfg.Strict {
				return &IoError{Path: path, Err: err}
			}
			w.logger.Warn("error accessing path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if path == root {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			w.logger.Debug("skipping symlink", zap.String("path", path))
			return nil
		}

		isDir := d.IsDir()
		if filter.Ignored(path, isDir) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		if isDir {
			if w.cfg.MaxDepth > 0 && depth(root, path) >= w.cfg.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if w.cfg.Strict {
				return &IoError{Path: path, Err: err}
			}
			w.logger.Warn("could not get file info", zap.String("path", path), zap.Error(err))
			return nil
		}
		if c, ok := w.accept(path, info); ok {
			candidates = append(candidates, c)
		}
		return nil
	})
	if err != nil {
		var ioErr *IoError
		if errors.As(err, &ioErr) {
			return nil, err
		}
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}
	return candidates, nil
}

func (w *Walker) collectFile(path string, info fs.FileInfo) ([]candidate, error) {
	if !info.Mode().IsRegular() {
		w.logger.Warn("skipping non-regular file", zap.String("path", path))
		return nil, nil
	}
	filter, err := NewIgnoreFilter(filepath.Dir(path), IgnoreOptions{
		NoIgnore: w.cfg.NoIgnore,
		Shallow:  true,
		Logger:   w.logger,
	})
	if err != nil {
		return nil, &IoError{Path: path, Err: err}
	}
	if filter.Ignored(path, false) {
		w.logger.Debug("skipping ignored file", zap.String("path", path))
		return nil, nil
	}
	if c, ok := w.accept(path, info); ok {
		return []candidate{c}, nil
	}
	return nil, nil
}

// accept applies the include/exclude patterns and the size limit.
func (w *Walker) accept(path string, info fs.FileInfo) (candidate, bool) {
	rel := w.relative(path)
	if !Selects(w.include, w.exclude, rel) {
		return candidate{}, false
	}
	if w.cfg.MaxFileSize > 0 && info.Size() > w.cfg.MaxFileSize {
		w.logger.Debug("skipping large file", zap.String("path", rel), zap.Int64("size", info.Size()))
		return candidate{}, false
	}
	return candidate{abs: path, rel: rel}, true
}

// read loads candidates through a bounded pool. Each result lands in its own
// slot so the traversal order survives.
func (w *Walker) read(candidates []candidate) ([]FileEntry, error) {
	type slot struct {
		entry FileEntry
		ok    bool
	}
	slots := make([]slot, len(candidates))

	workers := w.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var g errgroup.Group
	g.SetLimit(workers)

	for i, c := range candidates {
		g.Go(func() error {
			content, err := readFile(c.abs)
			if err != nil {
				if w.cfg.Strict {
					return &IoError{Path: c.rel, Err: err}
				}
				w.logger.Warn("skipping unreadable file", zap.String("path", c.rel), zap.Error(err))
				return nil
			}
			if !w.cfg.IncludeBinary && tokenizer.IsBinary(content) {
				w.logger.Debug("skipping binary file", zap.String("path", c.rel))
				return nil
			}
			slots[i] = slot{
				entry: FileEntry{
					Path:    c.rel,
					AbsPath: c.abs,
					Size:    int64(len(content)),
					Tokens:  tokenizer.CountBytes(w.tk, content),
					Content: content,
				},
				ok: true,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]FileEntry, 0, len(slots))
	for _, s := range slots {
		if s.ok {
			entries = append(entries, s.entry)
		}
	}
	return entries, nil
}

func (w *Walker) relative(path string) string {
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// depth counts the directory levels of path below root.
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/") + 1
}

// Package cfl collects file contents from filesystem paths, filters them by
// glob patterns and ignore rules, and formats them as fenced text blocks for
// pasting into a language model.
//
//	p, err := cfl.NewBuilder().IncludePatterns("*.go").Build()
//	if err != nil {
//		return err
//	}
//	if _, err := p.ProcessPath(target); err != nil {
//		return err
//	}
//	fmt.Print(p.Result())
package cfl

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Processor accumulates the files accepted across ProcessPath calls. It is
// used by one goroutine at a time.
type Processor struct {
	cfg    Config
	walker *Walker
	logger *zap.Logger

	seen        map[string]struct{}
	files       []FileEntry
	totalSize   int64
	totalTokens int
	result      strings.Builder

	structure      string
	structureValid bool
}

// New validates cfg and returns an empty Processor. Malformed patterns are
// reported as *PatternError before any path is touched.
func New(cfg Config) (*Processor, error) {
	cfg = cfg.clone()
	walker, err := NewWalker(cfg)
	if err != nil {
		return nil, err
	}
	cfg.BaseDir = walker.BaseDir()
	return &Processor{
		cfg:    cfg,
		walker: walker,
		logger: walker.logger,
		seen:   make(map[string]struct{}),
	}, nil
}

// Config returns a copy of the processor's configuration.
func (p *Processor) Config() Config {
	return p.cfg.clone()
}

// ProcessPath walks path (a file or directory, relative to the base
// directory unless absolute) and appends the accepted files. State is only
// updated when the walk succeeds. Files already accepted by an earlier call
// are not added again. It returns the number of files added.
func (p *Processor) ProcessPath(path string) (int, error) {
	entries, err := p.walker.Walk(path)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, entry := range entries {
		if _, dup := p.seen[entry.AbsPath]; dup {
			p.logger.Debug("skipping duplicate file", zap.String("path", entry.Path))
			continue
		}
		p.seen[entry.AbsPath] = struct{}{}
		p.files = append(p.files, entry)
		p.totalSize += entry.Size
		p.totalTokens += entry.Tokens
		if !p.cfg.ShowOnly {
			if p.result.Len() > 0 {
				p.result.WriteString("\n")
			}
			p.result.WriteString(FormatBlock(entry))
		}
		added++
	}
	if added > 0 {
		p.structureValid = false
	}
	p.logger.Debug("processed path", zap.String("path", path), zap.Int("added", added))
	return added, nil
}

// TargetFiles returns the accepted files in insertion order.
func (p *Processor) TargetFiles() []FileEntry {
	return append([]FileEntry(nil), p.files...)
}

// TotalSize returns the sum of the accepted files' sizes in bytes.
func (p *Processor) TotalSize() int64 {
	return p.totalSize
}

// TotalTokens returns the sum of the accepted files' token counts.
func (p *Processor) TotalTokens() int {
	return p.totalTokens
}

// Result returns the formatted blocks of every accepted file. It is empty in
// show-only mode.
func (p *Processor) Result() string {
	return p.result.String()
}

// DirectoryStructure renders the tree of the accepted files. The rendering
// is cached until more files are added.
func (p *Processor) DirectoryStructure() string {
	if !p.structureValid {
		p.structure = BuildTree(p.files)
		p.structureValid = true
	}
	return p.structure
}

// Summary returns the aggregate statistics.
func (p *Processor) Summary() Summary {
	return Summary{
		TotalFiles:  len(p.files),
		TotalSize:   p.totalSize,
		TotalTokens: p.totalTokens,
	}
}

// CopyFiles formats every accepted file under path, using path as the base
// directory.
func CopyFiles(path string) (string, error) {
	return CopyFilesWithPatterns(path, "", "")
}

// CopyFilesWithPatterns is CopyFiles with comma-separated include and
// exclude patterns.
func CopyFilesWithPatterns(path, include, exclude string) (string, error) {
	base, target := path, "."
	if info, err := os.Stat(path); err != nil {
		base, target = "", path
	} else if !info.IsDir() {
		base, target = filepath.Dir(path), filepath.Base(path)
	}

	b := NewBuilder()
	if base != "" {
		b.BaseDir(base)
	}
	p, err := b.
		IncludePatterns(include).
		ExcludePatterns(exclude).
		Build()
	if err != nil {
		return "", err
	}
	if _, err := p.ProcessPath(target); err != nil {
		return "", err
	}
	return p.Result(), nil
}

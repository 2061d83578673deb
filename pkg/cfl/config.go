package cfl

import (
	"os"

	"github.com/jadenpxrk/cfl/pkg/tokenizer"
	"go.uber.org/zap"
)

// Config fixes every filter and behavior option before the first path is
// processed. New copies it; later changes by the caller are not observed.
type Config struct {
	Include []string
	Exclude []string
	// BaseDir anchors relative roots and the relative paths reported in
	// FileEntry.Path. Defaults to the working directory.
	BaseDir string
	// ShowOnly computes entries and statistics without building the
	// formatted result.
	ShowOnly bool

	NoIgnore      bool
	MaxFileSize   int64 // bytes, 0 = no limit
	MaxDepth      int   // directory levels below a root, 0 = no limit
	Strict        bool  // unreadable files abort the root instead of being skipped
	IncludeBinary bool
	Workers       int // parallel file reads, 0 = runtime.NumCPU()

	Tokenizer tokenizer.Tokenizer // nil = tokenizer.Heuristic
	Logger    *zap.Logger
}

// Builder accumulates options and produces a Processor.
type Builder struct {
	cfg Config
}

// NewBuilder starts from the working directory and no patterns.
func NewBuilder() *Builder {
	wd, _ := os.Getwd()
	return &Builder{cfg: Config{BaseDir: wd}}
}

// IncludePatterns adds comma-separated include patterns.
func (b *Builder) IncludePatterns(patterns string) *Builder {
	b.cfg.Include = append(b.cfg.Include, ParsePatternList(patterns)...)
	return b
}

// ExcludePatterns adds comma-separated exclude patterns.
func (b *Builder) ExcludePatterns(patterns string) *Builder {
	b.cfg.Exclude = append(b.cfg.Exclude, ParsePatternList(patterns)...)
	return b
}

func (b *Builder) BaseDir(dir string) *Builder {
	b.cfg.BaseDir = dir
	return b
}

func (b *Builder) ShowOnly(show bool) *Builder {
	b.cfg.ShowOnly = show
	return b
}

func (b *Builder) NoIgnore(noIgnore bool) *Builder {
	b.cfg.NoIgnore = noIgnore
	return b
}

func (b *Builder) MaxFileSize(bytes int64) *Builder {
	b.cfg.MaxFileSize = bytes
	return b
}

func (b *Builder) MaxDepth(depth int) *Builder {
	b.cfg.MaxDepth = depth
	return b
}

func (b *Builder) Strict(strict bool) *Builder {
	b.cfg.Strict = strict
	return b
}

func (b *Builder) IncludeBinary(include bool) *Builder {
	b.cfg.IncludeBinary = include
	return b
}

func (b *Builder) Workers(n int) *Builder {
	b.cfg.Workers = n
	return b
}

func (b *Builder) Tokenizer(tk tokenizer.Tokenizer) *Builder {
	b.cfg.Tokenizer = tk
	return b
}

func (b *Builder) Logger(logger *zap.Logger) *Builder {
	b.cfg.Logger = logger
	return b
}

// Config returns a copy of the accumulated configuration.
func (b *Builder) Config() Config {
	return b.cfg.clone()
}

// Build validates the configuration and returns a Processor.
func (b *Builder) Build() (*Processor, error) {
	return New(b.cfg)
}

func (c Config) clone() Config {
	c.Include = append([]string(nil), c.Include...)
	c.Exclude = append([]string(nil), c.Exclude...)
	return c
}

package cfl

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	gogitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

const (
	gitIgnoreFileName = ".gitignore"
	cflIgnoreFileName = ".cflignore"
	infoExcludeFile   = ".git/info/exclude"
	commentPrefix     = "#"
)

// DefaultIgnorePatterns are applied to every walk, even without an ignore
// file. They sit below every other rule, so a project .gitignore can
// re-include one of them with a "!" pattern.
var DefaultIgnorePatterns = []string{
	// version control metadata
	".git/",
	".hg/",
	".svn/",
	".bzr/",
	".jj/",
	// dependencies and build output
	"node_modules/",
	"bower_components/",
	"vendor/",
	"target/",
	"dist/",
	"build/",
	"__pycache__/",
	".venv/",
	".tox/",
}

// IgnoreOptions controls how an IgnoreFilter is assembled.
type IgnoreOptions struct {
	// NoIgnore skips every ignore file; only DefaultIgnorePatterns apply.
	NoIgnore bool
	// Shallow loads .gitignore files down to the directory itself but does
	// not scan below it. Used when the walk root is a single file.
	Shallow bool
	Logger  *zap.Logger
}

// IgnoreFilter answers whether a path is excluded by the default table,
// git ignore rules, or .cflignore files. It is not safe for concurrent use.
//
// Rules that match the filter's own directory, or one of its ancestors, are
// not applied: an explicitly requested directory is walked even when it sits
// inside an ignored tree, and only entries below it are pruned.
type IgnoreFilter struct {
	root     string
	base     string
	patterns []gitignore.Pattern
	// aboveBase[i] is set when patterns[i] matches base or an ancestor.
	aboveBase []bool
	noIgnore  bool
	cflIgnore map[string]gogitignore.IgnoreMatcher
	cflShadow map[string]bool
	logger    *zap.Logger
}

// NewIgnoreFilter builds a filter for paths under dir. Rules are resolved
// relative to the enclosing git worktree, or to dir when there is none.
func NewIgnoreFilter(dir string, opts IgnoreOptions) (*IgnoreFilter, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	absDir, err := resolvePath(dir)
	if err != nil {
		return nil, err
	}
	root := findRepositoryRoot(absDir, logger)

	patterns := make([]gitignore.Pattern, 0, len(DefaultIgnorePatterns))
	for _, p := range DefaultIgnorePatterns {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	if !opts.NoIgnore {
		rootFS := osfs.New("/")
		if ps, err := gitignore.LoadSystemPatterns(rootFS); err == nil {
			patterns = append(patterns, ps...)
		}
		if ps, err := gitignore.LoadGlobalPatterns(rootFS); err == nil {
			patterns = append(patterns, ps...)
		}

		repoFS := osfs.New(root)
		ps, err := readPatternFile(repoFS, nil, infoExcludeFile)
		if err != nil {
			logger.Warn("could not read ignore file", zap.String("file", filepath.Join(root, infoExcludeFile)), zap.Error(err))
		}
		patterns = append(patterns, ps...)

		// .gitignore files from the worktree root down to dir, farthest first.
		domain := splitPath(root, absDir)
		last := len(domain)
		if !opts.Shallow {
			last--
		}
		for i := 0; i <= last; i++ {
			ps, err := readPatternFile(repoFS, domain[:i], gitIgnoreFileName)
			if err != nil {
				logger.Warn("could not read ignore file", zap.String("dir", filepath.Join(append([]string{root}, domain[:i]...)...)), zap.Error(err))
			}
			patterns = append(patterns, ps...)
		}
		if !opts.Shallow {
			ps, err := gitignore.ReadPatterns(repoFS, domain)
			if err != nil {
				logger.Warn("could not load nested ignore files", zap.String("dir", absDir), zap.Error(err))
			}
			patterns = append(patterns, ps...)
		}
	}

	logger.Debug("ignore filter ready",
		zap.String("root", root),
		zap.Int("patterns", len(patterns)),
		zap.Bool("noIgnore", opts.NoIgnore))

	base := splitPath(root, absDir)
	aboveBase := make([]bool, len(patterns))
	for i, p := range patterns {
		for k := 1; k <= len(base); k++ {
			if p.Match(base[:k], true) != gitignore.NoMatch {
				aboveBase[i] = true
				break
			}
		}
	}

	return &IgnoreFilter{
		root:      root,
		base:      absDir,
		patterns:  patterns,
		aboveBase: aboveBase,
		noIgnore:  opts.NoIgnore,
		cflIgnore: make(map[string]gogitignore.IgnoreMatcher),
		cflShadow: make(map[string]bool),
		logger:    logger,
	}, nil
}

// Ignored reports whether absPath should be left out of the walk.
func (f *IgnoreFilter) Ignored(absPath string, isDir bool) bool {
	components := splitPath(f.root, absPath)
	if len(components) == 0 {
		return false
	}
	if f.matchPatterns(components, isDir) {
		return true
	}
	if f.noIgnore {
		return false
	}

	dir := f.root
	for _, c := range components[:len(components)-1] {
		if f.cflIgnoreMatch(dir, absPath, isDir) {
			return true
		}
		dir = filepath.Join(dir, c)
	}
	return f.cflIgnoreMatch(dir, absPath, isDir)
}

// matchPatterns follows gitignore.Matcher precedence (the last matching
// pattern decides) but skips patterns flagged in aboveBase.
func (f *IgnoreFilter) matchPatterns(path []string, isDir bool) bool {
	for i := len(f.patterns) - 1; i >= 0; i-- {
		if f.aboveBase[i] {
			continue
		}
		if r := f.patterns[i].Match(path, isDir); r != gitignore.NoMatch {
			return r == gitignore.Exclude
		}
	}
	return false
}

func (f *IgnoreFilter) cflIgnoreMatch(dir, absPath string, isDir bool) bool {
	m := f.cflIgnoreFor(dir)
	if m == nil || !m.Match(absPath, isDir) {
		return false
	}
	return !f.shadowsBase(dir, m)
}

// shadowsBase reports whether the .cflignore in dir matches base or one of
// base's ancestors below dir.
func (f *IgnoreFilter) shadowsBase(dir string, m gogitignore.IgnoreMatcher) bool {
	if shadow, ok := f.cflShadow[dir]; ok {
		return shadow
	}
	shadow := false
	if rel, err := filepath.Rel(dir, f.base); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		for a := f.base; a != dir && len(a) > len(dir); a = filepath.Dir(a) {
			if m.Match(a, true) {
				shadow = true
				break
			}
		}
	}
	f.cflShadow[dir] = shadow
	return shadow
}

func (f *IgnoreFilter) cflIgnoreFor(dir string) gogitignore.IgnoreMatcher {
	if m, ok := f.cflIgnore[dir]; ok {
		return m
	}
	var matcher gogitignore.IgnoreMatcher
	path := filepath.Join(dir, cflIgnoreFileName)
	if _, err := os.Stat(path); err == nil {
		m, err := gogitignore.NewGitIgnore(path, dir)
		if err != nil {
			f.logger.Warn("could not parse ignore file", zap.String("file", path), zap.Error(err))
		} else {
			f.logger.Debug("loaded ignore file", zap.String("file", path))
			matcher = m
		}
	}
	f.cflIgnore[dir] = matcher
	return matcher
}

// findRepositoryRoot returns the worktree root enclosing dir, or dir itself.
func findRepositoryRoot(dir string, logger *zap.Logger) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			logger.Debug("could not open repository", zap.String("dir", dir), zap.Error(err))
		}
		return dir
	}
	wt, err := repo.Worktree()
	if err != nil {
		return dir
	}
	root, err := resolvePath(wt.Filesystem.Root())
	if err != nil {
		return dir
	}
	return root
}

// readPatternFile parses one gitignore-syntax file located in domain.
// A missing file yields no patterns and no error.
func readPatternFile(fs billy.Filesystem, domain []string, name string) ([]gitignore.Pattern, error) {
	f, err := fs.Open(fs.Join(append(append([]string(nil), domain...), name)...))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var ps []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.HasPrefix(line, commentPrefix) || strings.TrimSpace(line) == "" {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, domain))
	}
	return ps, scanner.Err()
}

// splitPath returns the components of target relative to root. Paths outside
// root are reduced to their base name so the default table still applies.
func splitPath(root, target string) []string {
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return []string{filepath.Base(target)}
	}
	if rel == "." {
		return nil
	}
	return strings.Split(filepath.ToSlash(rel), "/")
}

// resolvePath makes p absolute and resolves symlinks when it exists.
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

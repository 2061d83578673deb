// Package language maps file paths to language names using a Linguist-style
// table.
package language

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileName is the name of an override table on disk.
const FileName = "languages.yml"

//go:embed languages.yml
var defaultTable []byte

// Info holds the fields of a language used for file detection.
type Info struct {
	Type         string   `yaml:"type"` // programming, data, markup, prose
	Extensions   []string `yaml:"extensions"`
	Filenames    []string `yaml:"filenames"`
	Interpreters []string `yaml:"interpreters"`
}

// Map maps language names (e.g. "Go") to their details.
type Map map[string]Info

// Table is a parsed language map with lookup indexes.
type Table struct {
	Langs      Map
	extensions map[string]string // ".go" -> "Go"
	filenames  map[string]string // "Makefile" -> "Makefile"
}

// SearchDirs returns the directories checked for an override table, in
// order: ~/.config/cfl, then the working directory.
func SearchDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "cfl"))
	}
	return append(dirs, ".")
}

// Load reads the first languages.yml found in dirs, falling back to the
// built-in table.
func Load(dirs []string, logger *zap.Logger) (*Table, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading language file %s: %w", path, err)
		}
		table, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("error parsing language file %s: %w", path, err)
		}
		logger.Debug("loaded language definitions", zap.String("file", path), zap.Int("languages", len(table.Langs)))
		return table, nil
	}
	return Default()
}

// Default returns the built-in table.
func Default() (*Table, error) {
	return Parse(defaultTable)
}

// Parse builds a Table from YAML. When several languages claim the same
// extension or file name, the alphabetically first one wins.
func Parse(data []byte) (*Table, error) {
	var langs Map
	if err := yaml.Unmarshal(data, &langs); err != nil {
		return nil, err
	}

	t := &Table{
		Langs:      langs,
		extensions: make(map[string]string),
		filenames:  make(map[string]string),
	}
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := langs[name]
		for _, ext := range info.Extensions {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			if _, taken := t.extensions[ext]; !taken {
				t.extensions[ext] = name
			}
		}
		for _, fname := range info.Filenames {
			if _, taken := t.filenames[fname]; !taken {
				t.filenames[fname] = name
			}
		}
	}
	return t, nil
}

// Detect returns the language of path. Exact file names take precedence
// over extensions; file names are case-sensitive, extensions are not.
func (t *Table) Detect(path string) (string, bool) {
	if t == nil {
		return "", false
	}
	base := filepath.Base(filepath.FromSlash(path))
	if lang, ok := t.filenames[base]; ok {
		return lang, true
	}
	if ext := strings.ToLower(filepath.Ext(base)); ext != "" {
		if lang, ok := t.extensions[ext]; ok {
			return lang, true
		}
	}
	return "", false
}

// Len returns the number of languages in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Langs)
}

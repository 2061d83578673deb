package cfl

import (
	"errors"
	"reflect"
	"testing"
)

func TestParsePatternList(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"   ", nil},
		{"*.go", []string{"*.go"}},
		{"*.rs, *.toml", []string{"*.rs", "*.toml"}},
		{"*_test.rs,,test_*.rs,", []string{"*_test.rs", "test_*.rs"}},
	}
	for _, tc := range cases {
		if got := ParsePatternList(tc.input); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ParsePatternList(%q) = %#v, want %#v", tc.input, got, tc.want)
		}
	}
}

func TestPatternSetMatch(t *testing.T) {
	cases := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"base name glob", []string{"*.go"}, "cmd/app/main.go", true},
		{"base name miss", []string{"*.go"}, "README.md", false},
		{"suffix glob", []string{"*_test.x"}, "pkg/a_test.x", true},
		{"case sensitive", []string{"*.GO"}, "main.go", false},
		{"path glob single segment", []string{"src/*.go"}, "src/main.go", true},
		{"path glob does not cross segments", []string{"src/*.go"}, "src/sub/main.go", false},
		{"double star", []string{"**/main.rs"}, "src/main.rs", true},
		{"double star at root", []string{"**/main.rs"}, "main.rs", true},
		{"double star prefix", []string{"docs/**"}, "docs/a/b/c.md", true},
		{"leading dot slash dropped", []string{"./src/*.go"}, "src/main.go", true},
		{"alternation", []string{"*.{rs,toml}"}, "Cargo.toml", true},
		{"character class", []string{"file[0-9].txt"}, "dir/file7.txt", true},
		{"any of several", []string{"*.md", "*.go"}, "main.go", true},
		{"empty set", nil, "main.go", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := CompilePatterns(tc.patterns)
			if err != nil {
				t.Fatalf("CompilePatterns error: %v", err)
			}
			if got := set.Match(tc.path); got != tc.want {
				t.Fatalf("Match(%q) with %v = %v, want %v", tc.path, tc.patterns, got, tc.want)
			}
		})
	}
}

func TestCompilePatternsInvalid(t *testing.T) {
	set, err := CompilePatterns([]string{"*.go", "src/[abc", "*.md"})
	if err == nil {
		t.Fatalf("expected error for unclosed character class")
	}
	if set != nil {
		t.Fatalf("expected no pattern set on error")
	}
	var patternErr *PatternError
	if !errors.As(err, &patternErr) {
		t.Fatalf("expected *PatternError, got %T", err)
	}
	if patternErr.Pattern != "src/[abc" {
		t.Fatalf("expected offending pattern to be reported, got %q", patternErr.Pattern)
	}
}

func TestSelects(t *testing.T) {
	include, _ := CompilePatterns([]string{"*.rs"})
	exclude, _ := CompilePatterns([]string{"*_test.rs"})
	none, _ := CompilePatterns(nil)

	cases := []struct {
		name             string
		include, exclude *PatternSet
		path             string
		want             bool
	}{
		{"no patterns keeps everything", none, none, "a/b.txt", true},
		{"include hit", include, none, "src/main.rs", true},
		{"include miss", include, none, "config.json", false},
		{"exclude wins over include", include, exclude, "src/a_test.rs", false},
		{"exclude only", none, exclude, "a_test.rs", false},
		{"nil sets", nil, nil, "x", true},
	}
	for _, tc := range cases {
		if got := Selects(tc.include, tc.exclude, tc.path); got != tc.want {
			t.Fatalf("%s: Selects(%q) = %v, want %v", tc.name, tc.path, got, tc.want)
		}
	}
}

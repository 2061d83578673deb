package tokenizer

import (
	"strings"
	"testing"
)

func TestHeuristicCountTokens(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"whitespace only", " \n\t ", 0},
		{"words", "hello world", 2},
		{"code", `fn main() { println!("Hello"); }`, 4},
		{"operators", "a+b=c", 3},
		{"underscore splits", "snake_case", 2},
		{"unicode letters kept", "héllo wörld", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := (Heuristic{}).CountTokens(tc.input); got != tc.want {
				t.Fatalf("CountTokens(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestHeuristicDeterministic(t *testing.T) {
	text := strings.Repeat("func main() { return x + y }\n", 50)
	first := (Heuristic{}).CountTokens(text)
	for i := 0; i < 5; i++ {
		if got := (Heuristic{}).CountTokens(text); got != first {
			t.Fatalf("run %d: got %d, want %d", i, got, first)
		}
	}
}

func TestIsBinary(t *testing.T) {
	if IsBinary([]byte("plain text\n")) {
		t.Fatalf("expected text to be detected as text")
	}
	if !IsBinary([]byte{0x00, 0x01, 0x02}) {
		t.Fatalf("expected NUL bytes to be detected as binary")
	}
	if !IsBinary([]byte{0xff, 0xfe, 0xfd}) {
		t.Fatalf("expected invalid UTF-8 to be detected as binary")
	}
	if IsBinary(nil) {
		t.Fatalf("expected empty input to be text")
	}
}

func TestIsBinaryRuneSplitAtSniffBoundary(t *testing.T) {
	data := []byte(strings.Repeat("a", sniffLength-1) + "é" + "tail")
	if IsBinary(data) {
		t.Fatalf("expected rune split at the sniff boundary to be tolerated")
	}
}

func TestCountBytes(t *testing.T) {
	if got := CountBytes(Heuristic{}, []byte("one two three")); got != 3 {
		t.Fatalf("expected 3 tokens, got %d", got)
	}
	if got := CountBytes(Heuristic{}, []byte{0x00, 'a', 'b'}); got != 0 {
		t.Fatalf("expected binary content to count 0, got %d", got)
	}
	if got := CountBytes(nil, []byte("text")); got != 0 {
		t.Fatalf("expected nil tokenizer to count 0, got %d", got)
	}
}

func TestNewHeuristic(t *testing.T) {
	tk, err := New(Options{Type: "Heuristic"})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer tk.Close()
	if tk.Name() != TypeHeuristic {
		t.Fatalf("expected %s, got %s", TypeHeuristic, tk.Name())
	}
}

func TestNewTiktokenDefault(t *testing.T) {
	tk, err := New(Options{Type: TypeTiktoken})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer tk.Close()
	if got := tk.CountTokens("hello world"); got <= 0 {
		t.Fatalf("expected positive token count, got %d", got)
	}
	if a, b := tk.CountTokens("package main"), tk.CountTokens("package main"); a != b {
		t.Fatalf("expected deterministic counts, got %d and %d", a, b)
	}
}

func TestNewUnsupported(t *testing.T) {
	if _, err := New(Options{Type: "sentencepiece"}); err == nil {
		t.Fatalf("expected error for unsupported tokenizer type")
	}
}

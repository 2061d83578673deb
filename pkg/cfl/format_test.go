package cfl

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatBlock(t *testing.T) {
	got := FormatBlock(FileEntry{Path: "src/main.rs", Content: []byte("fn main() {}")})
	want := "```src/main.rs\nfn main() {}\n```\n"
	if got != want {
		t.Fatalf("FormatBlock = %q, want %q", got, want)
	}
}

func TestFormatBlockLengthensFenceAroundEmbeddedFences(t *testing.T) {
	content := "# README\n```go\nfmt.Println(\"hi\")\n```\nand ````four```` too\n"
	block := FormatBlock(FileEntry{Path: "README.md", Content: []byte(content)})
	if !strings.HasPrefix(block, "`````README.md\n") {
		t.Fatalf("expected a five-backtick fence, got %q", block[:20])
	}
	if !strings.HasSuffix(block, "\n`````\n") {
		t.Fatalf("expected matching closing fence, got %q", block)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	contents := []string{
		"",
		"\n",
		"plain text",
		"ends with newline\n",
		"```\nnot a real close\n```",
		"`` ` ``` ```` `````",
		"line\r\nwindows endings\r\n",
		"unicode: héllo 世界 🚀\n",
		"```src/other.go\nfake header\n```\n",
	}
	for _, content := range contents {
		entry := FileEntry{Path: "dir/file.txt", Content: []byte(content)}
		path, body, err := ParseBlock(FormatBlock(entry))
		if err != nil {
			t.Fatalf("ParseBlock(%q) error: %v", content, err)
		}
		if path != entry.Path {
			t.Fatalf("path = %q, want %q", path, entry.Path)
		}
		if !bytes.Equal(body, entry.Content) {
			t.Fatalf("body = %q, want %q", body, entry.Content)
		}
	}
}

func TestParseBlockRejectsMalformed(t *testing.T) {
	for _, block := range []string{
		"",
		"no fence",
		"``short\nbody\n``\n",
		"```path-without-newline",
		"```path\nbody without closing fence\n",
		"```path\nbody\n````\n",
		"```path\n```\n",
		"```\"unterminated\nbody\n```\n",
	} {
		if _, _, err := ParseBlock(block); err == nil {
			t.Fatalf("expected error for %q", block)
		}
	}
}

func TestJoinBlocks(t *testing.T) {
	a := FormatBlock(FileEntry{Path: "a.x", Content: []byte("A")})
	b := FormatBlock(FileEntry{Path: "b.x", Content: []byte("B")})
	got := JoinBlocks([]string{a, b})
	want := "```a.x\nA\n```\n\n```b.x\nB\n```\n"
	if got != want {
		t.Fatalf("JoinBlocks = %q, want %q", got, want)
	}
}

func TestFormatParseRoundTripUnusualPaths(t *testing.T) {
	for _, path := range []string{
		"`odd.md",
		"```triple.md",
		"line\nbreak.txt",
		"carriage\rreturn.txt",
		`"quoted".txt`,
		`mid"quote.txt`,
		"dir with spaces/file.go",
	} {
		entry := FileEntry{Path: path, Content: []byte("hi")}
		got, body, err := ParseBlock(FormatBlock(entry))
		if err != nil {
			t.Fatalf("ParseBlock for path %q error: %v", path, err)
		}
		if got != path || string(body) != "hi" {
			t.Fatalf("round trip of %q = (%q, %q)", path, got, body)
		}
	}
}

func TestFormatBlockQuotesLineBreaksInPath(t *testing.T) {
	got := FormatBlock(FileEntry{Path: "a\nb.txt", Content: []byte("x")})
	want := "```\"a\\nb.txt\"\nx\n```\n"
	if got != want {
		t.Fatalf("FormatBlock = %q, want %q", got, want)
	}
}

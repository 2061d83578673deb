package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jadenpxrk/cfl/internal/language"
	"github.com/jadenpxrk/cfl/pkg/cfl"
	textlanguage "golang.org/x/text/language"
	"golang.org/x/text/message"
)

const otherLanguage = "Other"

// report is what the command prints after a run.
type report struct {
	Destination string // "clipboard", "stdout", "out.txt", ...
	Entries     []cfl.FileEntry
	Summary     cfl.Summary
	Tree        string
	Include     []string
	Exclude     []string
	Languages   *language.Table
}

// languageStat aggregates the files of one language.
type languageStat struct {
	Name   string
	Files  int
	Size   int64
	Tokens int
}

func newPrinter() *message.Printer {
	return message.NewPrinter(textlanguage.English)
}

// writeShowList prints the selected files and the totals.
func writeShowList(w io.Writer, entries []cfl.FileEntry, summary cfl.Summary) {
	p := newPrinter()
	p.Fprintln(w, "Target files:")
	writeEntries(w, p, entries, "  ")
	p.Fprintf(w, "\nTotal: %d files\n", summary.TotalFiles)
	p.Fprintf(w, "Total size: %d bytes\n", summary.TotalSize)
	p.Fprintf(w, "Total tokens: %d\n", summary.TotalTokens)
}

// writeSummary prints the delivered files, totals, a per-language breakdown,
// the directory tree and the active patterns.
func writeSummary(w io.Writer, r report) {
	p := newPrinter()
	p.Fprintf(w, "\n✨ Successfully copied %d files to %s:\n", r.Summary.TotalFiles, r.Destination)
	p.Fprintln(w, "📁 Files:")
	writeEntries(w, p, r.Entries, "  • ")

	p.Fprintln(w, "\n📊 Summary:")
	p.Fprintf(w, "  • Total files: %d\n", r.Summary.TotalFiles)
	p.Fprintf(w, "  • Total size: %d bytes\n", r.Summary.TotalSize)
	p.Fprintf(w, "  • Total tokens: %d\n", r.Summary.TotalTokens)

	if stats := languageBreakdown(r.Entries, r.Languages); len(stats) > 0 {
		p.Fprintln(w, "\n🗂  Languages:")
		for _, s := range stats {
			p.Fprintf(w, "  • %s: %d files, %d bytes, %d tokens\n", s.Name, s.Files, s.Size, s.Tokens)
		}
	}

	if r.Tree != "" {
		p.Fprintln(w, "\n📁 Directory Structure:")
		fmt.Fprint(w, r.Tree)
	}

	if len(r.Include) > 0 {
		p.Fprintf(w, "  • Include patterns: %s\n", strings.Join(r.Include, ","))
	}
	if len(r.Exclude) > 0 {
		p.Fprintf(w, "  • Exclude patterns: %s\n", strings.Join(r.Exclude, ","))
	}

	if r.Summary.TotalFiles == 0 {
		p.Fprintln(w, "\n⚠️  No files were copied. Check your include/exclude patterns.")
	}
}

func writeEntries(w io.Writer, p *message.Printer, entries []cfl.FileEntry, bullet string) {
	for _, e := range entries {
		p.Fprintf(w, "%s%s (%d bytes, %d tokens)\n", bullet, e.Path, e.Size, e.Tokens)
	}
}

// languageBreakdown groups entries by detected language, largest token
// count first. Undetected files are grouped under "Other".
func languageBreakdown(entries []cfl.FileEntry, langs *language.Table) []languageStat {
	byName := make(map[string]*languageStat)
	for _, e := range entries {
		name, ok := langs.Detect(e.Path)
		if !ok {
			name = otherLanguage
		}
		s, found := byName[name]
		if !found {
			s = &languageStat{Name: name}
			byName[name] = s
		}
		s.Files++
		s.Size += e.Size
		s.Tokens += e.Tokens
	}

	stats := make([]languageStat, 0, len(byName))
	for _, s := range byName {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Tokens != stats[j].Tokens {
			return stats[i].Tokens > stats[j].Tokens
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

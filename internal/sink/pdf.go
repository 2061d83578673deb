package sink

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jadenpxrk/cfl/internal/language"
	"github.com/jadenpxrk/cfl/pkg/cfl"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // mm
	pdfLineHeight = 5   // mm
	pdfFontSize   = 9
	pdfTabWidth   = 4
	pdfStyle      = "github"
)

// Core PDF fonts are cp1252 and have no box-drawing glyphs.
var treeGlyphs = strings.NewReplacer("├──", "|--", "└──", "`--", "│", "|")

// PDF renders the tree, every file with syntax colouring, and the summary
// to a PDF file.
type PDF struct {
	Path      string
	Languages *language.Table
	Logger    *zap.Logger
}

func NewPDF(path string, langs *language.Table, logger *zap.Logger) *PDF {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDF{Path: path, Languages: langs, Logger: logger}
}

func (s *PDF) Name() string { return "pdf" }

func (s *PDF) Deliver(doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	width := float64(pdfPageWidth - 2*pdfMargin)
	style := styles.Get(pdfStyle)

	pdf.AddPage()
	if doc.Tree != "" {
		pdf.SetFont("Courier", "", pdfFontSize)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(width, pdfLineHeight, tr(treeGlyphs.Replace(doc.Tree)), "", "L", false)
		pdf.Ln(pdfLineHeight)
	}

	for _, entry := range doc.Entries {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", pdfFontSize+1)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(width, pdfLineHeight, tr("File: "+entry.Path), "", "L", false)
		pdf.SetFont("Helvetica", "", pdfFontSize-1)
		pdf.MultiCell(width, pdfLineHeight, fmt.Sprintf("Size: %d bytes, Tokens: %d", entry.Size, entry.Tokens), "", "L", false)
		pdf.Line(pdfMargin, pdf.GetY(), pdfPageWidth-pdfMargin, pdf.GetY())
		pdf.Ln(pdfLineHeight / 2)

		if err := s.writeHighlighted(pdf, tr, style, entry); err != nil {
			s.Logger.Warn("syntax highlighting failed, writing plain text", zap.String("path", entry.Path), zap.Error(err))
			pdf.SetFont("Courier", "", pdfFontSize)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(width, pdfLineHeight, tr(string(entry.Content)), "", "L", false)
		}
	}

	pdf.Ln(pdfLineHeight)
	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(width, pdfLineHeight, "Summary", "", "L", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	pdf.MultiCell(width, pdfLineHeight, fmt.Sprintf("Files: %d\nSize: %d bytes\nTokens: %d",
		doc.Summary.TotalFiles, doc.Summary.TotalSize, doc.Summary.TotalTokens), "", "L", false)

	if err := pdf.OutputFileAndClose(s.Path); err != nil {
		return deliveryError(s, fmt.Errorf("save %s: %w", s.Path, err))
	}
	s.Logger.Debug("wrote pdf", zap.String("path", s.Path), zap.Int("files", len(doc.Entries)))
	return nil
}

func (s *PDF) writeHighlighted(pdf *gofpdf.Fpdf, tr func(string) string, style *chroma.Style, entry cfl.FileEntry) error {
	code := string(entry.Content)
	iterator, err := chroma.Coalesce(s.lexerFor(entry.Path, code)).Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("tokenise: %w", err)
	}

	pdf.SetFont("Courier", "", pdfFontSize)
	text := style.Get(chroma.Text).Colour
	for token := iterator(); token != chroma.EOF; token = iterator() {
		se := style.Get(token.Type)
		fontStyle := ""
		if se.Bold == chroma.Yes {
			fontStyle += "B"
		}
		if se.Italic == chroma.Yes {
			fontStyle += "I"
		}
		pdf.SetFontStyle(fontStyle)

		switch {
		case se.Colour.IsSet():
			pdf.SetTextColor(int(se.Colour.Red()), int(se.Colour.Green()), int(se.Colour.Blue()))
		case text.IsSet():
			pdf.SetTextColor(int(text.Red()), int(text.Green()), int(text.Blue()))
		default:
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Write(pdfLineHeight, tr(strings.ReplaceAll(token.Value, "\t", strings.Repeat(" ", pdfTabWidth))))
	}
	pdf.Ln(-1)
	return nil
}

// lexerFor prefers the language table, then chroma's own file name rules,
// then content analysis.
func (s *PDF) lexerFor(path, code string) chroma.Lexer {
	if lang, ok := s.Languages.Detect(path); ok {
		if l := lexers.Get(lang); l != nil {
			return l
		}
	}
	if l := lexers.Match(path); l != nil {
		return l
	}
	if l := lexers.Analyse(code); l != nil {
		return l
	}
	return lexers.Fallback
}

// Package tokenizer estimates language-model token counts for file contents.
package tokenizer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	"go.uber.org/zap"
)

// Tokenizer is an interface for different tokenizer implementations.
type Tokenizer interface {
	Name() string
	CountTokens(text string) int
	Close()
}

// Implementation names accepted by New.
const (
	TypeHeuristic   = "heuristic"
	TypeTiktoken    = "tiktoken"
	TypeHuggingFace = "huggingface"
)

const (
	DefaultTiktokenModel = "gpt-4"
	defaultEncodingName  = "cl100k_base"
	defaultHFModel       = "gpt2"
)

// Options selects and configures a Tokenizer.
type Options struct {
	Type   string
	Model  string
	File   string // local tokenizer.json for huggingface
	Logger *zap.Logger
}

func init() {
	// Encodings are embedded; never fetch BPE files over the network.
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// New returns a tokenizer instance based on opts.
func New(opts Options) (Tokenizer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(strings.TrimSpace(opts.Type)) {
	case "", TypeTiktoken:
		return loadTiktoken(opts.Model, logger)
	case TypeHeuristic:
		return Heuristic{}, nil
	case TypeHuggingFace:
		return loadHuggingFace(opts.Model, opts.File, logger)
	default:
		return nil, fmt.Errorf("unsupported tokenizer type: %s. Use 'tiktoken', 'huggingface' or 'heuristic'", opts.Type)
	}
}

// --- Heuristic ---

// Heuristic counts runs of characters between whitespace and ASCII
// punctuation. It needs no model data and is stable across releases.
type Heuristic struct{}

func (Heuristic) Name() string { return TypeHeuristic }

func (Heuristic) CountTokens(text string) int {
	return len(strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || (r < utf8.RuneSelf && unicode.IsPunct(r)) || (r < utf8.RuneSelf && unicode.IsSymbol(r))
	}))
}

func (Heuristic) Close() {}

// --- Tiktoken ---

// Tiktoken wraps a tiktoken-go encoding.
type Tiktoken struct {
	ttk  *tiktoken.Tiktoken
	name string
}

func (w *Tiktoken) Name() string { return w.name }

func (w *Tiktoken) CountTokens(text string) int {
	if w.ttk == nil {
		return 0
	}
	return len(w.ttk.EncodeOrdinary(text))
}

func (w *Tiktoken) Close() {}

func loadTiktoken(model string, logger *zap.Logger) (Tokenizer, error) {
	if model == "" {
		model = DefaultTiktokenModel
	}
	tke, err := tiktoken.EncodingForModel(model)
	if err == nil {
		return &Tiktoken{ttk: tke, name: model}, nil
	}
	logger.Warn("tiktoken model unavailable, falling back",
		zap.String("model", model),
		zap.String("encoding", defaultEncodingName),
		zap.Error(err))
	tke, err = tiktoken.GetEncoding(defaultEncodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding '%s': %w", defaultEncodingName, err)
	}
	return &Tiktoken{ttk: tke, name: defaultEncodingName}, nil
}

// --- HuggingFace (sugarme) ---

// HuggingFace wraps a sugarme/tokenizer pretrained tokenizer.
type HuggingFace struct {
	htk  *hf.Tokenizer
	name string
}

func (w *HuggingFace) Name() string { return w.name }

func (w *HuggingFace) CountTokens(text string) int {
	if w.htk == nil {
		return 0
	}
	en, err := w.htk.EncodeSingle(text)
	if err != nil {
		return 0
	}
	return len(en.Tokens)
}

func (w *HuggingFace) Close() {}

func loadHuggingFace(model, file string, logger *zap.Logger) (Tokenizer, error) {
	if file != "" {
		logger.Debug("loading huggingface tokenizer from file", zap.String("file", file))
		ttk, err := pretrained.FromFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer from file %s: %w", file, err)
		}
		return &HuggingFace{htk: ttk, name: file}, nil
	}

	if model == "" {
		model = defaultHFModel
	}
	logger.Info("loading huggingface tokenizer (this may download files)", zap.String("model", model))
	configFilePath, err := hf.CachedPath(model, "tokenizer.json")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache path for model %s: %w", model, err)
	}
	ttk, err := pretrained.FromFile(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pretrained tokenizer for model %s (from %s): %w", model, configFilePath, err)
	}
	return &HuggingFace{htk: ttk, name: model}, nil
}

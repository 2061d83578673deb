package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jadenpxrk/cfl/internal/language"
	"github.com/jadenpxrk/cfl/internal/logging"
	"github.com/jadenpxrk/cfl/internal/sink"
	"github.com/jadenpxrk/cfl/pkg/cfl"
	"github.com/jadenpxrk/cfl/pkg/tokenizer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	envPrefix       = "CFL"
	localConfigFile = ".cfl.toml"
)

// version is the application version, set via ldflags.
var version = "dev"

var cfgFile string

// settings is the resolved configuration of one run:
// defaults < config file < CFL_* environment < flags.
type settings struct {
	Include       []string
	Exclude       []string
	Show          bool
	MaxSize       int64
	MaxDepth      int
	NoIgnore      bool
	Strict        bool
	IncludeBinary bool
	Threads       int

	Tokenizer     string
	Model         string
	TokenizerFile string

	Output      string
	Print       bool
	PDF         string
	Interactive bool
	Verbose     bool
}

var rootCmd = &cobra.Command{
	Use:   "cfl [PATHS...]",
	Short: "Copy files to the clipboard as fenced blocks for pasting into an LLM.",
	Long: `cfl collects the files under the given paths, filters them with include
and exclude globs and the repository's ignore rules, and copies them as
fenced code blocks, printing sizes, token counts and a directory tree.

Paths may be separated by spaces or commas and default to the current
directory.`,
	Version:       version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(loadSettings(), args, os.Stdout)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/cfl/config.toml or ./.cfl.toml)")

	flags := rootCmd.Flags()

	// Filtering
	flags.StringP("include", "i", "", "Patterns to include (comma-separated, e.g. *.rs,*.go)")
	flags.StringP("exclude", "e", "", "Patterns to exclude (comma-separated)")
	flags.Int64("max-size", 0, "Maximum file size in bytes (0 for no limit)")
	flags.Int("max-depth", 0, "Maximum directory depth to traverse (0 for no limit)")
	flags.Bool("no-ignore", false, "Don't respect .gitignore and .cflignore files")
	flags.Bool("strict", false, "Fail on unreadable files instead of skipping them")
	flags.Bool("include-binary", false, "Include files that look binary")

	// Processing
	flags.IntP("threads", "t", 0, "Number of parallel file reads (0 for auto)")

	// Token counting
	flags.String("tokenizer", tokenizer.TypeTiktoken, "Tokenizer to use: tiktoken, huggingface or heuristic")
	flags.String("model", "", "Model name for tokenizer (e.g., gpt-4o, gpt2)")
	flags.String("tokenizer-file", "", "Path to local tokenizer file")

	// Output
	flags.BoolP("show", "s", false, "Only list the files that would be copied")
	flags.StringP("output", "o", "", "Write output to a file instead of the clipboard")
	flags.BoolP("print", "p", false, "Print output to stdout instead of the clipboard")
	flags.String("pdf", "", "Save output as PDF")

	flags.Bool("interactive", false, "Pick paths with a fuzzy finder")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	for _, name := range []string{
		"include", "exclude", "max-size", "max-depth", "no-ignore", "strict",
		"include-binary", "threads", "tokenizer", "model", "tokenizer-file",
		"show", "output", "print", "pdf", "interactive", "verbose",
	} {
		// snake_case keys for config files and CFL_* variables
		cobra.CheckErr(viper.BindPFlag(configKey(name), flags.Lookup(name)))
	}

	viper.SetDefault("tokenizer", tokenizer.TypeTiktoken)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(localConfigFile); err == nil {
		viper.SetConfigFile(localConfigFile)
		viper.SetConfigType("toml")
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cfl"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}
}

func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

func loadSettings() settings {
	return settings{
		Include:       patternSetting("include"),
		Exclude:       patternSetting("exclude"),
		Show:          viper.GetBool("show"),
		MaxSize:       viper.GetInt64("max_size"),
		MaxDepth:      viper.GetInt("max_depth"),
		NoIgnore:      viper.GetBool("no_ignore"),
		Strict:        viper.GetBool("strict"),
		IncludeBinary: viper.GetBool("include_binary"),
		Threads:       viper.GetInt("threads"),
		Tokenizer:     viper.GetString("tokenizer"),
		Model:         viper.GetString("model"),
		TokenizerFile: viper.GetString("tokenizer_file"),
		Output:        viper.GetString("output"),
		Print:         viper.GetBool("print"),
		PDF:           viper.GetString("pdf"),
		Interactive:   viper.GetBool("interactive"),
		Verbose:       viper.GetBool("verbose"),
	}
}

// patternSetting accepts either a comma-separated string or a TOML list.
// Patterns may contain spaces, so the value is never split on whitespace.
func patternSetting(key string) []string {
	switch v := viper.Get(key).(type) {
	case string:
		return cfl.ParsePatternList(v)
	case []string:
		return cfl.ParsePatternList(strings.Join(v, ","))
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			parts = append(parts, fmt.Sprint(p))
		}
		return cfl.ParsePatternList(strings.Join(parts, ","))
	default:
		return nil
	}
}

// splitPaths expands comma-separated arguments. No arguments means ".".
func splitPaths(args []string) []string {
	var paths []string
	for _, arg := range args {
		for _, p := range strings.Split(arg, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
	}
	if len(paths) == 0 {
		return []string{"."}
	}
	return paths
}

func run(s settings, args []string, stdout io.Writer) error {
	logger, err := logging.New(s.Verbose)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	paths := splitPaths(args)
	if s.Interactive {
		paths, err = runInteractiveFinder(s.NoIgnore, logger)
		if err != nil {
			return err
		}
		if paths == nil {
			return nil
		}
		logger.Info("processing selected paths", zap.Strings("paths", paths))
	}

	tk, err := tokenizer.New(tokenizer.Options{
		Type:   s.Tokenizer,
		Model:  s.Model,
		File:   s.TokenizerFile,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("initializing tokenizer: %w", err)
	}
	defer tk.Close()

	p, err := newProcessor(s, tk, logger)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if _, err := p.ProcessPath(path); err != nil {
			return fmt.Errorf("failed to process path %s: %w", path, err)
		}
	}

	if s.Show {
		writeShowList(stdout, p.TargetFiles(), p.Summary())
		return nil
	}

	langs, err := language.Load(language.SearchDirs(), logger)
	if err != nil {
		logger.Warn("could not load language definitions", zap.Error(err))
	}

	out, destination := selectSink(s, langs, logger)
	doc := sink.Document{
		Text:    p.Result(),
		Tree:    p.DirectoryStructure(),
		Entries: p.TargetFiles(),
		Summary: p.Summary(),
	}
	if err := out.Deliver(doc); err != nil {
		return err
	}

	// Keep stdout clean for the payload when printing it.
	summaryOut := stdout
	if s.Print && s.Output == "" && s.PDF == "" {
		summaryOut = os.Stderr
	}
	writeSummary(summaryOut, report{
		Destination: destination,
		Entries:     doc.Entries,
		Summary:     doc.Summary,
		Tree:        doc.Tree,
		Include:     s.Include,
		Exclude:     s.Exclude,
		Languages:   langs,
	})
	return nil
}

func newProcessor(s settings, tk tokenizer.Tokenizer, logger *zap.Logger) (*cfl.Processor, error) {
	b := cfl.NewBuilder().
		ShowOnly(s.Show).
		NoIgnore(s.NoIgnore).
		MaxFileSize(s.MaxSize).
		MaxDepth(s.MaxDepth).
		Strict(s.Strict).
		IncludeBinary(s.IncludeBinary).
		Workers(s.Threads).
		Tokenizer(tk).
		Logger(logger)
	cfg := b.Config()
	cfg.Include = s.Include
	cfg.Exclude = s.Exclude
	return cfl.New(cfg)
}

// selectSink picks the destination: --pdf, then --output, then --print,
// otherwise the clipboard.
func selectSink(s settings, langs *language.Table, logger *zap.Logger) (sink.Sink, string) {
	switch {
	case s.PDF != "":
		return sink.NewPDF(s.PDF, langs, logger), s.PDF
	case s.Output != "":
		return sink.NewFile(s.Output), s.Output
	case s.Print:
		return sink.Stdout(), "stdout"
	default:
		return sink.NewClipboard(), "clipboard"
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ironsheep/recipe-ocr-mcp/internal/config"
	"github.com/ironsheep/recipe-ocr-mcp/internal/ocr"
)

var (
	configPath        string
	logLevel          string
	language          string
	tessdataPrefix    string
	containerWidth    int
	threshold         int
	instructionPeriod bool
	concurrency       int
)

// RootCmd serves MCP over stdio when run without a subcommand
var RootCmd = &cobra.Command{
	Use:   "recipe-mcp",
	Short: "MCP server that turns photos of recipes into Markdown",
	Long: `recipe-mcp is an MCP server for digitizing printed or handwritten recipes.

A client loads a photo, marks ingredient and instruction regions, runs OCR
over them, corrects the text and exports a Markdown recipe. The server
communicates via MCP protocol over stdin/stdout; logs go to stderr.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	f := RootCmd.PersistentFlags()
	f.StringVar(&configPath, "config", "", "Path to a JSON config file")
	f.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&language, "lang", "", "Tesseract language, e.g. eng or eng+fra")
	f.StringVar(&tessdataPrefix, "tessdata", "", "Directory containing Tesseract language data")
	f.IntVar(&containerWidth, "container-width", 0, "Display width in pixels; wider images are downscaled")
	f.IntVar(&threshold, "threshold", 0, "Initial binarization threshold (0-255)")
	f.BoolVar(&instructionPeriod, "instruction-period", false, "Append a period to instruction lines lacking one")
	f.IntVar(&concurrency, "concurrency", 0, "Maximum regions recognized at once (0 = all)")
}

// loadConfig resolves defaults, then the config file, then RECIPE_MCP_*
// variables, then any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if changed("lang") {
		cfg.Language = language
	}
	if changed("tessdata") {
		cfg.TessdataPrefix = tessdataPrefix
	}
	if changed("container-width") {
		cfg.ContainerWidth = containerWidth
	}
	if changed("threshold") {
		cfg.Threshold = threshold
	}
	if changed("instruction-period") {
		cfg.InstructionPeriod = instructionPeriod
	}
	if changed("concurrency") {
		cfg.Concurrency = concurrency
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger writes JSON logs to stderr; stdout is for MCP protocol
func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// ocrOptions sizes the client pool to the recognition concurrency, or to the
// CPU count when concurrency is unbounded.
func ocrOptions(cfg *config.Config, logger *slog.Logger) ocr.Options {
	pool := cfg.Concurrency
	if pool <= 0 {
		pool = runtime.NumCPU()
	}
	return ocr.Options{
		Language:       cfg.Language,
		TessdataPrefix: cfg.TessdataPrefix,
		PoolSize:       pool,
		Logger:         logger,
	}
}

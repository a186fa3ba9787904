package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/cardscan/internal/config"
	"github.com/ironsheep/cardscan/internal/logging"
	"github.com/ironsheep/cardscan/internal/ocr"
	"github.com/ironsheep/cardscan/internal/pipeline"
)

var (
	cfgFile      string
	outputFormat string
	logLevel     string
)

// app holds what PersistentPreRunE builds for the subcommands.
type app struct {
	logger   *slog.Logger
	level    *slog.LevelVar
	configs  *config.Manager
	format   OutputFormat
	engine   *ocr.Tesseract
	pipeline *pipeline.Pipeline
}

var current app

var rootCmd = &cobra.Command{
	Use:   "cardscan",
	Short: "Read player cards from game screenshots",
	Long: `cardscan crops fixed regions out of player-card screenshots, runs
Tesseract on them and extracts structured fields.

  - analyze: name, team, nationality and card edition from a card screenshot
  - stats:   ability scores merged across stat-page screenshots
  - overlay, probe, suggest: tools for tuning region layouts and thresholds
  - serve:   the same operations as an MCP server over stdio

Regions, thresholds and stat labels come from the built-in defaults, overridden
by --config, ./cardscan.yaml or ~/.cardscan/cardscan.yaml and CARDSCAN_*
environment variables.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./cardscan.yaml or ~/.cardscan/cardscan.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (default from config)",
	)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(overlayCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup parses the global flags, builds the logger and loads configuration.
// The pipeline is created lazily by commands that recognize text.
func setup(cmd *cobra.Command, args []string) error {
	format, err := ParseOutputFormat(outputFormat)
	if err != nil {
		return err
	}

	logger, level, err := logging.New(os.Stderr, logLevel)
	if err != nil {
		return err
	}

	configs, err := config.NewManager(cfgFile, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if logLevel == "" {
		if err := applyLogLevel(level, configs.Get().LogLevel); err != nil {
			return err
		}
	}

	current = app{
		logger:  logger,
		level:   level,
		configs: configs,
		format:  format,
	}
	if used := configs.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}
	return nil
}

func applyLogLevel(level *slog.LevelVar, name string) error {
	lvl, err := logging.ParseLevel(name)
	if err != nil {
		return err
	}
	level.Set(lvl)
	return nil
}

// newPipeline creates the Tesseract engine and pipeline from the current
// configuration.
func (a *app) newPipeline() (*pipeline.Pipeline, error) {
	if a.pipeline != nil {
		return a.pipeline, nil
	}
	cfg := a.configs.Get()
	a.engine = ocr.NewTesseract(ocr.TesseractConfig{
		TessdataPrefix: cfg.Recognition.TessdataPrefix,
		PageSegMode:    cfg.Recognition.PageSegMode,
		Timeout:        cfg.Recognition.Timeout,
	})
	p, err := pipeline.New(a.engine, cfg, a.logger)
	if err != nil {
		return nil, err
	}
	a.pipeline = p
	return p, nil
}

func (a *app) output(cmd *cobra.Command, data any) error {
	return OutputTo(cmd.OutOrStdout(), a.format, data)
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/cardscan/internal/config"
	"github.com/ironsheep/cardscan/internal/server"
)

var serveWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout",
	Long: `Run cardscan as an MCP (Model Context Protocol) server.

Requests are read from stdin and responses written to stdout, one JSON-RPC
message per line. Logs go to stderr.

With --watch (the default) the config file is watched and region, label and
threshold changes apply to the next tool call. SIGHUP re-reads the config
file whether or not --watch is set. Recognition backend settings
(tessdata prefix, page segmentation mode, timeout) need a restart.

Examples:
  cardscan serve
  cardscan serve --config ./cardscan.yaml --log-level debug`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := current.logger

		p, err := current.newPipeline()
		if err != nil {
			return err
		}

		current.configs.OnChange(func(cfg *config.Config) {
			if err := p.SetConfig(cfg); err != nil {
				logger.Warn("config change rejected", "error", err)
				return
			}
			if logLevel == "" {
				if err := applyLogLevel(current.level, cfg.LogLevel); err != nil {
					logger.Warn("invalid log level in config", "error", err)
				}
			}
			logger.Info("config applied")
		})
		if serveWatch {
			current.configs.WatchConfig()
		}
		go reloadOnSignal(ctx, hangupSignals(), current.configs, logger)

		srv, err := server.New(server.Config{
			Pipeline: p,
			Backend:  current.engine,
			Logger:   logger,
			Version:  Version,
		})
		if err != nil {
			return err
		}

		// Run blocks until stdin closes or the context is cancelled
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "reload the config file when it changes")
}

type reloader interface {
	Reload() error
}

// reloadOnSignal reloads the configuration each time sig fires until ctx ends.
// A rejected reload keeps the configuration in effect.
func reloadOnSignal(ctx context.Context, sig <-chan os.Signal, configs reloader, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-sig:
			if !ok {
				return
			}
			if err := configs.Reload(); err != nil {
				logger.Warn("config reload rejected", "signal", s.String(), "error", err)
				continue
			}
			logger.Info("config reloaded", "signal", s.String())
		}
	}
}

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/recipe-ocr-mcp/internal/ocr"
	"github.com/ironsheep/recipe-ocr-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP requests on stdin/stdout (default)",
	RunE:  runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("recipe MCP server starting",
		"version", Version,
		"build_time", BuildTime,
		"commit", GitCommit,
		"language", cfg.Language,
		"container_width", cfg.ContainerWidth)

	server.Version = Version
	srv := server.New(cfg, ocr.NewTesseractFactory(ocrOptions(cfg, logger)), logger)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		return err
	}

	logger.Info("recipe MCP server stopped")
	return nil
}

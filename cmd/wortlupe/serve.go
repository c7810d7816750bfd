package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wortlupe/wortlupe/server"
	"github.com/wortlupe/wortlupe/vocab"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP reading server",
		Long: `Serve runs the web interface: an upload form at /, document analysis
at POST /analyze, the vocabulary API at /api/vocab, and operational
endpoints at /healthz and /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")

	return cmd
}

func runServe(addr string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogging(cfg)

	analyzer, err := buildAnalyzer(cfg, logger)
	if err != nil {
		return err
	}

	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Vocab.Watch {
		watcher, err := vocab.NewWatcher(analyzer.Store(),
			vocab.WithWatcherLogger(logger),
			vocab.WithDebounce(cfg.Vocab.GetWatchDebounce()))
		if err != nil {
			return fmt.Errorf("create vocabulary watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("start vocabulary watcher: %w", err)
		}
		defer func() { _ = watcher.Stop() }()
	}

	srv := server.NewServer(analyzer,
		server.WithLogger(logger),
		server.WithMaxUpload(cfg.Server.MaxUploadBytes()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Wortlupe listening",
			"addr", addr,
			"vocab", cfg.Vocab.Path,
			"entries", analyzer.Store().Len())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Shutdown complete")
	return nil
}

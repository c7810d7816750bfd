// Package main provides the wortlupe binary entry point.
// Wortlupe is a German reading assistant: it annotates text with per-word
// translations and grammar and renders an interactive reading view.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"

	// Register translation providers via init()
	_ "github.com/wortlupe/wortlupe/translate/providers"

	"github.com/spf13/cobra"

	"github.com/wortlupe/wortlupe/config"
	"github.com/wortlupe/wortlupe/engine"
	"github.com/wortlupe/wortlupe/tagger"
	"github.com/wortlupe/wortlupe/translate"
	"github.com/wortlupe/wortlupe/vocab"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "wortlupe"
)

var (
	flagConfig   string
	flagLogLevel string
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wortlupe",
		Short: "German reading assistant",
		Long: `Wortlupe annotates German text for learners. Every word in a document
becomes clickable, showing its English meaning, base form, and grammar:
gender, case, tense, mood, and number.

It provides:
- analyze: render local files, pasted text, or web articles to HTML
- serve:   an HTTP server with upload form and vocabulary API
- vocab:   inspect and export the persistent vocabulary cache

Tagging is delegated to an external spaCy service; translations come
from a configurable provider and are cached on disk.`,
	}

	cmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	cmd.AddCommand(analyzeCmd())
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(vocabCmd())

	return cmd
}

// loadConfig resolves the effective configuration: file if given, defaults
// otherwise, with the log-level flag taking precedence over both.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if flagConfig != "" {
		loaded, err := config.LoadFromFile(flagConfig)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupLogging configures the default logger from config.
func setupLogging(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// buildAnalyzer assembles the analysis pipeline from config: vocabulary
// store, translation client and fetcher, and the tagging service client.
func buildAnalyzer(cfg *config.Config, logger *slog.Logger) (*engine.Analyzer, error) {
	store := vocab.Open(cfg.Vocab.Path, vocab.WithLogger(logger))

	clientOpts := []translate.ClientOption{
		translate.WithLangs(cfg.Translator.SourceLang, cfg.Translator.TargetLang),
		translate.WithHTTPClient(&http.Client{Timeout: cfg.Translator.GetTimeout()}),
		translate.WithRetryConfig(translate.RetryConfig{
			MaxAttempts:       cfg.Translator.Retry.MaxAttempts,
			BackoffBase:       cfg.Translator.Retry.GetBackoffBase(),
			BackoffMultiplier: cfg.Translator.Retry.BackoffMultiplier,
			MaxBackoff:        cfg.Translator.Retry.GetMaxBackoff(),
		}),
		translate.WithLogger(logger),
	}
	if cfg.Translator.Endpoint != "" {
		clientOpts = append(clientOpts, translate.WithEndpoint(cfg.Translator.Endpoint))
	}

	client, err := translate.NewClient(cfg.Translator.Provider, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create translation client: %w", err)
	}

	fetcher := translate.NewFetcher(client,
		translate.WithBatchSize(cfg.Translator.BatchSize),
		translate.WithMaxInFlight(cfg.Translator.MaxInFlight),
		translate.WithFetcherLogger(logger),
	)

	tag := tagger.NewHTTPTagger(cfg.Tagger.Endpoint,
		tagger.WithModel(cfg.Tagger.Model),
		tagger.WithHTTPClient(&http.Client{Timeout: cfg.Tagger.GetTimeout()}),
		tagger.WithLogger(logger),
	)

	return engine.NewAnalyzer(tag, fetcher, store, engine.WithLogger(logger)), nil
}

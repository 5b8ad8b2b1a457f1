package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chatpulse/chatpulse/internal/api"
	"github.com/chatpulse/chatpulse/internal/bus"
	"github.com/chatpulse/chatpulse/internal/chatlog"
	"github.com/chatpulse/chatpulse/internal/classify"
	"github.com/chatpulse/chatpulse/internal/config"
	"github.com/chatpulse/chatpulse/internal/enrich"
	"github.com/chatpulse/chatpulse/internal/ingest"
	"github.com/chatpulse/chatpulse/internal/store"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "chatpulse",
		Short: "chatpulse - chat export parsing and sentiment enrichment",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("chatpulse " + version)
			return nil
		},
	}

	var minCount int
	parseCmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a chat export and print records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(args[0], minCount)
		},
	}
	parseCmd.Flags().IntVar(&minCount, "min-count", 0, "drop authors with fewer messages than this")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chatpulse service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	rootCmd.AddCommand(versionCmd, parseCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runParse is the offline path: no database, bus or classifier involved.
func runParse(path string, minCount int) error {
	raw, err := chatlog.ReadFile(path)
	if err != nil {
		return err
	}

	grammarID, matches := chatlog.Extract(chatlog.Normalize(raw))
	if grammarID == chatlog.GrammarUnknown {
		fmt.Fprintln(os.Stderr, "no known chat export format matched")
		return json.NewEncoder(os.Stdout).Encode([]chatlog.Message{})
	}

	msgs, err := chatlog.BuildRecords(grammarID, matches)
	if err != nil {
		return err
	}
	msgs = chatlog.FilterByActivity(msgs, minCount)

	fmt.Fprintf(os.Stderr, "format: %s, records: %d\n", grammarID, len(msgs))
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(msgs)
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)

	slog.Info("chatpulse starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	slog.Info("database connected")

	// Classification backend
	if cfg.ClassifierURL == "" {
		return fmt.Errorf("CLASSIFIER_URL is required")
	}
	classifier := classify.NewClient(cfg.ClassifierURL, cfg.ClassifierToken)
	mode, err := classify.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	enricher := enrich.New(classifier, mode, cfg.Lang, cfg.Workers, slog.Default())
	slog.Info("classifier ready", "url", cfg.ClassifierURL, "mode", cfg.Mode, "lang", cfg.Lang)

	// NATS
	busClient, err := bus.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer busClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// Ingestion pipeline
	ingestor := ingest.New(db, busClient, enricher, cfg.MinCount, slog.Default())

	if err := busClient.Subscribe(bus.SubjectIngest, ingestor.HandleIngestRequest); err != nil {
		return fmt.Errorf("subscribe to ingest requests: %w", err)
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, ingestor, db)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("chatpulse ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("chatpulse stopped")
	return nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgnsrekt/har_scout/internal/api"
	"github.com/dgnsrekt/har_scout/internal/artifact"
	"github.com/dgnsrekt/har_scout/internal/config"
	"github.com/dgnsrekt/har_scout/internal/llm"
	"github.com/dgnsrekt/har_scout/internal/match"
	"github.com/dgnsrekt/har_scout/internal/netutil"
	"github.com/dgnsrekt/har_scout/internal/scout"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.LoadScout()
	if err != nil {
		slog.Error("failed to load scout config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		_, _ = io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n")
		os.Exit(1)
	}

	slog.Info("scout config loaded",
		"bind_addr", cfg.BindAddr,
		"llm_model", cfg.LLMModel,
		"payload_budget", cfg.PayloadBudget,
		"post_data_limit", cfg.PostDataLimit,
		"artifact_dir", cfg.ArtifactDir,
		"log_level", cfg.LogLevel,
	)

	bindAddr, err := netutil.SelectBindAddr(cfg.BindAddr, cfg.PortCandidates, cfg.PortAutoFallback)
	if err != nil {
		slog.Error("failed to select bind address", "preferred", cfg.BindAddr, "error", err)
		os.Exit(1)
	}

	classifier, err := newClassifier(cfg)
	if err != nil {
		slog.Error("failed to create classifier", "error", err)
		os.Exit(1)
	}

	opts := []match.Option{
		match.WithPayloadBudget(cfg.PayloadBudget),
		match.WithPostDataLimit(cfg.PostDataLimit),
	}
	if cfg.ArtifactDir != "" {
		writer, err := artifact.NewWriter(cfg.ArtifactDir, 256)
		if err != nil {
			slog.Error("failed to create artifact writer", "dir", cfg.ArtifactDir, "error", err)
			os.Exit(1)
		}
		defer func() { _ = writer.Close() }()
		opts = append(opts, match.WithArtifactSink(writer))
	}

	svc := scout.NewService(classifier, opts...)
	srv := &http.Server{Addr: bindAddr, Handler: api.NewServer(svc)}

	go func() {
		slog.Info("scout listening", "addr", bindAddr, "docs", "http://"+bindAddr+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("scout server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("scout shutdown failed", "error", err)
	}
}

// newClassifier returns nil without error when no credential is
// configured: parsing stays available and match calls report the oracle as
// unavailable.
func newClassifier(cfg *config.ScoutConfig) (match.Classifier, error) {
	classifier, err := llm.NewGeminiClassifier(context.Background(), cfg.GeminiAPIKey, cfg.LLMModel)
	if errors.Is(err, llm.ErrNoCredential) {
		slog.Warn("GEMINI_API_KEY not set, matching disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	slog.Info("classifier ready", "name", classifier.Name())
	return classifier, nil
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgnsrekt/har_scout/internal/config"
	"github.com/dgnsrekt/har_scout/internal/record"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.LoadRecorder()
	if err != nil {
		slog.Error("failed to load recorder config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		_, _ = io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n")
		os.Exit(1)
	}

	slog.Info("recorder config loaded",
		"cdp_url", cfg.CDPURL(),
		"tab_url_filter", cfg.TabURLFilter,
		"output", cfg.Output,
		"max_body_bytes", cfg.MaxBodyBytes,
	)

	collector := record.NewCollector(cfg.MaxBodyBytes)
	session := record.NewSession(cfg.CDPURL(), cfg.TabURLFilter, collector)

	if err := session.Connect(context.Background()); err != nil {
		slog.Error("failed to connect to browser", "error", err)
		slog.Info("make sure Chromium is running with remote debugging enabled")
		os.Exit(1)
	}
	defer func() { _ = session.Close() }()

	slog.Info("recording", "tabs", session.TabCount(), "output", cfg.Output)
	slog.Info("press Ctrl+C to stop and write the HAR file")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := collector.WriteFile(cfg.Output); err != nil {
		slog.Error("failed to write HAR file", "output", cfg.Output, "error", err)
		os.Exit(1)
	}
	slog.Info("capture written", "output", cfg.Output, "entries", collector.EntryCount())
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
	if level == "debug" {
		slogLevel = slog.LevelDebug
	} else {
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}

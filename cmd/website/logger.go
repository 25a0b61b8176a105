package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/adampresley/heroportal/cmd/website/internal/configuration"
)

func setupLogger(config *configuration.Config, version string) {
	var (
		handler slog.Handler
	)

	level := slog.LevelInfo

	switch strings.ToLower(config.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	options := &slog.HandlerOptions{
		Level: level,
	}

	if version == "development" {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}

	slog.SetDefault(slog.New(handler).With("app", appName))
}

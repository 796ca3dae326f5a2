package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mandalnilabja/clickworker/internal/config"
)

func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func printStartupBanner(cfg *config.Config) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintln(os.Stderr, "clickworker - click, offload, count")
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	if cfg.EnableWebUI {
		fmt.Fprintf(os.Stderr, "Page:       http://localhost%s/\n", cfg.ServerPort)
	}
	fmt.Fprintf(os.Stderr, "Click API:  http://localhost%s/api/click\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "History:    http://localhost%s/api/roundtrips\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Data:       %s\n", config.DataDir())
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "\n")
}

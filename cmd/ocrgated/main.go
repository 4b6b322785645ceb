// ocrgated serves OCR over HTTP.
//
// Usage:
//
//	ocrgated -config config.yml [-addr :8080] [-debug]
//
// Upload one or more files to POST /ocr as multipart "files" fields. The
// response is a JSON array with one record per page, or an hOCR document
// when the Accept header asks for XML or hOCR:
//
//	curl -F files=@scan.png http://localhost:8080/ocr
//	curl -H 'Accept: text/vnd.hocr+html' -F files=@scan.png http://localhost:8080/ocr
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gardar/ocrgate/pkg/config"
	"github.com/gardar/ocrgate/pkg/server"
)

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file")
	addr := flag.String("addr", "", "Listen address (overrides the config file)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	registry := cfg.Registry()

	slog.Info("predictors registered", "models", registry.Models(), "default", registry.DefaultModel())

	s, err := server.New(cfg, registry)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.ListenAndServe(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

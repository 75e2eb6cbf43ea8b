package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/printprobe/api"
	"github.com/use-agent/printprobe/config"
	"github.com/use-agent/printprobe/device"
	"github.com/use-agent/printprobe/metrics"
	"github.com/use-agent/printprobe/poller"
	"github.com/use-agent/printprobe/render"
	"github.com/use-agent/printprobe/scraper"
	"github.com/use-agent/printprobe/webhook"
)

const version = "0.1.0"

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("printprobe starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"pollInterval", cfg.Poll.Interval,
	)

	// ── 3. Device inventory ─────────────────────────────────────────
	devices, err := cfg.DeviceList()
	if err != nil {
		slog.Error("invalid device configuration", "error", err)
		os.Exit(1)
	}
	if len(devices) == 0 {
		slog.Warn("no devices configured; set PRINTPROBE_DEVICES or PRINTPROBE_DEVICES_FILE")
	}

	fetcher := scraper.NewFetcher(cfg.Fetch)
	reg := device.NewRegistry()

	// ── 4. Observers: metrics and webhooks ──────────────────────────
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace, version)
		reg.Observe(m.Observe)
	}
	if cfg.Webhook.URL != "" {
		n := webhook.NewNotifier(cfg.Webhook.URL, cfg.Webhook.Secret, cfg.Webhook.LowSupplyPercent)
		reg.Observe(n.Observe)
		slog.Info("webhook notifications enabled", "url", cfg.Webhook.URL)
	}

	for _, d := range devices {
		if err := reg.Add(device.NewSession(d, fetcher, cfg.Poll.LayoutThreshold)); err != nil {
			slog.Error("failed to register device", "device", d.ID, "error", err)
			os.Exit(1)
		}
		slog.Info("device registered", "device", d.ID, "host", d.Host, "path", d.Path)
	}

	// ── 5. Background polling ───────────────────────────────────────
	var p *poller.Poller
	if cfg.Poll.Interval > 0 {
		p = poller.New(reg, cfg.Poll.Interval)
		p.Start(context.Background())
	}

	// ── 6. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(reg, render.New(), m, cfg, time.Now(), version)

	// ── 7. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 8. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	if p != nil {
		p.Stop()
	}

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}
	slog.Info("printprobe stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// Copyright (C) 2025, Bookline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command bookingcache serves booking records from a JSON directory
// through the caching stack and exposes cache metrics for Prometheus.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bookline/datacache/bookings"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML config (optional)")
		sourceDir   = flag.String("source", "", "booking JSON directory (overrides config)")
		metricsAddr = flag.String("metrics", ":9124", "metrics listen address, empty to disable")
		preload     = flag.Bool("preload", false, "warm the cache with every id argument before serving")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := bookings.DefaultServiceConfig()
	if *configPath != "" {
		cfg, err = bookings.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}
	if *sourceDir != "" {
		cfg.SourceDir = *sourceDir
	}

	registry := prometheus.NewRegistry()
	svc, err := bookings.NewService(cfg, bookings.NewFileFetcher(cfg.SourceDir), registry, logger)
	if err != nil {
		logger.Fatal("build service", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			logger.Info("serving metrics", zap.String("addr", *metricsAddr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	ids := flag.Args()
	if *preload && len(ids) > 0 {
		if err := svc.Preload(ctx, ids...); err != nil {
			logger.Warn("preload", zap.Error(err))
		}
	}

	for _, id := range ids {
		b, err := svc.Booking(ctx, id)
		if err != nil {
			logger.Error("load booking", zap.String("id", id), zap.Error(err))
			continue
		}
		fmt.Printf("%s\t%s\t%s\t%d segment(s)\n", b.ID, b.Reference, b.Status, len(b.Segments))
	}

	stats := svc.Statistics()
	logger.Info("cache statistics",
		zap.Int("entries", stats.TotalEntries),
		zap.Uint64("hits", stats.HitCount),
		zap.Uint64("misses", stats.MissCount),
		zap.Uint64("evictions", stats.EvictionCount),
		zap.Int("memory_estimate_bytes", stats.MemoryEstimateBytes),
		zap.Float64("hit_rate", stats.HitRate))

	if *metricsAddr != "" && len(ids) > 0 {
		logger.Info("waiting for scrape, ctrl-c to exit")
		<-ctx.Done()
	}
}

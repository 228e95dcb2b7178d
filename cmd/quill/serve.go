// Copyright 2025 Inkline Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // #nosec G108
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkline-labs/quill"
	"github.com/inkline-labs/quill/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func buildEngine(
	cfg *config.Config,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (*quill.Engine, error) {
	baseRate, err := decimal.NewFromString(cfg.BaseRate)
	if err != nil {
		return nil, fmt.Errorf("invalid base rate: %w", err)
	}
	shutdownTimeout := 30 * time.Second
	if cfg.ShutdownTimeout != "" {
		shutdownTimeout, err = time.ParseDuration(cfg.ShutdownTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
		}
	}
	return quill.NewEngine(
		quill.NewConfig(
			quill.WithLogger(logger),
			quill.WithDataDir(cfg.DataDir),
			quill.WithMetadataPlugin(cfg.MetadataPlugin),
			quill.WithContentPlugin(cfg.ContentPlugin),
			quill.WithBaseRate(baseRate),
			quill.WithSimilarityThreshold(cfg.SimilarityThreshold),
			quill.WithBanThreshold(cfg.BanThreshold),
			quill.WithShutdownTimeout(shutdownTimeout),
			quill.WithTracing(cfg.Tracing),
			quill.WithTracingStdout(cfg.TracingStdout),
			quill.WithPrometheusRegistry(promRegistry),
		),
	)
}

func serveRun(_ *cobra.Command, _ []string, cfg *config.Config) {
	logger := commonRun()

	engine, err := buildEngine(cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	// Parse shutdown timeout
	shutdownTimeout := 30 * time.Second // Default timeout
	if cfg.ShutdownTimeout != "" {
		var err error
		shutdownTimeout, err = time.ParseDuration(cfg.ShutdownTimeout)
		if err != nil {
			slog.Error(fmt.Sprintf("invalid shutdown timeout: %s", err))
			os.Exit(1)
		}
	}

	// Metrics and debug listener
	http.Handle("/metrics", promhttp.Handler())
	logger.Info(
		"serving prometheus metrics on "+fmt.Sprintf(
			"%s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		"component",
		programName,
	)
	metricsServer := &http.Server{
		Addr: fmt.Sprintf(
			"%s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			logger.Error(
				fmt.Sprintf("failed to start metrics listener: %s", err),
				"component", programName,
			)
			os.Exit(1)
		}
	}()

	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	// Run engine in goroutine
	errChan := make(chan error, 1)
	go func() {
		err := engine.Run()
		select {
		case errChan <- err:
		case <-signalCtx.Done():
		}
	}()

	shutdownMetrics := func() {
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			shutdownTimeout,
		)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}

	// Wait for signal or error
	select {
	case <-signalCtx.Done():
		logger.Info("signal received, initiating graceful shutdown")
		shutdownMetrics()
		if err := engine.Stop(); err != nil {
			logger.Error("shutdown errors occurred", "error", err)
			os.Exit(1)
		}
		logger.Info("shutdown complete")

	case err := <-errChan:
		if err == nil {
			logger.Info("engine stopped")
			shutdownMetrics()
			if err := engine.Stop(); err != nil {
				logger.Error("shutdown errors occurred", "error", err)
				os.Exit(1)
			}
			return
		}
		logger.Error("engine error", "error", err)
		signalCtxStop()
		if stopErr := engine.Stop(); stopErr != nil {
			logger.Error(
				"shutdown errors occurred during error cleanup",
				"error",
				stopErr,
			)
		}
		shutdownMetrics()
		os.Exit(1)
	}
}

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the attribution engine",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			serveRun(cmd, args, cfg)
		},
	}
	return cmd
}

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

package quill

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

type Config struct {
	promRegistry        prometheus.Registerer
	logger              *slog.Logger
	dataDir             string
	metadataPlugin      string
	contentPlugin       string
	baseRate            decimal.Decimal
	similarityThreshold float64
	banThreshold        float64
	tracing             bool
	tracingStdout       bool
	shutdownTimeout     time.Duration
}

type ConfigOptionFunc func(*Config)

// NewConfig creates a new config with the specified options applied
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		metadataPlugin: "sqlite",
		contentPlugin:  "badger",
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return c
}

func (c *Config) validate() error {
	if c.similarityThreshold < 0 || c.similarityThreshold > 1 {
		return fmt.Errorf(
			"similarity threshold out of range: %f",
			c.similarityThreshold,
		)
	}
	if c.banThreshold < 0 {
		return fmt.Errorf("ban threshold out of range: %f", c.banThreshold)
	}
	if c.baseRate.IsNegative() {
		return errors.New("base rate must not be negative")
	}
	return nil
}

// WithBanThreshold specifies the cumulative suspicion score at which a
// contributor is banned
func WithBanThreshold(threshold float64) ConfigOptionFunc {
	return func(c *Config) {
		c.banThreshold = threshold
	}
}

// WithBaseRate specifies the base amount used for revenue shares
func WithBaseRate(baseRate decimal.Decimal) ConfigOptionFunc {
	return func(c *Config) {
		c.baseRate = baseRate
	}
}

// WithContentPlugin specifies the content store plugin
func WithContentPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.contentPlugin = plugin
	}
}

// WithDataDir specifies the directory to use for storage
func WithDataDir(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithMetadataPlugin specifies the metadata store plugin
func WithMetadataPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.metadataPlugin = plugin
	}
}

// WithPrometheusRegistry specifies a prometheus registry to use for metrics
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}

// WithSimilarityThreshold specifies the near-duplicate similarity
// threshold
func WithSimilarityThreshold(threshold float64) ConfigOptionFunc {
	return func(c *Config) {
		c.similarityThreshold = threshold
	}
}

// WithTracing enables tracing
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout instead of OTLP-HTTP
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

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

package badger

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

type ContentStoreBadgerOptionFunc func(*ContentStoreBadger)

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) ContentStoreBadgerOptionFunc {
	return func(c *ContentStoreBadger) {
		c.logger = logger
	}
}

// WithPromRegistry specifies the prometheus registry to use for metrics
func WithPromRegistry(
	registry prometheus.Registerer,
) ContentStoreBadgerOptionFunc {
	return func(c *ContentStoreBadger) {
		c.promRegistry = registry
	}
}

// WithDataDir specifies the data directory to use for storage
func WithDataDir(dataDir string) ContentStoreBadgerOptionFunc {
	return func(c *ContentStoreBadger) {
		c.dataDir = dataDir
	}
}

// WithGc specifies whether garbage collection is enabled
func WithGc(enabled bool) ContentStoreBadgerOptionFunc {
	return func(c *ContentStoreBadger) {
		c.gcEnabled = enabled
	}
}

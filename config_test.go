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
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "sqlite", cfg.metadataPlugin)
	assert.Equal(t, "badger", cfg.contentPlugin)
	require.NotNil(t, cfg.logger)
	require.NoError(t, cfg.validate())
}

func TestNewConfigOptions(t *testing.T) {
	logger := slog.Default()
	cfg := NewConfig(
		WithLogger(logger),
		WithDataDir("/tmp/quill-test"),
		WithMetadataPlugin("sqlite"),
		WithContentPlugin("gcs"),
		WithBaseRate(decimal.RequireFromString("75.00")),
		WithSimilarityThreshold(0.9),
		WithBanThreshold(3.0),
		WithShutdownTimeout(10*time.Second),
		WithTracing(true),
		WithTracingStdout(true),
	)
	assert.Equal(t, logger, cfg.logger)
	assert.Equal(t, "/tmp/quill-test", cfg.dataDir)
	assert.Equal(t, "gcs", cfg.contentPlugin)
	assert.Equal(t, "75", cfg.baseRate.String())
	assert.Equal(t, 0.9, cfg.similarityThreshold)
	assert.Equal(t, 3.0, cfg.banThreshold)
	assert.Equal(t, 10*time.Second, cfg.shutdownTimeout)
	assert.True(t, cfg.tracing)
	assert.True(t, cfg.tracingStdout)
	require.NoError(t, cfg.validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := NewConfig(WithSimilarityThreshold(1.5))
	assert.ErrorContains(t, cfg.validate(), "similarity threshold")

	cfg = NewConfig(WithBanThreshold(-1))
	assert.ErrorContains(t, cfg.validate(), "ban threshold")

	cfg = NewConfig(WithBaseRate(decimal.RequireFromString("-1.00")))
	assert.ErrorContains(t, cfg.validate(), "base rate")
}

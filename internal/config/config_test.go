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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMetadataPlugin, cfg.MetadataPlugin)
	assert.Equal(t, DefaultContentPlugin, cfg.ContentPlugin)
	assert.Equal(t, 0.80, cfg.SimilarityThreshold)
	assert.Equal(t, 2.0, cfg.BanThreshold)
	assert.Equal(t, "50.00", cfg.BaseRate)
}

func TestLoadConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "quill.yaml")
	require.NoError(t, os.WriteFile(
		configPath,
		[]byte("dataDir: /var/lib/quill\nbaseRate: \"75.00\"\nmetricsPort: 9999\n"),
		0o644,
	))
	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/quill", cfg.DataDir)
	assert.Equal(t, "75.00", cfg.BaseRate)
	assert.Equal(t, uint(9999), cfg.MetricsPort)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("QUILL_DATA_DIR", "/tmp/quill-env")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/quill-env", cfg.DataDir)
}

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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMetadataPlugin  = "sqlite"
	DefaultContentPlugin   = "badger"
	DefaultShutdownTimeout = "30s"
)

type ctxKey string

const configContextKey ctxKey = "quill.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

type Config struct {
	MetadataPlugin      string  `yaml:"metadataPlugin"      envconfig:"QUILL_DATABASE_METADATA_PLUGIN"`
	ContentPlugin       string  `yaml:"contentPlugin"       envconfig:"QUILL_DATABASE_CONTENT_PLUGIN"`
	DataDir             string  `yaml:"dataDir"                                                        split_words:"true"`
	BindAddr            string  `yaml:"bindAddr"                                                       split_words:"true"`
	ShutdownTimeout     string  `yaml:"shutdownTimeout"                                                split_words:"true"`
	BaseRate            string  `yaml:"baseRate"                                                       split_words:"true"`
	SimilarityThreshold float64 `yaml:"similarityThreshold"                                            split_words:"true"`
	BanThreshold        float64 `yaml:"banThreshold"                                                   split_words:"true"`
	MetricsPort         uint    `yaml:"metricsPort"                                                    split_words:"true"`
	Tracing             bool    `yaml:"tracing"`
	TracingStdout       bool    `yaml:"tracingStdout"                                                  split_words:"true"`
}

var globalConfig = &Config{
	MetadataPlugin:      DefaultMetadataPlugin,
	ContentPlugin:       DefaultContentPlugin,
	DataDir:             ".quill",
	BindAddr:            "0.0.0.0",
	ShutdownTimeout:     DefaultShutdownTimeout,
	BaseRate:            "50.00",
	SimilarityThreshold: 0.80,
	BanThreshold:        2.0,
	MetricsPort:         12798,
}

// LoadConfig reads the YAML config file if present and overlays
// environment variables on top of the defaults
func LoadConfig(configFile string) (*Config, error) {
	if configFile == "" {
		// Check for config file in this path: ~/.quill/quill.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".quill", "quill.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/quill/quill.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/quill/quill.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Environment variables override file values
	if err := envconfig.Process("quill", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	return globalConfig, nil
}

// GetConfig returns the current config
func GetConfig() *Config {
	return globalConfig
}

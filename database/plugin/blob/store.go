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

package blob

import (
	"fmt"
	"log/slog"

	"github.com/inkline-labs/quill/database/plugin"
	"github.com/inkline-labs/quill/database/plugin/blob/badger"
	"github.com/inkline-labs/quill/database/plugin/blob/gcs"

	"github.com/prometheus/client_golang/prometheus"
)

// ContentStore is a content-addressed store for raw submission bodies.
// Keys are the SHA-256 digest of the stored content, so writes for an
// existing digest are harmless overwrites of identical bytes.
type ContentStore interface {
	Close() error
	PutContent(digest []byte, raw []byte) error
	GetContent(digest []byte) ([]byte, error)
}

// New returns the named content store, started and ready for use
func New(
	pluginName string,
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (ContentStore, error) {
	switch pluginName {
	case "badger":
		store, err := badger.New(
			badger.WithDataDir(dataDir),
			badger.WithLogger(logger),
			badger.WithPromRegistry(promRegistry),
		)
		if err != nil {
			return nil, err
		}
		if err := store.Start(); err != nil {
			return nil, err
		}
		return store, nil
	case "gcs":
		store, err := gcs.New(dataDir, logger, promRegistry)
		if err != nil {
			return nil, err
		}
		if err := store.Start(); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown content plugin: %s", pluginName)
	}
}

// NewFromRegistry returns the started content plugin selected by name,
// configured from its registered cmdline options
func NewFromRegistry(pluginName string) (ContentStore, error) {
	// Get and start the plugin
	p, err := plugin.StartPlugin(plugin.PluginTypeContent, pluginName)
	if err != nil {
		return nil, err
	}

	// Type assert to ContentStore interface
	contentStore, ok := p.(ContentStore)
	if !ok {
		return nil, fmt.Errorf(
			"plugin '%s' does not implement ContentStore interface",
			pluginName,
		)
	}

	return contentStore, nil
}

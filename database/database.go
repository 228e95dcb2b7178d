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

package database

import (
	"errors"
	"io"
	"log/slog"

	"github.com/inkline-labs/quill/database/plugin/blob"
	"github.com/inkline-labs/quill/database/plugin/metadata"

	"github.com/prometheus/client_golang/prometheus"
)

// Config describes the stores backing a Database
type Config struct {
	Logger         *slog.Logger
	PromRegistry   prometheus.Registerer
	DataDir        string
	MetadataPlugin string
	ContentPlugin  string
}

type Database struct {
	logger   *slog.Logger
	content  blob.ContentStore
	metadata metadata.MetadataStore
	dataDir  string
}

// Content returns the underlying content store instance
func (d *Database) Content() blob.ContentStore {
	return d.content
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Metadata returns the underlying metadata store instance
func (d *Database) Metadata() metadata.MetadataStore {
	return d.metadata
}

// Close cleans up the database connections
func (d *Database) Close() error {
	var err error
	// Close metadata
	metadataErr := d.Metadata().Close()
	err = errors.Join(err, metadataErr)
	// Close content
	contentErr := d.Content().Close()
	err = errors.Join(err, contentErr)
	return err
}

func (d *Database) init() error {
	if d.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return nil
}

// New creates a new database instance with optional persistence using the
// provided data directory. An empty data dir selects in-memory storage.
func New(cfg Config) (*Database, error) {
	metadataPlugin := cfg.MetadataPlugin
	if metadataPlugin == "" {
		metadataPlugin = "sqlite"
	}
	contentPlugin := cfg.ContentPlugin
	if contentPlugin == "" {
		contentPlugin = "badger"
	}
	metadataDb, err := metadata.New(
		metadataPlugin,
		cfg.DataDir,
		cfg.Logger,
		cfg.PromRegistry,
	)
	if err != nil {
		return nil, err
	}
	contentDb, err := blob.New(
		contentPlugin,
		cfg.DataDir,
		cfg.Logger,
		cfg.PromRegistry,
	)
	if err != nil {
		// Don't leak the metadata store on partial construction
		metadataDb.Close() //nolint:errcheck
		return nil, err
	}
	db := &Database{
		logger:   cfg.Logger,
		content:  contentDb,
		metadata: metadataDb,
		dataDir:  cfg.DataDir,
	}
	if err := db.init(); err != nil {
		// Database is available for recovery, so return it with error
		return db, err
	}
	return db, nil
}

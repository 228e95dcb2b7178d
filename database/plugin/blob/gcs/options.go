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

package gcs

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

type ContentStoreGCSOptionFunc func(*ContentStoreGCS)

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) ContentStoreGCSOptionFunc {
	return func(c *ContentStoreGCS) {
		c.logger = NewGcsLogger(logger)
	}
}

// WithPromRegistry specifies the prometheus registry to use for metrics
func WithPromRegistry(
	registry prometheus.Registerer,
) ContentStoreGCSOptionFunc {
	return func(c *ContentStoreGCS) {
		c.promRegistry = registry
	}
}

// WithBucket specifies the GCS bucket name
func WithBucket(bucket string) ContentStoreGCSOptionFunc {
	return func(c *ContentStoreGCS) {
		c.bucketName = bucket
	}
}

// WithCredentialsFile specifies a service account credentials file
func WithCredentialsFile(credentialsFile string) ContentStoreGCSOptionFunc {
	return func(c *ContentStoreGCS) {
		c.credentialsFile = credentialsFile
	}
}

// WithEncryption specifies whether content is SOPS-encrypted at rest
func WithEncryption(enabled bool) ContentStoreGCSOptionFunc {
	return func(c *ContentStoreGCS) {
		c.encrypt = enabled
	}
}

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

package metadata

import (
	"log/slog"

	"github.com/inkline-labs/quill/database/models"
	"github.com/inkline-labs/quill/database/plugin/metadata/sqlite"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// MetadataStore describes the persisted relational state of the engine.
// All Add* operations on append-only tables are insert-if-absent: the
// returned bool reports whether a new row was created, and a false return
// means a row already existed for the idempotency key. Methods accept an
// optional *gorm.DB transaction handle; nil uses the base connection.
type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	Transaction() *gorm.DB

	// Contributors
	AddContributor(*models.Contributor, *gorm.DB) error
	GetContributor(
		string, // contributorId
		*gorm.DB,
	) (*models.Contributor, error)
	// AddSuspicion atomically adds a penalty to the contributor's
	// suspicion score and flips the banned flag when the cumulative
	// score reaches the threshold. Returns the updated row.
	AddSuspicion(
		string, // contributorId
		float64, // penalty
		float64, // banThreshold
		*gorm.DB,
	) (*models.Contributor, error)

	// Fingerprints
	AddFingerprint(*models.Fingerprint, *gorm.DB) (bool, error)
	GetFingerprintByExactHash(
		[]byte, // exactHash
		*gorm.DB,
	) (*models.Fingerprint, error)
	GetFingerprintsBySemanticHash(
		[]byte, // semanticHash
		*gorm.DB,
	) ([]models.Fingerprint, error)
	GetFingerprintBySubmission(
		string, // submissionId
		*gorm.DB,
	) (*models.Fingerprint, error)

	// Compliance results
	AddComplianceResult(*models.ComplianceResult, *gorm.DB) (bool, error)
	GetComplianceResult(
		string, // submissionId
		*gorm.DB,
	) (*models.ComplianceResult, error)

	// Revenue shares
	AddRevenueShare(*models.RevenueShare, *gorm.DB) (bool, error)
	GetRevenueShare(
		string, // submissionId
		*gorm.DB,
	) (*models.RevenueShare, error)

	// Attribution records
	AddAttributionRecord(*models.AttributionRecord, *gorm.DB) (bool, error)
	GetAttributionRecord(
		string, // submissionId
		*gorm.DB,
	) (*models.AttributionRecord, error)
	GetAttributionRecordByHash(
		string, // attributionHash
		*gorm.DB,
	) (*models.AttributionRecord, error)

	// Violations
	AddViolation(*models.Violation, *gorm.DB) error
	GetViolationsByContributor(
		string, // contributorId
		*gorm.DB,
	) ([]models.Violation, error)
}

// For now, this always returns a sqlite plugin
func New(
	pluginName, dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (MetadataStore, error) {
	return sqlite.New(dataDir, logger, promRegistry)
}

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

package sqlite

import (
	"errors"

	"github.com/inkline-labs/quill/database/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddFingerprint appends a fingerprint row. Insert-if-absent: when a row
// already exists for the exact hash or submission ID the insert is a
// no-op and false is returned. This is how concurrent registrations of
// identical content resolve to a single winner.
func (d *MetadataStoreSqlite) AddFingerprint(
	fingerprint *models.Fingerprint,
	txn *gorm.DB,
) (bool, error) {
	db := d.resolveDB(txn)
	result := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(fingerprint)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetFingerprintByExactHash returns the fingerprint matching the raw
// content digest, or nil when no exact duplicate exists
func (d *MetadataStoreSqlite) GetFingerprintByExactHash(
	exactHash []byte,
	txn *gorm.DB,
) (*models.Fingerprint, error) {
	ret := &models.Fingerprint{}
	db := d.resolveDB(txn)
	result := db.First(ret, "exact_hash = ?", exactHash)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetFingerprintsBySemanticHash returns all fingerprints in the same
// semantic bucket, oldest first
func (d *MetadataStoreSqlite) GetFingerprintsBySemanticHash(
	semanticHash []byte,
	txn *gorm.DB,
) ([]models.Fingerprint, error) {
	var ret []models.Fingerprint
	db := d.resolveDB(txn)
	result := db.Where("semantic_hash = ?", semanticHash).
		Order("id ASC").
		Find(&ret)
	if result.Error != nil {
		return ret, result.Error
	}
	return ret, nil
}

// GetFingerprintBySubmission returns the fingerprint for a submission, or
// nil when the submission was never registered
func (d *MetadataStoreSqlite) GetFingerprintBySubmission(
	submissionId string,
	txn *gorm.DB,
) (*models.Fingerprint, error) {
	ret := &models.Fingerprint{}
	db := d.resolveDB(txn)
	result := db.First(ret, "submission_id = ?", submissionId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

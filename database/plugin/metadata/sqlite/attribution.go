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

// AddAttributionRecord appends an attribution record. Insert-if-absent
// keyed on submission_id; re-minting is a no-op returning false.
func (d *MetadataStoreSqlite) AddAttributionRecord(
	attributionRecord *models.AttributionRecord,
	txn *gorm.DB,
) (bool, error) {
	db := d.resolveDB(txn)
	result := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(attributionRecord)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetAttributionRecord returns the attribution record for a submission,
// or nil when none was minted
func (d *MetadataStoreSqlite) GetAttributionRecord(
	submissionId string,
	txn *gorm.DB,
) (*models.AttributionRecord, error) {
	ret := &models.AttributionRecord{}
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

// GetAttributionRecordByHash returns the attribution record with the
// given public hash, or nil when unknown
func (d *MetadataStoreSqlite) GetAttributionRecordByHash(
	attributionHash string,
	txn *gorm.DB,
) (*models.AttributionRecord, error) {
	ret := &models.AttributionRecord{}
	db := d.resolveDB(txn)
	result := db.First(ret, "attribution_hash = ?", attributionHash)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

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

// AddComplianceResult stores the compliance outcome for a submission.
// Insert-if-absent keyed on submission ID; returns false when a result
// was already recorded.
func (d *MetadataStoreSqlite) AddComplianceResult(
	complianceResult *models.ComplianceResult,
	txn *gorm.DB,
) (bool, error) {
	db := d.resolveDB(txn)
	result := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(complianceResult)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetComplianceResult returns the compliance result for a submission, or
// nil when the submission was never scored
func (d *MetadataStoreSqlite) GetComplianceResult(
	submissionId string,
	txn *gorm.DB,
) (*models.ComplianceResult, error) {
	ret := &models.ComplianceResult{}
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

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
	"github.com/inkline-labs/quill/database/models"

	"gorm.io/gorm"
)

// AddViolation appends a violation row. The violations table is
// append-only with no idempotency key; every detected violation is its
// own row.
func (d *MetadataStoreSqlite) AddViolation(
	violation *models.Violation,
	txn *gorm.DB,
) error {
	db := d.resolveDB(txn)
	if result := db.Create(violation); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetViolationsByContributor returns all violations recorded against a
// contributor, oldest first
func (d *MetadataStoreSqlite) GetViolationsByContributor(
	contributorId string,
	txn *gorm.DB,
) ([]models.Violation, error) {
	var ret []models.Violation
	db := d.resolveDB(txn)
	result := db.Where("contributor_id = ?", contributorId).
		Order("id ASC").
		Find(&ret)
	if result.Error != nil {
		return ret, result.Error
	}
	return ret, nil
}

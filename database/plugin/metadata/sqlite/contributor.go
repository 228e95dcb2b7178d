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
	"fmt"

	"github.com/inkline-labs/quill/database/models"

	"gorm.io/gorm"
)

// AddContributor stores a new contributor record
func (d *MetadataStoreSqlite) AddContributor(
	contributor *models.Contributor,
	txn *gorm.DB,
) error {
	db := d.resolveDB(txn)
	if result := db.Create(contributor); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetContributor returns a contributor by ID, or nil when not found
func (d *MetadataStoreSqlite) GetContributor(
	contributorId string,
	txn *gorm.DB,
) (*models.Contributor, error) {
	ret := &models.Contributor{}
	db := d.resolveDB(txn)
	result := db.First(ret, "id = ?", contributorId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// AddSuspicion atomically accrues a penalty onto the contributor's
// suspicion score. The score increment and the ban-threshold check happen
// in a single UPDATE so that concurrent penalties for the same contributor
// cannot lose increments or miss the threshold crossing. Banned is sticky:
// once set it is never cleared here.
func (d *MetadataStoreSqlite) AddSuspicion(
	contributorId string,
	penalty float64,
	banThreshold float64,
	txn *gorm.DB,
) (*models.Contributor, error) {
	db := d.resolveDB(txn)
	result := db.Model(&models.Contributor{}).
		Where("id = ?", contributorId).
		Updates(map[string]any{
			"suspicion_score": gorm.Expr(
				"suspicion_score + ?",
				penalty,
			),
			"banned": gorm.Expr(
				"banned OR (suspicion_score + ? >= ?)",
				penalty,
				banThreshold,
			),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("unknown contributor: %s", contributorId)
	}
	return d.GetContributor(contributorId, txn)
}

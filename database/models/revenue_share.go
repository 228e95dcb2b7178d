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

package models

import (
	"time"

	"github.com/inkline-labs/quill/database/types"
)

// Payment status values for RevenueShare
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// RevenueShare represents a posted revenue share for an accepted
// submission. The unique index on SubmissionID is the idempotency key:
// concurrent double posts resolve to exactly one row.
type RevenueShare struct {
	ID                    uint   `gorm:"primaryKey"`
	SubmissionID          string `gorm:"uniqueIndex"`
	ContributorID         string `gorm:"index"`
	BaseAmount            types.Decimal
	TierPercentage        float64
	CulturalMultiplier    float64
	QualityMultiplier     float64
	PerformanceMultiplier float64
	FinalAmount           types.Decimal
	PaymentStatus         string `gorm:"index"`
	CreatedAt             time.Time
}

func (RevenueShare) TableName() string {
	return "revenue_share"
}

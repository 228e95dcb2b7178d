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

import "time"

// AttributionRecord represents the permanent, content-addressed record
// linking contributor, content, and timestamp. AttributionHash is the
// public identifier shown to downstream consumers. Rows are immutable;
// re-minting for a submission returns the original record unchanged.
type AttributionRecord struct {
	ID            uint   `gorm:"primaryKey"`
	SubmissionID  string `gorm:"uniqueIndex"`
	ContributorID string `gorm:"index"`
	// AttributionHash is the hex-encoded SHA-256 over
	// contributor || submission || digest || timestamp
	AttributionHash string `gorm:"uniqueIndex;size:64"`
	ContentDigest   []byte `gorm:"size:32"`
	MintedAt        time.Time
	CreatedAt       time.Time
}

func (AttributionRecord) TableName() string {
	return "attribution_record"
}

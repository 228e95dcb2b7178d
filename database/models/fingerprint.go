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

// Fingerprint represents the content fingerprint of an accepted submission.
// Rows are append-only: one fingerprint per accepted submission, never
// updated. The unique index on ExactHash is what resolves concurrent
// registration races to a single winner.
type Fingerprint struct {
	ID uint `gorm:"primaryKey"`
	// ExactHash is the SHA-256 digest of the raw content bytes
	ExactHash []byte `gorm:"uniqueIndex;size:32"`
	// SemanticHash is the SHA-256 digest of the normalized content and is
	// used as the candidate bucket for near-duplicate queries
	SemanticHash []byte `gorm:"index;size:32"`
	// NormalizedText is retained for similarity scoring against later
	// submissions that land in the same semantic bucket
	NormalizedText string
	SubmissionID   string `gorm:"uniqueIndex"`
	ContributorID  string `gorm:"index"`
	CreatedAt      time.Time
}

func (Fingerprint) TableName() string {
	return "fingerprint"
}

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

// ComplianceResult represents the stored outcome of running the compliance
// rubric over a submission. At most one per submission; immutable once
// written.
type ComplianceResult struct {
	ID            uint   `gorm:"primaryKey"`
	SubmissionID  string `gorm:"uniqueIndex"`
	ContributorID string `gorm:"index"`
	TotalScore    float64
	Certification string `gorm:"index"`
	// RuleScores is the JSON-encoded per-rule breakdown
	RuleScores []byte
	// Failures and Warnings are JSON-encoded string lists
	Failures  []byte
	Warnings  []byte
	CreatedAt time.Time
}

func (ComplianceResult) TableName() string {
	return "compliance_result"
}

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

// Violation represents a recorded integrity violation for a contributor.
// Append-only. SubmissionID is empty for violations not tied to a single
// submission (for example multiple-account abuse).
type Violation struct {
	ID            uint   `gorm:"primaryKey"`
	ContributorID string `gorm:"index"`
	Kind          string `gorm:"index"`
	Penalty       float64
	SubmissionID  string `gorm:"index"`
	CreatedAt     time.Time
}

func (Violation) TableName() string {
	return "violation"
}

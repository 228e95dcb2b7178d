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

// Contributor represents a registered content contributor.
// SuspicionScore and Banned are the only mutable fields in the entire
// data model. SuspicionScore is monotonically non-decreasing except on
// administrative reset, and Banned is a one-way transition.
type Contributor struct {
	ID             string `gorm:"primaryKey"`
	DisplayName    string
	Tier           string `gorm:"index"`
	SuspicionScore float64
	Banned         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Contributor) TableName() string {
	return "contributor"
}

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

package fingerprint

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity scores how alike two normalized texts are, in [0,1]. The
// store treats it as a black box, so the algorithm can be swapped without
// touching the duplicate-detection contract.
type Similarity interface {
	Ratio(a, b string) float64
}

// LevenshteinRatio scores similarity as 1 minus the edit distance
// normalized by the longer input's rune length
type LevenshteinRatio struct{}

func (LevenshteinRatio) Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	maxLen := max(
		utf8.RuneCountInString(a),
		utf8.RuneCountInString(b),
	)
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

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

package compliance

import (
	"encoding/json"
	"fmt"
)

// RuleStatus is the outcome of a single rule evaluation
type RuleStatus int

const (
	StatusPassed RuleStatus = iota
	StatusWarning
	StatusFailed
)

func (s RuleStatus) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusWarning:
		return "warning"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s RuleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *RuleStatus) UnmarshalJSON(data []byte) error {
	var tmp string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	switch tmp {
	case "passed":
		*s = StatusPassed
	case "warning":
		*s = StatusWarning
	case "failed":
		*s = StatusFailed
	default:
		return fmt.Errorf("unknown rule status: %s", tmp)
	}
	return nil
}

// RuleCategory identifies one of the seven fixed rule categories
type RuleCategory int

const (
	RuleConsent RuleCategory = iota
	RuleAttribution
	RuleAuthenticity
	RuleDignity
	RuleTransparency
	RuleLegal
	RuleAudit
)

func (c RuleCategory) String() string {
	switch c {
	case RuleConsent:
		return "consent"
	case RuleAttribution:
		return "attribution"
	case RuleAuthenticity:
		return "authenticity"
	case RuleDignity:
		return "dignity"
	case RuleTransparency:
		return "transparency"
	case RuleLegal:
		return "legal"
	case RuleAudit:
		return "audit"
	default:
		return "unknown"
	}
}

// RuleCategories lists every category in evaluation order
var RuleCategories = []RuleCategory{
	RuleConsent,
	RuleAttribution,
	RuleAuthenticity,
	RuleDignity,
	RuleTransparency,
	RuleLegal,
	RuleAudit,
}

// ruleWeights assigns each category its share of the 100-point score
var ruleWeights = map[RuleCategory]float64{
	RuleConsent:      25,
	RuleAttribution:  20,
	RuleAuthenticity: 15,
	RuleDignity:      15,
	RuleTransparency: 10,
	RuleLegal:        10,
	RuleAudit:        5,
}

// Weight returns the category's share of the total score
func (c RuleCategory) Weight() float64 {
	return ruleWeights[c]
}

// contribution returns the points a rule contributes to the total score.
// Passed earns full weight, Warning half, Failed nothing.
func contribution(status RuleStatus, weight float64) float64 {
	switch status {
	case StatusPassed:
		return weight
	case StatusWarning:
		return weight / 2
	default:
		return 0
	}
}

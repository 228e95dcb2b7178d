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

package revenue

import (
	"fmt"
	"strings"
)

// Tier is a contributor's revenue-share bracket, ordered from lowest to
// highest share
type Tier int

const (
	TierCommunity Tier = iota
	TierBronze
	TierSilver
	TierGold
	TierCulturalGuardian
	TierDeveloper
	TierPartnership
	TierFoundingContributor
)

func (t Tier) String() string {
	switch t {
	case TierCommunity:
		return "community"
	case TierBronze:
		return "bronze"
	case TierSilver:
		return "silver"
	case TierGold:
		return "gold"
	case TierCulturalGuardian:
		return "cultural_guardian"
	case TierDeveloper:
		return "developer"
	case TierPartnership:
		return "partnership"
	case TierFoundingContributor:
		return "founding_contributor"
	default:
		return "unknown"
	}
}

// tierPercentages fixes each tier's share of the base rate
var tierPercentages = map[Tier]float64{
	TierCommunity:           0.10,
	TierBronze:              0.20,
	TierSilver:              0.30,
	TierGold:                0.40,
	TierCulturalGuardian:    0.50,
	TierDeveloper:           0.60,
	TierPartnership:         0.75,
	TierFoundingContributor: 1.00,
}

// Percentage returns the tier's share of the base rate
func (t Tier) Percentage() float64 {
	return tierPercentages[t]
}

// ParseTier converts a stored tier name into its enum value, so an
// invalid tier is a parse-time error rather than a silent zero share
func ParseTier(name string) (Tier, error) {
	switch strings.ToLower(name) {
	case "community":
		return TierCommunity, nil
	case "bronze":
		return TierBronze, nil
	case "silver":
		return TierSilver, nil
	case "gold":
		return TierGold, nil
	case "cultural_guardian":
		return TierCulturalGuardian, nil
	case "developer":
		return TierDeveloper, nil
	case "partnership":
		return TierPartnership, nil
	case "founding_contributor":
		return TierFoundingContributor, nil
	default:
		return TierCommunity, fmt.Errorf("unknown tier: %s", name)
	}
}

// culturalMultipliers rewards content from underrepresented or
// traditional-knowledge contexts. Unlisted contexts use the default 1.0.
var culturalMultipliers = map[string]float64{
	"indigenous":            2.0,
	"endangered_culture":    1.9,
	"traditional_knowledge": 1.8,
	"oral_tradition":        1.5,
	"diaspora":              1.3,
	"regional":              1.1,
}

// CulturalMultiplier returns the bonus factor for a cultural context
func CulturalMultiplier(culturalContext string) float64 {
	if m, ok := culturalMultipliers[strings.ToLower(culturalContext)]; ok {
		return m
	}
	return 1.0
}

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
	"encoding/json"
	"testing"

	"github.com/inkline-labs/quill/compliance"
	"github.com/inkline-labs/quill/database/models"
	"github.com/inkline-labs/quill/database/plugin/metadata"
	"github.com/inkline-labs/quill/trust"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLedger(t *testing.T) (*Ledger, metadata.MetadataStore) {
	t.Helper()
	metadataStore, err := metadata.New("sqlite", t.TempDir(), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		metadataStore.Close() //nolint:errcheck
	})
	return NewLedger(nil, metadataStore, nil, decimal.Zero), metadataStore
}

func approvedResult() compliance.Result {
	return compliance.Result{
		TotalScore:    100,
		Certification: compliance.CertificationApproved,
	}
}

// addComplianceResult persists the verdict the way the submission
// pipeline does before posting a share
func addComplianceResult(
	t *testing.T,
	store metadata.MetadataStore,
	submissionID string,
	result compliance.Result,
) {
	t.Helper()
	ruleScores, err := json.Marshal(result.RuleScores)
	require.NoError(t, err)
	created, err := store.AddComplianceResult(
		&models.ComplianceResult{
			SubmissionID:  submissionID,
			ContributorID: "contrib-1",
			TotalScore:    result.TotalScore,
			Certification: result.Certification.String(),
			RuleScores:    ruleScores,
		},
		nil,
	)
	require.NoError(t, err)
	require.True(t, created)
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("gold")
	require.NoError(t, err)
	assert.Equal(t, TierGold, tier)
	assert.Equal(t, 0.40, tier.Percentage())

	tier, err = ParseTier("FOUNDING_CONTRIBUTOR")
	require.NoError(t, err)
	assert.Equal(t, TierFoundingContributor, tier)
	assert.Equal(t, 1.00, tier.Percentage())

	_, err = ParseTier("platinum")
	require.Error(t, err)
}

func TestTierOrdering(t *testing.T) {
	tiers := []Tier{
		TierCommunity,
		TierBronze,
		TierSilver,
		TierGold,
		TierCulturalGuardian,
		TierDeveloper,
		TierPartnership,
		TierFoundingContributor,
	}
	for i := 1; i < len(tiers); i++ {
		assert.Less(t, tiers[i-1], tiers[i])
		assert.Less(
			t,
			tiers[i-1].Percentage(),
			tiers[i].Percentage(),
		)
	}
}

func TestCulturalMultiplier(t *testing.T) {
	assert.Equal(t, 2.0, CulturalMultiplier("indigenous"))
	assert.Equal(t, 1.8, CulturalMultiplier("Traditional_Knowledge"))
	assert.Equal(t, 1.0, CulturalMultiplier("contemporary"))
	assert.Equal(t, 1.0, CulturalMultiplier(""))
}

func TestQualityMultiplierBounds(t *testing.T) {
	assert.Equal(t, 0.8, QualityMultiplier(0, ""))
	// Depth bonuses cannot push past the ceiling
	longContent := ""
	for range 120 {
		longContent += "wisdom lesson tradition "
	}
	assert.Equal(t, 1.5, QualityMultiplier(1.0, longContent))
	// Mid-range score with plain content
	assert.InDelta(t, 1.225, QualityMultiplier(0.85, "a short note"), 0.0001)
}

func TestPostShareDeterministic(t *testing.T) {
	ledger, store := setupLedger(t)
	addComplianceResult(t, store, "sub-1", approvedResult())

	contributor := &models.Contributor{ID: "contrib-1", Tier: "gold"}
	req := ShareRequest{
		Contributor:     contributor,
		SubmissionID:    "sub-1",
		Content:         "a short note",
		CulturalContext: "",
		Compliance:      approvedResult(),
		QualityScore:    0.85,
	}
	share, err := ledger.PostShare(req)
	require.NoError(t, err)
	// 50.00 * 0.40 * 1.0 * 1.225 * 1.0 = 24.50
	assert.Equal(t, "24.50", share.FinalAmount.StringFixed(2))
	assert.Equal(t, 0.40, share.TierPercentage)
	assert.Equal(t, 1.0, share.CulturalMultiplier)
	assert.InDelta(t, 1.225, share.QualityMultiplier, 0.0001)
	assert.Equal(t, models.PaymentStatusPending, share.PaymentStatus)

	// Repost returns the identical winning record
	again, err := ledger.PostShare(req)
	require.NoError(t, err)
	assert.Equal(t, "24.50", again.FinalAmount.StringFixed(2))

	var count int64
	result := store.DB().Model(&models.RevenueShare{}).Count(&count)
	require.NoError(t, result.Error)
	assert.Equal(t, int64(1), count)
}

func TestPostShareExcellenceBonus(t *testing.T) {
	ledger, store := setupLedger(t)
	addComplianceResult(t, store, "sub-1", approvedResult())

	share, err := ledger.PostShare(ShareRequest{
		Contributor:  &models.Contributor{ID: "contrib-1", Tier: "gold"},
		SubmissionID: "sub-1",
		Content:      "a short note",
		Compliance:   approvedResult(),
		QualityScore: 0.95,
	})
	require.NoError(t, err)
	// 50.00 * 0.40 * 1.275 = 25.50, then * 1.2 excellence = 30.60
	assert.Equal(t, "30.60", share.FinalAmount.StringFixed(2))
}

func TestPostShareCulturalMultiplier(t *testing.T) {
	ledger, store := setupLedger(t)
	addComplianceResult(t, store, "sub-1", approvedResult())

	share, err := ledger.PostShare(ShareRequest{
		Contributor:     &models.Contributor{ID: "contrib-1", Tier: "community"},
		SubmissionID:    "sub-1",
		Content:         "a short note",
		CulturalContext: "indigenous",
		Compliance:      approvedResult(),
		QualityScore:    0.85,
	})
	require.NoError(t, err)
	// 50.00 * 0.10 * 2.0 * 1.225 = 12.25
	assert.Equal(t, "12.25", share.FinalAmount.StringFixed(2))
}

func TestPostShareRejectedCertification(t *testing.T) {
	ledger, _ := setupLedger(t)

	_, err := ledger.PostShare(ShareRequest{
		Contributor:  &models.Contributor{ID: "contrib-1", Tier: "gold"},
		SubmissionID: "sub-1",
		Compliance: compliance.Result{
			TotalScore:    55,
			Certification: compliance.CertificationRejected,
			Failures:      []string{"consent: missing required flag"},
		},
		QualityScore: 0.85,
	})
	require.Error(t, err)
	var rejErr CertificationRejectedError
	require.ErrorAs(t, err, &rejErr)
	assert.Equal(t, 55.0, rejErr.Score)
}

func TestPostShareBannedContributor(t *testing.T) {
	ledger, _ := setupLedger(t)

	_, err := ledger.PostShare(ShareRequest{
		Contributor: &models.Contributor{
			ID:     "contrib-1",
			Tier:   "gold",
			Banned: true,
		},
		SubmissionID: "sub-1",
		Compliance:   approvedResult(),
		QualityScore: 0.85,
	})
	require.ErrorIs(t, err, trust.ErrContributorBanned)
}

func TestPostShareUnknownTier(t *testing.T) {
	ledger, _ := setupLedger(t)

	_, err := ledger.PostShare(ShareRequest{
		Contributor:  &models.Contributor{ID: "contrib-1", Tier: "platinum"},
		SubmissionID: "sub-1",
		Compliance:   approvedResult(),
		QualityScore: 0.85,
	})
	require.Error(t, err)
}

func TestPostShareMissingComplianceResultPanics(t *testing.T) {
	ledger, store := setupLedger(t)

	req := ShareRequest{
		Contributor:  &models.Contributor{ID: "contrib-1", Tier: "gold"},
		SubmissionID: "sub-1",
		Content:      "a short note",
		Compliance:   approvedResult(),
		QualityScore: 0.85,
	}
	_, err := ledger.PostShare(req)
	require.NoError(t, err)

	// A repost that finds a share with no stored compliance result is a
	// data-corruption invariant and fails loudly
	var count int64
	result := store.DB().Model(&models.ComplianceResult{}).Count(&count)
	require.NoError(t, result.Error)
	require.Equal(t, int64(0), count)
	assert.Panics(t, func() {
		_, _ = ledger.PostShare(req)
	})
}

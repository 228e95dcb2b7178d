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

package sqlite

import (
	"crypto/sha256"
	"testing"
	"time"

	"github.com/inkline-labs/quill/database/models"
	"github.com/inkline-labs/quill/database/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *MetadataStoreSqlite {
	t.Helper()
	store, err := NewWithOptions(
		WithDataDir(t.TempDir()),
	)
	require.NoError(t, err, "failed to create store")
	require.NoError(t, store.Start(), "failed to start store")
	t.Cleanup(func() {
		store.Close() //nolint:errcheck
	})
	return store
}

func TestContributorRoundTrip(t *testing.T) {
	store := setupStore(t)

	contributor := &models.Contributor{
		ID:          "contrib-1",
		DisplayName: "Amara",
		Tier:        "gold",
	}
	require.NoError(t, store.AddContributor(contributor, nil))

	ret, err := store.GetContributor("contrib-1", nil)
	require.NoError(t, err)
	require.NotNil(t, ret)
	assert.Equal(t, "Amara", ret.DisplayName)
	assert.Equal(t, "gold", ret.Tier)
	assert.False(t, ret.Banned)

	// Unknown contributor returns nil without error
	ret, err = store.GetContributor("nobody", nil)
	require.NoError(t, err)
	assert.Nil(t, ret)
}

func TestAddSuspicionBanThreshold(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.AddContributor(
		&models.Contributor{ID: "contrib-1", Tier: "bronze"},
		nil,
	))

	ret, err := store.AddSuspicion("contrib-1", 0.5, 2.0, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ret.SuspicionScore, 0.0001)
	assert.False(t, ret.Banned)

	ret, err = store.AddSuspicion("contrib-1", 1.0, 2.0, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, ret.SuspicionScore, 0.0001)
	assert.False(t, ret.Banned)

	// Crossing the threshold flips the ban flag
	ret, err = store.AddSuspicion("contrib-1", 0.5, 2.0, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, ret.SuspicionScore, 0.0001)
	assert.True(t, ret.Banned)

	// Ban is sticky even if the threshold is raised afterward
	ret, err = store.AddSuspicion("contrib-1", 0.0, 100.0, nil)
	require.NoError(t, err)
	assert.True(t, ret.Banned)

	// Unknown contributor is an error
	_, err = store.AddSuspicion("nobody", 0.5, 2.0, nil)
	require.Error(t, err)
}

func TestFingerprintInsertIfAbsent(t *testing.T) {
	store := setupStore(t)

	exactHash := sha256.Sum256([]byte("raw content"))
	semanticHash := sha256.Sum256([]byte("raw content normalized"))
	fp := &models.Fingerprint{
		ExactHash:      exactHash[:],
		SemanticHash:   semanticHash[:],
		NormalizedText: "raw content normalized",
		SubmissionID:   "sub-1",
		ContributorID:  "contrib-1",
	}
	created, err := store.AddFingerprint(fp, nil)
	require.NoError(t, err)
	assert.True(t, created)

	// Same exact hash for a different submission loses the race
	dup := &models.Fingerprint{
		ExactHash:      exactHash[:],
		SemanticHash:   semanticHash[:],
		NormalizedText: "raw content normalized",
		SubmissionID:   "sub-2",
		ContributorID:  "contrib-2",
	}
	created, err = store.AddFingerprint(dup, nil)
	require.NoError(t, err)
	assert.False(t, created)

	ret, err := store.GetFingerprintByExactHash(exactHash[:], nil)
	require.NoError(t, err)
	require.NotNil(t, ret)
	assert.Equal(t, "sub-1", ret.SubmissionID)

	bySubmission, err := store.GetFingerprintBySubmission("sub-1", nil)
	require.NoError(t, err)
	require.NotNil(t, bySubmission)
	assert.Equal(t, exactHash[:], bySubmission.ExactHash)

	candidates, err := store.GetFingerprintsBySemanticHash(
		semanticHash[:],
		nil,
	)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestRevenueShareIdempotency(t *testing.T) {
	store := setupStore(t)

	share := &models.RevenueShare{
		SubmissionID:          "sub-1",
		ContributorID:         "contrib-1",
		BaseAmount:            types.NewDecimal(decimal.RequireFromString("50.00")),
		TierPercentage:        0.4,
		CulturalMultiplier:    1.0,
		QualityMultiplier:     1.1,
		PerformanceMultiplier: 1.0,
		FinalAmount:           types.NewDecimal(decimal.RequireFromString("22.00")),
		PaymentStatus:         models.PaymentStatusPending,
	}
	created, err := store.AddRevenueShare(share, nil)
	require.NoError(t, err)
	assert.True(t, created)

	// Second post for the same submission is a no-op
	dup := &models.RevenueShare{
		SubmissionID:  "sub-1",
		ContributorID: "contrib-1",
		BaseAmount:    types.NewDecimal(decimal.RequireFromString("50.00")),
		FinalAmount:   types.NewDecimal(decimal.RequireFromString("99.99")),
		PaymentStatus: models.PaymentStatusPending,
	}
	created, err = store.AddRevenueShare(dup, nil)
	require.NoError(t, err)
	assert.False(t, created)

	ret, err := store.GetRevenueShare("sub-1", nil)
	require.NoError(t, err)
	require.NotNil(t, ret)
	assert.Equal(t, "22", ret.FinalAmount.String())
	assert.InDelta(t, 1.1, ret.QualityMultiplier, 0.0001)
}

func TestAttributionRecordIdempotency(t *testing.T) {
	store := setupStore(t)

	digest := sha256.Sum256([]byte("content"))
	record := &models.AttributionRecord{
		SubmissionID:    "sub-1",
		ContributorID:   "contrib-1",
		AttributionHash: "deadbeef",
		ContentDigest:   digest[:],
		MintedAt:        time.Now().UTC(),
	}
	created, err := store.AddAttributionRecord(record, nil)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.AddAttributionRecord(
		&models.AttributionRecord{
			SubmissionID:    "sub-1",
			ContributorID:   "contrib-1",
			AttributionHash: "cafef00d",
			ContentDigest:   digest[:],
			MintedAt:        time.Now().UTC(),
		},
		nil,
	)
	require.NoError(t, err)
	assert.False(t, created)

	ret, err := store.GetAttributionRecord("sub-1", nil)
	require.NoError(t, err)
	require.NotNil(t, ret)
	assert.Equal(t, "deadbeef", ret.AttributionHash)

	byHash, err := store.GetAttributionRecordByHash("deadbeef", nil)
	require.NoError(t, err)
	require.NotNil(t, byHash)
	assert.Equal(t, "sub-1", byHash.SubmissionID)
}

func TestViolationsAppendOnly(t *testing.T) {
	store := setupStore(t)

	for _, kind := range []string{"duplicate_content", "self_plagiarism"} {
		require.NoError(t, store.AddViolation(
			&models.Violation{
				ContributorID: "contrib-1",
				Kind:          kind,
				Penalty:       0.5,
				SubmissionID:  "sub-1",
			},
			nil,
		))
	}

	ret, err := store.GetViolationsByContributor("contrib-1", nil)
	require.NoError(t, err)
	require.Len(t, ret, 2)
	assert.Equal(t, "duplicate_content", ret[0].Kind)
	assert.Equal(t, "self_plagiarism", ret[1].Kind)
}

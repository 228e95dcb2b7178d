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

package trust

import (
	"testing"

	"github.com/inkline-labs/quill/database/models"
	"github.com/inkline-labs/quill/database/plugin/metadata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMonitor(t *testing.T) (*Monitor, metadata.MetadataStore) {
	t.Helper()
	metadataStore, err := metadata.New("sqlite", t.TempDir(), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		metadataStore.Close() //nolint:errcheck
	})
	require.NoError(t, metadataStore.AddContributor(
		&models.Contributor{ID: "contrib-1", Tier: "silver"},
		nil,
	))
	return NewMonitor(nil, metadataStore, nil, 0), metadataStore
}

func TestViolationPenalties(t *testing.T) {
	assert.Equal(t, 0.5, ViolationDuplicateContent.Penalty())
	assert.Equal(t, 1.0, ViolationSelfPlagiarism.Penalty())
	assert.Equal(t, 2.0, ViolationMultipleAccounts.Penalty())
}

func TestRecordViolationAccrues(t *testing.T) {
	monitor, _ := setupMonitor(t)

	contributor, err := monitor.RecordViolation(
		"contrib-1",
		ViolationDuplicateContent,
		"sub-1",
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, contributor.SuspicionScore, 0.0001)
	assert.False(t, contributor.Banned)

	violations, err := monitor.Violations("contrib-1")
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "duplicate_content", violations[0].Kind)
	assert.Equal(t, "sub-1", violations[0].SubmissionID)
}

func TestBanThresholdCrossing(t *testing.T) {
	monitor, _ := setupMonitor(t)

	// Three duplicate violations stay under the threshold
	for range 3 {
		contributor, err := monitor.RecordViolation(
			"contrib-1",
			ViolationDuplicateContent,
			"sub-1",
		)
		require.NoError(t, err)
		assert.False(t, contributor.Banned)
	}

	// The fourth crosses 2.0
	contributor, err := monitor.RecordViolation(
		"contrib-1",
		ViolationDuplicateContent,
		"sub-1",
	)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, contributor.SuspicionScore, 0.0001)
	assert.True(t, contributor.Banned)

	// Banned contributors short-circuit all checks
	_, err = monitor.CheckContributor("contrib-1")
	require.ErrorIs(t, err, ErrContributorBanned)
}

func TestMultipleAccountsBansImmediately(t *testing.T) {
	monitor, _ := setupMonitor(t)

	contributor, err := monitor.RecordViolation(
		"contrib-1",
		ViolationMultipleAccounts,
		"",
	)
	require.NoError(t, err)
	assert.True(t, contributor.Banned)
}

func TestCheckContributorUnknown(t *testing.T) {
	monitor, _ := setupMonitor(t)

	_, err := monitor.CheckContributor("nobody")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrContributorBanned)
}

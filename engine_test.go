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

package quill

import (
	"testing"
	"time"

	"github.com/inkline-labs/quill/compliance"
	"github.com/inkline-labs/quill/database/models"
	"github.com/inkline-labs/quill/fingerprint"
	"github.com/inkline-labs/quill/revenue"
	"github.com/inkline-labs/quill/trust"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(
		NewConfig(
			WithDataDir(t.TempDir()),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, engine.Stop())
	})
	return engine
}

func registerTestContributor(
	t *testing.T,
	engine *Engine,
	id string,
	tier string,
) {
	t.Helper()
	require.NoError(t, engine.RegisterContributor(&models.Contributor{
		ID:          id,
		DisplayName: "Amara",
		Tier:        tier,
	}))
}

// perfectSubmission builds a submission that passes all compliance rules
func perfectSubmission(submissionID, contributorID string) Submission {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	flags := make(map[string]bool)
	for _, flag := range compliance.RequiredConsentFlags {
		flags[flag] = true
	}
	return Submission{
		SubmissionID:          submissionID,
		ContributorID:         contributorID,
		Content:               "A story of patience told beside the winter fire.",
		QualityScore:          0.5,
		PerformanceMultiplier: 1.0,
		Consent: compliance.ConsentRecord{
			Flags:     flags,
			Timestamp: now,
		},
		Attribution: compliance.AttributionFields{
			ContributorID:    contributorID,
			ContributorName:  "Amara",
			Culture:          "Sami",
			Location:         "Norway",
			ContributionDate: now,
		},
		Declarations: compliance.Declarations{
			OriginalWork:          true,
			IdentityVerified:      true,
			UsageDisclosed:        true,
			RevenueModelExplained: true,
			RetentionPolicyShared: true,
			SharingDisclosed:      true,
			GDPRConsent:           true,
			CopyrightCleared:      true,
			TermsAccepted:         true,
			ContributorAge:        34,
		},
		Audit: compliance.AuditFields{
			IP:               "203.0.113.7",
			UserAgent:        "test-agent",
			SubmittedAt:      now,
			ConsentTimestamp: now,
		},
		SubmittedAt: now,
	}
}

func TestEngineProcessAccepted(t *testing.T) {
	engine := newTestEngine(t)
	registerTestContributor(t, engine, "contrib-1", "silver")

	sub := perfectSubmission("sub-1", "contrib-1")
	receipt, err := engine.Process(sub)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	require.NotNil(t, receipt.Compliance)
	assert.Equal(t, float64(100), receipt.Compliance.TotalScore)
	assert.Equal(
		t,
		compliance.CertificationApproved,
		receipt.Compliance.Certification,
	)

	// 50.00 base, silver 0.30, quality 0.8 + 0.5*0.5
	require.NotNil(t, receipt.Share)
	assert.Equal(t, "15.75", receipt.Share.FinalAmount.String())
	assert.Equal(t, models.PaymentStatusPending, receipt.Share.PaymentStatus)

	require.NotNil(t, receipt.Record)
	assert.Len(t, receipt.Record.AttributionHash, 64)

	// The stored content round-trips through the blob store
	valid, err := engine.VerifyAttribution(
		receipt.Record.AttributionHash,
		sub.Content,
	)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = engine.VerifyAttribution(
		receipt.Record.AttributionHash,
		"different content entirely",
	)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestEngineProcessRetryIdempotent(t *testing.T) {
	engine := newTestEngine(t)
	registerTestContributor(t, engine, "contrib-1", "silver")

	sub := perfectSubmission("sub-1", "contrib-1")
	first, err := engine.Process(sub)
	require.NoError(t, err)

	// Replaying the same submission returns the original rows and
	// records no violation
	second, err := engine.Process(sub)
	require.NoError(t, err)
	require.NotNil(t, second.Share)
	assert.Equal(t, first.Share.FinalAmount.String(), second.Share.FinalAmount.String())
	require.NotNil(t, second.Record)
	assert.Equal(t, first.Record.AttributionHash, second.Record.AttributionHash)

	contributor, err := engine.Database().Metadata().GetContributor("contrib-1", nil)
	require.NoError(t, err)
	require.NotNil(t, contributor)
	assert.Equal(t, float64(0), contributor.SuspicionScore)
}

func TestEngineProcessCrossContributorDuplicate(t *testing.T) {
	engine := newTestEngine(t)
	registerTestContributor(t, engine, "contrib-1", "silver")
	registerTestContributor(t, engine, "contrib-2", "silver")

	_, err := engine.Process(perfectSubmission("sub-1", "contrib-1"))
	require.NoError(t, err)

	receipt, err := engine.Process(perfectSubmission("sub-2", "contrib-2"))
	var dupErr fingerprint.DuplicateContentError
	require.ErrorAs(t, err, &dupErr)
	assert.True(t, dupErr.Exact)
	assert.Equal(t, "sub-1", dupErr.MatchedSubmissionID)
	require.NotNil(t, receipt)
	assert.True(t, receipt.Verdict.IsExact)
	assert.Nil(t, receipt.Share)

	// Cross-contributor duplicates accrue 0.5 suspicion
	contributor, err := engine.Database().Metadata().GetContributor("contrib-2", nil)
	require.NoError(t, err)
	require.NotNil(t, contributor)
	assert.Equal(t, 0.5, contributor.SuspicionScore)
}

func TestEngineProcessSelfPlagiarism(t *testing.T) {
	engine := newTestEngine(t)
	registerTestContributor(t, engine, "contrib-1", "silver")

	_, err := engine.Process(perfectSubmission("sub-1", "contrib-1"))
	require.NoError(t, err)

	// Same content under a new submission id is self-plagiarism
	_, err = engine.Process(perfectSubmission("sub-2", "contrib-1"))
	var dupErr fingerprint.DuplicateContentError
	require.ErrorAs(t, err, &dupErr)

	violations, err := engine.Database().Metadata().GetViolationsByContributor("contrib-1", nil)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, trust.ViolationSelfPlagiarism.String(), violations[0].Kind)
}

func TestEngineProcessRejectedCompliance(t *testing.T) {
	engine := newTestEngine(t)
	registerTestContributor(t, engine, "contrib-1", "silver")

	sub := perfectSubmission("sub-1", "contrib-1")
	sub.Consent.Flags["data_usage"] = false
	receipt, err := engine.Process(sub)
	var rejErr revenue.CertificationRejectedError
	require.ErrorAs(t, err, &rejErr)
	assert.Equal(t, float64(75), rejErr.Score)
	require.NotNil(t, receipt)
	require.NotNil(t, receipt.Compliance)
	assert.Equal(
		t,
		compliance.CertificationRejected,
		receipt.Compliance.Certification,
	)
	assert.Nil(t, receipt.Share)
	assert.Nil(t, receipt.Record)

	// Rejected verdicts are persisted for audit
	stored, err := engine.Database().Metadata().GetComplianceResult("sub-1", nil)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, float64(75), stored.TotalScore)
}

func TestEngineProcessBannedContributor(t *testing.T) {
	engine := newTestEngine(t)
	registerTestContributor(t, engine, "contrib-1", "silver")

	// Running multiple accounts is an immediate ban
	_, err := engine.monitor.RecordViolation(
		"contrib-1",
		trust.ViolationMultipleAccounts,
		"sub-0",
	)
	require.NoError(t, err)

	_, err = engine.Process(perfectSubmission("sub-1", "contrib-1"))
	require.ErrorIs(t, err, trust.ErrContributorBanned)
}

func TestEngineProcessUnknownContributor(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.Process(perfectSubmission("sub-1", "ghost"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, trust.ErrContributorBanned)
}

func TestEngineProcessInvalidSubmission(t *testing.T) {
	engine := newTestEngine(t)
	sub := perfectSubmission("sub-1", "contrib-1")
	sub.Content = ""
	_, err := engine.Process(sub)
	var valErr ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "content", valErr.Field)

	sub = perfectSubmission("sub-2", "contrib-1")
	sub.QualityScore = 1.2
	_, err = engine.Process(sub)
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "quality_score", valErr.Field)
}

func TestEngineStopReleasesResources(t *testing.T) {
	engine, err := NewEngine(
		NewConfig(
			WithDataDir(t.TempDir()),
		),
	)
	require.NoError(t, err)
	require.NoError(t, engine.Stop())
	// Stop is safe to call again
	require.NoError(t, engine.Stop())
}

func TestEngineRegisterContributorDuplicate(t *testing.T) {
	engine := newTestEngine(t)
	registerTestContributor(t, engine, "contrib-1", "silver")
	err := engine.RegisterContributor(&models.Contributor{
		ID:   "contrib-1",
		Tier: "gold",
	})
	require.ErrorContains(t, err, "already exists")
}

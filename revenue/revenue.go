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
	"io"
	"log/slog"
	"strings"

	"github.com/inkline-labs/quill/compliance"
	"github.com/inkline-labs/quill/database/models"
	"github.com/inkline-labs/quill/database/plugin/metadata"
	"github.com/inkline-labs/quill/database/types"
	"github.com/inkline-labs/quill/event"
	"github.com/inkline-labs/quill/trust"

	"github.com/shopspring/decimal"
)

const (
	qualityMultiplierFloor   = 0.8
	qualityMultiplierCeiling = 1.5
	excellenceThreshold      = 0.9
	depthWordCount           = 100
)

// DefaultBaseRate is the per-submission base amount when none is
// configured
var DefaultBaseRate = decimal.New(50, 0)

var excellenceBonus = decimal.NewFromFloat(1.2)

// depthTerms are lexical indicators of substantive content for the
// quality multiplier heuristic
var depthTerms = []string{
	"generation",
	"insight",
	"learned",
	"lesson",
	"tradition",
	"wisdom",
}

const PostedEventType event.EventType = "revenue.posted"

// PostedEvent is the data payload for revenue share events
type PostedEvent struct {
	SubmissionID  string
	ContributorID string
	FinalAmount   string
}

// CertificationRejectedError is returned when a submission's compliance
// verdict forbids posting a share
type CertificationRejectedError struct {
	Failures []string
	Score    float64
}

func (e CertificationRejectedError) Error() string {
	return fmt.Sprintf(
		"certification rejected with score %.1f (%d failures)",
		e.Score,
		len(e.Failures),
	)
}

// ShareRequest carries everything needed to post a revenue share
type ShareRequest struct {
	Contributor           *models.Contributor
	SubmissionID          string
	Content               string
	CulturalContext       string
	Compliance            compliance.Result
	QualityScore          float64
	PerformanceMultiplier float64
}

// QualityMultiplier derives a payout multiplier from the upstream quality
// score plus content-depth heuristics, bounded to [0.8, 1.5]
func QualityMultiplier(qualityScore float64, content string) float64 {
	m := qualityMultiplierFloor + 0.5*qualityScore
	if len(strings.Fields(content)) >= depthWordCount {
		m += 0.1
	}
	lower := strings.ToLower(content)
	var depthHits int
	for _, term := range depthTerms {
		if strings.Contains(lower, term) {
			depthHits++
		}
	}
	m += 0.05 * float64(min(depthHits, 2))
	return max(qualityMultiplierFloor, min(m, qualityMultiplierCeiling))
}

// Ledger computes and records revenue shares. Posting is idempotent per
// submission, enforced by the revenue table's unique constraint rather
// than a pre-check.
type Ledger struct {
	logger   *slog.Logger
	metadata metadata.MetadataStore
	eventBus *event.EventBus
	baseRate decimal.Decimal
}

func NewLedger(
	logger *slog.Logger,
	metadataStore metadata.MetadataStore,
	eventBus *event.EventBus,
	baseRate decimal.Decimal,
) *Ledger {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if baseRate.IsZero() {
		baseRate = DefaultBaseRate
	}
	return &Ledger{
		logger:   logger,
		metadata: metadataStore,
		eventBus: eventBus,
		baseRate: baseRate,
	}
}

// PostShare computes and records the revenue share for a certified
// submission. Retries and concurrent double-posts return the winning
// record rather than an error.
func (l *Ledger) PostShare(req ShareRequest) (*models.RevenueShare, error) {
	if req.Contributor == nil {
		return nil, fmt.Errorf("missing contributor")
	}
	if req.Contributor.Banned {
		return nil, trust.ErrContributorBanned
	}
	if req.Compliance.Certification == compliance.CertificationRejected {
		return nil, CertificationRejectedError{
			Score:    req.Compliance.TotalScore,
			Failures: req.Compliance.Failures,
		}
	}
	tier, err := ParseTier(req.Contributor.Tier)
	if err != nil {
		return nil, err
	}

	tierPercentage := tier.Percentage()
	culturalMultiplier := CulturalMultiplier(req.CulturalContext)
	qualityMultiplier := QualityMultiplier(req.QualityScore, req.Content)
	performanceMultiplier := req.PerformanceMultiplier
	if performanceMultiplier <= 0 {
		performanceMultiplier = 1.0
	}

	finalAmount := l.baseRate.
		Mul(decimal.NewFromFloat(tierPercentage)).
		Mul(decimal.NewFromFloat(culturalMultiplier)).
		Mul(decimal.NewFromFloat(qualityMultiplier)).
		Mul(decimal.NewFromFloat(performanceMultiplier))
	if req.QualityScore >= excellenceThreshold {
		finalAmount = finalAmount.Mul(excellenceBonus)
	}
	// Round half away from zero for currency determinism
	finalAmount = finalAmount.Round(2)

	share := &models.RevenueShare{
		SubmissionID:          req.SubmissionID,
		ContributorID:         req.Contributor.ID,
		BaseAmount:            types.NewDecimal(l.baseRate),
		TierPercentage:        tierPercentage,
		CulturalMultiplier:    culturalMultiplier,
		QualityMultiplier:     qualityMultiplier,
		PerformanceMultiplier: performanceMultiplier,
		FinalAmount:           types.NewDecimal(finalAmount),
		PaymentStatus:         models.PaymentStatusPending,
	}
	created, err := l.metadata.AddRevenueShare(share, nil)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost a double-post race or this is a retry, return the winner
		existing, err := l.metadata.GetRevenueShare(req.SubmissionID, nil)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf(
				"revenue share for submission %s vanished after conflict",
				req.SubmissionID,
			)
		}
		// A share without a compliance result means the write path skipped
		// validation, which must never happen
		complianceResult, err := l.metadata.GetComplianceResult(
			req.SubmissionID,
			nil,
		)
		if err != nil {
			return nil, err
		}
		if complianceResult == nil {
			panic(fmt.Sprintf(
				"revenue share exists without compliance result for submission %s",
				req.SubmissionID,
			))
		}
		return existing, nil
	}
	l.logger.Info(
		"posted revenue share",
		"component", "revenue",
		"submission_id", req.SubmissionID,
		"contributor_id", req.Contributor.ID,
		"final_amount", finalAmount.StringFixed(2),
	)
	if l.eventBus != nil {
		l.eventBus.Publish(
			PostedEventType,
			event.NewEvent(
				PostedEventType,
				PostedEvent{
					SubmissionID:  req.SubmissionID,
					ContributorID: req.Contributor.ID,
					FinalAmount:   finalAmount.StringFixed(2),
				},
			),
		)
	}
	return share, nil
}

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
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/inkline-labs/quill/database/models"
	"github.com/inkline-labs/quill/database/plugin/metadata"
	"github.com/inkline-labs/quill/event"
)

// BanThreshold is the cumulative suspicion score at which a contributor
// is banned. Crossing it is a one-way transition.
const BanThreshold = 2.0

// ErrContributorBanned short-circuits every operation for a banned
// contributor
var ErrContributorBanned = errors.New("contributor is banned")

const BannedEventType event.EventType = "trust.banned"

// BannedEvent is the data payload for contributor ban events
type BannedEvent struct {
	ContributorID  string
	SuspicionScore float64
}

// ViolationKind classifies a trust violation and fixes its penalty
type ViolationKind int

const (
	ViolationDuplicateContent ViolationKind = iota
	ViolationSelfPlagiarism
	ViolationMultipleAccounts
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationDuplicateContent:
		return "duplicate_content"
	case ViolationSelfPlagiarism:
		return "self_plagiarism"
	case ViolationMultipleAccounts:
		return "multiple_accounts"
	default:
		return "unknown"
	}
}

// Penalty is the suspicion added per violation of this kind
func (k ViolationKind) Penalty() float64 {
	switch k {
	case ViolationDuplicateContent:
		return 0.5
	case ViolationSelfPlagiarism:
		return 1.0
	case ViolationMultipleAccounts:
		return 2.0
	default:
		return 0
	}
}

// Monitor records trust violations and accrues suspicion on
// contributors, banning them once the cumulative score crosses the
// threshold
type Monitor struct {
	logger       *slog.Logger
	metadata     metadata.MetadataStore
	eventBus     *event.EventBus
	banThreshold float64
}

func NewMonitor(
	logger *slog.Logger,
	metadataStore metadata.MetadataStore,
	eventBus *event.EventBus,
	banThreshold float64,
) *Monitor {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if banThreshold <= 0 {
		banThreshold = BanThreshold
	}
	return &Monitor{
		logger:       logger,
		metadata:     metadataStore,
		eventBus:     eventBus,
		banThreshold: banThreshold,
	}
}

// CheckContributor returns the contributor row, or ErrContributorBanned
// if they are banned
func (m *Monitor) CheckContributor(
	contributorID string,
) (*models.Contributor, error) {
	contributor, err := m.metadata.GetContributor(contributorID, nil)
	if err != nil {
		return nil, err
	}
	if contributor == nil {
		return nil, fmt.Errorf("unknown contributor: %s", contributorID)
	}
	if contributor.Banned {
		return nil, ErrContributorBanned
	}
	return contributor, nil
}

// RecordViolation appends a violation and atomically accrues its penalty
// on the contributor's suspicion score. Returns the updated contributor.
func (m *Monitor) RecordViolation(
	contributorID string,
	kind ViolationKind,
	submissionID string,
) (*models.Contributor, error) {
	penalty := kind.Penalty()
	if err := m.metadata.AddViolation(
		&models.Violation{
			ContributorID: contributorID,
			Kind:          kind.String(),
			Penalty:       penalty,
			SubmissionID:  submissionID,
		},
		nil,
	); err != nil {
		return nil, err
	}
	contributor, err := m.metadata.AddSuspicion(
		contributorID,
		penalty,
		m.banThreshold,
		nil,
	)
	if err != nil {
		return nil, err
	}
	m.logger.Info(
		"recorded violation",
		"component", "trust",
		"contributor_id", contributorID,
		"kind", kind.String(),
		"suspicion_score", contributor.SuspicionScore,
		"banned", contributor.Banned,
	)
	if contributor.Banned && m.eventBus != nil {
		m.eventBus.Publish(
			BannedEventType,
			event.NewEvent(
				BannedEventType,
				BannedEvent{
					ContributorID:  contributorID,
					SuspicionScore: contributor.SuspicionScore,
				},
			),
		)
	}
	return contributor, nil
}

// Violations returns the append-only violation history for a contributor
func (m *Monitor) Violations(
	contributorID string,
) ([]models.Violation, error) {
	return m.metadata.GetViolationsByContributor(contributorID, nil)
}

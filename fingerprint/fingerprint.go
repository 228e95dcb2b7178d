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
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/inkline-labs/quill/database/models"
	"github.com/inkline-labs/quill/database/plugin/metadata"
	"github.com/inkline-labs/quill/event"
)

const (
	// Candidates scoring above this are surfaced as near-duplicates
	SimilarityThreshold = 0.80

	// Matches younger than the recency window score a small bonus, as do
	// matches against the submitting contributor's own prior content
	recencyWindow        = 30 * 24 * time.Hour
	recencyBonus         = 0.05
	sameContributorBonus = 0.05
)

const (
	DuplicateEventType  event.EventType = "fingerprint.duplicate"
	RegisteredEventType event.EventType = "fingerprint.registered"
)

// DuplicateEvent is the data payload for duplicate detection events
type DuplicateEvent struct {
	SubmissionID        string
	ContributorID       string
	MatchedSubmissionID string
	Similarity          float64
	Exact               bool
}

// RegisteredEvent is the data payload for fingerprint registration events
type RegisteredEvent struct {
	SubmissionID  string
	ContributorID string
}

// Verdict is the answer to a duplicate query
type Verdict struct {
	MatchedSubmissionID  string
	MatchedContributorID string
	Similarity           float64
	IsExact              bool
	IsSimilar            bool
}

// DuplicateContentError is returned when registration finds the content
// already fingerprinted, including when a concurrent registration of the
// same content won the race
type DuplicateContentError struct {
	MatchedSubmissionID string
	Similarity          float64
	Exact               bool
}

func (e DuplicateContentError) Error() string {
	if e.Exact {
		return fmt.Sprintf(
			"duplicate content: exact match of submission %s",
			e.MatchedSubmissionID,
		)
	}
	return fmt.Sprintf(
		"duplicate content: %.2f similar to submission %s",
		e.Similarity,
		e.MatchedSubmissionID,
	)
}

// Store computes and persists content fingerprints and answers duplicate
// queries. Checks run concurrently against the metadata store, while
// registrations are serialized by a writer lock with the fingerprint
// table's unique constraint as the final arbiter.
type Store struct {
	logger        *slog.Logger
	metadata      metadata.MetadataStore
	eventBus      *event.EventBus
	similarity    Similarity
	threshold     float64
	registerMutex sync.Mutex
}

func NewStore(
	logger *slog.Logger,
	metadataStore metadata.MetadataStore,
	eventBus *event.EventBus,
	similarity Similarity,
	threshold float64,
) *Store {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if similarity == nil {
		similarity = LevenshteinRatio{}
	}
	if threshold <= 0 {
		threshold = SimilarityThreshold
	}
	return &Store{
		logger:     logger,
		metadata:   metadataStore,
		eventBus:   eventBus,
		similarity: similarity,
		threshold:  threshold,
	}
}

// ExactHash returns the digest of the raw content bytes
func ExactHash(content string) []byte {
	ret := sha256.Sum256([]byte(content))
	return ret[:]
}

// SemanticHash returns the digest of the normalized content
func SemanticHash(content string) []byte {
	ret := sha256.Sum256([]byte(Normalize(content)))
	return ret[:]
}

// Check answers whether content duplicates previously accepted content.
// An exact hash match scores 1.0. Otherwise candidates sharing the
// semantic hash are scored by the similarity function plus recency and
// same-contributor bonuses.
func (s *Store) Check(content string, contributorID string) (Verdict, error) {
	exactHash := ExactHash(content)
	existing, err := s.metadata.GetFingerprintByExactHash(exactHash, nil)
	if err != nil {
		return Verdict{}, err
	}
	if existing != nil {
		return Verdict{
			IsExact:              true,
			IsSimilar:            true,
			Similarity:           1.0,
			MatchedSubmissionID:  existing.SubmissionID,
			MatchedContributorID: existing.ContributorID,
		}, nil
	}

	normalized := Normalize(content)
	semanticHash := sha256.Sum256([]byte(normalized))
	candidates, err := s.metadata.GetFingerprintsBySemanticHash(
		semanticHash[:],
		nil,
	)
	if err != nil {
		return Verdict{}, err
	}

	var verdict Verdict
	for _, candidate := range candidates {
		score := s.similarity.Ratio(normalized, candidate.NormalizedText)
		if time.Since(candidate.CreatedAt) < recencyWindow {
			score += recencyBonus
		}
		if candidate.ContributorID == contributorID {
			score += sameContributorBonus
		}
		score = min(score, 1.0)
		if score > verdict.Similarity {
			verdict.Similarity = score
			verdict.MatchedSubmissionID = candidate.SubmissionID
			verdict.MatchedContributorID = candidate.ContributorID
		}
	}
	if verdict.Similarity > s.threshold {
		verdict.IsSimilar = true
	}
	return verdict, nil
}

// Register appends a fingerprint for accepted content. Concurrent
// registrations of identical content elect exactly one winner, and the
// losers get a DuplicateContentError naming the winning submission.
func (s *Store) Register(
	content string,
	submissionID string,
	contributorID string,
) error {
	s.registerMutex.Lock()
	defer s.registerMutex.Unlock()
	normalized := Normalize(content)
	exactHash := sha256.Sum256([]byte(content))
	semanticHash := sha256.Sum256([]byte(normalized))
	fp := &models.Fingerprint{
		ExactHash:      exactHash[:],
		SemanticHash:   semanticHash[:],
		NormalizedText: normalized,
		SubmissionID:   submissionID,
		ContributorID:  contributorID,
	}
	created, err := s.metadata.AddFingerprint(fp, nil)
	if err != nil {
		return err
	}
	if !created {
		// Lost the race or re-registration of known content
		winner, err := s.metadata.GetFingerprintByExactHash(exactHash[:], nil)
		if err != nil {
			return err
		}
		dupErr := DuplicateContentError{
			Similarity: 1.0,
			Exact:      true,
		}
		if winner != nil {
			if winner.SubmissionID == submissionID {
				// Same submission already registered, nothing to do
				return nil
			}
			dupErr.MatchedSubmissionID = winner.SubmissionID
		}
		if s.eventBus != nil {
			s.eventBus.Publish(
				DuplicateEventType,
				event.NewEvent(
					DuplicateEventType,
					DuplicateEvent{
						SubmissionID:        submissionID,
						ContributorID:       contributorID,
						MatchedSubmissionID: dupErr.MatchedSubmissionID,
						Similarity:          1.0,
						Exact:               true,
					},
				),
			)
		}
		return dupErr
	}
	s.logger.Debug(
		"registered fingerprint",
		"component", "fingerprint",
		"submission_id", submissionID,
		"contributor_id", contributorID,
	)
	if s.eventBus != nil {
		s.eventBus.Publish(
			RegisteredEventType,
			event.NewEvent(
				RegisteredEventType,
				RegisteredEvent{
					SubmissionID:  submissionID,
					ContributorID: contributorID,
				},
			),
		)
	}
	return nil
}

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

package attribution

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/inkline-labs/quill/database/models"
	"github.com/inkline-labs/quill/database/plugin/metadata"
	"github.com/inkline-labs/quill/event"
)

const MintedEventType event.EventType = "attribution.minted"

// MintedEvent is the data payload for attribution minting events
type MintedEvent struct {
	SubmissionID    string
	ContributorID   string
	AttributionHash string
}

// Chain mints and verifies tamper-evident attribution records. The
// attribution hash is the public, permanent identifier linking a
// contributor to their content at a point in time.
type Chain struct {
	logger   *slog.Logger
	metadata metadata.MetadataStore
	eventBus *event.EventBus
}

func NewChain(
	logger *slog.Logger,
	metadataStore metadata.MetadataStore,
	eventBus *event.EventBus,
) *Chain {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Chain{
		logger:   logger,
		metadata: metadataStore,
		eventBus: eventBus,
	}
}

// Hash derives the attribution hash over contributor, submission,
// content digest, and timestamp
func Hash(
	contributorID string,
	submissionID string,
	contentDigest []byte,
	timestamp time.Time,
) string {
	h := sha256.New()
	h.Write([]byte(contributorID))
	h.Write([]byte(submissionID))
	h.Write(contentDigest)
	var ts [8]byte
	binary.BigEndian.PutUint64(
		ts[:],
		uint64(timestamp.UTC().Unix()), //nolint:gosec
	)
	h.Write(ts[:])
	return hex.EncodeToString(h.Sum(nil))
}

// Mint creates the permanent attribution record for a submission.
// Minting is idempotent, so re-minting returns the original record
// unchanged.
func (c *Chain) Mint(
	contributorID string,
	submissionID string,
	contentDigest []byte,
	timestamp time.Time,
) (*models.AttributionRecord, error) {
	mintedAt := timestamp.UTC().Truncate(time.Second)
	record := &models.AttributionRecord{
		SubmissionID:    submissionID,
		ContributorID:   contributorID,
		AttributionHash: Hash(contributorID, submissionID, contentDigest, mintedAt),
		ContentDigest:   contentDigest,
		MintedAt:        mintedAt,
	}
	created, err := c.metadata.AddAttributionRecord(record, nil)
	if err != nil {
		return nil, err
	}
	if !created {
		// Already minted, return the original unchanged
		existing, err := c.metadata.GetAttributionRecord(submissionID, nil)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf(
				"attribution record for submission %s vanished after conflict",
				submissionID,
			)
		}
		return existing, nil
	}
	c.logger.Info(
		"minted attribution record",
		"component", "attribution",
		"submission_id", submissionID,
		"contributor_id", contributorID,
		"attribution_hash", record.AttributionHash,
	)
	if c.eventBus != nil {
		c.eventBus.Publish(
			MintedEventType,
			event.NewEvent(
				MintedEventType,
				MintedEvent{
					SubmissionID:    submissionID,
					ContributorID:   contributorID,
					AttributionHash: record.AttributionHash,
				},
			),
		)
	}
	return record, nil
}

// Verify recomputes the hash for the stored record behind
// attributionHash and compares it constant-time against the supplied
// content digest. False means the hash is unknown or the content does
// not match the minted record.
func (c *Chain) Verify(
	attributionHash string,
	contentDigest []byte,
) (bool, error) {
	record, err := c.metadata.GetAttributionRecordByHash(attributionHash, nil)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}
	expected := Hash(
		record.ContributorID,
		record.SubmissionID,
		contentDigest,
		record.MintedAt,
	)
	return subtle.ConstantTimeCompare(
		[]byte(expected),
		[]byte(attributionHash),
	) == 1, nil
}

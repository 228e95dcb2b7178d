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
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/inkline-labs/quill/attribution"
	"github.com/inkline-labs/quill/compliance"
	"github.com/inkline-labs/quill/database"
	"github.com/inkline-labs/quill/database/models"
	"github.com/inkline-labs/quill/event"
	"github.com/inkline-labs/quill/fingerprint"
	"github.com/inkline-labs/quill/revenue"
	"github.com/inkline-labs/quill/trust"
)

// ValidationError is returned when a submission is missing required
// fields and is rejected before scoring
type ValidationError struct {
	Field string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Submission is a unit of contributed content plus the metadata the
// upstream analysis pipeline attaches to it
type Submission struct {
	SubmissionID          string
	ContributorID         string
	Content               string
	CulturalContext       string
	QualityScore          float64
	PerformanceMultiplier float64
	Consent               compliance.ConsentRecord
	Attribution           compliance.AttributionFields
	Declarations          compliance.Declarations
	Audit                 compliance.AuditFields
	SubmittedAt           time.Time
}

// Receipt is the engine's full answer for one submission. Fields past
// the stage that rejected the submission are nil.
type Receipt struct {
	Verdict    fingerprint.Verdict
	Compliance *compliance.Result
	Share      *models.RevenueShare
	Record     *models.AttributionRecord
}

// Engine wires the fingerprint store, compliance validator, revenue
// ledger, and attribution chain into the submission pipeline
type Engine struct {
	config        Config
	db            *database.Database
	eventBus      *event.EventBus
	fingerprints  *fingerprint.Store
	validator     *compliance.Validator
	ledger        *revenue.Ledger
	chain         *attribution.Chain
	monitor       *trust.Monitor
	metrics       *engineMetrics
	shutdownFuncs []func(context.Context) error
	done          chan struct{}
	shutdownOnce  sync.Once
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	eventBus := event.NewEventBus(cfg.promRegistry, cfg.logger)
	db, err := database.New(
		database.Config{
			Logger:         cfg.logger,
			PromRegistry:   cfg.promRegistry,
			DataDir:        cfg.dataDir,
			MetadataPlugin: cfg.metadataPlugin,
			ContentPlugin:  cfg.contentPlugin,
		},
	)
	if err != nil {
		eventBus.Stop()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	e := &Engine{
		config:   cfg,
		db:       db,
		eventBus: eventBus,
		fingerprints: fingerprint.NewStore(
			cfg.logger,
			db.Metadata(),
			eventBus,
			nil,
			cfg.similarityThreshold,
		),
		validator: compliance.NewValidator(cfg.logger),
		ledger: revenue.NewLedger(
			cfg.logger,
			db.Metadata(),
			eventBus,
			cfg.baseRate,
		),
		chain: attribution.NewChain(cfg.logger, db.Metadata(), eventBus),
		monitor: trust.NewMonitor(
			cfg.logger,
			db.Metadata(),
			eventBus,
			cfg.banThreshold,
		),
		done: make(chan struct{}),
	}
	if cfg.promRegistry != nil {
		e.initMetrics(cfg.promRegistry)
	}
	return e, nil
}

// EventBus returns the engine's event bus for subscribing to pipeline
// events
func (e *Engine) EventBus() *event.EventBus {
	return e.eventBus
}

// Database returns the underlying database handle
func (e *Engine) Database() *database.Database {
	return e.db
}

// RegisterContributor creates a contributor row if one does not exist
func (e *Engine) RegisterContributor(contributor *models.Contributor) error {
	existing, err := e.db.Metadata().GetContributor(contributor.ID, nil)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("contributor already exists: %s", contributor.ID)
	}
	return e.db.Metadata().AddContributor(contributor, nil)
}

// VerifyAttribution checks a public attribution hash against content
func (e *Engine) VerifyAttribution(
	attributionHash string,
	content string,
) (bool, error) {
	digest := sha256.Sum256([]byte(content))
	return e.chain.Verify(attributionHash, digest[:])
}

func (s *Submission) validate() error {
	if s.SubmissionID == "" {
		return ValidationError{Field: "submission_id"}
	}
	if s.ContributorID == "" {
		return ValidationError{Field: "contributor_id"}
	}
	if s.Content == "" {
		return ValidationError{Field: "content"}
	}
	if s.QualityScore < 0 || s.QualityScore > 1 {
		return ValidationError{Field: "quality_score"}
	}
	return nil
}

// Process runs one submission through the full pipeline: ban check,
// duplicate check, compliance scoring, content persistence, revenue
// posting, and attribution minting. Any stage may reject the submission,
// and later stages never run after a rejection.
func (e *Engine) Process(sub Submission) (*Receipt, error) {
	if err := sub.validate(); err != nil {
		e.countSubmission(outcomeInvalid)
		return nil, err
	}

	// Banned contributors short-circuit everything
	contributor, err := e.monitor.CheckContributor(sub.ContributorID)
	if err != nil {
		if errors.Is(err, trust.ErrContributorBanned) {
			e.countSubmission(outcomeBanned)
		} else {
			e.countSubmission(outcomeError)
		}
		return nil, err
	}

	ret := &Receipt{}

	// Duplicate detection
	verdict, err := e.fingerprints.Check(sub.Content, sub.ContributorID)
	if err != nil {
		e.countSubmission(outcomeError)
		return nil, err
	}
	ret.Verdict = verdict
	// A match against the submission's own fingerprint is a retry, not
	// a duplicate. Every store below is idempotent, so we fall through
	// and let the original rows win.
	if (verdict.IsExact || verdict.IsSimilar) &&
		verdict.MatchedSubmissionID != sub.SubmissionID {
		kind := trust.ViolationDuplicateContent
		if verdict.MatchedContributorID == sub.ContributorID {
			kind = trust.ViolationSelfPlagiarism
		}
		updated, err := e.monitor.RecordViolation(
			sub.ContributorID,
			kind,
			sub.SubmissionID,
		)
		if err != nil {
			e.countSubmission(outcomeError)
			return nil, err
		}
		e.countViolation(kind, updated.Banned)
		e.countSubmission(outcomeDuplicate)
		return ret, fingerprint.DuplicateContentError{
			MatchedSubmissionID: verdict.MatchedSubmissionID,
			Similarity:          verdict.Similarity,
			Exact:               verdict.IsExact,
		}
	}

	// Compliance scoring
	result := e.validator.Validate(compliance.Input{
		Content:      sub.Content,
		Consent:      sub.Consent,
		Attribution:  sub.Attribution,
		Declarations: sub.Declarations,
		Audit:        sub.Audit,
	})
	ret.Compliance = &result
	e.countCertification(result.Certification)
	if err := e.storeComplianceResult(sub, result); err != nil {
		e.countSubmission(outcomeError)
		return nil, err
	}
	if result.Certification == compliance.CertificationRejected {
		e.countSubmission(outcomeRejected)
		return ret, revenue.CertificationRejectedError{
			Score:    result.TotalScore,
			Failures: result.Failures,
		}
	}

	// Persist accepted content and its fingerprint
	digest := sha256.Sum256([]byte(sub.Content))
	if err := e.db.Content().PutContent(digest[:], []byte(sub.Content)); err != nil {
		e.countSubmission(outcomeError)
		return nil, err
	}
	if err := e.fingerprints.Register(
		sub.Content,
		sub.SubmissionID,
		sub.ContributorID,
	); err != nil {
		var dupErr fingerprint.DuplicateContentError
		if errors.As(err, &dupErr) {
			// Lost a registration race, treat as a late duplicate
			updated, vErr := e.monitor.RecordViolation(
				sub.ContributorID,
				trust.ViolationDuplicateContent,
				sub.SubmissionID,
			)
			if vErr != nil {
				e.countSubmission(outcomeError)
				return nil, vErr
			}
			e.countViolation(trust.ViolationDuplicateContent, updated.Banned)
			e.countSubmission(outcomeDuplicate)
			return ret, dupErr
		}
		e.countSubmission(outcomeError)
		return nil, err
	}

	// Revenue share
	share, err := e.ledger.PostShare(revenue.ShareRequest{
		Contributor:           contributor,
		SubmissionID:          sub.SubmissionID,
		Content:               sub.Content,
		CulturalContext:       sub.CulturalContext,
		Compliance:            result,
		QualityScore:          sub.QualityScore,
		PerformanceMultiplier: sub.PerformanceMultiplier,
	})
	if err != nil {
		e.countSubmission(outcomeError)
		return nil, err
	}
	ret.Share = share
	e.countSharePosted()

	// Attribution record
	mintedAt := sub.SubmittedAt
	if mintedAt.IsZero() {
		mintedAt = time.Now()
	}
	record, err := e.chain.Mint(
		sub.ContributorID,
		sub.SubmissionID,
		digest[:],
		mintedAt,
	)
	if err != nil {
		e.countSubmission(outcomeError)
		return nil, err
	}
	ret.Record = record

	e.countSubmission(outcomeAccepted)
	return ret, nil
}

func (e *Engine) storeComplianceResult(
	sub Submission,
	result compliance.Result,
) error {
	ruleScores, err := json.Marshal(result.RuleScores)
	if err != nil {
		return err
	}
	failures, err := json.Marshal(result.Failures)
	if err != nil {
		return err
	}
	warnings, err := json.Marshal(result.Warnings)
	if err != nil {
		return err
	}
	// Retries of the same submission keep the original verdict
	_, err = e.db.Metadata().AddComplianceResult(
		&models.ComplianceResult{
			SubmissionID:  sub.SubmissionID,
			ContributorID: sub.ContributorID,
			TotalScore:    result.TotalScore,
			Certification: result.Certification.String(),
			RuleScores:    ruleScores,
			Failures:      failures,
			Warnings:      warnings,
		},
		nil,
	)
	return err
}

// Run sets up tracing and blocks until Stop is called
func (e *Engine) Run() error {
	if e.config.tracing {
		if err := e.setupTracing(); err != nil {
			return err
		}
	}
	e.config.logger.Info(
		"engine running",
		"component", "engine",
		"data_dir", e.config.dataDir,
	)
	<-e.done
	return nil
}

// Stop gracefully shuts down the engine
func (e *Engine) Stop() error {
	var err error
	e.shutdownOnce.Do(func() {
		err = e.shutdown()
	})
	return err
}

func (e *Engine) shutdown() error {
	shutdownTimeout := 30 * time.Second
	if e.config.shutdownTimeout > 0 {
		shutdownTimeout = e.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	e.config.logger.Debug("starting graceful shutdown")

	// Stop delivering events before tearing down the stores
	if e.eventBus != nil {
		e.eventBus.Stop()
	}

	if e.db != nil {
		if closeErr := e.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
		}
	}

	// Call registered shutdown functions
	for _, fn := range e.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	e.shutdownFuncs = nil

	e.config.logger.Debug("graceful shutdown complete")
	close(e.done)
	return err
}

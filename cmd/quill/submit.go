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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/inkline-labs/quill"
	"github.com/inkline-labs/quill/compliance"
	"github.com/inkline-labs/quill/fingerprint"
	"github.com/inkline-labs/quill/internal/config"
	"github.com/inkline-labs/quill/revenue"
	"github.com/inkline-labs/quill/trust"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// submissionFile is the on-disk YAML shape of a submission
type submissionFile struct {
	SubmissionID          string          `yaml:"submissionId"`
	ContributorID         string          `yaml:"contributorId"`
	Content               string          `yaml:"content"`
	CulturalContext       string          `yaml:"culturalContext"`
	QualityScore          float64         `yaml:"qualityScore"`
	PerformanceMultiplier float64         `yaml:"performanceMultiplier"`
	Consent               map[string]bool `yaml:"consent"`
	ConsentTimestamp      time.Time       `yaml:"consentTimestamp"`
	Attribution           struct {
		ContributorName  string    `yaml:"contributorName"`
		Culture          string    `yaml:"culture"`
		Location         string    `yaml:"location"`
		ContributionDate time.Time `yaml:"contributionDate"`
	} `yaml:"attribution"`
	Declarations struct {
		OriginalWork          bool `yaml:"originalWork"`
		ContainsCopyrighted   bool `yaml:"containsCopyrighted"`
		IdentityVerified      bool `yaml:"identityVerified"`
		UsageDisclosed        bool `yaml:"usageDisclosed"`
		RevenueModelExplained bool `yaml:"revenueModelExplained"`
		RetentionPolicyShared bool `yaml:"retentionPolicyShared"`
		SharingDisclosed      bool `yaml:"sharingDisclosed"`
		GDPRConsent           bool `yaml:"gdprConsent"`
		CopyrightCleared      bool `yaml:"copyrightCleared"`
		TermsAccepted         bool `yaml:"termsAccepted"`
		ContributorAge        int  `yaml:"contributorAge"`
	} `yaml:"declarations"`
	Audit struct {
		IP        string `yaml:"ip"`
		UserAgent string `yaml:"userAgent"`
	} `yaml:"audit"`
	SubmittedAt time.Time `yaml:"submittedAt"`
}

func (s *submissionFile) toSubmission() quill.Submission {
	submittedAt := s.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}
	consentTimestamp := s.ConsentTimestamp
	if consentTimestamp.IsZero() {
		consentTimestamp = submittedAt
	}
	return quill.Submission{
		SubmissionID:          s.SubmissionID,
		ContributorID:         s.ContributorID,
		Content:               s.Content,
		CulturalContext:       s.CulturalContext,
		QualityScore:          s.QualityScore,
		PerformanceMultiplier: s.PerformanceMultiplier,
		Consent: compliance.ConsentRecord{
			Flags:     s.Consent,
			Timestamp: consentTimestamp,
		},
		Attribution: compliance.AttributionFields{
			ContributorID:    s.ContributorID,
			ContributorName:  s.Attribution.ContributorName,
			Culture:          s.Attribution.Culture,
			Location:         s.Attribution.Location,
			ContributionDate: s.Attribution.ContributionDate,
		},
		Declarations: compliance.Declarations{
			OriginalWork:          s.Declarations.OriginalWork,
			ContainsCopyrighted:   s.Declarations.ContainsCopyrighted,
			IdentityVerified:      s.Declarations.IdentityVerified,
			UsageDisclosed:        s.Declarations.UsageDisclosed,
			RevenueModelExplained: s.Declarations.RevenueModelExplained,
			RetentionPolicyShared: s.Declarations.RetentionPolicyShared,
			SharingDisclosed:      s.Declarations.SharingDisclosed,
			GDPRConsent:           s.Declarations.GDPRConsent,
			CopyrightCleared:      s.Declarations.CopyrightCleared,
			TermsAccepted:         s.Declarations.TermsAccepted,
			ContributorAge:        s.Declarations.ContributorAge,
		},
		Audit: compliance.AuditFields{
			IP:               s.Audit.IP,
			UserAgent:        s.Audit.UserAgent,
			SubmittedAt:      submittedAt,
			ConsentTimestamp: consentTimestamp,
		},
		SubmittedAt: submittedAt,
	}
}

func submitRun(_ *cobra.Command, args []string, cfg *config.Config) {
	logger := commonRun()

	rawSubmission, err := os.ReadFile(args[0])
	if err != nil {
		slog.Error(fmt.Sprintf("failed to read submission file: %s", err))
		os.Exit(1)
	}
	var subFile submissionFile
	if err := yaml.Unmarshal(rawSubmission, &subFile); err != nil {
		slog.Error(fmt.Sprintf("failed to parse submission file: %s", err))
		os.Exit(1)
	}

	engine, err := buildEngine(cfg, logger, nil)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	stopEngine := func() {
		if err := engine.Stop(); err != nil {
			logger.Error("shutdown errors occurred", "error", err)
		}
	}

	receipt, err := engine.Process(subFile.toSubmission())
	if err != nil {
		var dupErr fingerprint.DuplicateContentError
		var rejErr revenue.CertificationRejectedError
		switch {
		case errors.As(err, &dupErr):
			slog.Error(fmt.Sprintf("submission rejected: %s", dupErr))
		case errors.As(err, &rejErr):
			slog.Error(fmt.Sprintf("submission rejected: %s", rejErr))
		case errors.Is(err, trust.ErrContributorBanned):
			slog.Error("submission rejected: contributor is banned")
		default:
			slog.Error(err.Error())
		}
		printReceipt(receipt)
		stopEngine()
		os.Exit(1)
	}
	printReceipt(receipt)
	stopEngine()
}

func printReceipt(receipt *quill.Receipt) {
	if receipt == nil {
		return
	}
	out, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		slog.Error(fmt.Sprintf("failed to render receipt: %s", err))
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func submitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <submission-file>",
		Short: "Process a single submission from a YAML file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			submitRun(cmd, args, cfg)
		},
	}
	return cmd
}

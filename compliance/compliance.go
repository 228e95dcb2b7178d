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

package compliance

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// Certification is the final verdict on a submission
type Certification int

const (
	CertificationRejected Certification = iota
	CertificationConditionalApproval
	CertificationApproved
)

func (c Certification) String() string {
	switch c {
	case CertificationApproved:
		return "approved"
	case CertificationConditionalApproval:
		return "conditional_approval"
	case CertificationRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

func (c Certification) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Certification) UnmarshalJSON(data []byte) error {
	var tmp string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	switch tmp {
	case "approved":
		*c = CertificationApproved
	case "conditional_approval":
		*c = CertificationConditionalApproval
	case "rejected":
		*c = CertificationRejected
	default:
		return fmt.Errorf("unknown certification: %s", tmp)
	}
	return nil
}

// RequiredConsentFlags must all be present and true for the consent rule
// to pass
var RequiredConsentFlags = []string{
	"data_usage",
	"revenue_sharing",
	"attribution",
	"cultural_acknowledgment",
}

// ConsentRecord carries the contributor's consent flags and when they
// were given
type ConsentRecord struct {
	Flags     map[string]bool
	Timestamp time.Time
}

// AttributionFields identify who contributed the content and where it
// comes from
type AttributionFields struct {
	ContributorID    string
	ContributorName  string
	Culture          string
	Location         string
	ContributionDate time.Time
}

// Declarations are the contributor's own statements about the content
type Declarations struct {
	OriginalWork          bool
	ContainsCopyrighted   bool
	IdentityVerified      bool
	UsageDisclosed        bool
	RevenueModelExplained bool
	RetentionPolicyShared bool
	SharingDisclosed      bool
	GDPRConsent           bool
	CopyrightCleared      bool
	TermsAccepted         bool
	ContributorAge        int
}

// AuditFields is the request-level audit trail for a submission
type AuditFields struct {
	IP               string
	UserAgent        string
	SubmittedAt      time.Time
	ConsentTimestamp time.Time
}

// Input is everything the validator needs to score a submission
type Input struct {
	Content      string
	Consent      ConsentRecord
	Attribution  AttributionFields
	Declarations Declarations
	Audit        AuditFields
}

// RuleScore is one rule's evaluation within a result
type RuleScore struct {
	Status RuleStatus `json:"status"`
	Weight float64    `json:"weight"`
}

// Result is the full scored verdict for a submission
type Result struct {
	RuleScores           map[string]RuleScore `json:"rule_scores"`
	Failures             []string             `json:"failures"`
	Warnings             []string             `json:"warnings"`
	AttributionSignature string               `json:"attribution_signature,omitempty"`
	TotalScore           float64              `json:"total_score"`
	Certification        Certification        `json:"certification"`
}

var (
	// Sensitive-term heuristics for the dignity rule
	sensitiveTerms = []string{
		"abuse",
		"assault",
		"suicide",
		"trauma",
		"violence",
	}
	emailPattern = regexp.MustCompile(
		`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`,
	)
	phonePattern = regexp.MustCompile(
		`\+?\d[\d\s\-().]{7,}\d`,
	)
)

// Validator scores submissions against the weighted rule set. It holds no
// mutable state, so a single instance is safe for concurrent use.
type Validator struct {
	logger *slog.Logger
}

func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Validator{
		logger: logger,
	}
}

// Validate runs all seven rule categories over a submission and returns
// the scored result. Passed rules earn full weight, warnings half, and
// failures nothing. Certification is driven purely by the numeric score:
// 100 is approved, 80 and above is conditional, anything less is
// rejected.
func (v *Validator) Validate(input Input) Result {
	ret := Result{
		RuleScores: make(map[string]RuleScore, len(RuleCategories)),
	}
	for _, category := range RuleCategories {
		var status RuleStatus
		var notes []string
		switch category {
		case RuleConsent:
			status, notes = v.checkConsent(input.Consent)
		case RuleAttribution:
			status, notes = v.checkAttribution(input.Attribution)
			if status == StatusPassed {
				ret.AttributionSignature = attributionSignature(
					input.Attribution,
				)
			}
		case RuleAuthenticity:
			status, notes = v.checkAuthenticity(input.Declarations)
		case RuleDignity:
			status, notes = v.checkDignity(input.Content)
		case RuleTransparency:
			status, notes = v.checkTransparency(input.Declarations)
		case RuleLegal:
			status, notes = v.checkLegal(input.Declarations)
		case RuleAudit:
			status, notes = v.checkAudit(input.Audit)
		}
		weight := category.Weight()
		ret.RuleScores[category.String()] = RuleScore{
			Status: status,
			Weight: weight,
		}
		ret.TotalScore += contribution(status, weight)
		switch status {
		case StatusFailed:
			ret.Failures = append(ret.Failures, notes...)
		case StatusWarning:
			ret.Warnings = append(ret.Warnings, notes...)
		}
	}
	switch {
	case ret.TotalScore == 100:
		ret.Certification = CertificationApproved
	case ret.TotalScore >= 80:
		ret.Certification = CertificationConditionalApproval
	default:
		ret.Certification = CertificationRejected
	}
	v.logger.Debug(
		"scored submission",
		"component", "compliance",
		"total_score", ret.TotalScore,
		"certification", ret.Certification.String(),
	)
	return ret
}

func (v *Validator) checkConsent(consent ConsentRecord) (RuleStatus, []string) {
	var notes []string
	for _, flag := range RequiredConsentFlags {
		if !consent.Flags[flag] {
			notes = append(
				notes,
				fmt.Sprintf("consent: missing required flag %q", flag),
			)
		}
	}
	if len(notes) > 0 {
		return StatusFailed, notes
	}
	if consent.Timestamp.IsZero() {
		return StatusFailed, []string{"consent: missing consent timestamp"}
	}
	return StatusPassed, nil
}

func (v *Validator) checkAttribution(
	attribution AttributionFields,
) (RuleStatus, []string) {
	var notes []string
	if attribution.ContributorID == "" {
		notes = append(notes, "attribution: missing contributor id")
	}
	if attribution.ContributorName == "" {
		notes = append(notes, "attribution: missing contributor name")
	}
	if attribution.Culture == "" {
		notes = append(notes, "attribution: missing culture")
	}
	if attribution.Location == "" {
		notes = append(notes, "attribution: missing location")
	}
	if attribution.ContributionDate.IsZero() {
		notes = append(notes, "attribution: missing contribution date")
	}
	if len(notes) > 0 {
		return StatusFailed, notes
	}
	return StatusPassed, nil
}

func (v *Validator) checkAuthenticity(
	declarations Declarations,
) (RuleStatus, []string) {
	var notes []string
	if !declarations.OriginalWork {
		notes = append(notes, "authenticity: content declared non-original")
	}
	if declarations.ContainsCopyrighted {
		notes = append(
			notes,
			"authenticity: content declared to contain copyrighted material",
		)
	}
	if len(notes) > 0 {
		return StatusFailed, notes
	}
	if !declarations.IdentityVerified {
		return StatusWarning, []string{
			"authenticity: contributor identity unverified",
		}
	}
	return StatusPassed, nil
}

func (v *Validator) checkDignity(content string) (RuleStatus, []string) {
	var notes []string
	lower := strings.ToLower(content)
	for _, term := range sensitiveTerms {
		if strings.Contains(lower, term) {
			notes = append(
				notes,
				fmt.Sprintf("dignity: content mentions sensitive term %q", term),
			)
		}
	}
	if emailPattern.MatchString(content) || phonePattern.MatchString(content) {
		notes = append(notes, "dignity: content embeds contact information")
	}
	if len(notes) > 0 {
		return StatusWarning, notes
	}
	return StatusPassed, nil
}

func (v *Validator) checkTransparency(
	declarations Declarations,
) (RuleStatus, []string) {
	var notes []string
	if !declarations.UsageDisclosed {
		notes = append(notes, "transparency: usage not disclosed")
	}
	if !declarations.RevenueModelExplained {
		notes = append(notes, "transparency: revenue model not explained")
	}
	if !declarations.RetentionPolicyShared {
		notes = append(notes, "transparency: retention policy not shared")
	}
	if !declarations.SharingDisclosed {
		notes = append(notes, "transparency: sharing not disclosed")
	}
	if len(notes) > 0 {
		return StatusWarning, notes
	}
	return StatusPassed, nil
}

func (v *Validator) checkLegal(
	declarations Declarations,
) (RuleStatus, []string) {
	var notes []string
	if declarations.ContributorAge < 18 {
		notes = append(notes, "legal: contributor under 18")
	}
	if !declarations.GDPRConsent {
		notes = append(notes, "legal: missing GDPR consent")
	}
	if !declarations.CopyrightCleared {
		notes = append(notes, "legal: copyright not cleared")
	}
	if !declarations.TermsAccepted {
		notes = append(notes, "legal: terms not accepted")
	}
	if len(notes) > 0 {
		return StatusFailed, notes
	}
	return StatusPassed, nil
}

func (v *Validator) checkAudit(audit AuditFields) (RuleStatus, []string) {
	var notes []string
	if audit.SubmittedAt.IsZero() {
		notes = append(notes, "audit: missing submission timestamp")
	}
	if audit.IP == "" {
		notes = append(notes, "audit: missing IP address")
	}
	if audit.UserAgent == "" {
		notes = append(notes, "audit: missing user agent")
	}
	if audit.ConsentTimestamp.IsZero() {
		notes = append(notes, "audit: missing consent timestamp")
	}
	if len(notes) > 0 {
		return StatusWarning, notes
	}
	return StatusPassed, nil
}

// attributionSignature derives a stable signature binding the contributor
// to the contribution date
func attributionSignature(attribution AttributionFields) string {
	payload := fmt.Sprintf(
		"%s|%d",
		attribution.ContributorID,
		attribution.ContributionDate.UTC().Unix(),
	)
	digest := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(digest[:])
}

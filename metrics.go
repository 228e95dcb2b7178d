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
	"github.com/inkline-labs/quill/compliance"
	"github.com/inkline-labs/quill/trust"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAccepted  = "accepted"
	outcomeDuplicate = "duplicate"
	outcomeRejected  = "rejected"
	outcomeBanned    = "banned"
	outcomeInvalid   = "invalid"
	outcomeError     = "error"
)

type engineMetrics struct {
	submissionsTotal    *prometheus.CounterVec
	certificationsTotal *prometheus.CounterVec
	violationsTotal     *prometheus.CounterVec
	sharesPostedTotal   prometheus.Counter
	bansTotal           prometheus.Counter
}

func (e *Engine) initMetrics(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	e.metrics = &engineMetrics{
		submissionsTotal: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_submissions_total",
				Help: "submissions processed by pipeline outcome",
			},
			[]string{"outcome"},
		),
		certificationsTotal: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_certifications_total",
				Help: "compliance verdicts by certification level",
			},
			[]string{"certification"},
		),
		violationsTotal: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_violations_total",
				Help: "recorded violations by kind",
			},
			[]string{"kind"},
		),
		sharesPostedTotal: promautoFactory.NewCounter(
			prometheus.CounterOpts{
				Name: "quill_revenue_shares_posted_total",
				Help: "revenue shares posted",
			},
		),
		bansTotal: promautoFactory.NewCounter(
			prometheus.CounterOpts{
				Name: "quill_contributor_bans_total",
				Help: "contributors banned by suspicion accrual",
			},
		),
	}
}

func (e *Engine) countSubmission(outcome string) {
	if e.metrics == nil {
		return
	}
	e.metrics.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (e *Engine) countCertification(certification compliance.Certification) {
	if e.metrics == nil {
		return
	}
	e.metrics.certificationsTotal.
		WithLabelValues(certification.String()).
		Inc()
}

func (e *Engine) countViolation(kind trust.ViolationKind, banned bool) {
	if e.metrics == nil {
		return
	}
	e.metrics.violationsTotal.WithLabelValues(kind.String()).Inc()
	if banned {
		e.metrics.bansTotal.Inc()
	}
}

func (e *Engine) countSharePosted() {
	if e.metrics == nil {
		return
	}
	e.metrics.sharesPostedTotal.Inc()
}

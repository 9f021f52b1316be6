// Package observability wires the engine's lifecycle hooks into
// Prometheus collectors.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// Metrics holds the engine collectors.
type Metrics struct {
	QuestionsShown     *prometheus.CounterVec
	PingsCompleted     *prometheus.CounterVec
	FollowupsScheduled *prometheus.CounterVec
	UploadTriggers     prometheus.Counter
	AnswersPerPing     prometheus.Histogram
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QuestionsShown: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wellping_questions_shown_total",
				Help: "Interactive questions presented to respondents",
			},
			[]string{"type"},
		),
		PingsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wellping_pings_completed_total",
				Help: "Pings that reached the terminal marker",
			},
			[]string{"stream"},
		),
		FollowupsScheduled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wellping_followup_entries_scheduled_total",
				Help: "Deferred stream-start entries enqueued",
			},
			[]string{"stream"},
		),
		UploadTriggers: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wellping_upload_triggers_total",
				Help: "Opportunistic upload triggers fired",
			},
		),
		AnswersPerPing: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wellping_answers_per_ping",
				Help:    "Answers recorded per completed ping",
				Buckets: prometheus.LinearBuckets(0, 5, 10),
			},
		),
	}
	reg.MustRegister(
		m.QuestionsShown,
		m.PingsCompleted,
		m.FollowupsScheduled,
		m.UploadTriggers,
		m.AnswersPerPing,
	)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestionEnter: func(ctx context.Context, e *domain.QuestionEvent) {
			m.QuestionsShown.WithLabelValues(string(e.Type)).Inc()
		},
		OnPingComplete: func(ctx context.Context, e *domain.PingEvent) {
			m.PingsCompleted.WithLabelValues(e.StreamName).Inc()
			m.AnswersPerPing.Observe(float64(e.Answers))
		},
		OnFollowupScheduled: func(ctx context.Context, e *domain.FollowupEvent) {
			m.FollowupsScheduled.WithLabelValues(e.StreamName).Add(float64(e.Entries))
		},
		OnUploadTriggered: func(ctx context.Context, e *domain.PingEvent) {
			m.UploadTriggers.Inc()
		},
	}
}

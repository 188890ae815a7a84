package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for questionnaire sessions. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	// Answers accepted, by step
	StepAnswers *prometheus.CounterVec

	// Disqualifications, by the step that disqualified
	Disqualifications *prometheus.CounterVec

	// Submission attempts, by result ("success", "failure")
	Submissions *prometheus.CounterVec

	SubmitLatency  prometheus.Histogram
	ActiveSessions prometheus.Gauge
}

// New registers all questionnaire metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StepAnswers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eligibility_step_answers_total",
			Help: "Answers accepted by questionnaire step",
		}, []string{"step"}),

		Disqualifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eligibility_disqualifications_total",
			Help: "Sessions disqualified, by the step that disqualified them",
		}, []string{"step"}),

		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eligibility_submissions_total",
			Help: "Submission attempts by result",
		}, []string{"result"}),

		SubmitLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eligibility_submission_duration_seconds",
			Help:    "Duration of the outbound submission call",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "eligibility_sessions",
			Help: "Questionnaire sessions currently tracked",
		}),
	}
}

// IncrementAnswer records an accepted answer at step.
func (m *Metrics) IncrementAnswer(step string) {
	if m != nil {
		m.StepAnswers.WithLabelValues(step).Inc()
	}
}

// IncrementDisqualified records a disqualification at step.
func (m *Metrics) IncrementDisqualified(step string) {
	if m != nil {
		m.Disqualifications.WithLabelValues(step).Inc()
	}
}

// ObserveSubmission records the result and duration of one submission.
func (m *Metrics) ObserveSubmission(err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.Submissions.WithLabelValues(result).Inc()
	m.SubmitLatency.Observe(d.Seconds())
}

// SetActiveSessions records the number of tracked sessions.
func (m *Metrics) SetActiveSessions(n int) {
	if m != nil {
		m.ActiveSessions.Set(float64(n))
	}
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	registry *prometheus.Registry

	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram

	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	RevisionsTotal       *prometheus.CounterVec
	JudgeRejectionsTotal prometheus.Counter
	JudgeOverall         prometheus.Histogram
}

// New регистрирует метрики в переданном реестре.
// Глобальный реестр не используем: CLI пишет метрики в textfile, тесты создают свой реестр.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bedtime_stories_runs_total",
				Help: "Total number of story runs by outcome",
			},
			[]string{"outcome"},
		),
		RunDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bedtime_stories_run_duration_seconds",
				Help:    "Story run duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		),

		LLMRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bedtime_stories_llm_requests_total",
				Help: "Total number of LLM API requests",
			},
			[]string{"provider", "purpose", "status"},
		),
		LLMRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bedtime_stories_llm_request_duration_seconds",
				Help:    "LLM request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider", "purpose"},
		),

		RevisionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bedtime_stories_revisions_total",
				Help: "Total number of revise calls by reason",
			},
			[]string{"reason"},
		),
		JudgeRejectionsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bedtime_stories_judge_rejections_total",
				Help: "Judge responses rejected by the JSON contract",
			},
		),
		JudgeOverall: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bedtime_stories_judge_overall_score",
				Help:    "Overall score reported by the judge",
				Buckets: []float64{1, 2, 3, 3.5, 4, 4.2, 4.5, 5},
			},
		),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordRun(outcome string, duration time.Duration) {
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordLLMRequest(provider, purpose, status string, duration time.Duration) {
	m.LLMRequestsTotal.WithLabelValues(provider, purpose, status).Inc()
	m.LLMRequestDuration.WithLabelValues(provider, purpose).Observe(duration.Seconds())
}

func (m *Metrics) RecordRevision(reason string) {
	m.RevisionsTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordJudgeRejection() {
	m.JudgeRejectionsTotal.Inc()
}

func (m *Metrics) RecordJudgeScore(overall float64) {
	m.JudgeOverall.Observe(overall)
}

// WriteTextfile сохраняет снимок метрик для textfile-коллектора node_exporter
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

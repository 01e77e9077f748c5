package services

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// PipelineMetrics tracks extraction tiers, enrichment outcomes and domain probes
type PipelineMetrics struct {
	tierAttempts       *prometheus.CounterVec
	tierDuration       *prometheus.HistogramVec
	ingestedEvents     *prometheus.CounterVec
	enrichmentOutcomes *prometheus.CounterVec
	domainProbes       *prometheus.CounterVec

	mu      sync.Mutex
	summary map[string]*tierSummary
}

// tierSummary mirrors the counters in-process so a run can log its own totals
type tierSummary struct {
	Attempts  int64
	Successes int64
}

// NewPipelineMetrics creates the collectors and registers them on reg.
// A nil registerer leaves them unregistered.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		tierAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leads_extraction_tier_attempts_total",
			Help: "Extraction tier attempts by platform, tier and outcome",
		}, []string{"platform", "tier", "outcome"}),
		tierDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "leads_extraction_tier_duration_seconds",
			Help:    "Time spent in each extraction tier",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"platform", "tier"}),
		ingestedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leads_ingested_links_total",
			Help: "Links processed by ingestion by platform and result",
		}, []string{"platform", "result"}),
		enrichmentOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leads_enrichment_outcomes_total",
			Help: "Lead enrichment runs by final search status",
		}, []string{"status"}),
		domainProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leads_domain_probes_total",
			Help: "Domain candidate probes by outcome",
		}, []string{"outcome"}),
		summary: make(map[string]*tierSummary),
	}

	if reg != nil {
		reg.MustRegister(m.tierAttempts, m.tierDuration, m.ingestedEvents, m.enrichmentOutcomes, m.domainProbes)
	}
	return m
}

// ObserveTier records one tier attempt of an extraction chain
func (m *PipelineMetrics) ObserveTier(platform models.Platform, tier string, success bool, d time.Duration) {
	if m == nil {
		return
	}
	m.tierAttempts.WithLabelValues(string(platform), tier, outcomeLabel(success)).Inc()
	m.tierDuration.WithLabelValues(string(platform), tier).Observe(d.Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	key := string(platform) + "/" + tier
	s, ok := m.summary[key]
	if !ok {
		s = &tierSummary{}
		m.summary[key] = s
	}
	s.Attempts++
	if success {
		s.Successes++
	}
}

// ObserveIngest records the result of one ingested link (created, duplicate, error, unsupported, unavailable)
func (m *PipelineMetrics) ObserveIngest(platform models.Platform, result string) {
	if m == nil {
		return
	}
	m.ingestedEvents.WithLabelValues(string(platform), result).Inc()
}

// ObserveEnrichment records the status a lead ended in
func (m *PipelineMetrics) ObserveEnrichment(status models.LeadStatus) {
	if m == nil {
		return
	}
	m.enrichmentOutcomes.WithLabelValues(string(status)).Inc()
}

// ObserveProbe records one domain HEAD probe
func (m *PipelineMetrics) ObserveProbe(success bool) {
	if m == nil {
		return
	}
	m.domainProbes.WithLabelValues(outcomeLabel(success)).Inc()
}

// TierSuccessRate returns the success percentage for a platform tier, 0 when unseen
func (m *PipelineMetrics) TierSuccessRate(platform models.Platform, tier string) float64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.summary[string(platform)+"/"+tier]
	if !ok || s.Attempts == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Attempts) * 100
}

// LogSummary writes the per-tier totals collected so far
func (m *PipelineMetrics) LogSummary(logger *zap.Logger) {
	if m == nil || logger == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, s := range m.summary {
		rate := 0.0
		if s.Attempts > 0 {
			rate = float64(s.Successes) / float64(s.Attempts) * 100
		}
		logger.Info("Extraction tier summary",
			zap.String("tier", key),
			zap.Int64("attempts", s.Attempts),
			zap.Int64("successes", s.Successes),
			zap.Float64("success_rate", rate))
	}
}

func outcomeLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

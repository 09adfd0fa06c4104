package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	batchPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ipaq_service",
		Subsystem: "persistence",
		Name:      "last_batch_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent survey batch persisted to Postgres.",
	})

	subjectsScoredCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ipaq_service",
		Subsystem: "scoring",
		Name:      "subjects_scored_total",
		Help:      "Number of subjects run through the scoring pipeline.",
	})

	outlierCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ipaq_service",
		Subsystem: "scoring",
		Name:      "outlier_subjects_total",
		Help:      "Number of subjects discarded by the extreme-value rule.",
	})

	categoryCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ipaq_service",
		Subsystem: "scoring",
		Name:      "category_assignments_total",
		Help:      "Number of category assignments by tier.",
	}, []string{"category"})
)

func init() {
	prometheus.MustRegister(batchPersistGauge, subjectsScoredCounter, outlierCounter, categoryCounter)
}

// RecordBatchPersisted updates the persistence watermark gauge.
func RecordBatchPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	batchPersistGauge.Set(float64(ts.Unix()))
}

// RecordSubjectsScored counts scored subjects and their outcomes.
func RecordSubjectsScored(total, outliers int) {
	subjectsScoredCounter.Add(float64(total))
	outlierCounter.Add(float64(outliers))
}

// RecordCategoryAssignments counts category assignments per tier.
func RecordCategoryAssignments(low, moderate, high int) {
	categoryCounter.WithLabelValues("low").Add(float64(low))
	categoryCounter.WithLabelValues("moderate").Add(float64(moderate))
	categoryCounter.WithLabelValues("high").Add(float64(high))
}

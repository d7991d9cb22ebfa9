package sqlexec

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindQuery    = "query"
	kindQueryRow = "query_row"
)

var (
	statementDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tinywasm",
		Subsystem: "query",
		Name:      "statement_duration_seconds",
		Help:      "Time spent opening statement results.",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"kind"})

	statementErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tinywasm",
		Subsystem: "query",
		Name:      "statement_errors_total",
		Help:      "Number of statements that failed.",
	}, []string{"kind"})
)

var now = time.Now

func observe(kind string, start time.Time, err error) {
	statementDuration.WithLabelValues(kind).Observe(now().Sub(start).Seconds())
	if err != nil {
		statementErrors.WithLabelValues(kind).Inc()
	}
}

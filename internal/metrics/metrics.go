package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/famomatic/ytstream/internal/innertube"
)

const namespace = "ytstream"

// Recorder turns resolver events into Prometheus series.
type Recorder struct {
	attempts    *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	duration    prometheus.Histogram
}

func NewRecorder() *Recorder {
	return &Recorder{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "persona_attempts_total", Help: "Player queries per persona and outcome"},
			[]string{"client", "outcome"},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "resolutions_total", Help: "Finished resolutions by result"},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Wall time of one resolution",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
}

// Register adds the collectors to reg. Registering the same Recorder twice
// is an error.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{r.attempts, r.resolutions, r.duration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Observe is an innertube.ExtractionEventHandler.
func (r *Recorder) Observe(ev innertube.ExtractionEvent) {
	switch ev.Stage {
	case "attempt":
		r.attempts.WithLabelValues(ev.Client, ev.Phase).Inc()
	case "resolve":
		r.resolutions.WithLabelValues(ev.Phase).Inc()
		r.duration.Observe(ev.Elapsed.Seconds())
	}
}

// Chain fans one event out to several handlers, skipping nils.
func Chain(handlers ...innertube.ExtractionEventHandler) innertube.ExtractionEventHandler {
	return func(ev innertube.ExtractionEvent) {
		for _, h := range handlers {
			if h != nil {
				h(ev)
			}
		}
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

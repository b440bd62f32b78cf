package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(generationJobsTotal, generationJobsInFlight, generationPollAttempts) }

var generationJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "generation_jobs_total",
		Help: "Generation jobs finished, labeled by kind and terminal status.",
	},
	[]string{"kind", "status"}, // status: 'completed', 'error'
)

var generationJobsInFlight = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "generation_jobs_in_flight",
		Help: "Generation jobs currently being watched.",
	},
)

var generationPollAttempts = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "generation_poll_attempts",
		Help:    "Status checks needed before a job reached a terminal state.",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
	},
)

func IncGenerationJob(kind, status string) {
	generationJobsTotal.WithLabelValues(norm(kind), norm(status)).Inc()
}

func JobWatchStarted()  { generationJobsInFlight.Inc() }
func JobWatchFinished() { generationJobsInFlight.Dec() }

func ObservePollAttempts(n int) {
	generationPollAttempts.Observe(float64(n))
}

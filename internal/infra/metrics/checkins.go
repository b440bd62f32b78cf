package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(checkinsCreatedTotal, checkinMoodScore) }

var checkinsCreatedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "checkins_created_total",
		Help: "Total number of check-ins submitted.",
	},
)

var checkinMoodScore = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "checkin_mood_score",
		Help:    "Distribution of submitted mood scores (1-10).",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	},
)

func ObserveCheckin(moodScore int) {
	checkinsCreatedTotal.Inc()
	checkinMoodScore.Observe(float64(moodScore))
}

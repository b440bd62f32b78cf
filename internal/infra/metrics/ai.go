package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(mentorRepliesTotal, aiTokensTotal, aiCallLatencyMs) }

var mentorRepliesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mentor_replies_total",
		Help: "Mentor text replies generated, labeled by success.",
	},
	[]string{"success"},
)

var aiTokensTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ai_tokens_total",
		Help: "Sum of tokens per model and direction (in/out).",
	},
	[]string{"model", "direction"},
)

var aiCallLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "ai_call_latency_ms",
		Help:    "AI call latency distribution in milliseconds.",
		Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
	},
	[]string{"model"},
)

func ObserveMentorReply(model string, tokensIn, tokensOut int, latencyMs int64, success bool) {
	mentorRepliesTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
	aiTokensTotal.WithLabelValues(norm(model), "in").Add(float64(tokensIn))
	aiTokensTotal.WithLabelValues(norm(model), "out").Add(float64(tokensOut))
	aiCallLatencyMs.WithLabelValues(norm(model)).Observe(float64(latencyMs))
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(mediaProviderRequests) }

var mediaProviderRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "media_provider_requests_total",
		Help: "Calls to the media provider API, labeled by operation and outcome.",
	},
	[]string{"op", "outcome"}, // op: create_video|create_avatar|create_voice|get_job|delete_job
)

func IncProviderRequest(op, outcome string) {
	mediaProviderRequests.WithLabelValues(norm(op), norm(outcome)).Inc()
}

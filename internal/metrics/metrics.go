package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OnlineConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pixelgram_online_conns",
		Help: "Current registered realtime connections.",
	})

	EventsDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pixelgram_events_delivered_total",
		Help: "Total events queued to a live connection.",
	}, []string{"event"})
	EventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pixelgram_events_dropped_total",
		Help: "Total events dropped because the target user was offline.",
	}, []string{"event"})
	EventsBackpressure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pixelgram_events_backpressure_total",
		Help: "Total events dropped because the outbound queue was full.",
	}, []string{"event"})
)

func Register() {
	prometheus.MustRegister(
		OnlineConns,
		EventsDelivered, EventsDropped, EventsBackpressure,
	)
}

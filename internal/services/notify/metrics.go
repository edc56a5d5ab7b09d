package notify

import "github.com/prometheus/client_golang/prometheus"

var deliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "storefront",
	Name:      "notifications_total",
	Help:      "Notification delivery attempts by kind, channel and result.",
}, []string{"kind", "channel", "result"})

func init() {
	prometheus.MustRegister(deliveries)
}

func observe(kind Kind, channel string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	deliveries.WithLabelValues(string(kind), channel, result).Inc()
}

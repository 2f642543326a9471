// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GatewayCalls counts calls to the generative gateway per operation.
	GatewayCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santachat_gateway_calls_total",
		Help: "Calls issued to the generative AI gateway.",
	}, []string{"op"})

	// GatewayFailures counts gateway calls that resolved to a fallback.
	GatewayFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santachat_gateway_failures_total",
		Help: "Gateway calls that failed and were degraded to a fallback.",
	}, []string{"op"})

	// ChatTurns counts user messages accepted by the chat controller.
	ChatTurns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santachat_chat_turns_total",
		Help: "User messages processed by the chat session controller.",
	})

	// WishesDetected counts wishes accepted into the session store.
	WishesDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santachat_wishes_detected_total",
		Help: "Wishes extracted from chat and submitted to the session store.",
	})
)

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

package dripper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drip request counters, served on the Prometheus endpoint when monitoring is enabled.
var (
	totalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faucet_requests_total",
		Help: "Total number of drip requests received.",
	})
	successfulRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faucet_requests_successful",
		Help: "Number of drip requests that resulted in a submitted transfer.",
	})
	rpcTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faucet_rpc_timeouts_total",
		Help: "Number of transfer submissions that exceeded the diagnostic timeout.",
	})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCCallsTotal tracks JSON-RPC calls per chain and method
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainpulse_rpc_calls_total",
			Help: "Total number of JSON-RPC calls",
		},
		[]string{"chain", "method"},
	)

	// RPCErrorsTotal tracks JSON-RPC errors per chain and method
	RPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainpulse_rpc_errors_total",
			Help: "Total number of JSON-RPC errors",
		},
		[]string{"chain", "method"},
	)

	// PriceCacheHits tracks price lookups served from cache
	PriceCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chainpulse_price_cache_hits_total",
			Help: "Price lookups served from the TTL cache",
		},
	)

	// PriceCacheMisses tracks price lookups that required an upstream fetch
	PriceCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chainpulse_price_cache_misses_total",
			Help: "Price lookups that triggered an upstream fetch",
		},
	)

	// EventsDecoded tracks decoded contract events per chain and kind
	EventsDecoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainpulse_events_decoded_total",
			Help: "Contract events decoded",
		},
		[]string{"chain", "kind"},
	)

	// RingEvictions tracks FIFO evictions from event ring buffers
	RingEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainpulse_ring_evictions_total",
			Help: "Events evicted from bounded ring buffers",
		},
		[]string{"chain"},
	)

	// WhaleAlerts tracks emitted whale alerts per chain and significance
	WhaleAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainpulse_whale_alerts_total",
			Help: "Whale alerts emitted",
		},
		[]string{"chain", "significance"},
	)

	// AlertsDispatched tracks alert deliveries per channel and outcome
	AlertsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainpulse_alerts_dispatched_total",
			Help: "Alert delivery attempts",
		},
		[]string{"channel", "outcome"},
	)

	// ActiveSubscriptions tracks live watch/monitor registrations per kind
	ActiveSubscriptions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chainpulse_active_subscriptions",
			Help: "Currently active watch and monitor subscriptions",
		},
		[]string{"kind"},
	)
)

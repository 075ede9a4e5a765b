// Package prom wires an observability.Observer to Prometheus metrics,
// grounded on the teacher's observability/prom + cmd/flowersec-tunnel
// registration pattern. The endpoint core never imports this package;
// only a host process that wants /metrics does.
package prom

import (
	"net/http"
	"time"

	"github.com/SiegeEngine/siege-net/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Observer implements observability.Observer by recording Prometheus
// counters, a gauge for the current clock window, and a histogram for
// handshake duration.
type Observer struct {
	packetsSent      *prometheus.CounterVec
	packetsReceived  *prometheus.CounterVec
	packetsStale     prometheus.Counter
	challengeFailed  prometheus.Counter
	clockDriftEvents prometheus.Counter
	clockWindowMS    prometheus.Gauge
	handshakeSeconds prometheus.Histogram
}

// NewRegistry returns a fresh Prometheus registry with the Go and process
// collectors attached, matching the teacher's prom.NewRegistry().
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	return reg
}

// NewObserver registers the endpoint metrics on reg and returns an Observer
// ready to pass to observability.Atomic.Set.
func NewObserver(reg *prometheus.Registry) *Observer {
	o := &Observer{
		packetsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siegenet",
			Name:      "packets_sent_total",
			Help:      "Packets sealed and returned for sending, by message kind.",
		}, []string{"kind"}),
		packetsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siegenet",
			Name:      "packets_received_total",
			Help:      "Packets opened and decoded, by message kind.",
		}, []string{"kind"}),
		packetsStale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "siegenet",
			Name:      "packets_stale_total",
			Help:      "Received packets whose sequence number was not strictly greater than the highest seen.",
		}),
		challengeFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "siegenet",
			Name:      "challenge_failed_total",
			Help:      "Ed25519 nonce-signature verifications that were rejected.",
		}),
		clockDriftEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "siegenet",
			Name:      "clock_drift_events_total",
			Help:      "Clock-sync samples disjoint from the current offset interval.",
		}),
		clockWindowMS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "siegenet",
			Name:      "clock_window_ms",
			Help:      "Width of the remote-clock offset interval after the last sample that established or narrowed it, in milliseconds; not updated when a drift sample replaces the interval.",
		}),
		handshakeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "siegenet",
			Name:      "handshake_duration_seconds",
			Help:      "Time spent in ComputeSessionKey deriving the session key.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(o.packetsSent, o.packetsReceived, o.packetsStale,
		o.challengeFailed, o.clockDriftEvents, o.clockWindowMS, o.handshakeSeconds)
	return o
}

func (o *Observer) PacketSent(kind string, _ uint32) {
	o.packetsSent.WithLabelValues(kind).Inc()
}

func (o *Observer) PacketReceived(kind string, _ uint32, stale bool) {
	o.packetsReceived.WithLabelValues(kind).Inc()
	if stale {
		o.packetsStale.Inc()
	}
}

func (o *Observer) HandshakeCompleted(d time.Duration) {
	o.handshakeSeconds.Observe(d.Seconds())
}

func (o *Observer) ChallengeFailed() { o.challengeFailed.Inc() }

func (o *Observer) ClockNarrowed(offsetMin, offsetMax int32) {
	o.clockWindowMS.Set(float64(offsetMax - offsetMin))
}

func (o *Observer) ClockDrift(_ int32) {
	o.clockDriftEvents.Inc()
}

var _ observability.Observer = (*Observer)(nil)

// Handler returns an HTTP handler serving reg in the Prometheus text
// exposition format, matching the teacher's prom.Handler(reg).
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

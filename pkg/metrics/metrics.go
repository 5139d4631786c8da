// Package metrics registers the prometheus instrumentation for popfiled.
// Metrics are exposed over the optional HTTP status endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "popfiled_connections_total",
			Help: "Total number of POP3 connections accepted",
		},
	)

	ConnectionsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "popfiled_connections_current",
			Help: "Number of POP3 connections currently being serviced",
		},
	)

	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "popfiled_commands_total",
			Help: "Total number of POP3 commands processed",
		},
		[]string{"command", "status"}, // command: STAT/LIST/..., status: ok/err
	)

	ResponseBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "popfiled_response_bytes_total",
			Help: "Total number of response bytes written to clients",
		},
	)

	MessagesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "popfiled_messages_loaded",
			Help: "Number of messages in the served mailbox",
		},
	)
)

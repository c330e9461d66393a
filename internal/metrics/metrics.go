// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PacketsCaptured counts frames delivered to the consumer.
	PacketsCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snooper_packets_captured_total",
		Help: "Total number of frames captured and enqueued",
	})

	// CaptureReadErrors counts failed reads on the capture handle.
	CaptureReadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snooper_capture_read_errors_total",
		Help: "Total number of capture read errors",
	})

	// DecodeErrors counts frames the decoder rejected outright.
	DecodeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snooper_decode_errors_total",
		Help: "Total number of frames that failed to decode",
	})

	// FramesAggregated counts frames merged into flow records.
	FramesAggregated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snooper_frames_aggregated_total",
		Help: "Total number of frames merged into flow records",
	})

	// FramesFiltered counts frames rejected by the packet filter.
	FramesFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snooper_frames_filtered_total",
		Help: "Total number of frames rejected by the packet filter",
	})

	// ReportFlushes counts successful report writes.
	ReportFlushes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snooper_report_flushes_total",
		Help: "Total number of successful report flushes",
	})

	// ReportFlushErrors counts failed report writes.
	ReportFlushErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snooper_report_flush_errors_total",
		Help: "Total number of failed report flushes",
	})

	// AnalyzerState tracks the controller state as a one-hot gauge.
	AnalyzerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "snooper_analyzer_state",
		Help: "Current analyzer state (1 for the active state, 0 otherwise)",
	}, []string{"state"})
)

package engine

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	hitLabel = "hit"
)

var (
	engineFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_frames_total",
		Help: "The number of processed sensor frames.",
	})

	engineFrameLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "engine_frame_latency",
		Help: "The time to process a sensor frame.",
	})

	engineTaps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_taps_total",
		Help: "The number of routed tap gestures.",
	}, []string{
		hitLabel,
	})
)

func instrumentFrame(d time.Duration) {
	engineFrames.Inc()
	engineFrameLatency.Observe(d.Seconds())
}

func instrumentTap(hit bool) {
	engineTaps.With(prometheus.Labels{
		hitLabel: strconv.FormatBool(hit),
	}).Inc()
}

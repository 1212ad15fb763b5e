package sensor

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	errTypeLabel = "error_type"
)

var (
	sensorConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sensor_connected",
		Help: "Whether the sensor connection is established.",
	})

	sensorFramesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sensor_frames_received_total",
		Help: "The number of frames received from the sensor.",
	})

	sensorDecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sensor_decode_errors",
		Help: "The errors that occured while decoding a sensor message.",
	}, []string{
		errTypeLabel,
	})
)

func instrumentSensorConnected(connected bool) {
	if connected {
		sensorConnected.Set(1)
		return
	}
	sensorConnected.Set(0)
}

func instrumentFrameReceived() {
	sensorFramesReceived.Inc()
}

func instrumentDecodeError(err error) {
	sensorDecodeErrors.
		With(prometheus.Labels{
			errTypeLabel: errors.Type(err),
		}).
		Inc()
}

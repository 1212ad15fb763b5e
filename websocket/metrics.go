package websocket

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	errTypeLabel = "error_type"
)

var (
	sceneConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scene_connected_clients",
		Help: "The number of connected renderer clients.",
	})

	sceneSentMsgs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scene_sent_msgs",
		Help: "The number of snapshots sent to renderer clients.",
	})

	sceneSentBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scene_sent_bytes",
		Help: "The number of bytes sent to renderer clients.",
	})

	sceneSendErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scene_send_errors",
		Help: "The errors that occured while sending a snapshot.",
	}, []string{
		errTypeLabel,
	})
)

func instrumentConnectedClients(delta float64) {
	sceneConnectedClients.Add(delta)
}

func instrumentSent(n int) {
	sceneSentMsgs.Inc()
	sceneSentBytes.Add(float64(n))
}

func instrumentSendError(errType string) {
	sceneSendErrors.With(prometheus.Labels{
		errTypeLabel: errType,
	}).Inc()
}

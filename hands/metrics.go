package hands

import (
	"github.com/aukilabs/pointerbox/sensor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	sideLabel = "side"
	partLabel = "part"
)

var (
	handPinches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hand_pinch_total",
		Help: "The number of pinches started.",
	}, []string{
		sideLabel,
	})

	handGrabs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hand_grab_total",
		Help: "The number of grabbed variable parts.",
	}, []string{
		sideLabel,
		partLabel,
	})
)

func instrumentEvent(side sensor.Side, ev Event) {
	switch ev.Type {
	case EventPinched:
		handPinches.With(prometheus.Labels{sideLabel: string(side)}).Inc()

	case EventGrabbed:
		handPinches.With(prometheus.Labels{sideLabel: string(side)}).Inc()

		part := "body"
		if ev.Connector {
			part = "connector"
		}
		handGrabs.With(prometheus.Labels{
			sideLabel: string(side),
			partLabel: part,
		}).Inc()
	}
}

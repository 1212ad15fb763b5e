package connector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeLabel = "outcome"
)

var (
	connectorDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connector_drop_total",
		Help: "The number of released connectors by outcome.",
	}, []string{
		outcomeLabel,
	})
)

func instrumentDrop(o Outcome) {
	connectorDrops.
		With(prometheus.Labels{outcomeLabel: o.String()}).
		Inc()
}

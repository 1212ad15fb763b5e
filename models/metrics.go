package models

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	variableCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "variable_count",
		Help: "The number of live variables.",
	})

	variableCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variable_created_total",
		Help: "The total number of created variables.",
	})

	variableRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variable_removed_total",
		Help: "The total number of removed variables.",
	})

	variableCreateRefusedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variable_create_refused_total",
		Help: "The total number of variable creations refused because every slot was occupied.",
	})
)

func instrumentIncreaseVariableGauge() {
	variableCount.Inc()
}

func instrumentDecreaseVariableGauge() {
	variableCount.Dec()
}

func instrumentCountVariable() {
	variableCreatedTotal.Inc()
}

func instrumentCountRemovedVariable() {
	variableRemovedTotal.Inc()
}

func instrumentCountRefusedVariable() {
	variableCreateRefusedTotal.Inc()
}

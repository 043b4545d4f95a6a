package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultAccepted = "accepted"
	resultRejected = "rejected"
	resultReplayed = "replayed"
)

var (
	ordersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pizzeria_orders_submitted_total",
			Help: "Submitted orders by outcome",
		},
		[]string{"result"},
	)

	orderValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pizzeria_order_total_price",
			Help:    "Grand total of accepted orders",
			Buckets: []float64{10, 20, 40, 60, 80, 120, 200, 400},
		},
	)
)

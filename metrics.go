package qampsim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation counters, registered on the default registry.
var (
	gateApplications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qampsim_gate_applications_total",
		Help: "Total number of 2x2 unitary passes applied to the register",
	})

	measurements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qampsim_measurements_total",
		Help: "Total number of projective measurements taken",
	})

	normalizePasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qampsim_normalize_passes_total",
		Help: "Total number of renormalization passes over the amplitude container",
	})
)

// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "comkit"

var (
	acquiredRefs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "references_acquired_total",
		Help:      "Object references acquired by handles, including adopted ones.",
	})
	releasedRefs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "references_released_total",
		Help:      "Object references released by handles.",
	})
	leakedRefs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "references_leaked_total",
		Help:      "References whose handle was garbage collected without being closed. They are never released.",
	})
	liveHandles = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "handles_live",
		Help:      "Owned and Shared handles currently holding a reference.",
	})
	queries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "interface_queries_total",
		Help:      "QueryInterface calls made through TryAs, by outcome.",
	}, []string{"result"})
)

const (
	queryResultSupported   = "supported"
	queryResultUnsupported = "unsupported"
	queryResultFailed      = "failed"
)

// RegisterMetrics registers the package's reference-tracking metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{acquiredRefs, releasedRefs, leakedRefs, liveHandles, queries} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// liveCount mirrors liveHandles so that apartments can check for outstanding
// handles without scraping the gauge.
var liveCount atomic.Int64

func handleOpened() {
	liveHandles.Inc()
	liveCount.Add(1)
}

func handleClosed() {
	liveHandles.Dec()
	liveCount.Add(-1)
}

// LiveHandles returns the number of Owned and Shared handles currently
// holding a reference.
func LiveHandles() int64 {
	return liveCount.Load()
}

// Copyright 2022 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"github.com/prometheus/client_golang/prometheus"
)

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "diffeo",
		Subsystem: "adaptavist",
		Name:      "requests_total",
		Help:      "Count of test management REST requests",
	},
	[]string{
		"method",
		"status",
	},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "diffeo",
		Subsystem: "adaptavist",
		Name:      "request_duration_seconds",
		Help:      "Time taken by test management REST requests",
	},
	[]string{
		"method",
	},
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestDuration)
}

// observeRequest records one finished REST request.  status is the
// numeric HTTP status, or "error" if the request never produced a
// response.
func observeRequest(method, status string, seconds float64) {
	requestCount.With(prometheus.Labels{
		"method": method,
		"status": status,
	}).Inc()
	requestDuration.With(prometheus.Labels{
		"method": method,
	}).Observe(seconds)
}

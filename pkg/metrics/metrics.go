// Copyright (c) 2026, the gng-project contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics holds the build driver's Prometheus collectors: phase
// durations, dispatched agent messages, and packets written by the
// packager.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	phaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gng_build_phase_duration_seconds",
			Help:    "Duration of a single build phase (query, prepare, build, check, install, package)",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 900},
		},
		[]string{"phase"},
	)

	messagesDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gng_build_messages_dispatched_total",
			Help: "Total number of framed agent messages dispatched to handlers",
		},
		[]string{"phase", "type"},
	)

	packetsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gng_build_packets_written_total",
			Help: "Total number of packet archives written by the packager",
		},
	)
)

// ObservePhaseDuration records how long phase took to run.
func ObservePhaseDuration(phase string, seconds float64) {
	phaseDuration.WithLabelValues(phase).Observe(seconds)
}

// IncMessageDispatched records one framed message of msgType handled during phase.
func IncMessageDispatched(phase, msgType string) {
	messagesDispatched.WithLabelValues(phase, msgType).Inc()
}

// IncPacketsWritten records n packet archives written to disk.
func IncPacketsWritten(n int) {
	packetsWritten.Add(float64(n))
}

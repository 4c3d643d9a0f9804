// Copyright 2024 Intel Corporation. All Rights Reserved.
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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RunSnapshot is a point-in-time view of the simulation counters a
// run collector exposes.
type RunSnapshot struct {
	Received      int
	Finished      int
	TotalTicks    int
	BusyTicks     int
	AllocFailures int
	BytesInUse    int
}

// SnapshotFunc produces the current counters on every scrape.
type SnapshotFunc func() RunSnapshot

type runCollector struct {
	snapshot SnapshotFunc

	received      *prometheus.Desc
	finished      *prometheus.Desc
	ticks         *prometheus.Desc
	busyTicks     *prometheus.Desc
	allocFailures *prometheus.Desc
	bytesInUse    *prometheus.Desc
}

// NewRunCollector creates a collector exposing simulation counters
// read through the given snapshot function.
func NewRunCollector(snapshot SnapshotFunc) prometheus.Collector {
	return &runCollector{
		snapshot: snapshot,
		received: prometheus.NewDesc("schedsim_processes_received_total",
			"Number of processes received on the ingress channel.", nil, nil),
		finished: prometheus.NewDesc("schedsim_processes_finished_total",
			"Number of processes run to completion.", nil, nil),
		ticks: prometheus.NewDesc("schedsim_ticks_total",
			"Number of simulated ticks elapsed.", nil, nil),
		busyTicks: prometheus.NewDesc("schedsim_cpu_busy_ticks_total",
			"Number of ticks the simulated CPU was busy.", nil, nil),
		allocFailures: prometheus.NewDesc("schedsim_alloc_failures_total",
			"Number of dispatch-time memory allocation failures.", nil, nil),
		bytesInUse: prometheus.NewDesc("schedsim_memory_bytes_in_use",
			"Bytes currently allocated from the buddy pool.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *runCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.received
	ch <- c.finished
	ch <- c.ticks
	ch <- c.busyTicks
	ch <- c.allocFailures
	ch <- c.bytesInUse
}

// Collect implements prometheus.Collector.
func (c *runCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.snapshot()
	ch <- prometheus.MustNewConstMetric(c.received, prometheus.CounterValue, float64(s.Received))
	ch <- prometheus.MustNewConstMetric(c.finished, prometheus.CounterValue, float64(s.Finished))
	ch <- prometheus.MustNewConstMetric(c.ticks, prometheus.CounterValue, float64(s.TotalTicks))
	ch <- prometheus.MustNewConstMetric(c.busyTicks, prometheus.CounterValue, float64(s.BusyTicks))
	ch <- prometheus.MustNewConstMetric(c.allocFailures, prometheus.CounterValue, float64(s.AllocFailures))
	ch <- prometheus.MustNewConstMetric(c.bytesInUse, prometheus.GaugeValue, float64(s.BytesInUse))
}

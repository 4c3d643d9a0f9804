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

package sched

import (
	"fmt"
	"io"
	"math"
	"sync"
)

// RunStats accumulates per-run scheduling statistics. The engine is
// single-threaded but the stats are also read by metrics collectors,
// hence the locking.
type RunStats struct {
	mu            sync.Mutex
	received      int
	finished      int
	busyTicks     int
	totalTicks    int
	allocFailures int
	waits         []int
	wtas          []float64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Received      int
	Finished      int
	BusyTicks     int
	TotalTicks    int
	AllocFailures int
}

// Report holds the end-of-run summary figures.
type Report struct {
	CPUUtilization float64
	AvgWTA         float64
	AvgWaiting     float64
	StdWTA         float64
}

// NewRunStats creates an empty statistics accumulator.
func NewRunStats() *RunStats {
	return &RunStats{}
}

// ObserveReceived counts one process arrival.
func (s *RunStats) ObserveReceived() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received++
}

// ObserveTick records one elapsed tick and whether the CPU is busy
// for the interval it opens.
func (s *RunStats) ObserveTick(tick int, busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tick > s.totalTicks {
		s.totalTicks = tick
	}
	if busy {
		s.busyTicks++
	}
}

// ObserveAllocFailure counts one failed dispatch-time allocation.
func (s *RunStats) ObserveAllocFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocFailures++
}

// ObserveFinished folds a terminated process into the summary.
func (s *RunStats) ObserveFinished(p *PCB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished++
	s.waits = append(s.waits, p.WaitTime)
	s.wtas = append(s.wtas, p.WeightedTurnaround())
}

// Snapshot returns a copy of the counters.
func (s *RunStats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Received:      s.received,
		Finished:      s.finished,
		BusyTicks:     s.busyTicks,
		TotalTicks:    s.totalTicks,
		AllocFailures: s.allocFailures,
	}
}

// Report computes the end-of-run summary.
func (s *RunStats) Report() Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := Report{}
	if s.totalTicks > 0 {
		r.CPUUtilization = 100 * float64(s.busyTicks) / float64(s.totalTicks)
	}
	if len(s.waits) > 0 {
		sum := 0
		for _, w := range s.waits {
			sum += w
		}
		r.AvgWaiting = float64(sum) / float64(len(s.waits))
	}
	if len(s.wtas) > 0 {
		sum := 0.0
		for _, w := range s.wtas {
			sum += w
		}
		r.AvgWTA = sum / float64(len(s.wtas))
		variance := 0.0
		for _, w := range s.wtas {
			variance += (w - r.AvgWTA) * (w - r.AvgWTA)
		}
		r.StdWTA = math.Sqrt(variance / float64(len(s.wtas)))
	}
	return r
}

// WriteReport writes the summary in the scheduler.perf format.
func (s *RunStats) WriteReport(w io.Writer) error {
	r := s.Report()
	_, err := fmt.Fprintf(w,
		"CPU utilization = %.2f%%\nAvg WTA = %.2f\nAvg Waiting = %.2f\nStd WTA = %.2f\n",
		r.CPUUtilization, r.AvgWTA, r.AvgWaiting, r.StdWTA)
	return err
}

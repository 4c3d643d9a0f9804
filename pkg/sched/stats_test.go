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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReportArithmetic(t *testing.T) {
	s := NewRunStats()

	// Two processes: (arrival 0, run 4, end 8) and (arrival 2, run 2, end 6).
	s.ObserveFinished(&PCB{ID: 1, ArrivalTime: 0, RunTime: 4, EndTime: 8, WaitTime: 4})
	s.ObserveFinished(&PCB{ID: 2, ArrivalTime: 2, RunTime: 2, EndTime: 6, WaitTime: 2})
	for tick := 1; tick <= 8; tick++ {
		s.ObserveTick(tick, tick <= 6)
	}

	r := s.Report()
	require.InDelta(t, 75.0, r.CPUUtilization, 0.001) // 6 busy of 8
	require.InDelta(t, 3.0, r.AvgWaiting, 0.001)      // (4+2)/2
	require.InDelta(t, 2.0, r.AvgWTA, 0.001)          // (8/4 + 4/2)/2
	require.InDelta(t, 0.0, r.StdWTA, 0.001)          // both WTAs equal
}

func TestReportOnEmptyRun(t *testing.T) {
	s := NewRunStats()
	r := s.Report()
	require.Zero(t, r.CPUUtilization)
	require.Zero(t, r.AvgWTA)
	require.Zero(t, r.AvgWaiting)
	require.Zero(t, r.StdWTA)
}

func TestWriteReportFormat(t *testing.T) {
	s := NewRunStats()
	s.ObserveFinished(&PCB{ID: 1, ArrivalTime: 0, RunTime: 5, EndTime: 5, WaitTime: 0})
	for tick := 1; tick <= 5; tick++ {
		s.ObserveTick(tick, true)
	}

	buf := &bytes.Buffer{}
	require.NoError(t, s.WriteReport(buf))
	require.Equal(t,
		"CPU utilization = 100.00%\nAvg WTA = 1.00\nAvg Waiting = 0.00\nStd WTA = 0.00\n",
		buf.String())
}

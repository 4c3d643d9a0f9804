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

// Package sched implements a discrete-time process scheduling engine
// with pluggable policies. The engine drives a single simulated CPU:
// it ingests process arrivals from a message source, dispatches them
// according to the selected policy, accounts waiting and turnaround
// times, and allocates process memory from a buddy pool.
package sched

import (
	"github.com/schedsim/schedsim/pkg/buddy"
)

// IDNone is the process id sentinel denoting "no process".
const IDNone = -1

// State is the lifecycle state of a process.
type State int32

const (
	// StateNew marks a process that has arrived but never run.
	StateNew State = iota
	// StateReady marks a process waiting in a ready structure.
	StateReady
	// StateRunning marks the process currently holding the CPU.
	StateRunning
	// StateBlocked is reserved; the engine never enters it.
	StateBlocked
	// StateTerminated marks a process that has finished.
	StateTerminated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StateBlocked:
		return "BLOCKED"
	case StateTerminated:
		return "TERMINATED"
	}
	return "UNKNOWN"
}

// PCB is the process control block carried through the engine. The
// generator populates ID, ArrivalTime, RunTime, Priority and Memory;
// the engine owns the rest from ingest to termination.
type PCB struct {
	ID            int
	ArrivalTime   int
	RunTime       int
	Priority      int
	Memory        int
	RemainingTime int
	WaitTime      int
	StartTime     int
	EndTime       int
	State         State
	MemBlock      *buddy.Block

	worker Worker
}

// Turnaround returns the completion delay of a terminated process.
func (p *PCB) Turnaround() int {
	return p.EndTime - p.ArrivalTime
}

// WeightedTurnaround returns the turnaround time relative to the
// service time of a terminated process.
func (p *PCB) WeightedTurnaround() float64 {
	if p.RunTime == 0 {
		return 0
	}
	return float64(p.Turnaround()) / float64(p.RunTime)
}

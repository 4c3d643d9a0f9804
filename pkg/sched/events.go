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
	"os"
	"sync"
)

// EventLog emits the simulation event lines. Their exact format is
// part of the external contract of the simulator, so they bypass the
// leveled logger and go verbatim to the configured writer.
type EventLog struct {
	sync.Mutex
	out io.Writer
}

// NewEventLog creates an event log writing to out, or to stdout if
// out is nil.
func NewEventLog(out io.Writer) *EventLog {
	if out == nil {
		out = os.Stdout
	}
	return &EventLog{out: out}
}

func (l *EventLog) printf(format string, args ...interface{}) {
	l.Lock()
	defer l.Unlock()
	fmt.Fprintf(l.out, format+"\n", args...)
}

// Banner prints the startup banner of the given policy. HPF has none.
func (l *EventLog) Banner(policy string) {
	switch policy {
	case PolicySRTN:
		l.printf("============ SRTN ============")
	case PolicyRR:
		l.printf("============= RR =============")
	}
}

// Received logs the arrival of a process on the ingress channel.
func (l *EventLog) Received(tick, id int) {
	l.printf("At time = %d, received process with ID = %d", tick, id)
}

// Started logs the first dispatch of a process.
func (l *EventLog) Started(tick, id int) {
	l.printf("At time = %d, new process with ID = %d started running", tick, id)
}

// Resumed logs the re-dispatch of a previously preempted process.
func (l *EventLog) Resumed(tick, id int) {
	l.printf("At time = %d, process with ID = %d resumed", tick, id)
}

// Remaining logs the remaining time of a process leaving the CPU.
func (l *EventLog) Remaining(tick, id, remaining int) {
	l.printf("At time = %d, ID = %d, remaining time = %d", tick, id, remaining)
}

// Finished logs the termination of a process.
func (l *EventLog) Finished(tick, id int) {
	l.printf("At time = %d, process with ID = %d, has finished", tick, id)
}

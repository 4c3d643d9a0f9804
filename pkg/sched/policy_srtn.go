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
	"github.com/pkg/errors"
)

// PolicySRTN is the name of the preemptive shortest-remaining-time-next
// policy. Every tick the running process is evicted and the process
// with the least remaining time among all arrivals seen so far is
// selected; ties break in the order processes were queued, so a
// preempted process goes behind queued processes with equal remaining
// time.
const PolicySRTN = "srtn"

func init() {
	Register(PolicySRTN, func(quantum int) (Policy, error) {
		return newSRTN(), nil
	})
}

type srtn struct {
	q *PriorityQueue
}

func newSRTN() *srtn {
	return &srtn{
		q: NewPriorityQueue(func(p *PCB) int { return p.RemainingTime }),
	}
}

func (s *srtn) Name() string {
	return PolicySRTN
}

func (s *srtn) Admit(p *PCB) {
	s.q.Push(p)
}

func (s *srtn) Pending() bool {
	return s.q.Len() > 0
}

func (s *srtn) ChargeWaits(tick int) {
	s.q.ChargeWaits(tick)
}

func (s *srtn) Schedule(e *Engine, tick int) error {
	if p := e.running; p != nil {
		if err := p.worker.Stop(); err != nil {
			return errors.Wrapf(err, "stop worker of process %d", p.ID)
		}
		p.RemainingTime--
		if p.RemainingTime == 0 {
			if err := e.finish(p, tick); err != nil {
				return err
			}
		} else {
			p.State = StateReady
			e.events.Remaining(tick, p.ID, p.RemainingTime)
			s.q.Push(p)
			e.running = nil
		}
	}
	return e.dispatch(s.q, tick)
}

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

// PolicyRR is the name of the round-robin policy. The running process
// keeps the CPU for at most quantum consecutive ticks, then goes back
// to the tail of a circular FIFO. A process whose remaining time runs
// out mid-quantum releases the CPU immediately.
const PolicyRR = "rr"

func init() {
	Register(PolicyRR, func(quantum int) (Policy, error) {
		if quantum <= 0 {
			return nil, errors.Errorf("round-robin requires a positive quantum, got %d", quantum)
		}
		return newRR(quantum), nil
	})
}

type rr struct {
	q       *CircularQueue
	quantum int
	used    int // ticks consumed from the current slice
}

func newRR(quantum int) *rr {
	return &rr{
		q:       NewCircularQueue(),
		quantum: quantum,
	}
}

func (r *rr) Name() string {
	return PolicyRR
}

func (r *rr) Admit(p *PCB) {
	r.q.Push(p)
}

func (r *rr) Pending() bool {
	return r.q.Len() > 0
}

func (r *rr) ChargeWaits(tick int) {
	r.q.ChargeWaits(tick)
}

func (r *rr) Schedule(e *Engine, tick int) error {
	if p := e.running; p != nil {
		p.RemainingTime--
		r.used++
		switch {
		case p.RemainingTime == 0:
			if err := e.finish(p, tick); err != nil {
				return err
			}
		case r.used >= r.quantum:
			if err := p.worker.Stop(); err != nil {
				return errors.Wrapf(err, "stop worker of process %d", p.ID)
			}
			p.State = StateReady
			e.events.Remaining(tick, p.ID, p.RemainingTime)
			r.q.Push(p)
			e.running = nil
		default:
			// Mid-quantum, keep the CPU.
			return nil
		}
	}
	if err := e.dispatch(r.q, tick); err != nil {
		return err
	}
	r.used = 0
	return nil
}

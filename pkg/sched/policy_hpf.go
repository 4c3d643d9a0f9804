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

// PolicyHPF is the name of the non-preemptive highest-priority-first
// policy. A smaller priority value means higher priority; ties break
// in arrival order. Once dispatched, a process keeps the CPU until its
// remaining time reaches zero.
const PolicyHPF = "hpf"

func init() {
	Register(PolicyHPF, func(quantum int) (Policy, error) {
		return newHPF(), nil
	})
}

type hpf struct {
	q *PriorityQueue
}

func newHPF() *hpf {
	return &hpf{
		q: NewPriorityQueue(func(p *PCB) int { return p.Priority }),
	}
}

func (h *hpf) Name() string {
	return PolicyHPF
}

func (h *hpf) Admit(p *PCB) {
	h.q.Push(p)
}

func (h *hpf) Pending() bool {
	return h.q.Len() > 0
}

func (h *hpf) ChargeWaits(tick int) {
	h.q.ChargeWaits(tick)
}

func (h *hpf) Schedule(e *Engine, tick int) error {
	p := e.running
	if p == nil {
		return e.dispatch(h.q, tick)
	}

	p.RemainingTime--
	if p.RemainingTime > 0 {
		return nil
	}
	if err := e.finish(p, tick); err != nil {
		return err
	}
	// The CPU is free again, hand it over right away.
	return e.dispatch(h.q, tick)
}

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
	"sort"

	"github.com/pkg/errors"
)

// Algorithm ids of the workload driver CLI.
const (
	// AlgoHPF selects non-preemptive highest-priority-first.
	AlgoHPF = 0
	// AlgoSRTN selects preemptive shortest-remaining-time-next.
	AlgoSRTN = 1
	// AlgoRR selects round-robin with a fixed quantum.
	AlgoRR = 2
)

// Policy is one scheduling discipline driven by the engine tick loop.
type Policy interface {
	// Name returns the registered policy name.
	Name() string
	// Admit places a newly arrived process into the ready structure.
	Admit(p *PCB)
	// Pending checks whether any admitted process is still queued.
	Pending() bool
	// ChargeWaits accounts one tick of waiting to queued processes
	// that arrived strictly before the given tick.
	ChargeWaits(tick int)
	// Schedule performs one scheduling step at the given tick.
	Schedule(e *Engine, tick int) error
}

// PolicyCreator instantiates a policy. The quantum is only meaningful
// for round-robin; other policies ignore it.
type PolicyCreator func(quantum int) (Policy, error)

// policies maps policy name -> policy creator.
var policies = make(map[string]PolicyCreator)

// Register makes a policy available by name.
func Register(name string, creator PolicyCreator) {
	policies[name] = creator
}

// PolicyList returns the registered policy names, sorted.
func PolicyList() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPolicy instantiates the named policy.
func NewPolicy(name string, quantum int) (Policy, error) {
	if creator, ok := policies[name]; ok {
		return creator(quantum)
	}
	return nil, errors.Errorf("invalid policy name %q", name)
}

// NewPolicyByID instantiates a policy from its CLI algorithm id.
func NewPolicyByID(id, quantum int) (Policy, error) {
	switch id {
	case AlgoHPF:
		return NewPolicy(PolicyHPF, quantum)
	case AlgoSRTN:
		return NewPolicy(PolicySRTN, quantum)
	case AlgoRR:
		return NewPolicy(PolicyRR, quantum)
	}
	return nil, errors.Errorf("unknown scheduling algorithm id %d", id)
}

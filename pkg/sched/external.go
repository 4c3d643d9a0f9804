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

// The engine treats its collaborators as black boxes behind these
// interfaces: a shared monotonic clock, a non-blocking message source
// fed by the workload generator, and a spawner controlling the
// simulated workers.

// Clock exposes the current simulated tick. Implementations must be
// monotonically non-decreasing.
type Clock interface {
	Now() int
}

// Source delivers newly arrived process descriptors, one at a time.
type Source interface {
	// TryReceive polls for the next arrival without blocking. It
	// returns ErrNoMessage when nothing is pending, ErrChannelClosed
	// once the channel has been torn down, and any other error on a
	// transport failure.
	TryReceive() (PCB, error)
	// Close tears the channel down. Closing twice is allowed.
	Close() error
}

// Worker is the handle to a spawned worker.
type Worker interface {
	// Stop suspends the worker.
	Stop() error
	// Cont resumes a stopped worker.
	Cont() error
	// Kill terminates the worker for good.
	Kill() error
}

// Spawner launches workers bound to process ids.
type Spawner interface {
	Spawn(pid int) (Worker, error)
}

// ErrNoMessage indicates an empty poll on the ingress source. It is
// expected and never fatal.
var ErrNoMessage = errors.New("no message available")

// ErrChannelClosed indicates the ingress source has been torn down,
// normally in response to an interrupt.
var ErrChannelClosed = errors.New("ingress channel closed")

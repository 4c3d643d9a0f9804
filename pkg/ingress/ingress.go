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

// Package ingress carries process arrivals from the workload generator
// to the scheduling engine: a single-producer single-consumer channel
// with non-blocking receive on the consumer side.
package ingress

import (
	"sync"

	"github.com/pkg/errors"

	logger "github.com/schedsim/schedsim/pkg/log"
	"github.com/schedsim/schedsim/pkg/sched"
)

// MsgTypeProcess tags messages carrying a process descriptor.
const MsgTypeProcess = 10

// our logger instance
var log = logger.NewLogger("ingress")

// Message is one unit on the channel.
type Message struct {
	Type    int64
	Process sched.PCB
}

// Queue is the channel between generator and engine. It implements
// sched.Source on the consumer side. Messages still buffered when the
// queue is closed are delivered before the closure is reported.
type Queue struct {
	ch   chan Message
	done chan struct{}
	once sync.Once
}

// NewQueue creates a queue buffering up to capacity messages.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		ch:   make(chan Message, capacity),
		done: make(chan struct{}),
	}
}

// Send enqueues one process descriptor, blocking while the buffer is
// full. Sending on a closed queue fails with sched.ErrChannelClosed.
func (q *Queue) Send(p sched.PCB) error {
	m := Message{Type: MsgTypeProcess, Process: p}
	select {
	case <-q.done:
		return sched.ErrChannelClosed
	default:
	}
	select {
	case q.ch <- m:
		return nil
	case <-q.done:
		return sched.ErrChannelClosed
	}
}

// TryReceive polls for the next arrival without blocking.
func (q *Queue) TryReceive() (sched.PCB, error) {
	select {
	case m := <-q.ch:
		if m.Type != MsgTypeProcess {
			return sched.PCB{}, errors.Errorf("unexpected message type %d", m.Type)
		}
		return m.Process, nil
	default:
	}
	select {
	case <-q.done:
		return sched.PCB{}, sched.ErrChannelClosed
	default:
		return sched.PCB{}, sched.ErrNoMessage
	}
}

// Close tears the queue down, releasing any blocked sender. Closing
// twice is a no-op.
func (q *Queue) Close() error {
	q.once.Do(func() {
		close(q.done)
		log.Debug("ingress channel destroyed")
	})
	return nil
}

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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func drain(q ReadyQueue) []int {
	ids := []int{}
	for {
		p, ok := q.Pop()
		if !ok {
			return ids
		}
		ids = append(ids, p.ID)
	}
}

func TestPriorityQueueOrdering(t *testing.T) {
	tcases := []struct {
		name     string
		procs    []*PCB
		expected []int
	}{
		{
			name: "ascending keys",
			procs: []*PCB{
				{ID: 1, Priority: 3},
				{ID: 2, Priority: 1},
				{ID: 3, Priority: 2},
			},
			expected: []int{2, 3, 1},
		},
		{
			name: "ties dequeue in insertion order",
			procs: []*PCB{
				{ID: 1, Priority: 5},
				{ID: 2, Priority: 5},
				{ID: 3, Priority: 1},
				{ID: 4, Priority: 5},
			},
			expected: []int{3, 1, 2, 4},
		},
		{
			name: "equal key inserted behind its peers",
			procs: []*PCB{
				{ID: 1, Priority: 2},
				{ID: 2, Priority: 2},
				{ID: 3, Priority: 3},
			},
			expected: []int{1, 2, 3},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			q := NewPriorityQueue(func(p *PCB) int { return p.Priority })
			for _, p := range tc.procs {
				q.Push(p)
			}
			if diff := cmp.Diff(tc.expected, drain(q)); diff != "" {
				t.Errorf("unexpected dequeue order: %s", diff)
			}
		})
	}
}

func TestCircularQueueWrapAround(t *testing.T) {
	q := NewCircularQueue()

	// Interleave pushes and pops across several buffer growths so the
	// head wraps around the ring.
	next, expected := 1, 1
	for i := 0; i < 50; i++ {
		for j := 0; j < 3; j++ {
			q.Push(&PCB{ID: next})
			next++
		}
		for j := 0; j < 2; j++ {
			p, ok := q.Pop()
			if !ok {
				t.Fatal("unexpected empty queue")
			}
			if p.ID != expected {
				t.Fatalf("expected id %d, got %d", expected, p.ID)
			}
			expected++
		}
	}
	for {
		p, ok := q.Pop()
		if !ok {
			break
		}
		if p.ID != expected {
			t.Fatalf("expected id %d, got %d", expected, p.ID)
		}
		expected++
	}
	if expected != next {
		t.Errorf("lost elements: drained up to %d, pushed up to %d", expected-1, next-1)
	}
	if _, ok := q.Peek(); ok {
		t.Error("peek on an empty queue succeeded")
	}
}

func TestChargeWaits(t *testing.T) {
	for _, kind := range []struct {
		name string
		make func() ReadyQueue
	}{
		{"priority", func() ReadyQueue { return NewPriorityQueue(func(p *PCB) int { return p.Priority }) }},
		{"circular", func() ReadyQueue { return NewCircularQueue() }},
		{"fifo", func() ReadyQueue { return NewFIFOQueue() }},
	} {
		t.Run(kind.name, func(t *testing.T) {
			old := &PCB{ID: 1, ArrivalTime: 3}
			fresh := &PCB{ID: 2, ArrivalTime: 5}
			q := kind.make()
			q.Push(old)
			q.Push(fresh)

			q.ChargeWaits(5)
			if old.WaitTime != 1 {
				t.Errorf("expected the earlier arrival to be charged, wait = %d", old.WaitTime)
			}
			if fresh.WaitTime != 0 {
				t.Errorf("arrival at the current tick must not be charged, wait = %d", fresh.WaitTime)
			}

			q.ChargeWaits(6)
			if old.WaitTime != 2 || fresh.WaitTime != 1 {
				t.Errorf("unexpected waits after second charge: %d, %d", old.WaitTime, fresh.WaitTime)
			}
		})
	}
}

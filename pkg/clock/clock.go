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

// Package clock provides the simulated clock shared by the workload
// generator and the scheduling engine. The tick counter is monotonic
// and visible to any number of readers.
package clock

import (
	"sync"
	"sync/atomic"
	"time"

	logger "github.com/schedsim/schedsim/pkg/log"
)

// DefaultInterval is the wall-clock duration of one simulated tick.
const DefaultInterval = time.Second

// our logger instance
var log = logger.NewLogger("clock")

// SimClock advances an atomic tick counter at a fixed wall-clock
// interval once started.
type SimClock struct {
	tick     int64
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewSimClock creates a stopped clock with the given tick interval.
// A non-positive interval falls back to DefaultInterval.
func NewSimClock(interval time.Duration) *SimClock {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &SimClock{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins advancing the tick counter.
func (c *SimClock) Start() {
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		log.Debug("clock running, %s per tick", c.interval)
		for {
			select {
			case <-ticker.C:
				atomic.AddInt64(&c.tick, 1)
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop halts the clock. The tick counter keeps its final value.
func (c *SimClock) Stop() {
	c.once.Do(func() {
		close(c.stop)
		<-c.done
	})
}

// Now returns the current tick.
func (c *SimClock) Now() int {
	return int(atomic.LoadInt64(&c.tick))
}

// ManualClock is a test clock advanced explicitly by its owner.
type ManualClock struct {
	tick int64
}

// NewManualClock creates a manual clock at tick 0.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now returns the current tick.
func (c *ManualClock) Now() int {
	return int(atomic.LoadInt64(&c.tick))
}

// Advance moves the clock forward by n ticks.
func (c *ManualClock) Advance(n int) {
	atomic.AddInt64(&c.tick, int64(n))
}

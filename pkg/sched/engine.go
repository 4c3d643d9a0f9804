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
	"runtime"

	"github.com/pkg/errors"

	"github.com/schedsim/schedsim/pkg/buddy"
	logger "github.com/schedsim/schedsim/pkg/log"
)

// our logger instance
var log = logger.NewLogger("sched")

// Config collects everything an Engine needs to run.
type Config struct {
	// Clock is the shared simulated clock.
	Clock Clock
	// Source delivers process arrivals.
	Source Source
	// Spawner launches workers for dispatched processes.
	Spawner Spawner
	// Policy is the scheduling discipline.
	Policy Policy
	// Allocator is the memory pool; a default-sized one is created
	// if nil.
	Allocator *buddy.Allocator
	// Events receives the simulation event lines; stdout if nil.
	Events *EventLog
	// Stats accumulates run statistics; created if nil.
	Stats *RunStats
	// Expected is the total process count the generator will send.
	Expected int
}

// Engine drives the single simulated CPU. It is single-threaded: one
// loop polls the ingress source, watches the clock and mutates the
// ready structure and the running slot. It never blocks on I/O.
type Engine struct {
	logger.Logger
	clock    Clock
	source   Source
	spawner  Spawner
	policy   Policy
	alloc    *buddy.Allocator
	events   *EventLog
	stats    *RunStats
	expected int
	received int
	running  *PCB
	lastTick int
}

// NewEngine validates the configuration and creates an engine.
func NewEngine(cfg Config) (*Engine, error) {
	switch {
	case cfg.Clock == nil:
		return nil, errors.New("engine configured without a clock")
	case cfg.Source == nil:
		return nil, errors.New("engine configured without an ingress source")
	case cfg.Spawner == nil:
		return nil, errors.New("engine configured without a worker spawner")
	case cfg.Policy == nil:
		return nil, errors.New("engine configured without a policy")
	case cfg.Expected < 0:
		return nil, errors.Errorf("invalid expected process count %d", cfg.Expected)
	}
	if cfg.Allocator == nil {
		cfg.Allocator = buddy.New()
	}
	if cfg.Events == nil {
		cfg.Events = NewEventLog(nil)
	}
	if cfg.Stats == nil {
		cfg.Stats = NewRunStats()
	}
	return &Engine{
		Logger:   log,
		clock:    cfg.Clock,
		source:   cfg.Source,
		spawner:  cfg.Spawner,
		policy:   cfg.Policy,
		alloc:    cfg.Allocator,
		events:   cfg.Events,
		stats:    cfg.Stats,
		expected: cfg.Expected,
		lastTick: -1,
	}, nil
}

// Allocator returns the memory pool the engine allocates from.
func (e *Engine) Allocator() *buddy.Allocator {
	return e.alloc
}

// Stats returns the run statistics accumulator.
func (e *Engine) Stats() *RunStats {
	return e.stats
}

// done checks the termination condition: all expected processes have
// been received and every one of them has run to completion.
func (e *Engine) done() bool {
	return e.received >= e.expected && e.running == nil && !e.policy.Pending()
}

// Run busy-polls the clock and the ingress source until the workload
// is complete. It returns ErrChannelClosed if the source is torn down
// mid-run, and the underlying error on any other fatal condition.
func (e *Engine) Run() error {
	e.Info("starting %s scheduler, expecting %d processes", e.policy.Name(), e.expected)
	for !e.done() {
		if err := e.ingest(); err != nil {
			return err
		}
		now := e.clock.Now()
		if now <= e.lastTick {
			// Nothing to do until the clock advances.
			runtime.Gosched()
			continue
		}
		// Catch up one tick at a time so a clock jumping more than
		// one tick between polls cannot starve the accounting.
		if err := e.step(e.lastTick + 1); err != nil {
			return err
		}
	}
	e.Info("all %d processes finished at tick %d", e.expected, e.lastTick)
	return nil
}

// ingest drains every arrival currently pending on the source.
func (e *Engine) ingest() error {
	for {
		rcv, err := e.source.TryReceive()
		switch {
		case err == nil:
		case errors.Is(err, ErrNoMessage):
			return nil
		case errors.Is(err, ErrChannelClosed):
			return err
		default:
			return errors.Wrap(err, "ingress receive")
		}

		p := rcv
		p.State = StateNew
		p.RemainingTime = p.RunTime
		p.WaitTime = 0
		p.MemBlock = nil
		p.worker = nil
		e.policy.Admit(&p)
		e.received++
		e.stats.ObserveReceived()
		e.events.Received(e.clock.Now(), p.ID)
	}
}

// step advances the simulation by one tick: charge waiting time, then
// let the policy make its scheduling decision.
func (e *Engine) step(tick int) error {
	e.policy.ChargeWaits(tick)
	if err := e.policy.Schedule(e, tick); err != nil {
		return err
	}
	e.stats.ObserveTick(tick, e.running != nil)
	e.lastTick = tick
	return nil
}

// dispatch hands the CPU to the head of the given ready queue, if any.
// Memory is allocated on first dispatch; when the pool cannot satisfy
// the demand the process is left at the head of the queue and retried
// on the next tick.
func (e *Engine) dispatch(q ReadyQueue, tick int) error {
	p, ok := q.Peek()
	if !ok {
		return nil
	}

	if p.MemBlock == nil {
		blk, err := e.alloc.Allocate(p.Memory)
		if err != nil {
			if errors.Is(err, buddy.ErrOutOfMemory) {
				e.Debug("process %d: %d bytes unavailable, retrying next tick", p.ID, p.Memory)
				e.stats.ObserveAllocFailure()
				return nil
			}
			return errors.Wrapf(err, "allocate %d bytes for process %d", p.Memory, p.ID)
		}
		p.MemBlock = blk
		start, end := blk.Range()
		e.Debug("process %d: allocated bytes %d-%d", p.ID, start, end)
		if e.DebugEnabled() {
			e.DebugBlock("  ", "memory layout: %s", e.alloc.Layout())
		}
	}

	switch p.State {
	case StateNew:
		w, err := e.spawner.Spawn(p.ID)
		if err != nil {
			return errors.Wrapf(err, "spawn worker for process %d", p.ID)
		}
		p.worker = w
		p.StartTime = tick
		e.events.Started(tick, p.ID)
	case StateReady:
		if err := p.worker.Cont(); err != nil {
			return errors.Wrapf(err, "resume worker of process %d", p.ID)
		}
		e.events.Resumed(tick, p.ID)
	default:
		return errors.Errorf("process %d dispatched in state %s", p.ID, p.State)
	}

	q.Pop()
	p.State = StateRunning
	e.running = p
	return nil
}

// finish terminates the running process at the given tick.
func (e *Engine) finish(p *PCB, tick int) error {
	if err := p.worker.Kill(); err != nil {
		return errors.Wrapf(err, "kill worker of process %d", p.ID)
	}
	p.State = StateTerminated
	p.EndTime = tick
	e.alloc.Free(p.MemBlock)
	p.MemBlock = nil
	e.running = nil
	e.stats.ObserveFinished(p)
	e.events.Finished(tick, p.ID)
	return nil
}

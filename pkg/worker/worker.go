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

// Package worker provides the simulated workers the engine dispatches
// processes onto. Each worker is a cooperative task whose lifetime is
// tied to a control handle the engine holds; stop, cont and kill take
// the place of the signals a child OS process would receive.
package worker

import (
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	logger "github.com/schedsim/schedsim/pkg/log"
	"github.com/schedsim/schedsim/pkg/sched"
)

// ErrTaskExited is returned for control operations on a worker that
// has already been killed.
var ErrTaskExited = errors.New("worker task has exited")

// our logger instance
var log = logger.NewLogger("worker")

type command int

const (
	cmdStop command = iota
	cmdCont
	cmdKill
)

// Task is one simulated worker. It satisfies sched.Worker.
type Task struct {
	id  uuid.UUID
	pid int
	ctl chan command
	end chan struct{}
}

// run services control commands until killed. The task consumes no
// CPU of its own; the engine accounts the simulated CPU time.
func (t *Task) run() {
	defer close(t.end)
	for cmd := range t.ctl {
		switch cmd {
		case cmdKill:
			log.Debug("task %s for process %d exiting", t.id, t.pid)
			return
		case cmdStop, cmdCont:
		}
	}
}

func (t *Task) send(cmd command) error {
	select {
	case t.ctl <- cmd:
		return nil
	case <-t.end:
		return errors.Wrapf(ErrTaskExited, "process %d", t.pid)
	}
}

// ID returns the unique task id.
func (t *Task) ID() uuid.UUID {
	return t.id
}

// Stop suspends the worker.
func (t *Task) Stop() error {
	return t.send(cmdStop)
}

// Cont resumes a suspended worker.
func (t *Task) Cont() error {
	return t.send(cmdCont)
}

// Kill terminates the worker.
func (t *Task) Kill() error {
	return t.send(cmdKill)
}

// Runner spawns tasks and keeps track of the live ones. It satisfies
// sched.Spawner.
type Runner struct {
	sync.Mutex
	tasks map[uuid.UUID]*Task
}

// NewRunner creates an empty runner.
func NewRunner() *Runner {
	return &Runner{tasks: map[uuid.UUID]*Task{}}
}

// Spawn launches a worker bound to the given process id.
func (r *Runner) Spawn(pid int) (sched.Worker, error) {
	t := &Task{
		id:  uuid.New(),
		pid: pid,
		ctl: make(chan command),
		end: make(chan struct{}),
	}
	r.Lock()
	r.tasks[t.id] = t
	r.Unlock()
	go func() {
		t.run()
		r.Lock()
		delete(r.tasks, t.id)
		r.Unlock()
	}()
	log.Debug("spawned task %s for process %d", t.id, pid)
	return t, nil
}

// Live returns the number of tasks not yet exited.
func (r *Runner) Live() int {
	r.Lock()
	defer r.Unlock()
	return len(r.tasks)
}

// Shutdown kills every live task, collecting any failures.
func (r *Runner) Shutdown() error {
	r.Lock()
	tasks := make([]*Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, t)
	}
	r.Unlock()

	var errs *multierror.Error
	for _, t := range tasks {
		if err := t.Kill(); err != nil && !errors.Is(err, ErrTaskExited) {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

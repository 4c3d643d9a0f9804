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

// Package workload reads and writes the process description files fed
// to the simulator: one header comment line and one tab-separated
// record per process.
package workload

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/schedsim/schedsim/pkg/sched"
)

// Header is the comment line opening every workload file.
const Header = "#id arrival runtime priority memory"

// Parse reads a workload file. The first line must be a comment
// starting with '#'; every following non-empty line holds the five
// fields id, arrival time, runtime, priority and memory demand.
// Arrival times must be non-decreasing.
func Parse(r io.Reader) ([]sched.PCB, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "read workload")
		}
		return nil, errors.New("empty workload file")
	}
	if !strings.HasPrefix(scanner.Text(), "#") {
		return nil, errors.Errorf("missing header comment, got %q", scanner.Text())
	}

	procs := []sched.PCB{}
	lineNo := 1
	lastArrival := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		if p.ArrivalTime < lastArrival {
			return nil, errors.Errorf("line %d: arrival time %d after %d, arrivals must be non-decreasing",
				lineNo, p.ArrivalTime, lastArrival)
		}
		lastArrival = p.ArrivalTime
		procs = append(procs, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read workload")
	}
	return procs, nil
}

func parseLine(line string) (sched.PCB, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return sched.PCB{}, errors.Errorf("expected 5 fields, got %d", len(fields))
	}
	values := [5]int{}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return sched.PCB{}, errors.Wrapf(err, "field %d", i+1)
		}
		if v < 0 {
			return sched.PCB{}, errors.Errorf("field %d: negative value %d", i+1, v)
		}
		values[i] = v
	}
	p := sched.PCB{
		ID:          values[0],
		ArrivalTime: values[1],
		RunTime:     values[2],
		Priority:    values[3],
		Memory:      values[4],
	}
	if p.ID < 1 {
		return sched.PCB{}, errors.Errorf("invalid process id %d", p.ID)
	}
	if p.RunTime < 1 {
		return sched.PCB{}, errors.Errorf("process %d: runtime must be positive", p.ID)
	}
	return p, nil
}

// Load parses the workload file at the given path.
func Load(path string) ([]sched.PCB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open workload")
	}
	defer f.Close()
	procs, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "workload %q", path)
	}
	return procs, nil
}

// Generate writes a random workload of n processes: arrivals start at
// 1 and grow by up to 10 ticks per process, runtimes span 1-29 ticks,
// priorities 0-10 and memory demands 0-255 bytes.
func Generate(w io.Writer, n int, rng *rand.Rand) error {
	if n < 1 {
		return errors.Errorf("invalid process count %d", n)
	}
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return errors.Wrap(err, "write workload")
	}
	arrival := 1
	for id := 1; id <= n; id++ {
		arrival += rng.Intn(11)
		_, err := fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\n",
			id, arrival, 1+rng.Intn(29), rng.Intn(11), rng.Intn(256))
		if err != nil {
			return errors.Wrap(err, "write workload")
		}
	}
	return nil
}

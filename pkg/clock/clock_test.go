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

package clock

import (
	"testing"
	"time"
)

func TestManualClock(t *testing.T) {
	c := NewManualClock()
	if c.Now() != 0 {
		t.Fatalf("expected tick 0, got %d", c.Now())
	}
	c.Advance(3)
	c.Advance(1)
	if c.Now() != 4 {
		t.Errorf("expected tick 4, got %d", c.Now())
	}
}

func TestSimClockAdvances(t *testing.T) {
	c := NewSimClock(time.Millisecond)
	c.Start()
	defer c.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for c.Now() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("clock did not advance")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSimClockStopIsIdempotent(t *testing.T) {
	c := NewSimClock(time.Millisecond)
	c.Start()
	c.Stop()
	final := c.Now()
	c.Stop()
	time.Sleep(5 * time.Millisecond)
	if c.Now() != final {
		t.Errorf("clock advanced after stop: %d -> %d", final, c.Now())
	}
}

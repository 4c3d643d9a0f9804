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

package buddy

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestRounding(t *testing.T) {
	tcases := []struct {
		name         string
		request      int
		expectedSize int
		expectedOOM  bool
	}{
		{name: "zero rounds to minimum", request: 0, expectedSize: MinBlock},
		{name: "below minimum", request: 5, expectedSize: 8},
		{name: "exact minimum", request: 8, expectedSize: 8},
		{name: "just above a power of two", request: 9, expectedSize: 16},
		{name: "mid-range", request: 100, expectedSize: 128},
		{name: "full pool", request: 1024, expectedSize: 1024},
		{name: "over the pool", request: 1025, expectedOOM: true},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			a := New()
			b, err := a.Allocate(tc.request)
			if tc.expectedOOM {
				if !errors.Is(err, ErrOutOfMemory) {
					t.Fatalf("expected ErrOutOfMemory, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Size != tc.expectedSize {
				t.Errorf("expected size %d, got %d", tc.expectedSize, b.Size)
			}
		})
	}
}

func TestSplitThenMerge(t *testing.T) {
	a := New()

	blkA, err := a.Allocate(100)
	if err != nil {
		t.Fatalf("allocate(100): %v", err)
	}
	blkB, err := a.Allocate(240)
	if err != nil {
		t.Fatalf("allocate(240): %v", err)
	}
	blkC, err := a.Allocate(30)
	if err != nil {
		t.Fatalf("allocate(30): %v", err)
	}

	a.Free(blkA)
	a.Free(blkC)
	a.Free(blkB)

	if diff := cmp.Diff("[1024:Free]", a.Layout()); diff != "" {
		t.Errorf("tree did not collapse to a single free root: %s", diff)
	}
	if a.InUse() != 0 {
		t.Errorf("expected 0 bytes in use, got %d", a.InUse())
	}
}

func TestOutOfMemory(t *testing.T) {
	a := New()

	if _, err := a.Allocate(512); err != nil {
		t.Fatalf("first half: %v", err)
	}
	if _, err := a.Allocate(512); err != nil {
		t.Fatalf("second half: %v", err)
	}
	if _, err := a.Allocate(1); !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("expected ErrOutOfMemory on a full pool, got %v", err)
	}
}

func TestLeftFirstOrder(t *testing.T) {
	a := New()

	first, err := a.Allocate(64)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if first.Offset != 0 {
		t.Errorf("first allocation not at offset 0: %d", first.Offset)
	}
	second, err := a.Allocate(64)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if second.Offset != 64 {
		t.Errorf("second allocation not adjacent to the first: %d", second.Offset)
	}
	a.Free(first)
	third, err := a.Allocate(8)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if third.Offset != 0 {
		t.Errorf("expected the leftmost freed range to be reused, got offset %d", third.Offset)
	}
}

func TestBlockRange(t *testing.T) {
	a := New()

	b, err := a.Allocate(240)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	start, end := b.Range()
	if start != 0 || end != 255 {
		t.Errorf("expected range (0, 255), got (%d, %d)", start, end)
	}
}

func TestFreeIsIdempotent(t *testing.T) {
	a := New()

	b, err := a.Allocate(100)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	a.Free(b)
	a.Free(b)
	a.Free(nil)
	a.Free(&Block{Offset: 512, Size: 64}) // never allocated

	if a.Layout() != "[1024:Free]" {
		t.Errorf("unexpected layout after redundant frees: %s", a.Layout())
	}
	if a.InUse() != 0 {
		t.Errorf("expected 0 bytes in use, got %d", a.InUse())
	}
}

func TestReverseOrderRoundTrip(t *testing.T) {
	a := New()

	blocks := []*Block{}
	for _, n := range []int{100, 30, 240, 8, 60} {
		b, err := a.Allocate(n)
		if err != nil {
			t.Fatalf("allocate(%d): %v", n, err)
		}
		blocks = append(blocks, b)
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		a.Free(blocks[i])
	}

	if a.Layout() != "[1024:Free]" {
		t.Errorf("tree not identical to initial state: %s", a.Layout())
	}
}

func TestNoOverlap(t *testing.T) {
	a := New()
	rng := rand.New(rand.NewSource(42))

	allocated := []*Block{}
	for i := 0; i < 256; i++ {
		if len(allocated) > 0 && rng.Intn(3) == 0 {
			idx := rng.Intn(len(allocated))
			a.Free(allocated[idx])
			allocated = append(allocated[:idx], allocated[idx+1:]...)
			continue
		}
		b, err := a.Allocate(1 + rng.Intn(256))
		if errors.Is(err, ErrOutOfMemory) {
			continue
		}
		if err != nil {
			t.Fatalf("allocate: %v", err)
		}
		allocated = append(allocated, b)
	}

	total := 0
	for i, b := range allocated {
		total += b.Size
		si, ei := b.Range()
		for _, o := range allocated[i+1:] {
			so, eo := o.Range()
			if si <= eo && so <= ei {
				t.Fatalf("overlapping blocks (%d,%d) and (%d,%d)", si, ei, so, eo)
			}
		}
	}
	if total > PoolSize {
		t.Fatalf("allocated %d bytes from a pool of %d", total, PoolSize)
	}
	if total != a.InUse() {
		t.Errorf("accounting mismatch: tracked %d, held %d", a.InUse(), total)
	}

	for _, b := range allocated {
		a.Free(b)
	}
	if a.Layout() != "[1024:Free]" {
		t.Errorf("tree not fully merged after freeing everything: %s", a.Layout())
	}
}

func TestSmallPool(t *testing.T) {
	if _, err := NewWithSize(100); err == nil {
		t.Error("expected an error for a non-power-of-two pool")
	}

	a, err := NewWithSize(64)
	if err != nil {
		t.Fatalf("NewWithSize(64): %v", err)
	}
	b, err := a.Allocate(33)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if b.Size != 64 {
		t.Errorf("expected the whole pool, got %d", b.Size)
	}
	if _, err := a.Allocate(1); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("expected ErrOutOfMemory, got %v", err)
	}
}

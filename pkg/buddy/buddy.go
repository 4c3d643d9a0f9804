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

// Package buddy implements a binary buddy allocator over a fixed pool.
// Allocations are rounded up to the next power of two, blocks are split
// on demand on the way down and free sibling leaves are merged back into
// their parent on release.
package buddy

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	logger "github.com/schedsim/schedsim/pkg/log"
)

const (
	// PoolSize is the default size of the backing pool in bytes.
	PoolSize = 1024
	// MinBlock is the smallest allocatable block size in bytes.
	MinBlock = 8
)

// ErrOutOfMemory is returned when no free block of the rounded size exists.
var ErrOutOfMemory = errors.New("buddy: out of memory")

// our logger instance
var log = logger.NewLogger("buddy")

// Block identifies an allocated range within the pool.
type Block struct {
	Offset int
	Size   int
}

// Range returns the first and last byte offset covered by the block.
func (b *Block) Range() (int, int) {
	return b.Offset, b.Offset + b.Size - 1
}

// node is one node of the allocation tree. A node is allocated iff it is
// a leaf with free == false; the free flag of an internal node is
// meaningless while it has children.
type node struct {
	size   int
	offset int
	free   bool
	left   *node
	right  *node
}

func (n *node) leaf() bool {
	return n.left == nil && n.right == nil
}

func (n *node) split() {
	half := n.size / 2
	n.left = &node{size: half, offset: n.offset, free: true}
	n.right = &node{size: half, offset: n.offset + half, free: true}
}

// Allocator hands out power-of-two blocks from a contiguous pool.
type Allocator struct {
	root  *node
	size  int
	inUse int
}

// New creates an allocator over a pool of the default size.
func New() *Allocator {
	a, _ := NewWithSize(PoolSize)
	return a
}

// NewWithSize creates an allocator over a pool of the given size,
// which must be a power of two no smaller than MinBlock.
func NewWithSize(size int) (*Allocator, error) {
	if size < MinBlock || size&(size-1) != 0 {
		return nil, errors.Errorf("invalid pool size %d, expected a power of two >= %d", size, MinBlock)
	}
	return &Allocator{
		root: &node{size: size, offset: 0, free: true},
		size: size,
	}, nil
}

// PoolSize returns the total size of the backing pool.
func (a *Allocator) PoolSize() int {
	return a.size
}

// InUse returns the number of currently allocated bytes, after rounding.
func (a *Allocator) InUse() int {
	return a.inUse
}

// roundUp rounds a request up to the next power of two, clamping at MinBlock.
func roundUp(n int) int {
	size := MinBlock
	for size < n {
		size <<= 1
	}
	return size
}

// Allocate reserves a block of at least n bytes. The returned block size
// is max(MinBlock, 2^ceil(log2(n))). Failure to find a free block of that
// size is reported as ErrOutOfMemory.
func (a *Allocator) Allocate(n int) (*Block, error) {
	size := roundUp(n)
	if size > a.size {
		return nil, errors.Wrapf(ErrOutOfMemory, "request of %d bytes exceeds pool of %d", n, a.size)
	}
	nd := a.allocate(a.root, size)
	if nd == nil {
		return nil, errors.Wrapf(ErrOutOfMemory, "no free block of %d bytes for request of %d", size, n)
	}
	a.inUse += size
	log.Debug("allocated %d bytes at offset %d for request of %d", size, nd.offset, n)
	return &Block{Offset: nd.offset, Size: size}, nil
}

// allocate finds the leftmost free leaf of exactly the given size below n,
// splitting larger free leaves on the way down.
func (a *Allocator) allocate(n *node, size int) *node {
	if n.size < size {
		return nil
	}
	if n.leaf() {
		if !n.free {
			return nil
		}
		if n.size == size {
			n.free = false
			return n
		}
		n.split()
	}
	if got := a.allocate(n.left, size); got != nil {
		return got
	}
	return a.allocate(n.right, size)
}

// Free releases a previously allocated block and merges free buddies back
// up towards the root. Freeing an unknown block or freeing the same block
// twice is a no-op.
func (a *Allocator) Free(b *Block) {
	if b == nil {
		return
	}
	nd := a.find(a.root, b.Offset, b.Size)
	if nd == nil || nd.free {
		return
	}
	nd.free = true
	a.inUse -= nd.size
	a.merge(a.root)
	log.Debug("freed %d bytes at offset %d", nd.size, nd.offset)
}

// find locates the leaf with the given offset and size.
func (a *Allocator) find(n *node, offset, size int) *node {
	if n == nil || offset < n.offset || offset >= n.offset+n.size {
		return nil
	}
	if n.leaf() {
		if n.offset == offset && n.size == size {
			return n
		}
		return nil
	}
	if got := a.find(n.left, offset, size); got != nil {
		return got
	}
	return a.find(n.right, offset, size)
}

// merge collapses, in post-order, every internal node whose children are
// both free leaves back into a single free leaf.
func (a *Allocator) merge(n *node) {
	if n == nil || n.leaf() {
		return
	}
	a.merge(n.left)
	a.merge(n.right)
	if n.left.leaf() && n.left.free && n.right.leaf() && n.right.free {
		n.left = nil
		n.right = nil
		n.free = true
	}
}

// Layout renders the in-order leaf states of the tree, for instance
// "[256:Allocated] [256:Free] [512:Free]".
func (a *Allocator) Layout() string {
	parts := []string{}
	a.walk(a.root, func(n *node) {
		state := "Free"
		if !n.free {
			state = "Allocated"
		}
		parts = append(parts, fmt.Sprintf("[%d:%s]", n.size, state))
	})
	return strings.Join(parts, " ")
}

// walk visits the leaves of the tree in offset order.
func (a *Allocator) walk(n *node, visit func(*node)) {
	if n == nil {
		return
	}
	if n.leaf() {
		visit(n)
		return
	}
	a.walk(n.left, visit)
	a.walk(n.right, visit)
}

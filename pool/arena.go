// File: pool/arena.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Segmented node arena. Nodes are addressed by 32-bit index and never move;
// the chunk directory is replaced copy-on-write so growth takes no lock.

package pool

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/momentics/hioload-mempool/api"
)

const (
	chunkShift = 10
	chunkSize  = 1 << chunkShift
	chunkMask  = chunkSize - 1

	// refs are stored as index+1 in 32 bits, 0 meaning "no node".
	maxNodes = math.MaxUint32 - 1
)

// node links one pooled object into a free list.
type node[T any] struct {
	obj  atomic.Pointer[T]
	next atomic.Uint32
}

type nodeChunk[T any] [chunkSize]node[T]

type nodeArena[T any] struct {
	chunks atomic.Pointer[[]*nodeChunk[T]]
	count  atomic.Uint64
	limit  uint64
}

func newNodeArena[T any](initial int) (a *nodeArena[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			a = nil
			err = api.NewError(api.ErrCodeOutOfMemory, fmt.Sprintf("pool: node arena allocation failed: %v", r)).
				WithContext("nodes", initial)
		}
	}()
	dir := make([]*nodeChunk[T], (initial+chunkMask)>>chunkShift)
	for i := range dir {
		dir[i] = new(nodeChunk[T])
	}
	a = &nodeArena[T]{limit: maxNodes}
	a.chunks.Store(&dir)
	a.count.Store(uint64(initial))
	return a, nil
}

// at returns the node for idx. idx must have been handed out by the arena.
func (a *nodeArena[T]) at(idx uint32) *node[T] {
	dir := *a.chunks.Load()
	return &dir[idx>>chunkShift][idx&chunkMask]
}

// grow reserves a fresh node index, installing a new chunk when needed.
// ok is false once the index space is exhausted.
func (a *nodeArena[T]) grow() (idx uint32, ok bool) {
	n := a.count.Add(1) - 1
	if n >= a.limit {
		return 0, false
	}
	c := int(n >> chunkShift)
	for {
		cur := a.chunks.Load()
		if c < len(*cur) {
			return uint32(n), true
		}
		next := make([]*nodeChunk[T], c+1)
		copy(next, *cur)
		for i := len(*cur); i <= c; i++ {
			next[i] = new(nodeChunk[T])
		}
		if a.chunks.CompareAndSwap(cur, &next) {
			return uint32(n), true
		}
	}
}

// length is the number of nodes ever handed out.
func (a *nodeArena[T]) length() int64 {
	n := a.count.Load()
	if n > a.limit {
		n = a.limit
	}
	return int64(n)
}

func (a *nodeArena[T]) release() {
	empty := []*nodeChunk[T]{}
	a.chunks.Store(&empty)
}

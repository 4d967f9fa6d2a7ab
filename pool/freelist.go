// File: pool/freelist.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Multi-producer multi-consumer lock-free stack of arena nodes.
//
// The head word packs the top node ref (low 32 bits) and a modification tag
// (high 32 bits). Every successful CAS bumps the tag, so a goroutine holding a
// stale head snapshot fails its CAS even if the same node is back on top.
// sync/atomic operations are sequentially consistent: a popper observes every
// write that preceded the push of the node it obtains.

package pool

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

type freeList[T any] struct {
	_     cpu.CacheLinePad
	head  atomic.Uint64
	_     cpu.CacheLinePad
	arena *nodeArena[T]
}

func pack(ref, tag uint32) uint64 { return uint64(tag)<<32 | uint64(ref) }

func unpack(w uint64) (ref, tag uint32) { return uint32(w), uint32(w >> 32) }

// seed links nodes [0, n) into the list, n-1 on top. Not concurrent-safe.
func (s *freeList[T]) seed(n int) {
	for i := 0; i < n; i++ {
		// node i links to node i-1, whose ref is i.
		s.arena.at(uint32(i)).next.Store(uint32(i))
	}
	s.head.Store(pack(uint32(n), 0))
}

func (s *freeList[T]) push(idx uint32) {
	nd := s.arena.at(idx)
	for {
		old := s.head.Load()
		ref, tag := unpack(old)
		nd.next.Store(ref)
		if s.head.CompareAndSwap(old, pack(idx+1, tag+1)) {
			return
		}
	}
}

func (s *freeList[T]) pop() (uint32, bool) {
	for {
		old := s.head.Load()
		ref, tag := unpack(old)
		if ref == 0 {
			return 0, false
		}
		next := s.arena.at(ref - 1).next.Load()
		if s.head.CompareAndSwap(old, pack(next, tag+1)) {
			return ref - 1, true
		}
	}
}

// len walks the list. Only meaningful while no push or pop is in flight.
func (s *freeList[T]) len() int {
	n := 0
	for ref, _ := unpack(s.head.Load()); ref != 0; ref = s.arena.at(ref - 1).next.Load() {
		n++
	}
	return n
}

// drain detaches the whole list and clears every object reference on it.
func (s *freeList[T]) drain() int {
	ref, _ := unpack(s.head.Swap(0))
	n := 0
	for ref != 0 {
		nd := s.arena.at(ref - 1)
		nd.obj.Store(nil)
		ref = nd.next.Load()
		n++
	}
	return n
}

// File: pool/storage.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bulk backing storage for the initial population of a pool.

package pool

import (
	"fmt"
	"math"

	"github.com/momentics/hioload-mempool/api"
)

// MaxCapacity is the largest initial population a pool accepts.
const MaxCapacity = math.MaxInt32

// objectStorage owns the initial batch of objects for the pool's lifetime.
type objectStorage[T any] struct {
	slab []T
}

// newObjectStorage default-constructs capacity objects in a single slab.
func newObjectStorage[T any](capacity int) (s *objectStorage[T], err error) {
	if capacity < 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "pool: negative capacity").
			WithContext("capacity", capacity)
	}
	if capacity > MaxCapacity {
		return nil, api.NewError(api.ErrCodeOutOfMemory, "pool: capacity exceeds addressable range").
			WithContext("capacity", capacity)
	}
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = api.NewError(api.ErrCodeOutOfMemory, fmt.Sprintf("pool: storage allocation failed: %v", r)).
				WithContext("capacity", capacity)
		}
	}()
	return &objectStorage[T]{slab: make([]T, capacity)}, nil
}

func (s *objectStorage[T]) len() int { return len(s.slab) }

func (s *objectStorage[T]) at(i int) *T { return &s.slab[i] }

func (s *objectStorage[T]) release() { s.slab = nil }

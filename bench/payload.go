// File: bench/payload.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bench

// Payload is the object type every strategy pools. It fills one cache line.
type Payload struct {
	A, B, C int64
	_       [40]byte
}

func (p *Payload) fill(i int) {
	p.A = int64(i)
	p.B = int64(i) * 2
	p.C = int64(i) * 3
}

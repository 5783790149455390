// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sequencer assigns dense, strictly increasing 64-bit tags to
// accepted records. One Sequencer is shared by both transport listeners —
// that sharing is what gives the server cross-protocol ordering.
package sequencer

import "sync/atomic"

// Sequencer is a process-wide, lock-free monotonic counter. The zero value
// is ready to use and starts at 0.
type Sequencer struct {
	next atomic.Uint64
}

// Next returns the next sequence number and advances the counter. It is
// safe for concurrent use by any number of goroutines; callers should
// call Next immediately before enqueuing so no reordering window opens
// between sequencing and the corresponding channel send.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1) - 1
}

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sequencer

import (
	"sync"
	"testing"
)

func TestSequencer_StartsAtZeroAndIncrements(t *testing.T) {
	var s Sequencer
	if got := s.Next(); got != 0 {
		t.Fatalf("first Next() = %d, want 0", got)
	}
	if got := s.Next(); got != 1 {
		t.Fatalf("second Next() = %d, want 1", got)
	}
}

func TestSequencer_ConcurrentCallsAreDenseAndUnique(t *testing.T) {
	var s Sequencer
	const n = 2000
	seen := make([]bool, n)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := s.Next()
			mu.Lock()
			defer mu.Unlock()
			if v >= n {
				t.Errorf("sequence %d out of expected dense range [0,%d)", v, n)
				return
			}
			if seen[v] {
				t.Errorf("sequence %d assigned twice", v)
			}
			seen[v] = true
		}()
	}
	wg.Wait()
	for i, ok := range seen {
		if !ok {
			t.Errorf("sequence %d never assigned", i)
		}
	}
}

package terminator

import (
	"runtime"
	"sync"
)

// reservation is the memory ballast held between the first registration
// and the shutdown pass. Holding the allocation keeps real headroom in
// the heap so that when it is released at the start of the pass, handlers
// can still allocate under memory pressure.
type reservation struct {
	mu      sync.Mutex
	ballast []byte
}

// grow extends the ballast by n bytes. The contents are never read, only
// the allocation matters.
func (r *reservation) grow(n int) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ballast = make([]byte, len(r.ballast)+n)
}

// release drops the ballast and runs a collection so the headroom is
// actually available to whatever runs next.
func (r *reservation) release() {
	r.mu.Lock()
	r.ballast = nil
	r.mu.Unlock()
	runtime.GC()
}

// bytes returns the currently reserved size.
func (r *reservation) bytes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ballast)
}

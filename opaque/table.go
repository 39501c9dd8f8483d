package opaque

import (
	"sync"

	"github.com/wippyai/wasm-engines/compiler"
)

// handleTable is the process-wide registry behind all handles. Slots are
// reused through a free list; each reuse bumps the slot's generation so
// stale handles cannot alias a newer carrier.
type handleTable struct {
	mu    sync.Mutex
	slots []tableSlot
	free  []uint32
}

type tableSlot struct {
	cfg  compiler.Config
	gen  uint32
	live bool
}

var table handleTable

func (t *handleTable) insert(cfg compiler.Config) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, tableSlot{gen: 1})
		idx = uint32(len(t.slots) - 1)
	}

	t.slots[idx].cfg = cfg
	t.slots[idx].live = true
	return packHandle(idx, t.slots[idx].gen)
}

func (t *handleTable) lookup(h Handle) (compiler.Config, bool) {
	idx, gen := h.slot()

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(idx) >= len(t.slots) {
		return nil, false
	}
	s := &t.slots[idx]
	if !s.live || s.gen != gen {
		return nil, false
	}
	return s.cfg, true
}

func (t *handleTable) remove(h Handle) {
	idx, gen := h.slot()

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(idx) >= len(t.slots) {
		return
	}
	s := &t.slots[idx]
	if !s.live || s.gen != gen {
		return
	}

	s.cfg = nil
	s.live = false
	s.gen++ // invalidate outstanding handles before the slot is reused
	t.free = append(t.free, idx)
}

// liveCount reports the number of live registrations. Used by tests to
// check for leaks.
func (t *handleTable) liveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for i := range t.slots {
		if t.slots[i].live {
			n++
		}
	}
	return n
}

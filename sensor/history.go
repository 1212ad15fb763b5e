package sensor

import "sync"

// Source provides the recent sensor frames.
type Source interface {
	// Poll returns the recent frames, newest first. It never blocks.
	Poll() History
}

// History is a list of frames, newest first.
type History []*Frame

// Frame returns the frame that is back frames older than the current one.
func (h History) Frame(back int) (*Frame, bool) {
	if back < 0 || back >= len(h) || h[back] == nil {
		return nil, false
	}
	return h[back], true
}

// Current returns the newest frame.
func (h History) Current() (*Frame, bool) {
	return h.Frame(0)
}

// Ring is a fixed capacity frame history safe for concurrent use.
type Ring struct {
	mutex  sync.RWMutex
	frames []*Frame
	pos    int
	full   bool
}

// NewRing creates a ring that keeps the given number of frames.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{
		frames: make([]*Frame, capacity),
	}
}

// Push adds a frame as the newest one.
func (r *Ring) Push(f *Frame) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.frames[r.pos] = f
	r.pos++
	if r.pos >= len(r.frames) {
		r.pos = 0
		r.full = true
	}
}

func (r *Ring) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.len()
}

func (r *Ring) len() int {
	if r.full {
		return len(r.frames)
	}
	return r.pos
}

// History returns a copy of the stored frames, newest first.
func (r *Ring) History() History {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	n := r.len()
	h := make(History, n)
	for i := 0; i < n; i++ {
		idx := r.pos - 1 - i
		if idx < 0 {
			idx += len(r.frames)
		}
		h[i] = r.frames[idx]
	}
	return h
}

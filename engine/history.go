package engine

import "github.com/ftahirops/gputemp/model"

// History is a ring buffer of the most recent successful readings.
type History struct {
	buf  []model.Reading
	head int
	size int
}

// NewHistory creates a ring buffer with the given capacity.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]model.Reading, capacity)}
}

// Push adds a reading, evicting the oldest once full.
func (h *History) Push(r model.Reading) {
	h.buf[h.head] = r
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of readings stored.
func (h *History) Len() int { return h.size }

// Latest returns a copy of the most recent reading.
func (h *History) Latest() (model.Reading, bool) {
	if h.size == 0 {
		return model.Reading{}, false
	}
	return h.buf[(h.head-1+len(h.buf))%len(h.buf)], true
}

// Get returns the reading at position i (0 = oldest in buffer).
func (h *History) Get(i int) (model.Reading, bool) {
	if i < 0 || i >= h.size {
		return model.Reading{}, false
	}
	return h.buf[(h.head-h.size+i+len(h.buf))%len(h.buf)], true
}

// Temperatures returns the stored temperatures, oldest first.
func (h *History) Temperatures() []float64 {
	out := make([]float64, 0, h.size)
	for i := 0; i < h.size; i++ {
		r, _ := h.Get(i)
		out = append(out, r.Temperature)
	}
	return out
}

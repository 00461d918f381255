package inspector

import "math"

// History is a fixed-size ring buffer of float64 samples.
type History struct {
	values []float64
	next   int
	count  int
}

// NewHistory creates a ring buffer holding up to size samples.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{values: make([]float64, size)}
}

// Push appends a sample, overwriting the oldest when full.
func (h *History) Push(v float64) {
	h.values[h.next] = v
	h.next = (h.next + 1) % len(h.values)
	if h.count < len(h.values) {
		h.count++
	}
}

// Len returns the number of stored samples.
func (h *History) Len() int { return h.count }

// At returns the i-th oldest stored sample.
func (h *History) At(i int) float64 {
	idx := (h.next - h.count + i + len(h.values)) % len(h.values)
	return h.values[idx]
}

// Last returns the newest sample, or 0 when empty.
func (h *History) Last() float64 {
	if h.count == 0 {
		return 0
	}
	return h.At(h.count - 1)
}

// Range returns the min and max across histories with 10% padding. Empty or
// flat input yields a non-empty range.
func Range(hs ...*History) (min, max float64) {
	min = math.MaxFloat64
	max = -math.MaxFloat64
	for _, h := range hs {
		for i := 0; i < h.Len(); i++ {
			v := h.At(i)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if min > max {
		return 0, 1
	}
	if min == max {
		return min - 1, max + 1
	}
	padding := (max - min) * 0.1
	return min - padding, max + padding
}

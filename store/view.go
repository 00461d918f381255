package store

import "fmt"

// View is a read-only window over the records of a Store at one generation.
// A View must not be kept across a Grow; Stale reports when that happened.
type View struct {
	store      *Store
	generation uint64
	data       []float32
	count      int
	layout     Layout
}

// Count returns the number of records in the view.
func (v View) Count() int { return v.count }

// Stride returns floats per record.
func (v View) Stride() int { return v.layout.Stride }

// Layout returns the record layout.
func (v View) Layout() Layout { return v.layout }

// Generation returns the store generation the view was taken at.
func (v View) Generation() uint64 { return v.generation }

// Stale reports whether the store has grown since the view was taken.
func (v View) Stale() bool {
	return v.store == nil || v.store.generation != v.generation
}

// Floats returns the contiguous count×stride buffer for upload or instanced
// drawing. The slice aliases store memory and must not be written.
func (v View) Floats() ([]float32, error) {
	if v.Stale() {
		return nil, ErrStaleView
	}
	return v.data, nil
}

// Record decodes record i.
func (v View) Record(i int) (Record, error) {
	if v.Stale() {
		return Record{}, ErrStaleView
	}
	if i < 0 || i >= v.count {
		return Record{}, fmt.Errorf("view index %d (count %d): %w", i, v.count, ErrIndexOutOfRange)
	}
	off := i * v.layout.Stride
	return readRecord(v.data[off:off+v.layout.Stride], v.layout), nil
}

// Each calls fn for every record in index order. Iteration stops early when fn
// returns false.
func (v View) Each(fn func(i int, r Record) bool) error {
	if v.Stale() {
		return ErrStaleView
	}
	stride := v.layout.Stride
	for i := 0; i < v.count; i++ {
		off := i * stride
		if !fn(i, readRecord(v.data[off:off+stride], v.layout)) {
			return nil
		}
	}
	return nil
}

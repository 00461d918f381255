// Package store provides the particle attribute arena shared with the renderer.
//
// Records are packed float32 values with a fixed stride chosen at construction.
// The backing slice is handed to the renderer as a View without copying. Growth
// replaces the backing slice, so any View taken before a Grow is stale afterwards.
package store

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas32"
)

// Errors returned by Store operations.
var (
	ErrIndexOutOfRange  = errors.New("particle index out of range")
	ErrCapacityExceeded = errors.New("particle store capacity exceeded")
	ErrShrink           = errors.New("new capacity smaller than record count")
	ErrCapacityOverflow = errors.New("capacity overflows addressable floats")
	ErrInvalidCapacity  = errors.New("capacity must be positive")
	ErrStaleView        = errors.New("view invalidated by store growth")
	ErrNoColor          = errors.New("layout has no color channels")
)

// Index is a stable handle to a record. It is assigned by Append and is never
// reused or invalidated by growth.
type Index int

// Record is one particle's render attributes. R, G, B are ignored by layouts
// without color.
type Record struct {
	X, Y    float32
	Radius  float32
	R, G, B float32
}

// Store is a growable arena of fixed-stride particle records.
// It is not safe for concurrent use; the simulation tick owns it.
type Store struct {
	layout     Layout
	data       []float32
	count      int
	capacity   int
	generation uint64
}

// New allocates storage for initialCapacity records of the given layout.
func New(initialCapacity int, layout Layout) (*Store, error) {
	if initialCapacity < 1 {
		return nil, fmt.Errorf("new store: %w", ErrInvalidCapacity)
	}
	if layout.Stride < 3 {
		return nil, fmt.Errorf("new store: stride %d too small for %s", layout.Stride, layout.Name)
	}
	if initialCapacity > math.MaxInt/layout.Stride {
		return nil, fmt.Errorf("new store: %w", ErrCapacityOverflow)
	}
	return &Store{
		layout:   layout,
		data:     make([]float32, initialCapacity*layout.Stride),
		capacity: initialCapacity,
	}, nil
}

// Layout returns the record layout.
func (s *Store) Layout() Layout { return s.layout }

// Count returns the number of appended records.
func (s *Store) Count() int { return s.count }

// Capacity returns the number of records the current storage can hold.
func (s *Store) Capacity() int { return s.capacity }

// Generation increments on every Grow.
func (s *Store) Generation() uint64 { return s.generation }

// Full reports whether the next Append would fail.
func (s *Store) Full() bool { return s.count >= s.capacity }

// NextCapacity returns the doubled capacity used when the store is exhausted.
func (s *Store) NextCapacity() int {
	if s.capacity > math.MaxInt/2 {
		return math.MaxInt
	}
	return s.capacity * 2
}

// Append writes r into the next free slot and returns its index.
// Fails with ErrCapacityExceeded when full; the caller grows and retries.
func (s *Store) Append(r Record) (Index, error) {
	if s.count >= s.capacity {
		return -1, fmt.Errorf("append record %d: %w", s.count, ErrCapacityExceeded)
	}
	idx := Index(s.count)
	s.write(s.count*s.layout.Stride, r)
	s.count++
	return idx, nil
}

// Grow moves the records into storage for newCapacity records and returns a
// fresh view. Every existing record keeps its index and bytes. The old backing
// slice is released in the same assignment that installs the new one.
func (s *Store) Grow(newCapacity int) (View, error) {
	if newCapacity < s.count {
		return View{}, fmt.Errorf("grow to %d (count %d): %w", newCapacity, s.count, ErrShrink)
	}
	if newCapacity < 1 {
		return View{}, fmt.Errorf("grow to %d: %w", newCapacity, ErrInvalidCapacity)
	}
	if newCapacity > math.MaxInt/s.layout.Stride {
		return View{}, fmt.Errorf("grow to %d: %w", newCapacity, ErrCapacityOverflow)
	}

	next := make([]float32, newCapacity*s.layout.Stride)
	if n := s.count * s.layout.Stride; n > 0 {
		blas32.Copy(
			blas32.Vector{N: n, Inc: 1, Data: s.data[:n]},
			blas32.Vector{N: n, Inc: 1, Data: next[:n]},
		)
	}

	s.data = next
	s.capacity = newCapacity
	s.generation++
	return s.View(), nil
}

// View returns a window over the count×stride floats currently in use.
func (s *Store) View() View {
	return View{
		store:      s,
		generation: s.generation,
		data:       s.data[:s.count*s.layout.Stride],
		count:      s.count,
		layout:     s.layout,
	}
}

func (s *Store) offset(i Index) (int, error) {
	if i < 0 || int(i) >= s.count {
		return 0, fmt.Errorf("index %d (count %d): %w", i, s.count, ErrIndexOutOfRange)
	}
	return int(i) * s.layout.Stride, nil
}

func (s *Store) write(off int, r Record) {
	rec := s.data[off : off+s.layout.Stride]
	rec[OffsetX] = r.X
	rec[OffsetY] = r.Y
	rec[OffsetRadius] = r.Radius
	if s.layout.HasColor {
		rec[OffsetRed] = r.R
		rec[OffsetGreen] = r.G
		rec[OffsetBlue] = r.B
	}
}

// Record returns the full record at i. Layouts without color report white.
func (s *Store) Record(i Index) (Record, error) {
	off, err := s.offset(i)
	if err != nil {
		return Record{}, err
	}
	return readRecord(s.data[off:off+s.layout.Stride], s.layout), nil
}

// Position returns the center of record i.
func (s *Store) Position(i Index) (x, y float32, err error) {
	off, err := s.offset(i)
	if err != nil {
		return 0, 0, err
	}
	return s.data[off+OffsetX], s.data[off+OffsetY], nil
}

// SetPosition moves record i.
func (s *Store) SetPosition(i Index, x, y float32) error {
	off, err := s.offset(i)
	if err != nil {
		return err
	}
	s.data[off+OffsetX] = x
	s.data[off+OffsetY] = y
	return nil
}

// Radius returns the radius of record i. Radii are immutable once appended.
func (s *Store) Radius(i Index) (float32, error) {
	off, err := s.offset(i)
	if err != nil {
		return 0, err
	}
	return s.data[off+OffsetRadius], nil
}

// Color returns the color of record i, or white for layouts without color.
func (s *Store) Color(i Index) (r, g, b float32, err error) {
	off, err := s.offset(i)
	if err != nil {
		return 0, 0, 0, err
	}
	if !s.layout.HasColor {
		return 1, 1, 1, nil
	}
	return s.data[off+OffsetRed], s.data[off+OffsetGreen], s.data[off+OffsetBlue], nil
}

// SetColor recolors record i.
func (s *Store) SetColor(i Index, r, g, b float32) error {
	off, err := s.offset(i)
	if err != nil {
		return err
	}
	if !s.layout.HasColor {
		return fmt.Errorf("set color on %s: %w", s.layout.Name, ErrNoColor)
	}
	s.data[off+OffsetRed] = r
	s.data[off+OffsetGreen] = g
	s.data[off+OffsetBlue] = b
	return nil
}

func readRecord(rec []float32, layout Layout) Record {
	r := Record{
		X:      rec[OffsetX],
		Y:      rec[OffsetY],
		Radius: rec[OffsetRadius],
		R:      1,
		G:      1,
		B:      1,
	}
	if layout.HasColor {
		r.R = rec[OffsetRed]
		r.G = rec[OffsetGreen]
		r.B = rec[OffsetBlue]
	}
	return r
}

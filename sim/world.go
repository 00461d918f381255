// Package sim owns the simulation state and runs the tick pipeline.
//
// A World holds the particle store, the ECS entity set, the arena bounds and
// the broad-phase index. Every tick runs the same fixed sequence:
//
//	resize → spawn → integrate → rebuild index → resolve collisions → publish
//
// Nothing else carries over from one tick to the next. A World is not safe for
// concurrent use; the renderer reads View on the tick goroutine after Tick
// returns.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/bounce/components"
	"github.com/pthm-cable/bounce/quadtree"
	"github.com/pthm-cable/bounce/store"
	"github.com/pthm-cable/bounce/systems"
	"github.com/pthm-cable/bounce/telemetry"
)

// Errors returned by World operations.
var (
	ErrInvalidRadius = errors.New("spawn radius must be positive and finite")
	ErrInvalidBounds = errors.New("arena bounds must be positive")
)

// PhaseTimer receives phase boundaries during Tick. telemetry.PerfCollector
// satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Options configures a World.
type Options struct {
	Bounds          systems.Bounds
	InitialCapacity int
	Layout          store.Layout
	NodeCapacity    int
	MaxDepth        int
	Collision       systems.CollisionOptions

	// Perf, if set, is told about each pipeline phase.
	Perf PhaseTimer
}

// SpawnRequest describes one particle to add. Color is ignored by the minimal layout.
type SpawnRequest struct {
	X, Y    float32
	VX, VY  float32
	Radius  float32
	R, G, B float32
}

// WallBoundsChanged moves the arena walls, typically after a window resize.
type WallBoundsChanged struct {
	Width, Height float32
}

// Input is everything the outside world feeds into one tick.
type Input struct {
	Spawns []SpawnRequest
	Resize *WallBoundsChanged
}

// TickStats summarizes one tick.
type TickStats struct {
	Tick       int64
	Count      int // particles after the tick
	Spawned    int
	Rejected   int // spawn requests with an invalid radius
	Grows      int // store growths during the tick
	Bounces    int // wall reflections
	Dropped    int // particles outside the arena at rebuild time
	Collisions systems.CollisionStats
}

func (s TickStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("tick", s.Tick),
		slog.Int("count", s.Count),
		slog.Int("spawned", s.Spawned),
		slog.Int("rejected", s.Rejected),
		slog.Int("grows", s.Grows),
		slog.Int("bounces", s.Bounces),
		slog.Int("dropped", s.Dropped),
		slog.Any("collisions", s.Collisions),
	)
}

// World is the simulation root.
type World struct {
	store  *store.Store
	ecs    *ecs.World
	bounds systems.Bounds
	perf   PhaseTimer

	mapper   *ecs.Map3[components.Slot, components.Velocity, components.Mass]
	entities []ecs.Entity // by store index

	integration *systems.IntegrationSystem
	index       *systems.SpatialIndex
	collision   *systems.CollisionSystem

	tick  int64
	grows int

	// scratch for Energy
	mass, vx, vy, mvx, mvy []float32
}

// New creates an empty World.
func New(opts Options) (*World, error) {
	if opts.Bounds.Width <= 0 || opts.Bounds.Height <= 0 {
		return nil, fmt.Errorf("new world %vx%v: %w", opts.Bounds.Width, opts.Bounds.Height, ErrInvalidBounds)
	}
	if opts.Layout.Stride == 0 {
		opts.Layout = store.LayoutExtended
	}
	st, err := store.New(opts.InitialCapacity, opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}

	w := ecs.NewWorld()
	return &World{
		store:       st,
		ecs:         w,
		bounds:      opts.Bounds,
		perf:        opts.Perf,
		mapper:      ecs.NewMap3[components.Slot, components.Velocity, components.Mass](w),
		integration: systems.NewIntegrationSystem(w),
		index:       systems.NewSpatialIndex(w, opts.Bounds, opts.NodeCapacity, opts.MaxDepth),
		collision:   systems.NewCollisionSystem(w, opts.Collision),
	}, nil
}

// Spawn appends a particle and creates its entity with mass radius².
// A full store is doubled and the append retried; growth failure is fatal to
// the run and returned as is.
func (w *World) Spawn(req SpawnRequest) (store.Index, error) {
	r := req.Radius
	if !(r > 0) || math.IsInf(float64(r), 0) {
		return -1, fmt.Errorf("spawn radius %v: %w", r, ErrInvalidRadius)
	}

	rec := store.Record{X: req.X, Y: req.Y, Radius: r, R: req.R, G: req.G, B: req.B}
	idx, err := w.store.Append(rec)
	if errors.Is(err, store.ErrCapacityExceeded) {
		from := w.store.Capacity()
		if _, err := w.store.Grow(w.store.NextCapacity()); err != nil {
			return -1, fmt.Errorf("spawn: %w", err)
		}
		w.grows++
		slog.Info("store grown", "from", from, "to", w.store.Capacity(), "count", w.store.Count())
		idx, err = w.store.Append(rec)
	}
	if err != nil {
		return -1, fmt.Errorf("spawn: %w", err)
	}

	e := w.mapper.NewEntity(
		&components.Slot{Index: idx},
		&components.Velocity{X: req.VX, Y: req.VY},
		&components.Mass{Value: r * r},
	)
	w.entities = append(w.entities, e)
	return idx, nil
}

// Resize moves the walls. Particles outside the new arena are pulled back in
// by the next integration step.
func (w *World) Resize(ev WallBoundsChanged) error {
	if ev.Width <= 0 || ev.Height <= 0 {
		return fmt.Errorf("resize to %vx%v: %w", ev.Width, ev.Height, ErrInvalidBounds)
	}
	w.bounds = systems.Bounds{Width: ev.Width, Height: ev.Height}
	return nil
}

// Tick advances the simulation by dt seconds. The only error it returns is a
// failed store growth; invalid spawns are counted and skipped, and a resize to
// a non-positive size is ignored.
func (w *World) Tick(dt float32, in Input) (TickStats, error) {
	stats := TickStats{Tick: w.tick}
	growsBefore := w.grows

	if in.Resize != nil {
		if err := w.Resize(*in.Resize); err != nil {
			slog.Debug("resize ignored", "err", err)
		}
	}

	w.phase(telemetry.PhaseSpawn)
	for _, req := range in.Spawns {
		if _, err := w.Spawn(req); err != nil {
			if errors.Is(err, ErrInvalidRadius) {
				stats.Rejected++
				continue
			}
			return stats, err
		}
		stats.Spawned++
	}

	w.phase(telemetry.PhaseIntegrate)
	bounces, err := w.integration.Update(w.store, w.bounds, dt)
	if err != nil {
		return stats, err
	}
	stats.Bounces = bounces

	w.phase(telemetry.PhaseIndex)
	stats.Dropped = w.index.Rebuild(w.store, w.bounds)

	w.phase(telemetry.PhaseCollide)
	stats.Collisions = w.collision.Update(w.store, w.index.Tree())

	w.tick++
	stats.Count = w.store.Count()
	stats.Grows = w.grows - growsBefore
	return stats, nil
}

func (w *World) phase(name string) {
	if w.perf != nil {
		w.perf.StartPhase(name)
	}
}

// View returns the current render view of the store.
func (w *World) View() store.View { return w.store.View() }

// Store exposes the particle store for read access.
func (w *World) Store() *store.Store { return w.store }

// Count returns the number of particles.
func (w *World) Count() int { return w.store.Count() }

// Ticks returns the number of completed ticks.
func (w *World) Ticks() int64 { return w.tick }

// Grows returns the number of store growths so far.
func (w *World) Grows() int { return w.grows }

// Bounds returns the arena extent.
func (w *World) Bounds() systems.Bounds { return w.bounds }

// Tree returns the broad-phase index as of the last tick. Read only.
func (w *World) Tree() *quadtree.Tree[ecs.Entity] { return w.index.Tree() }

// Collision returns the active collision options.
func (w *World) Collision() systems.CollisionOptions { return w.collision.Options() }

// Velocity returns the velocity of particle i.
func (w *World) Velocity(i store.Index) (components.Velocity, error) {
	e, err := w.entity(i)
	if err != nil {
		return components.Velocity{}, err
	}
	_, vel, _ := w.mapper.Get(e)
	return *vel, nil
}

// Mass returns the mass of particle i.
func (w *World) Mass(i store.Index) (float32, error) {
	e, err := w.entity(i)
	if err != nil {
		return 0, err
	}
	_, _, m := w.mapper.Get(e)
	return m.Value, nil
}

// Components returns the ECS components of particle i for inspection.
func (w *World) Components(i store.Index) (components.Slot, components.Velocity, components.Mass, error) {
	e, err := w.entity(i)
	if err != nil {
		return components.Slot{}, components.Velocity{}, components.Mass{}, err
	}
	slot, vel, m := w.mapper.Get(e)
	return *slot, *vel, *m, nil
}

// ParticleAt returns a particle whose circle contains (x, y) as of the last
// rebuild, preferring the most recently spawned one.
func (w *World) ParticleAt(x, y float32) (store.Index, bool) {
	hits := w.index.Tree().QueryCircle(quadtree.Point{X: x, Y: y}, 0)
	best := store.Index(-1)
	for _, e := range hits {
		slot, _, _ := w.mapper.Get(e)
		if slot.Index > best {
			best = slot.Index
		}
	}
	return best, best >= 0
}

func (w *World) entity(i store.Index) (ecs.Entity, error) {
	if i < 0 || int(i) >= len(w.entities) {
		return ecs.Entity{}, fmt.Errorf("entity %d (count %d): %w", i, len(w.entities), store.ErrIndexOutOfRange)
	}
	return w.entities[i], nil
}

// Energy returns the total kinetic energy and linear momentum of all particles.
func (w *World) Energy() (kinetic float64, px, py float64) {
	n := len(w.entities)
	if n == 0 {
		return 0, 0, 0
	}
	w.mass = resize(w.mass, n)
	w.vx = resize(w.vx, n)
	w.vy = resize(w.vy, n)
	w.mvx = resize(w.mvx, n)
	w.mvy = resize(w.mvy, n)

	for i, e := range w.entities {
		_, vel, m := w.mapper.Get(e)
		w.mass[i] = m.Value
		w.vx[i] = vel.X
		w.vy[i] = vel.Y
		w.mvx[i] = m.Value * vel.X
		w.mvy[i] = m.Value * vel.Y
	}

	vec := func(d []float32) blas32.Vector { return blas32.Vector{N: n, Inc: 1, Data: d} }
	px = blas32.DDot(vec(w.mass), vec(w.vx))
	py = blas32.DDot(vec(w.mass), vec(w.vy))
	kinetic = 0.5 * (blas32.DDot(vec(w.mvx), vec(w.vx)) + blas32.DDot(vec(w.mvy), vec(w.vy)))
	return kinetic, px, py
}

// Speeds appends the speed of every particle to dst.
func (w *World) Speeds(dst []float64) []float64 {
	for _, e := range w.entities {
		_, vel, _ := w.mapper.Get(e)
		dst = append(dst, math.Hypot(float64(vel.X), float64(vel.Y)))
	}
	return dst
}

func resize(s []float32, n int) []float32 {
	if cap(s) < n {
		return make([]float32, n, 2*n)
	}
	return s[:n]
}

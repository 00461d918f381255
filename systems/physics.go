// Package systems contains ECS systems for the simulation.
package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bounce/components"
	"github.com/pthm-cable/bounce/store"
)

// Bounds is the arena extent. The arena spans [0, Width) × [0, Height).
type Bounds struct {
	Width, Height float32
}

// IntegrationSystem advances positions by explicit Euler and reflects
// particles off the arena walls.
type IntegrationSystem struct {
	filter ecs.Filter2[components.Slot, components.Velocity]
}

// NewIntegrationSystem creates a new integration system.
func NewIntegrationSystem(w *ecs.World) *IntegrationSystem {
	return &IntegrationSystem{
		filter: *ecs.NewFilter2[components.Slot, components.Velocity](w),
	}
}

// Update moves every particle by velocity × dt and returns the number of wall
// reflections. A particle that moves further than its diameter in one tick, or
// is wider than half the arena, can end up past a wall; that is not corrected.
func (s *IntegrationSystem) Update(st *store.Store, bounds Bounds, dt float32) (int, error) {
	bounces := 0
	query := s.filter.Query()
	for query.Next() {
		slot, vel := query.Get()

		x, y, err := st.Position(slot.Index)
		if err != nil {
			query.Close()
			return bounces, fmt.Errorf("integrate: %w", err)
		}
		r, _ := st.Radius(slot.Index)

		x += vel.X * dt
		y += vel.Y * dt

		var hit bool
		x, vel.X, hit = reflect(x, vel.X, r, bounds.Width)
		if hit {
			bounces++
		}
		y, vel.Y, hit = reflect(y, vel.Y, r, bounds.Height)
		if hit {
			bounces++
		}

		st.SetPosition(slot.Index, x, y)
	}
	return bounces, nil
}

// reflect applies the wall check on one axis: the low wall first, the high
// wall only if the low one did not fire.
func reflect(pos, vel, radius, extent float32) (float32, float32, bool) {
	if pos-radius < 0 {
		return radius, -vel, true
	}
	if pos+radius >= extent {
		return extent - radius, -vel, true
	}
	return pos, vel, false
}

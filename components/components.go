// Package components defines ECS components for the simulation.
//
// Render attributes (position, radius, color) live in the particle store so the
// renderer can read them in one contiguous block. The ECS side keeps only the
// store handle and the physics state the renderer never needs.
package components

import "github.com/pthm-cable/bounce/store"

// Slot links an entity to its record in the particle store.
type Slot struct {
	Index store.Index `inspect:"label"`
}

// Velocity in world units per second.
type Velocity struct {
	X, Y float32 `inspect:"label,fmt:%.1f"`
}

// Mass is the collision mass. Spawned particles use radius squared.
type Mass struct {
	Value float32 `inspect:"label,fmt:%.1f"`
}

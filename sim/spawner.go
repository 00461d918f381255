package sim

import (
	"math/rand"
)

// Spawner produces spawn requests the way the mouse does: a burst of particles
// at one point with random velocity and color.
type Spawner struct {
	rng      *rand.Rand
	radius   float32
	maxSpeed float32
}

// NewSpawner creates a spawner. Velocity components are uniform in
// [-maxSpeed, maxSpeed).
func NewSpawner(rng *rand.Rand, radius, maxSpeed float32) *Spawner {
	return &Spawner{rng: rng, radius: radius, maxSpeed: maxSpeed}
}

// Configure changes the radius and speed of subsequent requests.
func (s *Spawner) Configure(radius, maxSpeed float32) {
	s.radius = radius
	s.maxSpeed = maxSpeed
}

// Burst appends n requests centered on (x, y) to dst.
func (s *Spawner) Burst(dst []SpawnRequest, n int, x, y float32) []SpawnRequest {
	for i := 0; i < n; i++ {
		dst = append(dst, s.one(x, y))
	}
	return dst
}

// Scatter appends n requests at uniformly random positions inside bounds.
func (s *Spawner) Scatter(dst []SpawnRequest, n int, width, height float32) []SpawnRequest {
	for i := 0; i < n; i++ {
		x := s.radius + s.rng.Float32()*max(width-2*s.radius, 0)
		y := s.radius + s.rng.Float32()*max(height-2*s.radius, 0)
		dst = append(dst, s.one(x, y))
	}
	return dst
}

func (s *Spawner) one(x, y float32) SpawnRequest {
	return SpawnRequest{
		X:      x,
		Y:      y,
		VX:     (s.rng.Float32()*2 - 1) * s.maxSpeed,
		VY:     (s.rng.Float32()*2 - 1) * s.maxSpeed,
		Radius: s.radius,
		R:      s.rng.Float32(),
		G:      s.rng.Float32(),
		B:      s.rng.Float32(),
	}
}

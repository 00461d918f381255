// Package renderer draws the particle store and debug overlays with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/camera"
	"github.com/pthm-cable/bounce/store"
)

// ParticleRenderer draws one filled circle per store record.
type ParticleRenderer struct {
	// Fallback is used for layouts without color channels.
	Fallback rl.Color

	drawn int
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{Fallback: rl.RayWhite}
}

// Draw renders every record in view, in arena coordinates. Records outside the
// camera's view are culled when cam is non-nil. A stale view draws nothing and
// returns store.ErrStaleView.
func (r *ParticleRenderer) Draw(view store.View, cam *camera.Camera) error {
	r.drawn = 0
	hasColor := view.Layout().HasColor
	return view.Each(func(_ int, rec store.Record) bool {
		if cam != nil && !cam.IsVisible(rec.X, rec.Y, rec.Radius) {
			return true
		}
		color := r.Fallback
		if hasColor {
			color = RecordColor(rec)
		}
		rl.DrawCircleV(rl.Vector2{X: rec.X, Y: rec.Y}, rec.Radius, color)
		r.drawn++
		return true
	})
}

// Drawn returns how many circles the last Draw emitted.
func (r *ParticleRenderer) Drawn() int { return r.drawn }

// RecordColor converts a record's [0,1] color channels to an opaque rl.Color.
func RecordColor(rec store.Record) rl.Color {
	return rl.Color{R: channel(rec.R), G: channel(rec.G), B: channel(rec.B), A: 255}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// DrawSelection outlines one particle.
func DrawSelection(rec store.Record, color rl.Color) {
	rl.DrawCircleLinesV(rl.Vector2{X: rec.X, Y: rec.Y}, rec.Radius*1.6, color)
}

// DrawVelocity draws a particle's velocity as a line scaled by seconds.
func DrawVelocity(rec store.Record, vx, vy, seconds float32, color rl.Color) {
	from := rl.Vector2{X: rec.X, Y: rec.Y}
	to := rl.Vector2{X: rec.X + vx*seconds, Y: rec.Y + vy*seconds}
	rl.DrawLineV(from, to, color)
}

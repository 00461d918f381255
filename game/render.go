package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/renderer"
	"github.com/pthm-cable/bounce/store"
	"github.com/pthm-cable/bounce/ui"
)

const (
	controlsHint = "[Space] Pause  [N] Step  [</>] Speed  [Tab] Controls  [Q/V/E/F/S] Overlays  [LMB] Spawn  [RMB] Inspect  [Home] Camera"
	panelTop     = 125
	panelGap     = 10
)

var (
	colorBackground = rl.Color{R: 12, G: 14, B: 20, A: 255}
	colorWalls      = rl.Color{R: 90, G: 100, B: 120, A: 255}
	colorVelocity   = rl.Color{R: 255, G: 200, B: 80, A: 120}
)

// Draw renders the arena and the UI. Graphics mode only.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colorBackground)

	rl.BeginMode2D(g.camera2D())
	g.drawArena()
	rl.EndMode2D()

	g.drawUI()

	rl.EndDrawing()
}

// camera2D maps the camera onto raylib's 2D camera.
func (g *Game) camera2D() rl.Camera2D {
	return rl.Camera2D{
		Offset: rl.Vector2{X: g.camera.ViewportW / 2, Y: g.camera.ViewportH / 2},
		Target: rl.Vector2{X: g.camera.X, Y: g.camera.Y},
		Zoom:   g.camera.Zoom,
	}
}

// drawArena renders everything in arena coordinates.
func (g *Game) drawArena() {
	b := g.world.Bounds()
	rl.DrawRectangleLinesEx(rl.Rectangle{Width: b.Width, Height: b.Height}, 2/g.camera.Zoom, colorWalls)

	if g.overlays.IsEnabled(ui.OverlayQuadtree) {
		g.treeOverlay.Draw(g.world.Tree())
	}

	if err := g.particles.Draw(g.world.View(), g.camera); err != nil {
		slog.Warn("particle draw skipped", "error", err)
	}

	if g.overlays.IsEnabled(ui.OverlayVelocities) {
		g.drawVelocities()
	}

	g.inspector.DrawSelectionHighlight(g.world)
}

// drawVelocities draws a half-second velocity line for every visible particle.
func (g *Game) drawVelocities() {
	_ = g.world.View().Each(func(i int, rec store.Record) bool {
		if !g.camera.IsVisible(rec.X, rec.Y, rec.Radius) {
			return true
		}
		vel, err := g.world.Velocity(store.Index(i))
		if err != nil {
			return false
		}
		renderer.DrawVelocity(rec, vel.X, vel.Y, 0.5, colorVelocity)
		return true
	})
}

// drawUI renders screen-space panels.
func (g *Game) drawUI() {
	b := g.world.Bounds()
	g.hud.Draw(ui.HUDData{
		Title:         g.title,
		Particles:     g.world.Count(),
		Capacity:      g.world.Store().Capacity(),
		Tick:          g.world.Ticks(),
		StepsPerFrame: int(g.controlsState.StepsPerFrame),
		FPS:           rl.GetFPS(),
		Paused:        g.controlsState.Paused,
		ArenaW:        b.Width,
		ArenaH:        b.Height,
		Policy:        g.world.Collision().Policy,
		Collisions:    g.lastTick.Collisions,
	})

	panelX := int32(panelGap)
	if g.controls.IsVisible() {
		g.controls.Draw(g.overlays, &g.controlsState)
		panelX += 240 + panelGap
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.SetPosition(panelX, panelTop)
		g.perfPanel.Draw(g.perf.Stats())
	}
	if g.overlays.IsEnabled(ui.OverlayStats) {
		g.statsPanel.SetPosition(panelX, panelTop)
		g.statsPanel.Draw(g.lastWindow)
	}
	if g.overlays.IsEnabled(ui.OverlayEnergy) {
		g.energyPanel.Draw()
	}

	g.inspector.Draw(g.world)
	g.hud.DrawControls(int32(g.screenHeight), controlsHint)
}

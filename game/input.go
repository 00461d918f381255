package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.controlsState.Paused = !g.controlsState.Paused
	}
	if rl.IsKeyPressed(rl.KeyN) && g.controlsState.Paused {
		g.controlsState.StepOnce = true
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.controlsState.StepsPerFrame--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.controlsState.StepsPerFrame++
	}
	g.controlsState.Clamp()

	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}

	g.handleOverlayKeys()
	g.handleCameraInput()

	mouse := rl.GetMousePosition()
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)

	if g.overlays.IsEnabled(ui.OverlayEnergy) {
		g.energyPanel.HandleInput()
	}
	g.inspector.HandleInput(g.world, mouse.X, mouse.Y, wx, wy)

	// Holding the left button sprays particles at the cursor.
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) && !g.overPanel(mouse.X, mouse.Y) {
		g.Spawn(int(g.controlsState.SpawnPerTick), wx, wy)
	}
}

// overPanel reports whether a screen point is over any visible panel.
func (g *Game) overPanel(x, y float32) bool {
	if g.controls.IsVisible() && g.controls.Contains(x, y) {
		return true
	}
	if _, ok := g.inspector.Selected(); ok && g.inspector.Contains(x, y) {
		return true
	}
	if g.overlays.IsEnabled(ui.OverlayEnergy) && g.energyPanel.Contains(int32(x), int32(y)) {
		return true
	}
	return false
}

// handleOverlayKeys checks for overlay toggle key presses.
func (g *Game) handleOverlayKeys() {
	for _, desc := range g.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			g.overlays.Toggle(desc.ID)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
// When the arena follows the window the walls move with it.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	if g.followWindow {
		g.ResizeArena(w, h)
		g.camera.SetArena(w, h)
	}
	g.inspector.Resize(int32(w))
	g.energyPanel.Resize(int32(w), int32(h))
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// Package inspector shows the state of a single selected particle.
package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/components"
	"github.com/pthm-cable/bounce/renderer"
	"github.com/pthm-cable/bounce/store"
)

// Panel dimensions
const (
	PanelWidth   = 280
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
	ColorHighlight   = rl.Yellow
	ColorVelocity    = rl.Color{R: 255, G: 200, B: 100, A: 255}
)

// Source is the read side of the simulation the inspector needs.
// *sim.World satisfies it.
type Source interface {
	ParticleAt(x, y float32) (store.Index, bool)
	Store() *store.Store
	Components(i store.Index) (components.Slot, components.Velocity, components.Mass, error)
}

// Inspector manages particle selection and panel rendering.
type Inspector struct {
	selected    store.Index
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector creates a new inspector anchored to the top right.
func NewInspector(screenWidth int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth)
	return ins
}

// Resize re-anchors the panel after a window resize.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// HandleInput selects on right click. Escape or the close button deselects.
// worldX, worldY are the cursor in arena coordinates; screenX, screenY in
// window coordinates.
func (ins *Inspector) HandleInput(src Source, screenX, screenY, worldX, worldY float32) {
	if rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}

	if ins.hasSelected && rl.IsMouseButtonPressed(rl.MouseButtonLeft) && ins.overClose(screenX, screenY) {
		ins.Deselect()
		return
	}

	if !rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		return
	}
	if ins.hasSelected && ins.Contains(screenX, screenY) {
		return
	}
	ins.SelectAt(src, worldX, worldY)
}

// SelectAt selects the particle under (x, y) in arena coordinates. Clicking
// empty space clears the selection.
func (ins *Inspector) SelectAt(src Source, x, y float32) bool {
	idx, ok := src.ParticleAt(x, y)
	if !ok {
		ins.Deselect()
		return false
	}
	ins.selected = idx
	ins.hasSelected = true
	return true
}

// Contains reports whether a screen point is over the panel.
func (ins *Inspector) Contains(x, y float32) bool {
	return int32(x) >= ins.panelX && int32(x) <= ins.panelX+PanelWidth &&
		int32(y) >= ins.panelY && int32(y) <= ins.panelY+ins.panelHeight()
}

func (ins *Inspector) overClose(x, y float32) bool {
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	return int32(x) >= closeX && int32(x) <= closeX+20 &&
		int32(y) >= closeY && int32(y) <= closeY+20
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected particle.
func (ins *Inspector) Selected() (store.Index, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the inspector panel if a particle is selected.
func (ins *Inspector) Draw(src Source) {
	if !ins.hasSelected {
		return
	}

	st := src.Store()
	rec, err := st.Record(ins.selected)
	if err != nil {
		ins.Deselect()
		return
	}
	slot, vel, mass, err := src.Components(ins.selected)
	if err != nil {
		ins.Deselect()
		return
	}

	height := ins.panelHeight()
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding

	rl.DrawText(fmt.Sprintf("Particle #%d", ins.selected), x, y, 14, ColorHeaderText)
	y += 22

	ins.drawSectionHeader(x, y, "RECORD")
	y += 20
	y += DrawLabel(x, y, "Position", fmt.Sprintf("(%.1f, %.1f)", rec.X, rec.Y), "")
	y += DrawLabel(x, y, "Radius", rec.Radius, "")
	if st.Layout().HasColor {
		y += DrawSwatch(x, y, "Color", renderer.RecordColor(rec))
	}
	speed := math.Hypot(float64(vel.X), float64(vel.Y))
	y += DrawLabel(x, y, "Speed", speed, "")
	y += DrawLabel(x, y, "Energy", 0.5*float64(mass.Value)*speed*speed, "%.0f")
	y += 4

	for _, sec := range Sections(slot, vel, mass) {
		ins.drawSectionHeader(x, y, sec.Title)
		y += 20
		for _, f := range sec.Fields {
			y += DrawField(x, y, f)
		}
		y += 4
	}
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// panelHeight is fixed: header, id line, record section, three component sections.
func (ins *Inspector) panelHeight() int32 {
	height := HeaderHeight + PanelPadding
	height += 22            // id line
	height += 20 + 20*5 + 4 // record section
	height += 20 + 20 + 4   // Slot
	height += 20 + 20*2 + 4 // Velocity
	height += 20 + 20 + 4   // Mass
	height += PanelPadding
	return int32(height)
}

// DrawSelectionHighlight outlines the selected particle and its velocity, in
// arena coordinates.
func (ins *Inspector) DrawSelectionHighlight(src Source) {
	if !ins.hasSelected {
		return
	}
	rec, err := src.Store().Record(ins.selected)
	if err != nil {
		return
	}
	_, vel, _, err := src.Components(ins.selected)
	if err != nil {
		return
	}
	renderer.DrawSelection(rec, ColorHighlight)
	renderer.DrawVelocity(rec, vel.X, vel.Y, 0.5, ColorVelocity)
}

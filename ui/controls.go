package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// SimControls is the live-tunable state behind the controls panel.
type SimControls struct {
	Paused        bool
	StepOnce      bool // consumed by the caller after one tick
	SpawnPerTick  float32
	Radius        float32
	MaxSpeed      float32
	StepsPerFrame float32
}

// Slider ranges.
var (
	SpawnRange  = FieldRange{Min: 1, Max: 1000}
	RadiusRange = FieldRange{Min: 1, Max: 50}
	SpeedRange  = FieldRange{Min: 0, Max: 500}
	StepsRange  = FieldRange{Min: 1, Max: 16}
)

// Clamp forces every tunable into its slider range.
func (s *SimControls) Clamp() {
	s.SpawnPerTick = SpawnRange.Clamp(s.SpawnPerTick)
	s.Radius = RadiusRange.Clamp(s.Radius)
	s.MaxSpeed = SpeedRange.Clamp(s.MaxSpeed)
	s.StepsPerFrame = StepsRange.Clamp(s.StepsPerFrame)
}

// ControlsPanel renders the left-side controls panel with overlay toggles and
// simulation sliders.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the visible panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return int32(x) >= c.x && int32(x) <= c.x+c.width &&
		int32(y) >= c.y && int32(y) <= c.y+c.height(nil)
}

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	lineHeight := c.renderer.Theme.LineHeight
	padding := c.renderer.Theme.Padding
	items := 0
	if overlays != nil {
		for _, cat := range overlays.Categories() {
			items += len(overlays.ByCategory(cat)) + 1
		}
	} else {
		items = 8
	}
	overlayH := int32(items)*lineHeight + lineHeight + 8
	simH := lineHeight + 4 + 4*36 + 34
	return overlayH + simH + padding*3
}

// Draw renders the controls panel and applies slider and button changes to sc.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, sc *SimControls) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	y := c.y + padding
	x := c.x + padding
	inner := c.width - padding*2

	rl.DrawText("Simulation", x, y, 16, rl.White)
	y += lineHeight + 4

	y = c.slider(x, y, inner, "Spawn / tick", "%.0f", &sc.SpawnPerTick, SpawnRange)
	y = c.slider(x, y, inner, "Radius", "%.1f", &sc.Radius, RadiusRange)
	y = c.slider(x, y, inner, "Max speed", "%.0f", &sc.MaxSpeed, SpeedRange)
	y = c.slider(x, y, inner, "Steps / frame", "%.0f", &sc.StepsPerFrame, StepsRange)
	sc.StepsPerFrame = float32(int(sc.StepsPerFrame + 0.5))

	half := float32(inner-6) / 2
	pauseText := "Pause"
	if sc.Paused {
		pauseText = "Resume"
	}
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 26}, pauseText) {
		sc.Paused = !sc.Paused
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 6, Y: float32(y), Width: half, Height: 26}, "Step") {
		sc.StepOnce = true
	}
	y += 34 + padding

	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(x, y, desc, overlays.IsEnabled(desc.ID), inner)
			y += lineHeight
		}

		y += 4
	}

	return y
}

// slider draws a labelled raygui slider bound to v.
func (c *ControlsPanel) slider(x, y, width int32, label, format string, v *float32, rng FieldRange) int32 {
	r := c.renderer
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	valueText := fmt.Sprintf(format, *v)
	rl.DrawText(valueText, x+width-rl.MeasureText(valueText, r.Theme.FontSize), y, r.Theme.FontSize, r.Theme.ValueColor)
	y += 14

	*v = gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: 16},
		"", "",
		*v, rng.Min, rng.Max,
	)
	return y + 22
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "debug":
		return "Debug"
	case "panels":
		return "Panels"
	default:
		return cat
	}
}

package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/telemetry"
)

const (
	// ~20 minutes at 10s windows
	energyHistorySize = 120

	seriesKinetic   = 0
	seriesMomentum  = 1
	seriesParticles = 2
	seriesContacts  = 3
	numSeries       = 4
)

// EnergyPanel graphs conservation and load per telemetry window. Energy and
// momentum share the left axis; particle and contact counts share the right.
type EnergyPanel struct {
	panelWidth  int32
	panelHeight int32
	panelX      int32
	panelY      int32

	latest telemetry.WindowStats

	history       [numSeries]*History
	seriesVisible [numSeries]bool
	seriesNames   [numSeries]string
	seriesColors  [numSeries]rl.Color
}

// Energy panel colors
var (
	colorEnergyTitle   = rl.Color{R: 200, G: 200, B: 220, A: 255}
	colorEnergyPanelBg = rl.Color{R: 20, G: 20, B: 30, A: 230}
	colorGraphBg       = rl.Color{R: 15, G: 15, B: 25, A: 255}
	colorGraphGrid     = rl.Color{R: 40, G: 40, B: 50, A: 255}
	colorGraphBorder   = rl.Color{R: 60, G: 60, B: 70, A: 255}
)

var (
	leftAxis  = []int{seriesKinetic, seriesMomentum}
	rightAxis = []int{seriesParticles, seriesContacts}
)

// NewEnergyPanel creates a new energy panel along the bottom of the screen.
func NewEnergyPanel(screenWidth, screenHeight int32) *EnergyPanel {
	p := &EnergyPanel{panelHeight: 180, panelX: 10}
	for i := range p.history {
		p.history[i] = NewHistory(energyHistorySize)
	}
	p.seriesVisible = [numSeries]bool{true, true, false, true}
	p.seriesNames = [numSeries]string{"Kinetic", "|p|", "Particles", "Contacts/s"}
	p.seriesColors = [numSeries]rl.Color{
		{R: 255, G: 100, B: 80, A: 255},
		{R: 100, G: 149, B: 237, A: 255},
		{R: 80, G: 180, B: 80, A: 255},
		{R: 255, G: 255, B: 100, A: 255},
	}
	p.Resize(screenWidth, screenHeight)
	return p
}

// Resize updates panel dimensions when the window is resized.
func (p *EnergyPanel) Resize(screenWidth, screenHeight int32) {
	p.panelWidth = screenWidth - 20
	if p.panelWidth < 400 {
		p.panelWidth = 400
	}
	p.panelY = screenHeight - p.panelHeight - 10
}

// Update records one telemetry window.
func (p *EnergyPanel) Update(ws telemetry.WindowStats, windowSec float64) {
	p.latest = ws
	if windowSec <= 0 {
		windowSec = 1
	}
	p.history[seriesKinetic].Push(ws.KineticEnergy)
	p.history[seriesMomentum].Push(math.Hypot(ws.MomentumX, ws.MomentumY))
	p.history[seriesParticles].Push(float64(ws.Particles))
	p.history[seriesContacts].Push(float64(ws.Contacts) / windowSec)
}

// Samples returns how many windows have been recorded.
func (p *EnergyPanel) Samples() int { return p.history[seriesKinetic].Len() }

// HandleInput toggles series when their legend entry is clicked.
func (p *EnergyPanel) HandleInput() {
	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return
	}

	mx := rl.GetMouseX()
	my := rl.GetMouseY()

	legendY := p.panelY + p.panelHeight - 24
	legendX := p.panelX + 10

	for i := 0; i < numSeries; i++ {
		itemX := legendX + int32(i)*100
		if mx >= itemX && mx < itemX+95 && my >= legendY && my < legendY+18 {
			p.seriesVisible[i] = !p.seriesVisible[i]
			return
		}
	}
}

// Contains reports whether a screen point is over the panel.
func (p *EnergyPanel) Contains(x, y int32) bool {
	return x >= p.panelX && x < p.panelX+p.panelWidth && y >= p.panelY && y < p.panelY+p.panelHeight
}

// Draw renders the energy panel with graphs.
func (p *EnergyPanel) Draw() {
	rl.DrawRectangle(p.panelX, p.panelY, p.panelWidth, p.panelHeight, colorEnergyPanelBg)
	rl.DrawRectangleLines(p.panelX, p.panelY, p.panelWidth, p.panelHeight, colorGraphBorder)

	rl.DrawText("ENERGY", p.panelX+10, p.panelY+6, 14, colorEnergyTitle)

	if p.Samples() == 0 {
		rl.DrawText("Waiting for data...", p.panelX+100, p.panelY+80, 14, ColorTextDim)
		return
	}

	textWidth := int32(170)
	p.drawReadout(p.panelX+10, p.panelY+28)

	graphX := p.panelX + textWidth + 20
	graphY := p.panelY + 24
	graphW := p.panelWidth - textWidth - 40
	graphH := p.panelHeight - 54
	p.drawGraph(graphX, graphY, graphW, graphH)

	p.drawLegend(p.panelX+10, p.panelY+p.panelHeight-24)
}

// drawReadout prints the latest window's values.
func (p *EnergyPanel) drawReadout(x, y int32) {
	lines := []string{
		"KE   " + formatEnergy(p.latest.KineticEnergy),
		fmt.Sprintf("p    (%s, %s)", formatEnergy(p.latest.MomentumX), formatEnergy(p.latest.MomentumY)),
		fmt.Sprintf("n    %d / %d", p.latest.Particles, p.latest.Capacity),
		fmt.Sprintf("v50  %.1f", p.latest.SpeedP50),
		fmt.Sprintf("tree %d nodes, d%d", p.latest.TreeNodes, p.latest.TreeDepth),
	}
	for _, line := range lines {
		rl.DrawText(line, x, y, 11, ColorText)
		y += 18
	}
}

// drawGraph renders the line graph.
func (p *EnergyPanel) drawGraph(x, y, w, h int32) {
	rl.DrawRectangle(x, y, w, h, colorGraphBg)
	rl.DrawRectangleLines(x, y, w, h, colorGraphBorder)

	for i := int32(1); i < 4; i++ {
		gridY := y + (h * i / 4)
		rl.DrawLine(x, gridY, x+w, gridY, colorGraphGrid)
	}
	for i := int32(1); i < 6; i++ {
		gridX := x + (w * i / 6)
		rl.DrawLine(gridX, y, gridX, y+h, colorGraphGrid)
	}

	if p.Samples() < 2 {
		return
	}

	leftMin, leftMax := Range(p.visible(leftAxis)...)
	rightMin, rightMax := Range(p.visible(rightAxis)...)

	for _, s := range leftAxis {
		if p.seriesVisible[s] {
			p.drawSeriesLine(x, y, w, h, s, leftMin, leftMax)
		}
	}
	for _, s := range rightAxis {
		if p.seriesVisible[s] {
			p.drawSeriesLine(x, y, w, h, s, rightMin, rightMax)
		}
	}

	rl.DrawText(formatEnergy(leftMax), x+2, y+2, 9, ColorTextDim)
	rl.DrawText(formatEnergy(leftMin), x+2, y+h-10, 9, ColorTextDim)
	maxLabel := formatEnergy(rightMax)
	minLabel := formatEnergy(rightMin)
	rl.DrawText(maxLabel, x+w-rl.MeasureText(maxLabel, 9)-2, y+2, 9, ColorTextDim)
	rl.DrawText(minLabel, x+w-rl.MeasureText(minLabel, 9)-2, y+h-10, 9, ColorTextDim)
}

func (p *EnergyPanel) visible(series []int) []*History {
	var out []*History
	for _, s := range series {
		if p.seriesVisible[s] {
			out = append(out, p.history[s])
		}
	}
	return out
}

// drawSeriesLine draws one data series as a line.
func (p *EnergyPanel) drawSeriesLine(x, y, w, h int32, series int, minVal, maxVal float64) {
	hist := p.history[series]
	n := hist.Len()
	if n < 2 {
		return
	}
	valueRange := maxVal - minVal

	var prevX, prevY int32
	for i := 0; i < n; i++ {
		px := x + int32(float64(i)*float64(w)/float64(n-1))
		py := y + h - int32((hist.At(i)-minVal)/valueRange*float64(h))
		if py < y {
			py = y
		}
		if py > y+h {
			py = y + h
		}
		if i > 0 {
			rl.DrawLine(prevX, prevY, px, py, p.seriesColors[series])
		}
		prevX, prevY = px, py
	}
}

// drawLegend draws the interactive legend.
func (p *EnergyPanel) drawLegend(x, y int32) {
	itemWidth := int32(100)

	for i := 0; i < numSeries; i++ {
		itemX := x + int32(i)*itemWidth
		color := p.seriesColors[i]
		textColor := ColorText
		if !p.seriesVisible[i] {
			color.A = 80
			textColor = ColorTextDim
		}
		rl.DrawRectangle(itemX, y+2, 10, 10, color)
		rl.DrawText(p.seriesNames[i], itemX+14, y, 11, textColor)
	}

	rl.DrawText("(click to toggle)", x+int32(numSeries)*itemWidth+10, y, 10, ColorTextDim)
}

// formatEnergy formats a value compactly for axis labels.
func formatEnergy(v float64) string {
	a := math.Abs(v)
	switch {
	case a >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case a >= 10000:
		return fmt.Sprintf("%.0fk", v/1000)
	case a >= 1000:
		return fmt.Sprintf("%.1fk", v/1000)
	case a >= 100:
		return fmt.Sprintf("%.0f", v)
	case a >= 10:
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/systems"
	"github.com/pthm-cable/bounce/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Particles     int
	Capacity      int
	Tick          int64
	StepsPerFrame int
	FPS           int32
	Paused        bool
	ArenaW        float32
	ArenaH        float32
	Policy        systems.PairPolicy
	Collisions    systems.CollisionStats
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d / %d | Arena: %.0fx%.0f", data.Particles, data.Capacity, data.ArenaW, data.ArenaH),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Steps: %dx | FPS: %d", data.Tick, data.StepsPerFrame, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Contacts: %d | Resolved: %d | Policy: %s", data.Collisions.Contacts, data.Collisions.Resolved, data.Policy),
		10, 75, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 95, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	phases   *systems.SystemRegistry
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		phases:   systems.NewSystemRegistry(),
		x:        x,
		y:        y,
		width:    260,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	padding := r.Theme.Padding
	height := int32(len(telemetry.Phases))*14 + 56 + padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := p.y + padding

	rl.DrawText("Tick Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  P95: %s  Max: %s",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.P95TickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("%.0f ticks/s  %.0f fps", stats.TicksPerSecond, stats.FPS), x, y, 12, rl.LightGray)
	y += 20

	for _, phase := range telemetry.Phases {
		avg := stats.PhaseAvg[phase]
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		switch stage, _ := p.phases.Get(phase); {
		case stage.Kind == systems.StageInternal:
			color = rl.Gray
		case pct > 50:
			color = rl.Red
		case pct > 25:
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", p.phases.GetName(phase), avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// StatsPanel renders the last telemetry window through a panel descriptor.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	desc     PanelDescriptor
}

// NewStatsPanel creates a window stats panel.
func NewStatsPanel(x, y int32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		desc:     WindowStatsPanel(),
	}
}

// SetPosition updates the panel position.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the panel for ws.
func (s *StatsPanel) Draw(ws telemetry.WindowStats) int32 {
	return s.renderer.DrawPanelDescriptor(s.x, s.y, s.desc, ws)
}

func windowStats(data any) telemetry.WindowStats {
	ws, _ := data.(telemetry.WindowStats)
	return ws
}

func intField(label string, get func(telemetry.WindowStats) int) FieldDescriptor {
	return FieldDescriptor{
		Label:  label,
		Widget: WidgetText,
		Format: "%.0f",
		Getter: func(d any) float32 { return float32(get(windowStats(d))) },
	}
}

// WindowStatsPanel describes the window stats panel.
func WindowStatsPanel() PanelDescriptor {
	return PanelDescriptor{
		Title: "Window Stats",
		Width: 260,
		Sections: []SectionDescriptor{
			{
				Title: "Store",
				Fields: []FieldDescriptor{
					{
						Label:  "Fill",
						Widget: WidgetBar,
						Range:  DefaultRange(),
						Format: "%.2f",
						Getter: func(d any) float32 {
							ws := windowStats(d)
							if ws.Capacity == 0 {
								return 0
							}
							return float32(ws.Particles) / float32(ws.Capacity)
						},
					},
					intField("Particles", func(ws telemetry.WindowStats) int { return ws.Particles }),
					intField("Spawned", func(ws telemetry.WindowStats) int { return ws.Spawned }),
					{
						Label:   "Rejected",
						Widget:  WidgetText,
						Format:  "%.0f",
						Getter:  func(d any) float32 { return float32(windowStats(d).Rejected) },
						Visible: func(d any) bool { return windowStats(d).Rejected > 0 },
					},
					intField("Grows", func(ws telemetry.WindowStats) int { return ws.Grows }),
				},
			},
			{
				Title: "Collisions",
				Fields: []FieldDescriptor{
					intField("Candidates", func(ws telemetry.WindowStats) int { return ws.Candidates }),
					intField("Contacts", func(ws telemetry.WindowStats) int { return ws.Contacts }),
					intField("Resolved", func(ws telemetry.WindowStats) int { return ws.Resolved }),
					intField("Degenerate", func(ws telemetry.WindowStats) int { return ws.Degenerate }),
					intField("Bounces", func(ws telemetry.WindowStats) int { return ws.Bounces }),
				},
			},
			{
				Title: "Motion",
				Fields: []FieldDescriptor{
					{
						Label:  "Speed p10/50/90",
						Widget: WidgetText,
						TextGetter: func(d any) string {
							ws := windowStats(d)
							return fmt.Sprintf("%.0f/%.0f/%.0f", ws.SpeedP10, ws.SpeedP50, ws.SpeedP90)
						},
					},
					{
						Label:  "Tree",
						Widget: WidgetText,
						TextGetter: func(d any) string {
							ws := windowStats(d)
							return fmt.Sprintf("%d nodes, depth %d", ws.TreeNodes, ws.TreeDepth)
						},
					},
				},
			},
		},
	}
}

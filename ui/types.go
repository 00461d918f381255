// Package ui draws the HUD, side panels and controls. Text panels are
// declared as data: a PanelDescriptor lists sections of fields, each with a
// getter over the value the panel shows.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType selects how a field is drawn.
type WidgetType int

const (
	WidgetText    WidgetType = iota // formatted value
	WidgetBar                       // fill over Range
	WidgetSection                   // inline header
	WidgetSpacer
)

// FieldRange is a closed interval used by bars and sliders.
type FieldRange struct {
	Min, Max float32
}

// DefaultRange returns [0, 1].
func DefaultRange() FieldRange {
	return FieldRange{Max: 1}
}

// Clamp limits v to the range.
func (r FieldRange) Clamp(v float32) float32 {
	return min(max(v, r.Min), r.Max)
}

// Normalize maps v onto [0, 1]. An empty range maps everything to 0.
func (r FieldRange) Normalize(v float32) float32 {
	if r.Max <= r.Min {
		return 0
	}
	return (r.Clamp(v) - r.Min) / (r.Max - r.Min)
}

// FieldDescriptor is one line of a panel. Getter feeds bars and numeric text;
// TextGetter, when set, takes precedence for text fields.
type FieldDescriptor struct {
	Label      string
	Widget     WidgetType
	Format     string // printf verb, "%.2f" when empty
	Range      FieldRange
	Visible    func(any) bool // nil = always shown
	Getter     func(any) float32
	TextGetter func(any) string
}

// SectionDescriptor groups fields under an optional title.
type SectionDescriptor struct {
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// PanelDescriptor is a titled stack of sections.
type PanelDescriptor struct {
	Title    string
	Sections []SectionDescriptor
	Width    int32
}

// Theme holds colors and metrics shared by every panel.
type Theme struct {
	PanelBg, PanelBorder  rl.Color
	SectionHeader         rl.Color
	LabelColor            rl.Color
	ValueColor            rl.Color
	BarBg, BarFill        rl.Color
	Padding, LineHeight   int32
	LabelWidth, BarHeight int32
	FontSize              int32
	HeaderFontSize        int32
}

// DefaultTheme returns the dark theme used by all panels.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     110,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

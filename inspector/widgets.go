package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	ColorBarBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow  = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorBoolOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// Row layout shared by every widget: a dim name column, then the value.
const (
	valueColumn = 80
	rowHeight   = 18
	labelHeight = 20
	boxSize     = 14
	barWidth    = 120
)

// DrawLabel draws "name: value" and returns the row height.
func DrawLabel(x, y int32, name string, value any, format string) int32 {
	rl.DrawText(name+": "+FormatValue(value, format), x, y, 16, ColorText)
	return labelHeight
}

// DrawBar draws value as a fill of full, shading from red to green.
func DrawBar(x, y int32, name string, value, full float32) int32 {
	ratio := min(max(0, value/full), 1)
	bx := x + valueColumn

	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawRectangle(bx, y, barWidth, boxSize, ColorBarBg)
	rl.DrawRectangle(bx, y, int32(barWidth*ratio), boxSize, lerpColor(ColorBarLow, ColorBarFill, ratio))
	rl.DrawText(fmt.Sprintf("%.2f", value), bx+barWidth+5, y, 14, ColorTextDim)
	return rowHeight
}

// DrawBool draws an ON/OFF indicator.
func DrawBool(x, y int32, name string, on bool) int32 {
	color, text := ColorBoolOff, "OFF"
	if on {
		color, text = ColorBoolOn, "ON"
	}
	bx := x + valueColumn

	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawRectangle(bx, y, boxSize, boxSize, color)
	rl.DrawText(text, bx+boxSize+5, y, 14, color)
	return rowHeight
}

// DrawSwatch draws a color square with its hex code.
func DrawSwatch(x, y int32, name string, color rl.Color) int32 {
	bx := x + valueColumn

	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawRectangle(bx, y, boxSize, boxSize, color)
	rl.DrawRectangleLines(bx, y, boxSize, boxSize, ColorTextDim)
	rl.DrawText(fmt.Sprintf("#%02x%02x%02x", color.R, color.G, color.B), bx+boxSize+6, y, 14, ColorTextDim)
	return rowHeight
}

// DrawField draws f with its hinted widget, falling back to a label when the
// value does not suit the widget.
func DrawField(x, y int32, f Field) int32 {
	switch f.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(f.Value); ok {
			return DrawBar(x, y, f.Name, v, f.Max)
		}
	case WidgetBool:
		if v, ok := f.Value.(bool); ok {
			return DrawBool(x, y, f.Name, v)
		}
	}
	return DrawLabel(x, y, f.Name, f.Value, f.Format)
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	mix := func(u, v uint8) uint8 { return uint8(float32(u) + (float32(v)-float32(u))*t) }
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for value over rng.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, rng FieldRange, format string, width int32) int32 {
	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fillWidth := int32(float32(barWidth) * rng.Normalize(value))
	rl.DrawRectangle(barX, y+2, fillWidth, r.Theme.BarHeight, r.Theme.BarFill)

	if format == "" {
		format = "%.2f"
	}
	rl.DrawText(fmt.Sprintf(format, value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		return r.DrawLabelValue(x, y, fd.Label, FieldText(fd, data))

	case WidgetBar:
		var value float32
		if fd.Getter != nil {
			value = fd.Getter(data)
		}
		return r.DrawBar(x, y, fd.Label, value, fd.Range, fd.Format, width)

	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)

	case WidgetSpacer:
		return y + 6
	}

	return y
}

// FieldText resolves the display text of a text field.
func FieldText(fd FieldDescriptor, data any) string {
	if fd.TextGetter != nil {
		return fd.TextGetter(data)
	}
	if fd.Getter != nil {
		format := fd.Format
		if format == "" {
			format = "%.2f"
		}
		return fmt.Sprintf(format, fd.Getter(data))
	}
	return ""
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		y = r.DrawField(x, y, fd, data, width)
	}
	return y + 4
}

// SectionHeight returns the height DrawSection will use for data.
func (r *Renderer) SectionHeight(sd SectionDescriptor, data any) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return 0
	}
	var h int32
	if sd.Title != "" {
		h += r.Theme.LineHeight
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		switch fd.Widget {
		case WidgetBar:
			h += r.Theme.LineHeight + 2
		case WidgetSpacer:
			h += 6
		default:
			h += r.Theme.LineHeight
		}
	}
	return h + 4
}

// DrawPanelDescriptor draws a whole panel at (x, y) and returns its height.
func (r *Renderer) DrawPanelDescriptor(x, y int32, pd PanelDescriptor, data any) int32 {
	padding := r.Theme.Padding
	height := padding * 2
	if pd.Title != "" {
		height += r.Theme.LineHeight + 4
	}
	for _, sd := range pd.Sections {
		height += r.SectionHeight(sd, data)
	}

	r.DrawPanel(x, y, pd.Width, height)
	cy := y + padding
	if pd.Title != "" {
		rl.DrawText(pd.Title, x+padding, cy, 16, rl.White)
		cy += r.Theme.LineHeight + 4
	}
	for _, sd := range pd.Sections {
		cy = r.DrawSection(x+padding, cy, sd, data, pd.Width-padding*2)
	}
	return height
}

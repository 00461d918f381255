package store

import "fmt"

// Layout describes the fixed per-record float layout shared with the renderer.
// Field offsets are in floats from the start of a record.
type Layout struct {
	Name     string
	Stride   int // floats per record
	HasColor bool
}

// Field offsets within a record. Color offsets are only valid for layouts with HasColor.
const (
	OffsetX      = 0
	OffsetY      = 1
	OffsetRadius = 2
	OffsetRed    = 3
	OffsetGreen  = 4
	OffsetBlue   = 5
)

var (
	// LayoutMinimal is {x, y, radius}.
	LayoutMinimal = Layout{Name: "minimal", Stride: 3}

	// LayoutExtended is {x, y, radius, red, green, blue} with color in [0,1].
	LayoutExtended = Layout{Name: "extended", Stride: 6, HasColor: true}
)

// ParseLayout returns the layout registered under name.
func ParseLayout(name string) (Layout, error) {
	switch name {
	case LayoutMinimal.Name:
		return LayoutMinimal, nil
	case LayoutExtended.Name, "":
		return LayoutExtended, nil
	default:
		return Layout{}, fmt.Errorf("unknown record layout %q", name)
	}
}

// Bytes returns the record size in bytes, as used for vertex attribute strides.
func (l Layout) Bytes() int {
	return l.Stride * 4
}

func (l Layout) String() string {
	return fmt.Sprintf("%s(stride=%d)", l.Name, l.Stride)
}

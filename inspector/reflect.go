package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetBool
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Hint is a parsed `inspect` struct tag.
//
//	`inspect:"bar,max:200"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"skip"`
//
// Unknown widgets fall back to WidgetAuto; unknown options are ignored.
type Hint struct {
	Widget Widget
	Format string  // fmt verb for labels; empty picks a default per type
	Max    float32 // full-scale value for bars
}

// Field is one exported struct field ready to draw.
type Field struct {
	Name  string
	Value any
	Hint
}

// Section is the fields of one component, titled by its type name.
type Section struct {
	Title  string
	Fields []Field
}

// ParseTag decodes an inspect tag.
func ParseTag(tag string) Hint {
	h := Hint{Max: 1}
	name, opts, _ := strings.Cut(tag, ",")
	h.Widget = widgetNames[strings.TrimSpace(name)]

	for opt := range strings.SplitSeq(opts, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(opt), ":")
		if !ok {
			continue
		}
		switch key {
		case "fmt":
			h.Format = val
		case "max":
			if m, err := strconv.ParseFloat(val, 32); err == nil && m > 0 {
				h.Max = float32(m)
			}
		}
	}
	return h
}

// ExtractFields lists the exported fields of a struct or struct pointer.
// Other values, and nil pointers, yield nil.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	fields := make([]Field, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		h := ParseTag(sf.Tag.Get("inspect"))
		fv := v.Field(i)
		switch h.Widget {
		case WidgetSkip:
			continue
		case WidgetAuto:
			h.Widget = WidgetLabel
			if fv.Kind() == reflect.Bool {
				h.Widget = WidgetBool
			}
		}
		fields = append(fields, Field{Name: sf.Name, Value: fv.Interface(), Hint: h})
	}
	return fields
}

// Sections builds one Section per struct component, skipping anything else.
func Sections(components ...any) []Section {
	var out []Section
	for _, c := range components {
		if fields := ExtractFields(c); fields != nil {
			t := reflect.Indirect(reflect.ValueOf(c)).Type()
			out = append(out, Section{Title: t.Name(), Fields: fields})
		}
	}
	return out
}

// FormatValue renders value with format, or with two decimals for floats when
// format is empty.
func FormatValue(value any, format string) string {
	if format != "" {
		return fmt.Sprintf(format, value)
	}
	switch v := value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprint(value)
	}
}

// GetFloatValue converts any numeric kind to float32, including named integer
// types such as store.Index.
func GetFloatValue(value any) (float32, bool) {
	v := reflect.ValueOf(value)
	switch {
	case v.CanFloat():
		return float32(v.Float()), true
	case v.CanInt():
		return float32(v.Int()), true
	case v.CanUint():
		return float32(v.Uint()), true
	}
	return 0, false
}

package ui

import (
	"fmt"
	"slices"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID names a toggleable overlay. IDs double as --overlay flag values.
type OverlayID string

const (
	OverlayQuadtree   OverlayID = "quadtree"
	OverlayVelocities OverlayID = "velocities"
	OverlayEnergy     OverlayID = "energy"
	OverlayPerf       OverlayID = "perf"
	OverlayStats      OverlayID = "stats"
)

// OverlayDescriptor describes one overlay. Overlays sharing a non-empty Group
// are mutually exclusive: enabling one disables the rest.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32 // 0 = no key binding
	KeyLabel    string
	Category    string
	Group       string
}

var defaultOverlays = []OverlayDescriptor{
	{ID: OverlayQuadtree, Name: "Quadtree", Description: "Outline broad-phase nodes, shaded by depth", Key: rl.KeyQ, KeyLabel: "Q", Category: "debug"},
	{ID: OverlayVelocities, Name: "Velocities", Description: "Draw a velocity vector on every particle", Key: rl.KeyV, KeyLabel: "V", Category: "debug"},
	{ID: OverlayEnergy, Name: "Energy Graph", Description: "Kinetic energy and momentum per telemetry window", Key: rl.KeyE, KeyLabel: "E", Category: "panels"},
	{ID: OverlayPerf, Name: "Phase Timing", Description: "Per-phase tick timing", Key: rl.KeyF, KeyLabel: "F", Category: "panels", Group: "side"},
	{ID: OverlayStats, Name: "Window Stats", Description: "Last telemetry window counters", Key: rl.KeyS, KeyLabel: "S", Category: "panels", Group: "side"},
}

// OverlayRegistry tracks which overlays are on, in registration order.
type OverlayRegistry struct {
	descs []OverlayDescriptor
	on    []bool
}

// NewOverlayRegistry returns a registry with every built-in overlay off.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{}
	for _, d := range defaultOverlays {
		r.Register(d)
	}
	return r
}

// Register adds an overlay, initially off.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descs = append(r.descs, desc)
	r.on = append(r.on, false)
}

func (r *OverlayRegistry) indexOf(id OverlayID) int {
	return slices.IndexFunc(r.descs, func(d OverlayDescriptor) bool { return d.ID == id })
}

// SetEnabled sets an overlay's state. Unknown IDs are ignored.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	i := r.indexOf(id)
	if i < 0 {
		return
	}
	if enabled && r.descs[i].Group != "" {
		for j, d := range r.descs {
			if d.Group == r.descs[i].Group {
				r.on[j] = false
			}
		}
	}
	r.on[i] = enabled
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if r.indexOf(id) < 0 {
		return false
	}
	state := !r.IsEnabled(id)
	r.SetEnabled(id, state)
	return state
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	i := r.indexOf(id)
	return i >= 0 && r.on[i]
}

// Get returns an overlay descriptor by ID.
func (r *OverlayRegistry) Get(id OverlayID) (OverlayDescriptor, bool) {
	if i := r.indexOf(id); i >= 0 {
		return r.descs[i], true
	}
	return OverlayDescriptor{}, false
}

// All returns every overlay in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descs
}

// ByCategory returns the overlays of one category, in order.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.descs {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns each category once, in first-seen order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, d := range r.descs {
		if !slices.Contains(cats, d.Category) {
			cats = append(cats, d.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key. ok is false when no
// overlay uses the key.
func (r *OverlayRegistry) HandleKeyPress(key int32) (id OverlayID, state, ok bool) {
	for _, d := range r.descs {
		if d.Key != 0 && d.Key == key {
			return d.ID, r.Toggle(d.ID), true
		}
	}
	return "", false, false
}

// EnabledOverlays returns the IDs that are on, in registration order.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var out []OverlayID
	for i, d := range r.descs {
		if r.on[i] {
			out = append(out, d.ID)
		}
	}
	return out
}

// EnableList enables a comma-separated list of overlay IDs, as given on the
// command line. Unknown IDs are an error; nothing is enabled in that case.
func (r *OverlayRegistry) EnableList(list string) error {
	var ids []OverlayID
	for part := range strings.SplitSeq(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if r.indexOf(OverlayID(part)) < 0 {
			return fmt.Errorf("unknown overlay %q", part)
		}
		ids = append(ids, OverlayID(part))
	}
	for _, id := range ids {
		r.SetEnabled(id, true)
	}
	return nil
}

// Package main provides CMA-ES tuning of the broad-phase parameters.
package main

import (
	"math"

	"github.com/pthm-cable/bounce/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters. Defaults are
// taken from cfg so the search starts from the configured tree.
func NewParamVector(cfg *config.Config) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			{Name: "node_capacity", Path: "quadtree.node_capacity", Min: 2, Max: 128, Default: 32},
			{Name: "max_depth", Path: "quadtree.max_depth", Min: 4, Max: 24, Default: 16},
		},
	}
	if cfg != nil {
		for i, v := range pv.ExtractFromConfig(cfg) {
			pv.Specs[i].Default = pv.clampOne(i, v)
		}
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp bounds every value and rounds it to the integer the config stores.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i := range pv.Specs {
		clamped[i] = pv.clampOne(i, v[i])
	}
	return clamped
}

func (pv *ParamVector) clampOne(i int, v float64) float64 {
	spec := pv.Specs[i]
	if math.IsNaN(v) {
		return spec.Default
	}
	return math.Round(math.Max(spec.Min, math.Min(spec.Max, v)))
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Quadtree.NodeCapacity = int(clamped[0])
	cfg.Quadtree.MaxDepth = int(clamped[1])
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Quadtree.NodeCapacity),
		float64(cfg.Quadtree.MaxDepth),
	}
}

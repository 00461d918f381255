package sim

import (
	"fmt"

	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/store"
	"github.com/pthm-cable/bounce/systems"
)

// OptionsFromConfig builds World options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	layout, err := store.ParseLayout(cfg.Store.Layout)
	if err != nil {
		return Options{}, fmt.Errorf("store.layout: %w", err)
	}
	policy, err := systems.ParsePairPolicy(cfg.Physics.CollisionPolicy)
	if err != nil {
		return Options{}, fmt.Errorf("physics.collision_policy: %w", err)
	}
	return Options{
		Bounds:          systems.Bounds{Width: cfg.Derived.ArenaW32, Height: cfg.Derived.ArenaH32},
		InitialCapacity: cfg.Store.InitialCapacity,
		Layout:          layout,
		NodeCapacity:    cfg.Quadtree.NodeCapacity,
		MaxDepth:        cfg.Quadtree.MaxDepth,
		Collision: systems.CollisionOptions{
			Policy:         policy,
			MassDefect:     cfg.Physics.PreserveMassDefect,
			SkipSeparating: cfg.Physics.SkipSeparating,
		},
	}, nil
}

package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bounce/components"
	"github.com/pthm-cable/bounce/store"
)

type body struct {
	x, y, r, vx, vy float32
}

type fixture struct {
	world    *ecs.World
	store    *store.Store
	mapper   *ecs.Map3[components.Slot, components.Velocity, components.Mass]
	entities []ecs.Entity
}

// newFixture spawns bodies with mass r² into a fresh world and store.
func newFixture(t *testing.T, bodies ...body) *fixture {
	t.Helper()
	st, err := store.New(len(bodies)+1, store.LayoutMinimal)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	w := ecs.NewWorld()
	f := &fixture{
		world:  w,
		store:  st,
		mapper: ecs.NewMap3[components.Slot, components.Velocity, components.Mass](w),
	}
	for _, b := range bodies {
		idx, err := st.Append(store.Record{X: b.x, Y: b.y, Radius: b.r})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		e := f.mapper.NewEntity(
			&components.Slot{Index: idx},
			&components.Velocity{X: b.vx, Y: b.vy},
			&components.Mass{Value: b.r * b.r},
		)
		f.entities = append(f.entities, e)
	}
	return f
}

func (f *fixture) velocity(i int) components.Velocity {
	_, vel, _ := f.mapper.Get(f.entities[i])
	return *vel
}

func (f *fixture) position(t *testing.T, i int) (float32, float32) {
	t.Helper()
	x, y, err := f.store.Position(store.Index(i))
	if err != nil {
		t.Fatalf("Position(%d): %v", i, err)
	}
	return x, y
}

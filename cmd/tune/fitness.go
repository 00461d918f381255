package main

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/sim"
)

// unsoundPenalty is added to the fitness of a tree that misses contacts the
// baseline tree found. It dwarfs any realistic tick time.
const unsoundPenalty = 1.0

// FitnessEvaluator runs headless simulations and scores tick time.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	seeds      []int64
	particles  int
	warmup     int
	ticks      int

	// Contacts found on the first tick per seed with the base tree.
	baseline map[int64]int

	mu         sync.Mutex
	lastResult evalResult
}

// evalResult is the outcome of one parameter vector over all seeds.
type evalResult struct {
	AvgTick    time.Duration
	AvgNodes   float64
	AvgDepth   float64
	Unsound    int // seeds whose first-tick contacts differ from the baseline
	Contacts   int // total first-tick contacts
	Candidates int // total first-tick candidates
}

// NewFitnessEvaluator creates a new evaluator and records the baseline
// contact counts with the base configuration.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, seeds []int64, particles, warmup, ticks int) (*FitnessEvaluator, error) {
	fe := &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		seeds:      seeds,
		particles:  particles,
		warmup:     warmup,
		ticks:      ticks,
		baseline:   make(map[int64]int, len(seeds)),
	}
	for _, seed := range seeds {
		r, err := fe.runSimulation(baseCfg, seed, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("baseline seed %d: %w", seed, err)
		}
		fe.baseline[seed] = r.firstContacts
	}
	return fe, nil
}

// LastResult returns the breakdown of the most recent evaluation.
func (fe *FitnessEvaluator) LastResult() evalResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResult
}

// runResult holds the results from a single simulation run.
type runResult struct {
	firstContacts   int
	firstCandidates int
	total           time.Duration
	nodes, depth    int
}

// Evaluate computes fitness for a raw parameter vector (lower = better):
// mean seconds per measured tick, plus unsoundPenalty per unsound seed.
// Seeds run sequentially so they do not compete for cores while timed.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var res evalResult
	var total time.Duration
	var failed bool
	for _, seed := range fe.seeds {
		r, err := fe.runSimulation(cfg, seed, fe.warmup, fe.ticks)
		if err != nil {
			failed = true
			break
		}
		total += r.total
		res.AvgNodes += float64(r.nodes)
		res.AvgDepth += float64(r.depth)
		res.Contacts += r.firstContacts
		res.Candidates += r.firstCandidates
		if r.firstContacts != fe.baseline[seed] {
			res.Unsound++
		}
	}

	n := float64(len(fe.seeds))
	measured := max(fe.ticks, 1) * len(fe.seeds)
	res.AvgTick = total / time.Duration(measured)
	res.AvgNodes /= n
	res.AvgDepth /= n

	fe.mu.Lock()
	fe.lastResult = res
	fe.mu.Unlock()

	if failed {
		return math.Inf(1)
	}
	return res.AvgTick.Seconds() + unsoundPenalty*float64(res.Unsound)
}

// runSimulation scatters the particles, runs warmup untimed ticks, then times
// ticks more. The first tick's collision counts are kept for the soundness check.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64, warmup, ticks int) (*runResult, error) {
	opts, err := sim.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts.InitialCapacity = max(opts.InitialCapacity, fe.particles)
	w, err := sim.New(opts)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	spawner := sim.NewSpawner(rng, cfg.Derived.Radius32, cfg.Derived.MaxSpeed)
	b := w.Bounds()
	in := sim.Input{Spawns: spawner.Scatter(nil, fe.particles, b.Width, b.Height)}

	dt := cfg.Derived.DT32
	if dt == 0 {
		dt = 1.0 / 60
	}

	result := &runResult{}
	stats, err := w.Tick(dt, in)
	if err != nil {
		return nil, err
	}
	result.firstContacts = stats.Collisions.Contacts
	result.firstCandidates = stats.Collisions.Candidates

	for i := 0; i < warmup; i++ {
		if _, err := w.Tick(dt, sim.Input{}); err != nil {
			return nil, err
		}
	}
	start := time.Now()
	for i := 0; i < ticks; i++ {
		if _, err := w.Tick(dt, sim.Input{}); err != nil {
			return nil, err
		}
	}
	result.total = time.Since(start)
	result.nodes = w.Tree().NodeCount()
	result.depth = w.Tree().Depth()
	return result, nil
}

// copyConfig creates a copy of the base config. Config holds no pointers or
// slices, so a value copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

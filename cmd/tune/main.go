package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/bounce/config"
)

// evalRow is one line of tune_log.csv.
type evalRow struct {
	Eval         int     `csv:"eval"`
	Fitness      float64 `csv:"fitness"`
	NodeCapacity int     `csv:"node_capacity"`
	MaxDepth     int     `csv:"max_depth"`
	AvgTickUS    float64 `csv:"avg_tick_us"`
	TreeNodes    float64 `csv:"tree_nodes"`
	TreeDepth    float64 `csv:"tree_depth"`
	Unsound      int     `csv:"unsound_seeds"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	particles := flag.Int("particles", 20000, "Particles scattered per run")
	warmup := flag.Int("warmup", 30, "Untimed ticks before measuring")
	ticks := flag.Int("ticks", 120, "Timed ticks per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 60, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector(baseCfg)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator, err := NewFitnessEvaluator(params, baseCfg, evalSeeds, *particles, *warmup, *ticks)
	if err != nil {
		log.Fatalf("failed to run baseline: %v", err)
	}

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	popSize := *population
	if popSize == 0 {
		// 4 + floor(3*ln(n))
		popSize = 4 + int(3*math.Log(float64(dim)))
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			res := evaluator.LastResult()
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			rows := []evalRow{{
				Eval:         evalCount,
				Fitness:      fitness,
				NodeCapacity: int(clamped[0]),
				MaxDepth:     int(clamped[1]),
				AvgTickUS:    float64(res.AvgTick) / float64(time.Microsecond),
				TreeNodes:    res.AvgNodes,
				TreeDepth:    res.AvgDepth,
				Unsound:      res.Unsound,
			}}
			marshal := gocsv.MarshalWithoutHeaders
			if evalCount == 1 {
				marshal = gocsv.Marshal
			}
			if err := marshal(rows, logFile); err != nil {
				log.Printf("failed to write log row: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: capacity=%d depth=%d tick=%s nodes=%.0f unsound=%d | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, int(clamped[0]), int(clamped[1]),
				res.AvgTick.Round(time.Microsecond), res.AvgNodes, res.Unsound,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation keeps timings comparable
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n", dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, particles: %d, timed ticks: %d\n", *seeds, *particles, *ticks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best avg tick: %s\n", time.Duration(bestFitness*float64(time.Second)).Round(time.Microsecond))

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.0f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}

// Package main searches for the single best marble launch on a level with
// Nelder-Mead. The result is a baseline the genetic algorithm's runs can be
// compared against.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/marble/config"
)

// evalRecord is one row of optimize_log.csv.
type evalRecord struct {
	Eval     int     `csv:"eval"`
	Start    int     `csv:"start"`
	Distance float64 `csv:"distance"`
	Power    float64 `csv:"power"`
	Angle    float64 `csv:"angle"`
}

// bestLaunch is written to best_launch.yaml.
type bestLaunch struct {
	Level       string  `yaml:"level"`
	Power       float64 `yaml:"power"`
	Angle       float64 `yaml:"angle"`
	Distance    float64 `yaml:"distance"`
	Evaluations int     `yaml:"evaluations"`
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
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	levelIdx := flag.Int("level", 0, "Level index to optimize")
	starts := flag.Int("starts", 5, "Number of Nelder-Mead starts (first start uses the defaults)")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations per start")
	seed := flag.Int64("seed", 1, "Seed for random start points")
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
	cfg := config.Cfg()
	level := cfg.Level(*levelIdx)

	params := NewParamVector()
	evaluator := NewLaunchEvaluator(params, cfg, level)
	rng := rand.New(rand.NewSource(*seed))

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	headerWritten := false
	writeRecord := func(rec evalRecord) {
		records := []evalRecord{rec}
		var err error
		if !headerWritten {
			err = gocsv.Marshal(records, logFile)
			headerWritten = true
		} else {
			err = gocsv.MarshalWithoutHeaders(records, logFile)
		}
		if err != nil {
			log.Printf("failed to write eval: %v", err)
		}
	}

	fmt.Printf("Starting Nelder-Mead on level %q with %d starts, max_evals=%d per start\n",
		level.Name, *starts, *maxEvals)

	startTime := time.Now()
	totalEvals := *starts * *maxEvals

	for s := 0; s < *starts; s++ {
		initX := params.Normalize(params.DefaultVector())
		if s > 0 {
			for i := range initX {
				initX[i] = rng.Float64()
			}
		}

		problem := optimize.Problem{
			Func: func(x []float64) float64 {
				raw := params.Denormalize(x)
				distance := evaluator.Evaluate(raw)

				clamped := params.Clamp(raw)
				evalCount := evaluator.Evals()
				writeRecord(evalRecord{Eval: evalCount, Start: s, Distance: distance, Power: clamped[0], Angle: clamped[1]})

				if evalCount%20 == 0 {
					best, _ := evaluator.Best()
					elapsed := time.Since(startTime)
					avgPerEval := elapsed / time.Duration(evalCount)
					remaining := time.Duration(totalEvals-evalCount) * avgPerEval
					fmt.Printf("Eval %d/%d: distance=%.2f (best=%.2f) | elapsed: %s, ETA: %s\n",
						evalCount, totalEvals, distance, best,
						formatDuration(elapsed), formatDuration(remaining))
				}
				return distance
			},
		}

		settings := &optimize.Settings{
			FuncEvaluations: *maxEvals,
			Concurrent:      0, // Sequential evaluation
		}
		method := &optimize.NelderMead{SimplexSize: 0.1}

		result, err := optimize.Minimize(problem, initX, settings, method)
		if err != nil {
			log.Printf("start %d ended: %v", s, err)
		}
		if result != nil {
			fmt.Printf("Start %d: %s after %d evaluations, distance=%.2f\n",
				s, result.Status, result.FuncEvaluations, result.F)
		}
	}

	bestDistance, bestParams := evaluator.Best()
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n",
		evaluator.Evals(), formatDuration(time.Since(startTime)))
	fmt.Printf("Best distance: %.4f\n", bestDistance)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	out := bestLaunch{
		Level:       level.Name,
		Power:       bestParams[0],
		Angle:       bestParams[1],
		Distance:    bestDistance,
		Evaluations: evaluator.Evals(),
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		log.Fatalf("failed to marshal best launch: %v", err)
	}
	bestPath := filepath.Join(*outputDir, "best_launch.yaml")
	if err := os.WriteFile(bestPath, data, 0644); err != nil {
		log.Fatalf("failed to write best launch: %v", err)
	}
	fmt.Printf("\nBest launch saved to: %s\n", bestPath)
}

// Package experiment runs the algorithm × scale grid, times each run,
// scores the resulting Solutions, and persists the scoring records to the
// results store read by external plotting tooling.
package experiment

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/virtfit/virtfit/internal/config"
	"github.com/virtfit/virtfit/internal/evaluation"
	"github.com/virtfit/virtfit/internal/generator"
	"github.com/virtfit/virtfit/internal/logging"
	"github.com/virtfit/virtfit/internal/model"
	"github.com/virtfit/virtfit/internal/placement"
	"github.com/virtfit/virtfit/internal/solver"
)

// Scale is a named synthetic problem size.
type Scale struct {
	PMs int
	VMs int
}

// Scales are the built-in problem sizes. The exact solver is skipped at
// medium scale; exhaustive search does not finish in useful time there.
var Scales = map[string]Scale{
	"small":  {PMs: 5, VMs: 25},
	"medium": {PMs: 15, VMs: 80},
}

// Instance is a fixed problem instance overriding synthetic generation.
type Instance struct {
	VMs []model.VM
	PMs []model.PM
}

// Runner executes the configured experiment grid.
type Runner struct {
	Config config.Config

	// Instance, when non-nil, is used for every configured scale instead of
	// generated data.
	Instance *Instance
}

// run is one algorithm × scale cell of the grid.
type run struct {
	algorithm string
	scale     string
	vms       []model.VM
	pms       []model.PM
}

// Run executes all runs in a worker pool and returns their scoring records.
// Each run draws from its own seeded random source, derived from the base
// seed and the run index, so parallel runs stay reproducible.
func (r *Runner) Run(ctx context.Context) ([]model.Report, error) {
	log := logging.GetLogger()
	runID := uuid.NewString()

	runs, err := r.buildRuns()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs to execute")
	}

	parallelism := r.Config.Experiment.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	log.WithFields(logrus.Fields{
		"run_id":      runID,
		"runs":        len(runs),
		"parallelism": parallelism,
	}).Info("starting experiment")

	reports := make([]*model.Report, len(runs))
	errs := make([]error, len(runs))

	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup

	for i, rn := range runs {
		wg.Add(1)
		go func(idx int, rn run) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rng := rand.New(rand.NewSource(r.Config.Experiment.Seed + int64(idx)))
			report, err := r.runOne(ctx, rn, rng)
			reports[idx] = report
			errs[idx] = err
		}(i, rn)
	}

	wg.Wait()

	var records []model.Report
	for i, err := range errs {
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(err).WithFields(logrus.Fields{
				"algorithm": runs[i].algorithm,
				"scale":     runs[i].scale,
			}).Error("run failed")
			continue
		}
		if reports[i] == nil {
			continue // solver run without a usable solution
		}
		rec := *reports[i]
		rec.RunID = runID
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("all runs failed")
	}
	return records, nil
}

// buildRuns expands the configured grid into concrete runs, generating one
// instance per scale unless a fixed Instance was supplied.
func (r *Runner) buildRuns() ([]run, error) {
	log := logging.GetLogger()
	cfg := r.Config.Experiment

	var runs []run
	for _, scale := range cfg.Scales {
		var vms []model.VM
		var pms []model.PM

		if r.Instance != nil {
			vms, pms = r.Instance.VMs, r.Instance.PMs
		} else {
			spec, ok := Scales[scale]
			if !ok {
				return nil, fmt.Errorf("unknown scale %q", scale)
			}
			vms = generator.VMs(spec.VMs, rand.New(rand.NewSource(cfg.Seed)))
			pms = generator.PMs(spec.PMs, rand.New(rand.NewSource(cfg.Seed)))
		}

		for _, algo := range cfg.Algorithms {
			if algo == "solver" && scale == "medium" {
				log.Warn("skipping exact solver at medium scale")
				continue
			}
			runs = append(runs, run{algorithm: algo, scale: scale, vms: vms, pms: pms})
		}
	}
	return runs, nil
}

// runOne executes a single cell: run the algorithm, time it, score the
// Solution. A solver run without a usable solution yields a nil report.
func (r *Runner) runOne(ctx context.Context, rn run, rng *rand.Rand) (*model.Report, error) {
	log := logging.GetLogger()
	start := time.Now()

	var sol *model.Solution
	switch rn.algorithm {
	case "solver":
		bb := &solver.BranchAndBound{
			TimeLimit: r.Config.Solver.TimeLimit,
			MaxVMs:    r.Config.Solver.MaxVMs,
		}
		result := bb.Solve(ctx, rn.vms, rn.pms)
		if !result.Solved() {
			log.WithFields(logrus.Fields{
				"status": string(result.Status),
				"detail": result.Message,
				"scale":  rn.scale,
			}).Warn("exact solver produced no usable solution")
			return nil, nil
		}
		sol = result.Solution
	default:
		placer, err := r.placer(rn.algorithm, rng)
		if err != nil {
			return nil, err
		}
		sol, err = placer.Place(ctx, rn.vms, rn.pms)
		if err != nil {
			return nil, fmt.Errorf("running %s on %s scale: %w", rn.algorithm, rn.scale, err)
		}
	}

	report := evaluation.Evaluate(sol, rn.vms, rn.pms, r.Config.Evaluation.SLAThreshold)
	report.ExecutionTime = time.Since(start).Seconds()
	report.Scale = rn.scale

	log.WithFields(logrus.Fields{
		"algorithm":  report.Algorithm,
		"scale":      report.Scale,
		"active_pms": report.ActivePMs,
		"placed":     report.PlacementRate,
	}).Info("run completed")

	return &report, nil
}

func (r *Runner) placer(algorithm string, rng *rand.Rand) (placement.Placer, error) {
	switch algorithm {
	case "ffd":
		return &placement.FirstFitDecreasing{}, nil
	case "bfd":
		return &placement.BestFitDecreasing{}, nil
	case "anneal":
		s := r.Config.Search
		return placement.NewAnnealing(s.MaxIterations, s.Temperature, s.CoolingRate, rng), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algorithm)
	}
}

// SaveRecords persists scoring records as results_<timestamp>.json under dir
// and returns the file path.
func SaveRecords(records []model.Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating results directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("results_%s.json", time.Now().Format("20060102_150405")))

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing results file: %w", err)
	}
	return path, nil
}

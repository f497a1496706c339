package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/virtfit/virtfit/internal/dataset"
	"github.com/virtfit/virtfit/internal/evaluation"
	"github.com/virtfit/virtfit/internal/model"
	"github.com/virtfit/virtfit/internal/placement"
	"github.com/virtfit/virtfit/internal/solver"
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Place a single instance file with one algorithm",
	Long: `Loads a VM/PM instance from a JSON or YAML file, runs one placement
algorithm on it, and prints the solution and its scoring record as JSON.`,
	RunE: runPlace,
}

func init() {
	f := placeCmd.Flags()
	f.String("input", "", "path to instance file (required)")
	f.String("algorithm", "ffd", "algorithm: ffd, bfd, anneal, or solver")

	_ = placeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(placeCmd)
}

type placeOutput struct {
	Solution *model.Solution `json:"solution"`
	Report   model.Report    `json:"report"`
	Status   string          `json:"solver_status,omitempty"`
}

func runPlace(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	inputPath, _ := cmd.Flags().GetString("input")
	vms, pms, err := dataset.Load(inputPath)
	if err != nil {
		return err
	}

	algorithm, _ := cmd.Flags().GetString("algorithm")

	var sol *model.Solution
	var status string

	switch algorithm {
	case "ffd":
		sol, err = (&placement.FirstFitDecreasing{}).Place(ctx, vms, pms)
	case "bfd":
		sol, err = (&placement.BestFitDecreasing{}).Place(ctx, vms, pms)
	case "anneal":
		rng := rand.New(rand.NewSource(cfg.Experiment.Seed))
		s := cfg.Search
		sol, err = placement.NewAnnealing(s.MaxIterations, s.Temperature, s.CoolingRate, rng).Place(ctx, vms, pms)
	case "solver":
		bb := &solver.BranchAndBound{TimeLimit: cfg.Solver.TimeLimit, MaxVMs: cfg.Solver.MaxVMs}
		result := bb.Solve(ctx, vms, pms)
		status = string(result.Status)
		if !result.Solved() {
			return fmt.Errorf("solver produced no solution: %s (%s)", result.Status, result.Message)
		}
		sol = result.Solution
	default:
		return fmt.Errorf("unknown algorithm %q", algorithm)
	}
	if err != nil {
		return err
	}

	rep := evaluation.Evaluate(sol, vms, pms, cfg.Evaluation.SLAThreshold)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(placeOutput{Solution: sol, Report: rep, Status: status})
}

// Package solver defines the exact-optimizer collaborator contract. The
// placement core only depends on this contract: any optimizer that returns a
// Solution plus a status tag can be plugged in or omitted without touching
// the heuristics.
package solver

import (
	"context"

	"github.com/virtfit/virtfit/internal/model"
)

// Status tags the outcome of an exact-solver run.
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusFeasible   Status = "feasible"
	StatusInfeasible Status = "infeasible"
	StatusError      Status = "error"
	StatusTimeout    Status = "timeout"
)

// Result is what an exact solver hands back. Solution is nil unless the
// status is optimal, feasible, or timeout-with-incumbent. Solver trouble is
// reported through Status and Message, never by crashing the caller.
type Result struct {
	Solution  *model.Solution
	Status    Status
	Objective float64 // active-host count when solved
	Message   string  // detail for error statuses
}

// Solved reports whether the result carries a usable Solution.
func (r Result) Solved() bool {
	return r.Solution != nil && (r.Status == StatusOptimal || r.Status == StatusFeasible || r.Status == StatusTimeout)
}

// Solver is the exact-optimizer contract.
type Solver interface {
	Solve(ctx context.Context, vms []model.VM, pms []model.PM) Result
	Name() string
}

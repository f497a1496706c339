package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/virtfit/virtfit/internal/model"
	"github.com/virtfit/virtfit/internal/placement"
)

// Default limits for the built-in exact solver. Search is exponential, so it
// is only invoked on small instances; larger ones belong to the heuristics.
const (
	DefaultTimeLimit = 300 * time.Second
	DefaultMaxVMs    = 50
)

// deadline is checked every deadlineCheckMask+1 search nodes.
const deadlineCheckMask = 1023

// BranchAndBound minimizes the number of active hosts by exhaustive search
// with pruning. Every VM must be placed; an instance where that is
// impossible is infeasible. It provides an optimality baseline for small
// instances; an external MILP solver can replace it behind the Solver
// interface.
type BranchAndBound struct {
	TimeLimit time.Duration
	MaxVMs    int
}

// NewBranchAndBound creates a solver with the default limits.
func NewBranchAndBound() *BranchAndBound {
	return &BranchAndBound{TimeLimit: DefaultTimeLimit, MaxVMs: DefaultMaxVMs}
}

// Name returns the solver name.
func (s *BranchAndBound) Name() string { return "branch-and-bound" }

// Solve searches for a complete placement with the fewest active hosts.
// Hitting the time limit returns the best incumbent (status timeout) or, with
// no incumbent yet, timeout with no solution.
func (s *BranchAndBound) Solve(ctx context.Context, vms []model.VM, pms []model.PM) Result {
	if len(vms) > s.MaxVMs {
		return Result{
			Status:  StatusError,
			Message: fmt.Sprintf("instance too large for exact search: %d VMs (limit %d)", len(vms), s.MaxVMs),
		}
	}

	search := &bbSearch{
		vms:        placement.SortByDemand(vms),
		partial:    model.NewSolution(pms, s.Name()),
		bestActive: len(pms) + 1,
		deadline:   time.Now().Add(s.TimeLimit),
		ctx:        ctx,
	}
	search.run(0)

	switch {
	case search.best != nil && !search.timedOut:
		return Result{Solution: search.best, Status: StatusOptimal, Objective: float64(search.bestActive)}
	case search.best != nil:
		return Result{Solution: search.best, Status: StatusTimeout, Objective: float64(search.bestActive)}
	case search.timedOut:
		return Result{Status: StatusTimeout, Message: "time limit reached before any complete placement"}
	default:
		return Result{Status: StatusInfeasible, Message: "no complete placement exists on this host pool"}
	}
}

type bbSearch struct {
	vms     []model.VM
	partial *model.Solution

	best       *model.Solution
	bestActive int

	deadline time.Time
	timedOut bool
	nodes    int
	ctx      context.Context
}

func (b *bbSearch) run(depth int) {
	if b.timedOut {
		return
	}
	b.nodes++
	if b.nodes&deadlineCheckMask == 0 {
		if b.ctx.Err() != nil || time.Now().After(b.deadline) {
			b.timedOut = true
			return
		}
	}

	active := b.partial.ActiveHosts()
	if active >= b.bestActive {
		return
	}
	if depth == len(b.vms) {
		b.best = b.partial.Clone()
		b.bestActive = active
		return
	}

	vm := b.vms[depth]

	// Empty hosts with identical capacity are interchangeable; trying one of
	// each signature is enough.
	type capKey struct{ cpu, mem, storage float64 }
	triedEmpty := make(map[capKey]bool)

	for _, ledger := range b.partial.Ledgers {
		if !ledger.Fits(vm) {
			continue
		}
		if !ledger.Active {
			key := capKey{ledger.CPUCapacity, ledger.MemoryCapacity, ledger.StorageCapacity}
			if triedEmpty[key] {
				continue
			}
			triedEmpty[key] = true
		}

		ledger.Allocate(vm)
		b.partial.Placement[vm.ID] = ledger.HostID
		b.run(depth + 1)
		ledger.Deallocate(vm)
		delete(b.partial.Placement, vm.ID)

		if b.timedOut {
			return
		}
	}
}

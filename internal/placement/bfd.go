package placement

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/virtfit/virtfit/internal/logging"
	"github.com/virtfit/virtfit/internal/model"
)

// BestFitDecreasing places VMs in demand-descending order onto the fitting
// host whose remaining capacity after placement would be smallest, packing
// hosts tightly before touching empty ones.
type BestFitDecreasing struct{}

// Name returns the strategy name.
func (b *BestFitDecreasing) Name() string { return "best-fit-decreasing" }

// Place runs the BFD heuristic.
func (b *BestFitDecreasing) Place(ctx context.Context, vms []model.VM, pms []model.PM) (*model.Solution, error) {
	sol := model.NewSolution(pms, b.Name())
	log := logging.GetLogger()

	for _, vm := range SortByDemand(vms) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var best *model.HostLedger
		bestScore := math.MaxFloat64

		for _, ledger := range sol.Ledgers {
			if !ledger.Fits(vm) {
				continue
			}
			// Strict comparison: on a tie the earlier host (lower ID) wins.
			if score := ledger.RemainingScore(vm); score < bestScore {
				bestScore = score
				best = ledger
			}
		}

		if best == nil {
			log.WithFields(logrus.Fields{
				"vm":        vm.ID,
				"algorithm": b.Name(),
			}).Warn("no host has enough capacity, leaving VM unplaced")
			continue
		}

		best.Allocate(vm)
		sol.Placement[vm.ID] = best.HostID
	}

	return sol, nil
}

package placement

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/virtfit/virtfit/internal/logging"
	"github.com/virtfit/virtfit/internal/model"
)

// FirstFitDecreasing places VMs in demand-descending order onto the first
// host that fits, scanning hosts in ascending ID order. The host pool is
// fixed: when nothing fits, the VM stays unplaced rather than opening a new
// host as the classical unbounded-bin variant would.
type FirstFitDecreasing struct{}

// Name returns the strategy name.
func (f *FirstFitDecreasing) Name() string { return "first-fit-decreasing" }

// Place runs the FFD heuristic.
func (f *FirstFitDecreasing) Place(ctx context.Context, vms []model.VM, pms []model.PM) (*model.Solution, error) {
	sol := model.NewSolution(pms, f.Name())
	log := logging.GetLogger()

	for _, vm := range SortByDemand(vms) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		placed := false
		for _, ledger := range sol.Ledgers {
			if ledger.Fits(vm) {
				ledger.Allocate(vm)
				sol.Placement[vm.ID] = ledger.HostID
				placed = true
				break
			}
		}

		if !placed {
			log.WithFields(logrus.Fields{
				"vm":        vm.ID,
				"algorithm": f.Name(),
			}).Warn("no host has enough capacity, leaving VM unplaced")
		}
	}

	return sol, nil
}

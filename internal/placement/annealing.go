package placement

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"github.com/virtfit/virtfit/internal/evaluation"
	"github.com/virtfit/virtfit/internal/logging"
	"github.com/virtfit/virtfit/internal/model"
)

// activeHostWeight dominates the annealing cost so that shutting down a host
// always beats any fragmentation improvement (fragmentation contributes less
// than 1 per active host).
const activeHostWeight = 1000.0

// Annealing refines an FFD seed through randomized local search with a
// Metropolis acceptance rule and geometric cooling. The single neighbor
// operator moves one placed VM to a different host that fits; candidate
// solutions are always full deep copies, so the current and neighbor
// solutions never share ledger state.
//
// All randomness comes from the caller-supplied source, so concurrent runs
// with distinct sources are reproducible and independent.
type Annealing struct {
	MaxIterations int
	Temperature   float64
	CoolingRate   float64
	Rand          *rand.Rand

	seed Placer
}

// NewAnnealing creates an annealing search with the given budget and cooling
// schedule, drawing randomness from rng.
func NewAnnealing(maxIterations int, temperature, coolingRate float64, rng *rand.Rand) *Annealing {
	return &Annealing{
		MaxIterations: maxIterations,
		Temperature:   temperature,
		CoolingRate:   coolingRate,
		Rand:          rng,
		seed:          &FirstFitDecreasing{},
	}
}

// Name returns the strategy name.
func (a *Annealing) Name() string { return "annealing-ffd" }

// Place seeds from FFD and iterates the local search for the fixed budget,
// returning the best solution observed.
func (a *Annealing) Place(ctx context.Context, vms []model.VM, pms []model.PM) (*model.Solution, error) {
	if a.Rand == nil {
		return nil, errors.New("annealing: random source must be provided")
	}

	log := logging.GetLogger()

	current, err := a.seed.Place(ctx, vms, pms)
	if err != nil {
		return nil, err
	}
	current.Algorithm = a.Name()

	vmByID := make(map[int]model.VM, len(vms))
	for _, vm := range vms {
		vmByID[vm.ID] = vm
	}

	currentCost := cost(current)
	best := current.Clone()
	bestCost := currentCost

	log.WithField("cost", currentCost).Debug("annealing seeded from FFD")

	temperature := a.Temperature
	for i := 0; i < a.MaxIterations; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// A nil neighbor means no valid move existed this iteration; the
		// cooling schedule still advances.
		if neighbor := a.moveNeighbor(current, vmByID); neighbor != nil {
			neighborCost := cost(neighbor)
			if a.accept(currentCost, neighborCost, temperature) {
				current = neighbor
				currentCost = neighborCost
				if currentCost < bestCost {
					best = current.Clone()
					bestCost = currentCost
					log.WithField("iteration", i).WithField("cost", bestCost).Debug("annealing improved best solution")
				}
			}
		}

		temperature *= a.CoolingRate
	}

	return best, nil
}

// moveNeighbor clones the current solution and moves one randomly chosen
// placed VM to a different host, trying hosts in random order until one fits.
// Returns nil when the VM fits nowhere else.
func (a *Annealing) moveNeighbor(current *model.Solution, vmByID map[int]model.VM) *model.Solution {
	placed := current.PlacedVMs()
	if len(placed) == 0 {
		return nil
	}

	neighbor := current.Clone()

	vmID := placed[a.Rand.Intn(len(placed))]
	vm := vmByID[vmID]
	fromHost := neighbor.Placement[vmID]

	for _, idx := range a.Rand.Perm(len(neighbor.Ledgers)) {
		target := neighbor.Ledgers[idx]
		if target.HostID == fromHost || !target.Fits(vm) {
			continue
		}
		neighbor.Ledger(fromHost).Deallocate(vm)
		target.Allocate(vm)
		neighbor.Placement[vmID] = target.HostID
		return neighbor
	}

	return nil
}

// accept implements the Metropolis criterion: improving moves always pass,
// worse moves pass with probability exp(-Δ/T) while the temperature is
// positive. math.Exp underflows to 0 for large Δ/T, which rejects naturally.
func (a *Annealing) accept(currentCost, neighborCost, temperature float64) bool {
	if neighborCost < currentCost {
		return true
	}
	if temperature <= 0 {
		return false
	}
	threshold := math.Exp(-(neighborCost - currentCost) / temperature)
	return a.Rand.Float64() < threshold
}

// cost is the search objective: active hosts dominate, with the evaluator's
// fragmentation score as the tie-breaking secondary term.
func cost(sol *model.Solution) float64 {
	return activeHostWeight*float64(sol.ActiveHosts()) + evaluation.Fragmentation(sol)
}

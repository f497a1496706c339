package placement

import (
	"sort"

	"github.com/virtfit/virtfit/internal/model"
)

// SortByDemand returns a copy of vms ordered by demand score, largest first.
// The sort is stable: VMs with equal scores keep their input order, which
// makes every decreasing-fit run reproducible.
func SortByDemand(vms []model.VM) []model.VM {
	sorted := make([]model.VM, len(vms))
	copy(sorted, vms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DemandScore() > sorted[j].DemandScore()
	})
	return sorted
}

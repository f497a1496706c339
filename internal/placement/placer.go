package placement

import (
	"context"

	"github.com/virtfit/virtfit/internal/model"
)

// Placer defines a strategy for placing VMs onto a fixed pool of hosts.
type Placer interface {
	// Place attempts to assign every VM to a host. VMs that fit nowhere are
	// left out of the Solution's placement; that is not an error.
	Place(ctx context.Context, vms []model.VM, pms []model.PM) (*model.Solution, error)

	// Name returns the strategy name recorded on produced Solutions.
	Name() string
}

package model

import "fmt"

// HostLedger tracks the mutable allocation state of one host within a
// Solution: remaining capacity per dimension, the assigned VM set, and the
// active flag. The invariant available = capacity − Σ(assigned demands) holds
// in every dimension after every Allocate/Deallocate.
//
// A ledger is owned exclusively by the Solution holding it. Branching a new
// candidate solution must go through Solution.Clone, never by sharing ledger
// pointers.
type HostLedger struct {
	HostID int

	CPUAvailable     float64
	MemoryAvailable  float64
	StorageAvailable float64 // +Inf when the host has unbounded storage

	CPUCapacity     float64
	MemoryCapacity  float64
	StorageCapacity float64

	VMs    []int
	Active bool
}

// NewHostLedger creates an empty ledger for the given host.
func NewHostLedger(pm PM) *HostLedger {
	return &HostLedger{
		HostID:           pm.ID,
		CPUAvailable:     pm.CPUCapacity,
		MemoryAvailable:  pm.MemoryCapacity,
		StorageAvailable: pm.StorageCapacity,
		CPUCapacity:      pm.CPUCapacity,
		MemoryCapacity:   pm.MemoryCapacity,
		StorageCapacity:  pm.StorageCapacity,
	}
}

// Fits reports whether the VM's demand fits in the remaining capacity on
// every dimension. A zero storage demand always fits; an unbounded
// StorageAvailable satisfies any storage demand.
func (l *HostLedger) Fits(vm VM) bool {
	return vm.CPUDemand <= l.CPUAvailable &&
		vm.MemoryDemand <= l.MemoryAvailable &&
		vm.StorageDemand <= l.StorageAvailable
}

// Allocate places the VM on this host. The caller must have established Fits;
// violating that is a programming error and panics rather than producing a
// ledger that breaks the capacity invariant.
func (l *HostLedger) Allocate(vm VM) {
	if !l.Fits(vm) {
		panic(fmt.Sprintf("ledger: allocate VM %d on host %d without capacity", vm.ID, l.HostID))
	}
	l.CPUAvailable -= vm.CPUDemand
	l.MemoryAvailable -= vm.MemoryDemand
	l.StorageAvailable -= vm.StorageDemand
	l.VMs = append(l.VMs, vm.ID)
	l.Active = true
}

// Deallocate removes the VM from this host, restoring its capacity. The VM
// must currently be assigned here; anything else is a programming error.
func (l *HostLedger) Deallocate(vm VM) {
	idx := -1
	for i, id := range l.VMs {
		if id == vm.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic(fmt.Sprintf("ledger: deallocate VM %d not assigned to host %d", vm.ID, l.HostID))
	}
	l.CPUAvailable += vm.CPUDemand
	l.MemoryAvailable += vm.MemoryDemand
	l.StorageAvailable += vm.StorageDemand
	l.VMs = append(l.VMs[:idx], l.VMs[idx+1:]...)
	l.Active = len(l.VMs) > 0
}

// RemainingScore returns the summed fractional remaining capacity over the
// CPU and memory dimensions if the VM were placed here. Lower means a tighter
// fit. Storage is excluded: unbounded hosts would make the score meaningless.
// Pure; does not mutate the ledger.
func (l *HostLedger) RemainingScore(vm VM) float64 {
	var score float64
	if l.CPUCapacity > 0 {
		score += (l.CPUAvailable - vm.CPUDemand) / l.CPUCapacity
	}
	if l.MemoryCapacity > 0 {
		score += (l.MemoryAvailable - vm.MemoryDemand) / l.MemoryCapacity
	}
	return score
}

// CPUUtilization returns the fraction of CPU capacity in use.
func (l *HostLedger) CPUUtilization() float64 {
	if l.CPUCapacity <= 0 {
		return 0
	}
	return 1 - l.CPUAvailable/l.CPUCapacity
}

// MemoryUtilization returns the fraction of memory capacity in use.
func (l *HostLedger) MemoryUtilization() float64 {
	if l.MemoryCapacity <= 0 {
		return 0
	}
	return 1 - l.MemoryAvailable/l.MemoryCapacity
}

// Clone returns an independent copy, including the assigned VM slice.
func (l *HostLedger) Clone() *HostLedger {
	cp := *l
	cp.VMs = make([]int, len(l.VMs))
	copy(cp.VMs, l.VMs)
	return &cp
}

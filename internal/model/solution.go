package model

import (
	"encoding/json"
	"math"
	"sort"
)

// Solution is a self-contained placement snapshot: the vm→host mapping, one
// ledger per host (ordered by ascending host ID), and the producing
// algorithm's label. Unplaced VMs are simply absent from Placement.
//
// No ledger is ever shared between two Solutions; deriving a candidate from
// an existing Solution goes through Clone.
type Solution struct {
	Placement map[int]int
	Ledgers   []*HostLedger // ascending HostID; this is the canonical host order
	Algorithm string
}

// NewSolution creates an empty solution covering the given host pool.
func NewSolution(pms []PM, algorithm string) *Solution {
	ledgers := make([]*HostLedger, len(pms))
	for i, pm := range pms {
		ledgers[i] = NewHostLedger(pm)
	}
	sort.Slice(ledgers, func(i, j int) bool { return ledgers[i].HostID < ledgers[j].HostID })
	return &Solution{
		Placement: make(map[int]int),
		Ledgers:   ledgers,
		Algorithm: algorithm,
	}
}

// Ledger returns the ledger for the given host ID, or nil if unknown.
func (s *Solution) Ledger(hostID int) *HostLedger {
	i := sort.Search(len(s.Ledgers), func(i int) bool { return s.Ledgers[i].HostID >= hostID })
	if i < len(s.Ledgers) && s.Ledgers[i].HostID == hostID {
		return s.Ledgers[i]
	}
	return nil
}

// ActiveHosts counts hosts with at least one assigned VM.
func (s *Solution) ActiveHosts() int {
	n := 0
	for _, l := range s.Ledgers {
		if l.Active {
			n++
		}
	}
	return n
}

// PlacedVMs returns the IDs of all placed VMs in ascending order. The sorted
// order gives randomized callers a stable base to index into, independent of
// map iteration order.
func (s *Solution) PlacedVMs() []int {
	ids := make([]int, 0, len(s.Placement))
	for id := range s.Placement {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Clone returns a fully independent deep copy. Mutating the clone's placement
// or any of its ledgers never affects the receiver.
func (s *Solution) Clone() *Solution {
	placement := make(map[int]int, len(s.Placement))
	for vm, pm := range s.Placement {
		placement[vm] = pm
	}
	ledgers := make([]*HostLedger, len(s.Ledgers))
	for i, l := range s.Ledgers {
		ledgers[i] = l.Clone()
	}
	return &Solution{
		Placement: placement,
		Ledgers:   ledgers,
		Algorithm: s.Algorithm,
	}
}

// ledgerStatus is the wire form of one pm_status entry. Unbounded storage is
// encoded as null since JSON cannot represent infinity.
type ledgerStatus struct {
	CPUAvailable     float64  `json:"cpu_available"`
	MemoryAvailable  float64  `json:"memory_available"`
	StorageAvailable *float64 `json:"storage_available"`
	VMs              []int    `json:"vms"`
	IsActive         bool     `json:"is_active"`
}

type solutionJSON struct {
	Placement map[int]int          `json:"placement"`
	PMStatus  map[int]ledgerStatus `json:"pm_status"`
	Algorithm string               `json:"algorithm"`
}

// MarshalJSON renders the experiment-record shape consumed by external
// reporting tooling: {placement, pm_status, algorithm}.
func (s *Solution) MarshalJSON() ([]byte, error) {
	status := make(map[int]ledgerStatus, len(s.Ledgers))
	for _, l := range s.Ledgers {
		vms := l.VMs
		if vms == nil {
			vms = []int{}
		}
		entry := ledgerStatus{
			CPUAvailable:    l.CPUAvailable,
			MemoryAvailable: l.MemoryAvailable,
			VMs:             vms,
			IsActive:        l.Active,
		}
		if !math.IsInf(l.StorageAvailable, 1) {
			v := l.StorageAvailable
			entry.StorageAvailable = &v
		}
		status[l.HostID] = entry
	}
	return json.Marshal(solutionJSON{
		Placement: s.Placement,
		PMStatus:  status,
		Algorithm: s.Algorithm,
	})
}

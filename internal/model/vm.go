package model

// VM represents a single workload with multi-dimensional resource demands.
// VMs are created once per experiment and never mutated; algorithms reference
// them by value and track assignment state in HostLedgers.
type VM struct {
	ID            int     `json:"id"`
	CPUDemand     float64 `json:"cpu_demand"`
	MemoryDemand  float64 `json:"memory_demand"`
	StorageDemand float64 `json:"storage_demand,omitempty"` // 0 = no storage demand
	Type          string  `json:"type,omitempty"`           // e.g. "small", "medium", "large"
}

// DemandScore returns the scalar demand used to order VMs before placement.
// Storage is half-weighted relative to CPU and memory.
func (v VM) DemandScore() float64 {
	return v.CPUDemand*1.0 + v.MemoryDemand*1.0 + v.StorageDemand*0.5
}

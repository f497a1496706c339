package model

import "math"

// Default power characteristics applied when a host record omits them.
const (
	DefaultPowerIdle = 100.0 // watts
	DefaultPowerMax  = 300.0 // watts
)

// UnboundedStorage marks a host with no storage limit. Arithmetic on it
// behaves correctly: any finite demand fits and subtraction leaves it infinite.
func UnboundedStorage() float64 { return math.Inf(1) }

// PM represents a physical host with finite capacity and a linear power model.
// Like VMs, PMs are immutable; per-solution state lives in HostLedgers.
type PM struct {
	ID              int     `json:"id"`
	CPUCapacity     float64 `json:"cpu_capacity"`
	MemoryCapacity  float64 `json:"memory_capacity"`
	StorageCapacity float64 `json:"storage_capacity,omitempty"` // +Inf = unbounded
	PowerIdle       float64 `json:"power_idle,omitempty"`
	PowerMax        float64 `json:"power_max,omitempty"`
	Type            string  `json:"type,omitempty"`
}

// HasBoundedStorage reports whether this host enforces a storage limit.
func (p PM) HasBoundedStorage() bool {
	return !math.IsInf(p.StorageCapacity, 1)
}

// EffectivePower returns the idle and max power draw in watts, falling back
// to the documented defaults when the record omitted both.
func (p PM) EffectivePower() (idle, max float64) {
	if p.PowerIdle == 0 && p.PowerMax == 0 {
		return DefaultPowerIdle, DefaultPowerMax
	}
	return p.PowerIdle, p.PowerMax
}

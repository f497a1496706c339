// Package evaluation derives scalar quality measures from placement
// Solutions. Every function here is pure: metrics are computed on demand from
// a Solution plus the host/workload sets and never stored back on it.
package evaluation

import (
	"math"

	"github.com/virtfit/virtfit/internal/model"
)

// DefaultSLAThreshold is the utilization above which a host counts as an SLA
// violation when no threshold is configured.
const DefaultSLAThreshold = 0.8

// ActiveHosts counts hosts with at least one assigned VM.
func ActiveHosts(sol *model.Solution) int {
	return sol.ActiveHosts()
}

// TotalEnergy sums the linear power model over active hosts:
// idle + (max − idle) * avgUtil, where avgUtil is the mean of CPU and memory
// utilization. Inactive hosts contribute nothing.
func TotalEnergy(sol *model.Solution, pms []model.PM) float64 {
	power := make(map[int]model.PM, len(pms))
	for _, pm := range pms {
		power[pm.ID] = pm
	}

	var total float64
	for _, l := range sol.Ledgers {
		if !l.Active {
			continue
		}
		pm, ok := power[l.HostID]
		if !ok {
			continue
		}
		idle, max := pm.EffectivePower()
		avgUtil := (l.CPUUtilization() + l.MemoryUtilization()) / 2
		total += idle + (max-idle)*avgUtil
	}
	return total
}

// AvgCPUUtilization returns the mean CPU utilization across active hosts,
// or 0 when no host is active.
func AvgCPUUtilization(sol *model.Solution) float64 {
	return avgUtilization(sol, (*model.HostLedger).CPUUtilization)
}

// AvgMemoryUtilization returns the mean memory utilization across active
// hosts, or 0 when no host is active.
func AvgMemoryUtilization(sol *model.Solution) float64 {
	return avgUtilization(sol, (*model.HostLedger).MemoryUtilization)
}

func avgUtilization(sol *model.Solution, dim func(*model.HostLedger) float64) float64 {
	var total float64
	var active int
	for _, l := range sol.Ledgers {
		if !l.Active {
			continue
		}
		total += dim(l)
		active++
	}
	if active == 0 {
		return 0
	}
	return total / float64(active)
}

// PlacementRate returns placed / total workloads, or 0 when there are none.
func PlacementRate(sol *model.Solution, totalVMs int) float64 {
	if totalVMs == 0 {
		return 0
	}
	return float64(len(sol.Placement)) / float64(totalVMs)
}

// Fragmentation measures how unevenly leftover capacity is spread across
// resource dimensions: the mean over active hosts of
// |cpuRemainingRatio − memRemainingRatio|. Lower is better.
func Fragmentation(sol *model.Solution) float64 {
	var total float64
	var active int
	for _, l := range sol.Ledgers {
		if !l.Active {
			continue
		}
		var cpuRatio, memRatio float64
		if l.CPUCapacity > 0 {
			cpuRatio = l.CPUAvailable / l.CPUCapacity
		}
		if l.MemoryCapacity > 0 {
			memRatio = l.MemoryAvailable / l.MemoryCapacity
		}
		total += math.Abs(cpuRatio - memRatio)
		active++
	}
	if active == 0 {
		return 0
	}
	return total / float64(active)
}

// LoadBalance returns the coefficient of variation (population standard
// deviation over mean) of per-host average utilization across active hosts.
// 0 when no host is active or the mean utilization is 0. Lower is better.
func LoadBalance(sol *model.Solution) float64 {
	var utils []float64
	for _, l := range sol.Ledgers {
		if !l.Active {
			continue
		}
		utils = append(utils, (l.CPUUtilization()+l.MemoryUtilization())/2)
	}
	if len(utils) == 0 {
		return 0
	}

	var mean float64
	for _, u := range utils {
		mean += u
	}
	mean /= float64(len(utils))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, u := range utils {
		variance += (u - mean) * (u - mean)
	}
	variance /= float64(len(utils))

	return math.Sqrt(variance) / mean
}

// SLAViolations counts active hosts whose CPU or memory utilization exceeds
// the threshold.
func SLAViolations(sol *model.Solution, threshold float64) int {
	violations := 0
	for _, l := range sol.Ledgers {
		if !l.Active {
			continue
		}
		if l.CPUUtilization() > threshold || l.MemoryUtilization() > threshold {
			violations++
		}
	}
	return violations
}

// Evaluate assembles the full scoring record for a Solution.
func Evaluate(sol *model.Solution, vms []model.VM, pms []model.PM, slaThreshold float64) model.Report {
	return model.Report{
		ActivePMs:            ActiveHosts(sol),
		TotalEnergy:          TotalEnergy(sol, pms),
		AvgCPUUtilization:    AvgCPUUtilization(sol),
		AvgMemoryUtilization: AvgMemoryUtilization(sol),
		PlacementRate:        PlacementRate(sol, len(vms)),
		FragmentationScore:   Fragmentation(sol),
		LoadBalanceScore:     LoadBalance(sol),
		SLAViolations:        SLAViolations(sol, slaThreshold),
		Algorithm:            sol.Algorithm,
	}
}

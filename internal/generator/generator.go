// Package generator produces synthetic placement instances with
// heterogeneous demand and capacity mixes. All randomness is drawn from the
// caller's seeded source, so instances are reproducible and concurrent
// generations never share state.
package generator

import (
	"math/rand"

	"github.com/virtfit/virtfit/internal/model"
)

// VMs generates n workloads with a small/medium/large type mix
// (30% / 50% / 20%) and per-type demand ranges.
func VMs(n int, rng *rand.Rand) []model.VM {
	vms := make([]model.VM, n)
	for i := 0; i < n; i++ {
		var cpu, mem int
		kind := pick(rng, 0.3, 0.5)

		switch kind {
		case "small":
			cpu = 1 + rng.Intn(2) // 1-2 CPUs
			mem = 1 + rng.Intn(4) // 1-4 GB
		case "medium":
			cpu = 2 + rng.Intn(3) // 2-4 CPUs
			mem = 4 + rng.Intn(5) // 4-8 GB
		default: // large
			cpu = 4 + rng.Intn(5) // 4-8 CPUs
			mem = 8 + rng.Intn(9) // 8-16 GB
		}

		vms[i] = model.VM{
			ID:            i,
			Type:          kind,
			CPUDemand:     float64(cpu),
			MemoryDemand:  float64(mem),
			StorageDemand: float64(10 + rng.Intn(90)), // 10-100 GB
		}
	}
	return vms
}

// PMs generates n hosts with a small/medium/large capacity mix
// (20% / 50% / 30%), 1 TB storage, and the standard power model.
func PMs(n int, rng *rand.Rand) []model.PM {
	pms := make([]model.PM, n)
	for i := 0; i < n; i++ {
		var cpu, mem float64
		kind := pick(rng, 0.2, 0.5)

		switch kind {
		case "small":
			cpu, mem = 8, 16
		case "medium":
			cpu, mem = 16, 32
		default: // large
			cpu, mem = 32, 64
		}

		pms[i] = model.PM{
			ID:              i,
			Type:            kind,
			CPUCapacity:     cpu,
			MemoryCapacity:  mem,
			StorageCapacity: 1000,
			PowerIdle:       model.DefaultPowerIdle,
			PowerMax:        model.DefaultPowerMax,
		}
	}
	return pms
}

// HomogeneousPMs generates n identical hosts, useful for experiments where
// host diversity should not be a factor.
func HomogeneousPMs(n int, cpuCapacity, memoryCapacity float64) []model.PM {
	pms := make([]model.PM, n)
	for i := 0; i < n; i++ {
		pms[i] = model.PM{
			ID:              i,
			Type:            "standard",
			CPUCapacity:     cpuCapacity,
			MemoryCapacity:  memoryCapacity,
			StorageCapacity: 1000,
			PowerIdle:       model.DefaultPowerIdle,
			PowerMax:        model.DefaultPowerMax,
		}
	}
	return pms
}

// pick draws small/medium/large with the given cumulative boundaries.
func pick(rng *rand.Rand, smallProb, mediumProb float64) string {
	r := rng.Float64()
	switch {
	case r < smallProb:
		return "small"
	case r < smallProb+mediumProb:
		return "medium"
	default:
		return "large"
	}
}

// Package dataset reads and writes placement instances ({vms, pms} files).
// Records are validated up front: a malformed instance fails before any
// placement runs, never partway through one.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/virtfit/virtfit/internal/model"
)

// vmRecord is the wire form of a workload. Pointer fields distinguish absent
// optional values from explicit zeros so defaults can be applied.
type vmRecord struct {
	ID            *int     `json:"id" yaml:"id"`
	CPUDemand     *float64 `json:"cpu_demand" yaml:"cpu_demand"`
	MemoryDemand  *float64 `json:"memory_demand" yaml:"memory_demand"`
	StorageDemand *float64 `json:"storage_demand,omitempty" yaml:"storage_demand,omitempty"`
	Type          string   `json:"type,omitempty" yaml:"type,omitempty"`
}

// pmRecord is the wire form of a host. A missing storage_capacity means
// unbounded; missing power values default to 100/300 W.
type pmRecord struct {
	ID              *int     `json:"id" yaml:"id"`
	CPUCapacity     *float64 `json:"cpu_capacity" yaml:"cpu_capacity"`
	MemoryCapacity  *float64 `json:"memory_capacity" yaml:"memory_capacity"`
	StorageCapacity *float64 `json:"storage_capacity,omitempty" yaml:"storage_capacity,omitempty"`
	PowerIdle       *float64 `json:"power_idle,omitempty" yaml:"power_idle,omitempty"`
	PowerMax        *float64 `json:"power_max,omitempty" yaml:"power_max,omitempty"`
	Type            string   `json:"type,omitempty" yaml:"type,omitempty"`
}

type instanceFile struct {
	VMs []vmRecord `json:"vms" yaml:"vms"`
	PMs []pmRecord `json:"pms" yaml:"pms"`
}

// Load reads an instance from a .json or .yaml/.yml file and validates it.
func Load(path string) ([]model.VM, []model.PM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading instance file: %w", err)
	}

	var file instanceFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported instance file format %q", ext)
	}

	vms, err := convertVMs(file.VMs)
	if err != nil {
		return nil, nil, err
	}
	pms, err := convertPMs(file.PMs)
	if err != nil {
		return nil, nil, err
	}
	return vms, pms, nil
}

// Save writes an instance as indented JSON, creating parent directories.
func Save(vms []model.VM, pms []model.PM, path string) error {
	file := instanceFile{
		VMs: make([]vmRecord, len(vms)),
		PMs: make([]pmRecord, len(pms)),
	}
	for i := range vms {
		vm := vms[i]
		file.VMs[i] = vmRecord{ID: &vm.ID, CPUDemand: &vm.CPUDemand, MemoryDemand: &vm.MemoryDemand, Type: vm.Type}
		if vm.StorageDemand != 0 {
			file.VMs[i].StorageDemand = &vm.StorageDemand
		}
	}
	for i := range pms {
		pm := pms[i]
		file.PMs[i] = pmRecord{ID: &pm.ID, CPUCapacity: &pm.CPUCapacity, MemoryCapacity: &pm.MemoryCapacity, Type: pm.Type}
		if pm.HasBoundedStorage() {
			file.PMs[i].StorageCapacity = &pm.StorageCapacity
		}
		if pm.PowerIdle != 0 || pm.PowerMax != 0 {
			file.PMs[i].PowerIdle = &pm.PowerIdle
			file.PMs[i].PowerMax = &pm.PowerMax
		}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding instance: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing instance file: %w", err)
	}
	return nil
}

func convertVMs(records []vmRecord) ([]model.VM, error) {
	vms := make([]model.VM, len(records))
	seen := make(map[int]bool, len(records))
	for i, r := range records {
		switch {
		case r.ID == nil:
			return nil, fmt.Errorf("vm record %d: missing id", i)
		case r.CPUDemand == nil || *r.CPUDemand <= 0:
			return nil, fmt.Errorf("vm %d: cpu_demand must be present and positive", *r.ID)
		case r.MemoryDemand == nil || *r.MemoryDemand <= 0:
			return nil, fmt.Errorf("vm %d: memory_demand must be present and positive", *r.ID)
		case r.StorageDemand != nil && *r.StorageDemand < 0:
			return nil, fmt.Errorf("vm %d: storage_demand must be non-negative", *r.ID)
		case seen[*r.ID]:
			return nil, fmt.Errorf("duplicate vm id %d", *r.ID)
		}
		seen[*r.ID] = true

		vm := model.VM{
			ID:           *r.ID,
			CPUDemand:    *r.CPUDemand,
			MemoryDemand: *r.MemoryDemand,
			Type:         r.Type,
		}
		if r.StorageDemand != nil {
			vm.StorageDemand = *r.StorageDemand
		}
		vms[i] = vm
	}
	return vms, nil
}

func convertPMs(records []pmRecord) ([]model.PM, error) {
	pms := make([]model.PM, len(records))
	seen := make(map[int]bool, len(records))
	for i, r := range records {
		switch {
		case r.ID == nil:
			return nil, fmt.Errorf("pm record %d: missing id", i)
		case r.CPUCapacity == nil || *r.CPUCapacity <= 0:
			return nil, fmt.Errorf("pm %d: cpu_capacity must be present and positive", *r.ID)
		case r.MemoryCapacity == nil || *r.MemoryCapacity <= 0:
			return nil, fmt.Errorf("pm %d: memory_capacity must be present and positive", *r.ID)
		case r.StorageCapacity != nil && *r.StorageCapacity < 0:
			return nil, fmt.Errorf("pm %d: storage_capacity must be non-negative", *r.ID)
		case seen[*r.ID]:
			return nil, fmt.Errorf("duplicate pm id %d", *r.ID)
		}
		seen[*r.ID] = true

		pm := model.PM{
			ID:              *r.ID,
			CPUCapacity:     *r.CPUCapacity,
			MemoryCapacity:  *r.MemoryCapacity,
			StorageCapacity: math.Inf(1),
			PowerIdle:       model.DefaultPowerIdle,
			PowerMax:        model.DefaultPowerMax,
			Type:            r.Type,
		}
		if r.StorageCapacity != nil {
			pm.StorageCapacity = *r.StorageCapacity
		}
		if r.PowerIdle != nil {
			pm.PowerIdle = *r.PowerIdle
		}
		if r.PowerMax != nil {
			pm.PowerMax = *r.PowerMax
		}
		pms[i] = pm
	}
	return pms, nil
}

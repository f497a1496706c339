package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/virtfit/virtfit/internal/model"
)

func writeInstance(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_JSONWithDefaults(t *testing.T) {
	path := writeInstance(t, "instance.json", `{
		"vms": [{"id": 0, "cpu_demand": 2, "memory_demand": 4}],
		"pms": [{"id": 0, "cpu_capacity": 8, "memory_capacity": 16}]
	}`)

	vms, pms, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(vms) != 1 || len(pms) != 1 {
		t.Fatalf("got %d vms, %d pms", len(vms), len(pms))
	}
	if vms[0].StorageDemand != 0 {
		t.Errorf("missing storage_demand should default to 0, got %v", vms[0].StorageDemand)
	}
	if !math.IsInf(pms[0].StorageCapacity, 1) {
		t.Errorf("missing storage_capacity should default to unbounded, got %v", pms[0].StorageCapacity)
	}
	if pms[0].PowerIdle != 100 || pms[0].PowerMax != 300 {
		t.Errorf("missing power model should default to 100/300, got %v/%v", pms[0].PowerIdle, pms[0].PowerMax)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeInstance(t, "instance.yaml", `
vms:
  - id: 0
    cpu_demand: 2
    memory_demand: 4
    storage_demand: 50
pms:
  - id: 0
    cpu_capacity: 8
    memory_capacity: 16
    storage_capacity: 500
    power_idle: 80
    power_max: 250
`)

	vms, pms, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if vms[0].StorageDemand != 50 {
		t.Errorf("storage_demand = %v, want 50", vms[0].StorageDemand)
	}
	if pms[0].StorageCapacity != 500 || pms[0].PowerIdle != 80 || pms[0].PowerMax != 250 {
		t.Errorf("pm fields not honored: %+v", pms[0])
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing vm id",
			content: `{"vms": [{"cpu_demand": 1, "memory_demand": 1}], "pms": []}`,
			wantErr: "missing id",
		},
		{
			name:    "zero cpu demand",
			content: `{"vms": [{"id": 0, "cpu_demand": 0, "memory_demand": 1}], "pms": []}`,
			wantErr: "cpu_demand",
		},
		{
			name:    "missing memory demand",
			content: `{"vms": [{"id": 0, "cpu_demand": 1}], "pms": []}`,
			wantErr: "memory_demand",
		},
		{
			name:    "negative storage demand",
			content: `{"vms": [{"id": 0, "cpu_demand": 1, "memory_demand": 1, "storage_demand": -5}], "pms": []}`,
			wantErr: "storage_demand",
		},
		{
			name: "duplicate vm id",
			content: `{"vms": [
				{"id": 0, "cpu_demand": 1, "memory_demand": 1},
				{"id": 0, "cpu_demand": 1, "memory_demand": 1}
			], "pms": []}`,
			wantErr: "duplicate vm id",
		},
		{
			name:    "missing pm capacity",
			content: `{"vms": [], "pms": [{"id": 0, "memory_capacity": 16}]}`,
			wantErr: "cpu_capacity",
		},
		{
			name: "duplicate pm id",
			content: `{"vms": [], "pms": [
				{"id": 1, "cpu_capacity": 8, "memory_capacity": 16},
				{"id": 1, "cpu_capacity": 8, "memory_capacity": 16}
			]}`,
			wantErr: "duplicate pm id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeInstance(t, "bad.json", tc.content)
			_, _, err := Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeInstance(t, "instance.toml", "vms = []")
	if _, _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	vms := []model.VM{
		{ID: 0, CPUDemand: 2, MemoryDemand: 4, StorageDemand: 50, Type: "small"},
		{ID: 1, CPUDemand: 4, MemoryDemand: 8, Type: "medium"},
	}
	pms := []model.PM{
		{ID: 0, CPUCapacity: 16, MemoryCapacity: 32, StorageCapacity: 1000,
			PowerIdle: 100, PowerMax: 300, Type: "medium"},
		{ID: 1, CPUCapacity: 8, MemoryCapacity: 16, StorageCapacity: model.UnboundedStorage(),
			PowerIdle: 100, PowerMax: 300, Type: "small"},
	}

	path := filepath.Join(t.TempDir(), "out", "instance.json")
	if err := Save(vms, pms, path); err != nil {
		t.Fatal(err)
	}

	gotVMs, gotPMs, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotVMs) != 2 || len(gotPMs) != 2 {
		t.Fatalf("got %d vms, %d pms", len(gotVMs), len(gotPMs))
	}
	if gotVMs[0].StorageDemand != 50 || gotVMs[1].StorageDemand != 0 {
		t.Errorf("storage demands not preserved: %v, %v", gotVMs[0].StorageDemand, gotVMs[1].StorageDemand)
	}
	if gotPMs[0].StorageCapacity != 1000 {
		t.Errorf("bounded storage not preserved: %v", gotPMs[0].StorageCapacity)
	}
	// Unbounded storage is omitted on save and restored as unbounded on load.
	if !math.IsInf(gotPMs[1].StorageCapacity, 1) {
		t.Errorf("unbounded storage not preserved: %v", gotPMs[1].StorageCapacity)
	}
}

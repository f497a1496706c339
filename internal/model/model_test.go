package model

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

// helper to create a workload
func makeVM(id int, cpu, mem, storage float64) VM {
	return VM{ID: id, CPUDemand: cpu, MemoryDemand: mem, StorageDemand: storage}
}

// helper to create a host with bounded storage
func makePM(id int, cpu, mem, storage float64) PM {
	return PM{ID: id, CPUCapacity: cpu, MemoryCapacity: mem, StorageCapacity: storage}
}

func TestLedger_AllocateDeallocate(t *testing.T) {
	l := NewHostLedger(makePM(0, 16, 32, 1000))
	vm := makeVM(7, 4, 8, 100)

	if !l.Fits(vm) {
		t.Fatal("expected VM to fit on empty host")
	}

	l.Allocate(vm)
	if l.CPUAvailable != 12 || l.MemoryAvailable != 24 || l.StorageAvailable != 900 {
		t.Errorf("unexpected availables after allocate: cpu=%v mem=%v storage=%v",
			l.CPUAvailable, l.MemoryAvailable, l.StorageAvailable)
	}
	if !l.Active {
		t.Error("host should be active after allocate")
	}
	if len(l.VMs) != 1 || l.VMs[0] != 7 {
		t.Errorf("expected assigned set [7], got %v", l.VMs)
	}

	l.Deallocate(vm)
	if l.CPUAvailable != 16 || l.MemoryAvailable != 32 || l.StorageAvailable != 1000 {
		t.Errorf("deallocate did not restore capacity: cpu=%v mem=%v storage=%v",
			l.CPUAvailable, l.MemoryAvailable, l.StorageAvailable)
	}
	if l.Active {
		t.Error("host should be inactive once empty")
	}
}

func TestLedger_ActiveFlagWithMultipleVMs(t *testing.T) {
	l := NewHostLedger(makePM(0, 16, 32, 1000))
	a := makeVM(1, 2, 2, 10)
	b := makeVM(2, 2, 2, 10)

	l.Allocate(a)
	l.Allocate(b)
	l.Deallocate(a)
	if !l.Active {
		t.Error("host with one remaining VM must stay active")
	}
	l.Deallocate(b)
	if l.Active {
		t.Error("host must go inactive when the last VM leaves")
	}
}

func TestLedger_UnboundedStorage(t *testing.T) {
	l := NewHostLedger(PM{ID: 0, CPUCapacity: 8, MemoryCapacity: 16, StorageCapacity: UnboundedStorage()})
	vm := makeVM(1, 2, 4, 1e12)

	if !l.Fits(vm) {
		t.Fatal("unbounded storage must satisfy any storage demand")
	}
	l.Allocate(vm)
	if !math.IsInf(l.StorageAvailable, 1) {
		t.Error("storage available should remain infinite after allocate")
	}
}

func TestLedger_AllocatePanicsWithoutCapacity(t *testing.T) {
	l := NewHostLedger(makePM(0, 2, 2, 10))
	defer func() {
		if recover() == nil {
			t.Error("expected panic on allocate without capacity")
		}
	}()
	l.Allocate(makeVM(1, 4, 1, 0))
}

func TestLedger_DeallocatePanicsWhenUnassigned(t *testing.T) {
	l := NewHostLedger(makePM(0, 8, 8, 10))
	defer func() {
		if recover() == nil {
			t.Error("expected panic on deallocate of unassigned VM")
		}
	}()
	l.Deallocate(makeVM(1, 1, 1, 0))
}

func TestLedger_RemainingScoreIsPure(t *testing.T) {
	l := NewHostLedger(makePM(0, 4, 8, 0))
	vm := makeVM(1, 1, 2, 0)

	before := *l
	score := l.RemainingScore(vm)

	// (4-1)/4 + (8-2)/8 = 0.75 + 0.75
	if math.Abs(score-1.5) > 1e-9 {
		t.Errorf("expected score 1.5, got %v", score)
	}
	if !reflect.DeepEqual(before.VMs, l.VMs) || before.CPUAvailable != l.CPUAvailable {
		t.Error("RemainingScore must not mutate the ledger")
	}
}

func TestSolution_CloneIsIndependent(t *testing.T) {
	pms := []PM{makePM(0, 16, 32, 1000), makePM(1, 16, 32, 1000)}
	sol := NewSolution(pms, "test")

	vm := makeVM(3, 4, 8, 50)
	sol.Ledger(0).Allocate(vm)
	sol.Placement[3] = 0

	clone := sol.Clone()

	// Move the VM on the clone; the original must be untouched.
	clone.Ledger(0).Deallocate(vm)
	clone.Ledger(1).Allocate(vm)
	clone.Placement[3] = 1

	if sol.Placement[3] != 0 {
		t.Error("clone mutation leaked into original placement")
	}
	orig := sol.Ledger(0)
	if len(orig.VMs) != 1 || orig.VMs[0] != 3 {
		t.Errorf("clone mutation leaked into original assigned set: %v", orig.VMs)
	}
	if !orig.Active {
		t.Error("original host deactivated by clone mutation")
	}
	if sol.Ledger(1).Active {
		t.Error("original second host activated by clone mutation")
	}
}

func TestSolution_LedgersSortedByHostID(t *testing.T) {
	pms := []PM{makePM(5, 8, 8, 10), makePM(1, 8, 8, 10), makePM(3, 8, 8, 10)}
	sol := NewSolution(pms, "test")

	want := []int{1, 3, 5}
	for i, l := range sol.Ledgers {
		if l.HostID != want[i] {
			t.Fatalf("ledger %d: expected host %d, got %d", i, want[i], l.HostID)
		}
	}
	if sol.Ledger(3) == nil || sol.Ledger(3).HostID != 3 {
		t.Error("Ledger lookup by host ID failed")
	}
	if sol.Ledger(2) != nil {
		t.Error("lookup of unknown host should return nil")
	}
}

func TestSolution_MarshalJSONShape(t *testing.T) {
	pms := []PM{
		{ID: 0, CPUCapacity: 4, MemoryCapacity: 8, StorageCapacity: UnboundedStorage()},
		makePM(1, 4, 8, 100),
	}
	sol := NewSolution(pms, "first-fit-decreasing")
	vm := makeVM(2, 1, 2, 0)
	sol.Ledger(0).Allocate(vm)
	sol.Placement[2] = 0

	data, err := json.Marshal(sol)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Placement map[string]int `json:"placement"`
		PMStatus  map[string]struct {
			CPUAvailable     float64  `json:"cpu_available"`
			MemoryAvailable  float64  `json:"memory_available"`
			StorageAvailable *float64 `json:"storage_available"`
			VMs              []int    `json:"vms"`
			IsActive         bool     `json:"is_active"`
		} `json:"pm_status"`
		Algorithm string `json:"algorithm"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded.Algorithm != "first-fit-decreasing" {
		t.Errorf("algorithm = %q", decoded.Algorithm)
	}
	if decoded.Placement["2"] != 0 {
		t.Errorf("placement = %v", decoded.Placement)
	}
	host0 := decoded.PMStatus["0"]
	if host0.StorageAvailable != nil {
		t.Error("unbounded storage must marshal as null")
	}
	if !host0.IsActive || len(host0.VMs) != 1 {
		t.Errorf("host 0 status wrong: %+v", host0)
	}
	host1 := decoded.PMStatus["1"]
	if host1.StorageAvailable == nil || *host1.StorageAvailable != 100 {
		t.Error("bounded storage must marshal numerically")
	}
	if host1.VMs == nil {
		t.Error("empty assigned set must marshal as [], not null")
	}
}

func TestVM_DemandScore(t *testing.T) {
	vm := makeVM(0, 2, 5, 4)
	if got := vm.DemandScore(); got != 9 {
		t.Errorf("demand score = %v, want 9", got)
	}
}

package placement

import (
	"context"
	"math/rand"
	"reflect"
	"testing"

	"github.com/virtfit/virtfit/internal/generator"
	"github.com/virtfit/virtfit/internal/model"
)

func TestBFD_MatchesFFDOnSymmetricHosts(t *testing.T) {
	// With two identical hosts the best-fit choice is forced at every step,
	// so BFD and FFD coincide on this instance.
	pms := []model.PM{makePM(0, 4, 8), makePM(1, 4, 8)}
	vms := []model.VM{makeVM(0, 3, 4), makeVM(1, 2, 5), makeVM(2, 1, 2)}

	sol, err := (&BestFitDecreasing{}).Place(context.Background(), vms, pms)
	if err != nil {
		t.Fatal(err)
	}

	want := map[int]int{0: 0, 1: 1, 2: 0}
	if !reflect.DeepEqual(sol.Placement, want) {
		t.Fatalf("placement = %v, want %v", sol.Placement, want)
	}
	if sol.ActiveHosts() != 2 {
		t.Errorf("active hosts = %d, want 2", sol.ActiveHosts())
	}
	checkCapacityInvariant(t, sol, vms)
}

func TestBFD_PrefersTightestFit(t *testing.T) {
	// Host 1 is smaller, so placing there leaves the smaller fractional
	// remainder; BFD must pick it over the roomier host 0.
	pms := []model.PM{makePM(0, 16, 32), makePM(1, 4, 8)}
	vms := []model.VM{makeVM(0, 3, 6)}

	sol, err := (&BestFitDecreasing{}).Place(context.Background(), vms, pms)
	if err != nil {
		t.Fatal(err)
	}
	if sol.Placement[0] != 1 {
		t.Errorf("VM placed on host %d, want tighter host 1", sol.Placement[0])
	}
}

func TestBFD_TieKeepsEarlierHost(t *testing.T) {
	// Identical hosts produce identical scores; the strict comparison must
	// keep the first host encountered.
	pms := []model.PM{makePM(0, 8, 8), makePM(1, 8, 8)}
	vms := []model.VM{makeVM(0, 2, 2)}

	sol, err := (&BestFitDecreasing{}).Place(context.Background(), vms, pms)
	if err != nil {
		t.Fatal(err)
	}
	if sol.Placement[0] != 0 {
		t.Errorf("tie broken toward host %d, want host 0", sol.Placement[0])
	}
}

func TestBFD_UnplaceableVMIsNotAnError(t *testing.T) {
	pms := []model.PM{makePM(0, 2, 2)}
	vms := []model.VM{makeVM(0, 8, 8)}

	sol, err := (&BestFitDecreasing{}).Place(context.Background(), vms, pms)
	if err != nil {
		t.Fatal(err)
	}
	if len(sol.Placement) != 0 {
		t.Error("oversized VM must stay unplaced")
	}
	if sol.ActiveHosts() != 0 {
		t.Error("no host should be active")
	}
}

func TestBFD_Deterministic(t *testing.T) {
	vms := generator.VMs(40, rand.New(rand.NewSource(11)))
	pms := generator.PMs(10, rand.New(rand.NewSource(11)))

	first, err := (&BestFitDecreasing{}).Place(context.Background(), vms, pms)
	if err != nil {
		t.Fatal(err)
	}
	second, err := (&BestFitDecreasing{}).Place(context.Background(), vms, pms)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated BFD runs on identical input must produce identical solutions")
	}
	checkCapacityInvariant(t, first, vms)
}

package gaussian

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func fptr(v float64) *float64 { return &v }

func TestDihedralsFromGeometry(t *testing.T) {
	// A planar trans chain: the 1-2-3-4 torsion is 180 degrees.
	atoms := []Atom{
		{Symbol: "C", Coords: r3.Vec{X: 0, Y: 1, Z: 0}},
		{Symbol: "C", Coords: r3.Vec{X: 1, Y: 0, Z: 0}},
		{Symbol: "C", Coords: r3.Vec{X: 2, Y: 0, Z: 0}},
		{Symbol: "C", Coords: r3.Vec{X: 3, Y: -1, Z: 0}},
	}
	dihes := DihedralsFromGeometry(atoms)
	if len(dihes) != 1 {
		t.Fatalf("len(dihes) = %d, want 1", len(dihes))
	}
	got, ok := dihes["D(1,2,3,4)"]
	if !ok {
		t.Fatalf("dihes = %v, want key D(1,2,3,4)", dihes)
	}
	if math.Abs(math.Abs(got)-180.0) > 1e-9 {
		t.Errorf("D(1,2,3,4) = %v, want +-180", got)
	}

	if dihes := DihedralsFromGeometry(atoms[:3]); dihes != nil {
		t.Errorf("DihedralsFromGeometry with 3 atoms = %v, want nil", dihes)
	}
}

func TestGroupConformersWraparound(t *testing.T) {
	// 179.5 and -179.5 are one degree apart across the branch cut.
	confs := []Conformer{
		{Name: "a.log", Stoichiometry: "C2H6O", Dihedrals: map[string]float64{"D(1,2,3,4)": 179.5}},
		{Name: "b.log", Stoichiometry: "C2H6O", Dihedrals: map[string]float64{"D(1,2,3,4)": -179.5}},
		{Name: "c.log", Stoichiometry: "C2H6O", Dihedrals: map[string]float64{"D(1,2,3,4)": 60.0}},
	}

	groups := GroupConformers(confs, 5.0)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if len(groups[0]) != 2 || groups[0][0].Name != "a.log" || groups[0][1].Name != "b.log" {
		t.Errorf("groups[0] = %v", names(groups[0]))
	}
	if len(groups[1]) != 1 || groups[1][0].Name != "c.log" {
		t.Errorf("groups[1] = %v", names(groups[1]))
	}
}

func TestGroupConformersStoichiometrySplits(t *testing.T) {
	confs := []Conformer{
		{Name: "a.log", Stoichiometry: "C2H6O", Dihedrals: map[string]float64{"D(1,2,3,4)": 60.0}},
		{Name: "b.log", Stoichiometry: "C2H6O2", Dihedrals: map[string]float64{"D(1,2,3,4)": 60.0}},
	}
	if groups := GroupConformers(confs, 5.0); len(groups) != 2 {
		t.Errorf("len(groups) = %d, want 2", len(groups))
	}
}

func TestGroupConformersIsomerSplits(t *testing.T) {
	// Same stoichiometry, different dihedral names: connectivity differs.
	confs := []Conformer{
		{Name: "a.log", Stoichiometry: "C2H6O", Dihedrals: map[string]float64{"D(1,2,3,4)": 60.0}},
		{Name: "b.log", Stoichiometry: "C2H6O", Dihedrals: map[string]float64{"D(2,1,3,4)": 60.0}},
	}
	if groups := GroupConformers(confs, 5.0); len(groups) != 2 {
		t.Errorf("len(groups) = %d, want 2", len(groups))
	}
}

func TestSelectWinners(t *testing.T) {
	groups := [][]Conformer{
		{
			{Name: "a.log", Convergence: 1.3},
			{Name: "b.log", Convergence: 0.4},
			{Name: "c.log", Convergence: 2.0},
		},
		{
			{Name: "d.log", Convergence: 3.1},
		},
	}
	winners := SelectWinners(groups)
	if len(winners) != 2 || winners[0].Name != "b.log" || winners[1].Name != "d.log" {
		t.Errorf("winners = %v", names(winners))
	}
}

func TestSortWinners(t *testing.T) {
	fresh := func() []Conformer {
		return []Conformer{
			{Name: "b.log", Energy: fptr(-180.1), Enthalpy: fptr(-180.0)},
			{Name: "a.log", Energy: fptr(-180.9), Enthalpy: fptr(-180.8)},
			{Name: "c.log", Energy: fptr(-180.5), Enthalpy: nil},
		}
	}

	byName := fresh()
	SortWinners(byName, false, false)
	if got := names(byName); got[0] != "a.log" || got[1] != "b.log" || got[2] != "c.log" {
		t.Errorf("name sort = %v", got)
	}

	byEnergy := fresh()
	SortWinners(byEnergy, false, true)
	if got := names(byEnergy); got[0] != "a.log" || got[1] != "c.log" || got[2] != "b.log" {
		t.Errorf("energy sort = %v", got)
	}

	// A missing enthalpy downgrades the whole sort to energy.
	byEnthalpy := fresh()
	SortWinners(byEnthalpy, true, false)
	if got := names(byEnthalpy); got[0] != "a.log" || got[1] != "c.log" || got[2] != "b.log" {
		t.Errorf("enthalpy sort with gap = %v", got)
	}
}

func names(confs []Conformer) []string {
	out := make([]string, len(confs))
	for i, c := range confs {
		out[i] = c.Name
	}
	return out
}

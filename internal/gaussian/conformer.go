package gaussian

import (
	"fmt"
	"math"
	"sort"

	"github.com/team-mayes/gaussian-wrangler/internal/geom"
)

// Conformer is the comparison record extracted from one output file. All
// files under comparison must list their atoms in the same order, so the
// named dihedrals line up.
type Conformer struct {
	Name             string
	Stoichiometry    string
	Dihedrals        map[string]float64
	Convergence      float64
	ConvergenceError bool
	Energy           *float64
	Enthalpy         *float64
}

// ConformerFromLog builds a comparison record from a parsed output file,
// which must have been parsed with Dihedrals and Convergence enabled.
func ConformerFromLog(name string, log *LogFile) Conformer {
	return Conformer{
		Name:             name,
		Stoichiometry:    log.Stoichiometry,
		Dihedrals:        log.Dihedrals,
		Convergence:      log.Convergence,
		ConvergenceError: log.ConvergenceError,
		Energy:           log.Energy,
		Enthalpy:         log.Enthalpy,
	}
}

// DihedralsFromGeometry computes dihedrals over consecutive atom quadruples
// when the output file carries no dihedral table (single-point jobs, or
// optimizations run without redundant internal coordinates). The names follow
// Gaussian's D(i,j,k,l) form with one-based atom indices, so files with and
// without tables must not be mixed in one comparison.
func DihedralsFromGeometry(atoms []Atom) map[string]float64 {
	if len(atoms) < 4 {
		return nil
	}
	dihes := make(map[string]float64, len(atoms)-3)
	for i := 0; i+3 < len(atoms); i++ {
		name := fmt.Sprintf("D(%d,%d,%d,%d)", i+1, i+2, i+3, i+4)
		dihes[name] = geom.Dihedral(
			atoms[i].Coords, atoms[i+1].Coords, atoms[i+2].Coords, atoms[i+3].Coords)
	}
	return dihes
}

// GroupConformers partitions conformers into groups of equivalent geometry.
// Two conformers match when their stoichiometries agree and every dihedral
// differs by at most tol degrees, comparing against the first member of each
// group. Input order decides group leaders, so results are deterministic.
func GroupConformers(confs []Conformer, tol float64) [][]Conformer {
	var groups [][]Conformer
	for _, c := range confs {
		placed := false
		for gi, group := range groups {
			if sameConformation(group[0], c, tol) {
				groups[gi] = append(group, c)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []Conformer{c})
		}
	}
	return groups
}

// sameConformation compares candidate against a group leader. A dihedral name
// present in one but not the other means a different connectivity (likely an
// isomer), never a match.
func sameConformation(leader, candidate Conformer, tol float64) bool {
	if leader.Stoichiometry != candidate.Stoichiometry {
		return false
	}
	for name, val := range candidate.Dihedrals {
		ref, ok := leader.Dihedrals[name]
		if !ok {
			return false
		}
		diff := math.Abs(val - ref)
		// -179 and +179 are 2 degrees apart, not 358.
		if diff > 360.0-tol {
			diff -= 360.0
		}
		if diff > tol {
			return false
		}
	}
	return true
}

// SelectWinners picks the best-converged member of each group.
func SelectWinners(groups [][]Conformer) []Conformer {
	winners := make([]Conformer, 0, len(groups))
	for _, group := range groups {
		best := group[0]
		for _, c := range group[1:] {
			if c.Convergence < best.Convergence {
				best = c
			}
		}
		winners = append(winners, best)
	}
	return winners
}

// SortWinners orders winners by enthalpy or energy when requested, falling
// back from enthalpy to energy when any winner lacks one, and to name order
// otherwise. Winners missing the sort value go last.
func SortWinners(winners []Conformer, byEnthalpy, byEnergy bool) {
	if byEnthalpy {
		for _, w := range winners {
			if w.Enthalpy == nil {
				byEnthalpy = false
				byEnergy = true
				break
			}
		}
	}

	var key func(c Conformer) *float64
	switch {
	case byEnthalpy:
		key = func(c Conformer) *float64 { return c.Enthalpy }
	case byEnergy:
		key = func(c Conformer) *float64 { return c.Energy }
	default:
		sort.Slice(winners, func(i, j int) bool { return winners[i].Name < winners[j].Name })
		return
	}

	sort.SliceStable(winners, func(i, j int) bool {
		a, b := key(winners[i]), key(winners[j])
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}

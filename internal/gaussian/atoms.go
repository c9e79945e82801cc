// Package gaussian parses Gaussian input (.com) and output (.log) files and
// classifies job outcomes. Parsers tolerate truncated output files, returning
// whatever was read before the file ran out, since jobs are routinely
// inspected while still running.
package gaussian

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Atom is a single atom record with Cartesian coordinates in Angstroms.
type Atom struct {
	Symbol string
	Coords r3.Vec
}

// symbolByNumber maps atomic number to element symbol for the elements that
// show up in Gaussian coordinate blocks.
var symbolByNumber = map[int]string{
	1: "H", 2: "He",
	3: "Li", 4: "Be", 5: "B", 6: "C", 7: "N", 8: "O", 9: "F", 10: "Ne",
	11: "Na", 12: "Mg", 13: "Al", 14: "Si", 15: "P", 16: "S", 17: "Cl", 18: "Ar",
	19: "K", 20: "Ca", 21: "Sc", 22: "Ti", 23: "V", 24: "Cr", 25: "Mn",
	26: "Fe", 27: "Co", 28: "Ni", 29: "Cu", 30: "Zn", 31: "Ga", 32: "Ge",
	33: "As", 34: "Se", 35: "Br", 36: "Kr",
	37: "Rb", 38: "Sr", 39: "Y", 40: "Zr", 41: "Nb", 42: "Mo", 43: "Tc",
	44: "Ru", 45: "Rh", 46: "Pd", 47: "Ag", 48: "Cd", 49: "In", 50: "Sn",
	51: "Sb", 52: "Te", 53: "I", 54: "Xe",
	55: "Cs", 56: "Ba", 57: "La", 58: "Ce", 59: "Pr", 60: "Nd", 61: "Pm",
	62: "Sm", 63: "Eu", 64: "Gd", 65: "Tb", 66: "Dy", 67: "Ho", 68: "Er",
	69: "Tm", 70: "Yb", 71: "Lu", 72: "Hf", 73: "Ta", 74: "W", 75: "Re",
	76: "Os", 77: "Ir", 78: "Pt", 79: "Au", 80: "Hg", 81: "Tl", 82: "Pb",
	83: "Bi", 84: "Po", 85: "At", 86: "Rn",
}

var numberBySymbol = func() map[string]int {
	m := make(map[string]int, len(symbolByNumber))
	for n, s := range symbolByNumber {
		m[s] = n
	}
	return m
}()

// SymbolForNumber returns the element symbol for an atomic number.
func SymbolForNumber(n int) (string, error) {
	s, ok := symbolByNumber[n]
	if !ok {
		return "", fmt.Errorf("unknown atomic number %d", n)
	}
	return s, nil
}

// NumberForSymbol returns the atomic number for an element symbol.
func NumberForSymbol(symbol string) (int, error) {
	n, ok := numberBySymbol[symbol]
	if !ok {
		return 0, fmt.Errorf("unknown element symbol %q", symbol)
	}
	return n, nil
}

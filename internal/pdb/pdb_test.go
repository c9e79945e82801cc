package pdb

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const samplePDB = `TITLE     ethanol
HETATM    1  C1  UNL     1      -0.673   0.000   0.123  1.00  0.00           C
HETATM    2  O1  UNL     1       0.745   0.100  -0.200  1.00  0.00           O
HETATM    3  H1  UNL     1      -1.100   0.900   0.500  1.00  0.00           H
END
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(samplePDB), "ethanol")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(f.Models) != 1 || f.NumAtoms() != 3 {
		t.Fatalf("models = %d, atoms = %d, want 1 model of 3 atoms", len(f.Models), f.NumAtoms())
	}
	if len(f.Head) != 1 || !strings.HasPrefix(f.Head[0], "TITLE") {
		t.Errorf("Head = %v", f.Head)
	}
	if len(f.Tail) != 1 || f.Tail[0] != "END" {
		t.Errorf("Tail = %v", f.Tail)
	}

	a := f.Models[0][1]
	if a.Element != "O" || a.Name != "O1" || a.Record != "HETATM" {
		t.Errorf("atom = %+v", a)
	}
	if a.Coords.X != 0.745 || a.Coords.Z != -0.2 {
		t.Errorf("coords = %v", a.Coords)
	}
}

func TestParseElementFallback(t *testing.T) {
	// No element columns: the atom name, digits stripped, stands in.
	line := "ATOM      1  C2  UNL     1      -0.673   0.000   0.123"
	f, err := Parse(strings.NewReader(line+"\nEND\n"), "x")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := f.Models[0][0].Element; got != "C" {
		t.Errorf("Element = %q, want C", got)
	}
}

func TestParseMultiModel(t *testing.T) {
	text := "MODEL        1\n" +
		"HETATM    1  C1  UNL     1       0.000   0.000   0.000  1.00  0.00           C\n" +
		"ENDMDL\n" +
		"MODEL        2\n" +
		"HETATM    1  C1  UNL     1       1.000   0.000   0.000  1.00  0.00           C\n" +
		"ENDMDL\nEND\n"
	f, err := Parse(strings.NewReader(text), "traj")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(f.Models) != 2 {
		t.Fatalf("len(Models) = %d, want 2", len(f.Models))
	}
	if f.Models[1][0].Coords.X != 1.0 {
		t.Errorf("second model X = %v, want 1.0", f.Models[1][0].Coords.X)
	}
}

func TestSpliceCoords(t *testing.T) {
	f, err := Parse(strings.NewReader(samplePDB), "ethanol")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	a := f.Models[0][0]

	got := a.SpliceCoords(r3.Vec{X: 1.5, Y: -2.25, Z: 3.125})
	want := "HETATM    1  C1  UNL     1       1.500  -2.250   3.125  1.00  0.00           C"
	if got != want {
		t.Errorf("SpliceCoords() = %q, want %q", got, want)
	}
}

func TestFormatAtom(t *testing.T) {
	got := FormatAtom(7, "C", r3.Vec{X: -0.5, Y: 0, Z: 12.345})
	want := "HETATM    7 C    UNL     1      -0.500   0.000  12.345  1.00  0.00           C"
	if got != want {
		t.Errorf("FormatAtom() = %q, want %q", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(strings.NewReader("TITLE x\nEND\n"), "x"); err == nil {
		t.Error("Parse() accepted a file with no atoms")
	}
	bad := "HETATM    1  C1  UNL     1      bad      0.000   0.123\nEND\n"
	if _, err := Parse(strings.NewReader(bad), "x"); err == nil {
		t.Error("Parse() accepted a malformed coordinate")
	}
}

// Package pdb reads and writes Protein Data Bank coordinate files well enough
// to round-trip small-molecule geometries. Only the record types this project
// produces or consumes are interpreted; everything else is carried verbatim.
package pdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

// Fixed column boundaries of ATOM/HETATM records (0-based, end-exclusive).
const (
	colRecordEnd = 6
	colNameStart = 12
	colNameEnd   = 16
	colXStart    = 30
	colZEnd      = 54
	colEleStart  = 76
	colEleEnd    = 78
)

// Atom is one ATOM or HETATM record. Raw preserves the full original line so
// templated output can splice in new coordinates without disturbing the
// residue and occupancy columns.
type Atom struct {
	Record  string // "ATOM" or "HETATM"
	Name    string // atom name columns, trimmed
	Element string
	Coords  r3.Vec
	Raw     string
}

// Model is one coordinate set; multi-MODEL files yield several.
type Model []Atom

// File is a parsed PDB file. Head holds every line before the first atom of
// the first model; Tail holds everything after the last atom (TER, CONECT,
// END and so on).
type File struct {
	BaseName string
	Head     []string
	Models   []Model
	Tail     []string
}

// NumAtoms returns the atom count of the first model.
func (f *File) NumAtoms() int {
	if len(f.Models) == 0 {
		return 0
	}
	return len(f.Models[0])
}

// ParseFile reads and parses a PDB file from disk.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Parse(fh, utils.BaseNameNoExt(path))
}

// Parse reads PDB records from r. Files without MODEL records parse as a
// single model.
func Parse(r io.Reader, baseName string) (*File, error) {
	f := &File{BaseName: baseName}
	var current Model
	seenAtoms := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		record := strings.TrimSpace(firstN(line, colRecordEnd))

		switch record {
		case "MODEL":
			if len(current) > 0 {
				f.Models = append(f.Models, current)
				current = nil
			}
		case "ATOM", "HETATM":
			atom, err := parseAtomLine(line)
			if err != nil {
				return nil, fmt.Errorf("%s: %v", baseName, err)
			}
			current = append(current, atom)
			seenAtoms = true
		case "ENDMDL":
			f.Models = append(f.Models, current)
			current = nil
		default:
			if !seenAtoms {
				f.Head = append(f.Head, line)
			} else {
				f.Tail = append(f.Tail, line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(current) > 0 {
		f.Models = append(f.Models, current)
	}
	if len(f.Models) == 0 {
		return nil, fmt.Errorf("%s: no ATOM or HETATM records found", baseName)
	}

	return f, nil
}

func parseAtomLine(line string) (Atom, error) {
	if len(line) < colZEnd {
		return Atom{}, fmt.Errorf("atom record too short: %q", line)
	}
	var coords [3]float64
	for i := 0; i < 3; i++ {
		field := strings.TrimSpace(line[colXStart+8*i : colXStart+8*(i+1)])
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Atom{}, fmt.Errorf("bad coordinate in %q: %v", line, err)
		}
		coords[i] = v
	}

	name := strings.TrimSpace(line[colNameStart:colNameEnd])
	element := ""
	if len(line) >= colEleEnd {
		element = strings.TrimSpace(line[colEleStart:colEleEnd])
	}
	if element == "" {
		// Old files leave the element columns blank; fall back to the atom
		// name with any position digits stripped.
		element = strings.TrimFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
	}

	return Atom{
		Record:  strings.TrimSpace(firstN(line, colRecordEnd)),
		Name:    name,
		Element: element,
		Coords:  r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]},
		Raw:     line,
	}, nil
}

// SpliceCoords returns the atom's Raw line with the coordinate columns
// replaced, leaving every other column untouched.
func (a Atom) SpliceCoords(c r3.Vec) string {
	line := a.Raw
	if len(line) < colZEnd {
		line += strings.Repeat(" ", colZEnd-len(line))
	}
	return line[:colXStart] +
		fmt.Sprintf("%8.3f%8.3f%8.3f", c.X, c.Y, c.Z) +
		line[colZEnd:]
}

// FormatAtom builds a HETATM record from scratch, for output without a
// template. Serial numbers start at 1.
func FormatAtom(serial int, name string, c r3.Vec) string {
	return fmt.Sprintf("HETATM%5d %-4s UNL     1    %8.3f%8.3f%8.3f  1.00  0.00          %2s",
		serial, name, c.X, c.Y, c.Z, name)
}

// Write emits head, one atom line per entry, and tail.
func Write(w io.Writer, head []string, atomLines []string, tail []string) error {
	for _, group := range [][]string{head, atomLines, tail} {
		for _, line := range group {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteFile writes a PDB file to path.
func WriteFile(path string, head []string, atomLines []string, tail []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, utils.PermFile)
	if err != nil {
		return err
	}
	if err := Write(f, head, atomLines, tail); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

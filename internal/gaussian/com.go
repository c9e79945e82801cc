package gaussian

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

// ComFile is a parsed Gaussian input file. Header holds everything through
// the charge and multiplicity line verbatim; Tail holds everything after the
// atom block, including the blank line that ends it.
type ComFile struct {
	BaseName     string
	Header       []string
	Charge       int
	Multiplicity int
	Atoms        []Atom
	Tail         []string
}

// ParseComFile reads and parses a Gaussian input file from disk.
func ParseComFile(path string) (*ComFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCom(f, utils.BaseNameNoExt(path))
}

// ParseCom parses Gaussian input from r. The header ends at the second blank
// line; the line after it must carry the charge and multiplicity.
func ParseCom(r io.Reader, baseName string) (*ComFile, error) {
	com := &ComFile{BaseName: baseName}
	scanner := bufio.NewScanner(r)

	const (
		secHead = iota
		secAtoms
		secTail
	)
	section := secHead
	blankHeaderLines := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch section {
		case secHead:
			com.Header = append(com.Header, line)
			if line == "" {
				blankHeaderLines++
				if blankHeaderLines == 2 {
					if !scanner.Scan() {
						return nil, fmt.Errorf("%s: input ends before charge and multiplicity", baseName)
					}
					line = strings.TrimSpace(scanner.Text())
					com.Header = append(com.Header, line)
					fields := strings.Fields(line)
					if len(fields) < 2 {
						return nil, fmt.Errorf("%s: expected charge and multiplicity, found %q", baseName, line)
					}
					charge, err1 := strconv.Atoi(fields[0])
					mult, err2 := strconv.Atoi(fields[1])
					if err1 != nil || err2 != nil {
						return nil, fmt.Errorf("%s: expected charge and multiplicity, found %q", baseName, line)
					}
					com.Charge, com.Multiplicity = charge, mult
					section = secAtoms
				}
			}

		case secAtoms:
			if line == "" {
				section = secTail
				com.Tail = append(com.Tail, line)
				continue
			}
			atom, err := parseComAtom(line)
			if err != nil {
				return nil, fmt.Errorf("%s: %v", baseName, err)
			}
			com.Atoms = append(com.Atoms, atom)

		case secTail:
			com.Tail = append(com.Tail, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if section == secHead {
		return nil, fmt.Errorf("%s: not a Gaussian input file (no atom section found)", baseName)
	}

	return com, nil
}

func parseComAtom(line string) (Atom, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return Atom{}, fmt.Errorf("expected an atom line, found %q", line)
	}
	var coords [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return Atom{}, fmt.Errorf("bad coordinate in atom line %q: %v", line, err)
		}
		coords[i] = v
	}
	return Atom{
		Symbol: fields[0],
		Coords: r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]},
	}, nil
}

// ApplyTemplate merges the geometry of src into tmpl: the route section,
// title and tail come from the template and the coordinates from src. When
// the template carries its own atom block it pins the atom order: src must
// list the same atoms, and the template's atom entries win, so basis-set or
// fragment annotations on them survive. With chargeFromSource the charge and
// multiplicity come from src instead of the template.
func ApplyTemplate(tmpl, src *ComFile, chargeFromSource bool) (*ComFile, error) {
	out := &ComFile{
		BaseName:     src.BaseName,
		Header:       append([]string(nil), tmpl.Header...),
		Charge:       tmpl.Charge,
		Multiplicity: tmpl.Multiplicity,
		Tail:         tmpl.Tail,
	}
	if chargeFromSource {
		out.Charge, out.Multiplicity = src.Charge, src.Multiplicity
		out.Header[len(out.Header)-1] = fmt.Sprintf("%d %d", src.Charge, src.Multiplicity)
	}

	if len(tmpl.Atoms) == 0 {
		out.Atoms = src.Atoms
		return out, nil
	}
	if len(tmpl.Atoms) != len(src.Atoms) {
		return nil, fmt.Errorf("template %s has %d atoms but %s has %d",
			tmpl.BaseName, len(tmpl.Atoms), src.BaseName, len(src.Atoms))
	}
	out.Atoms = make([]Atom, len(src.Atoms))
	for i, a := range src.Atoms {
		if elementOf(a.Symbol) != elementOf(tmpl.Atoms[i].Symbol) {
			return nil, fmt.Errorf("atom %d of %s is %s but the template has %s",
				i+1, src.BaseName, a.Symbol, tmpl.Atoms[i].Symbol)
		}
		out.Atoms[i] = Atom{Symbol: tmpl.Atoms[i].Symbol, Coords: a.Coords}
	}
	return out, nil
}

// elementOf strips a fragment or basis annotation, "C(Fragment=1)" to "C".
func elementOf(symbol string) string {
	if i := strings.IndexByte(symbol, '('); i >= 0 {
		return symbol[:i]
	}
	return symbol
}

// Write emits the file in Gaussian input format. The header and tail are
// reproduced verbatim; atom coordinates are printed with six decimals.
func (c *ComFile) Write(w io.Writer) error {
	for _, line := range c.Header {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, a := range c.Atoms {
		if _, err := fmt.Fprintf(w, "%-6s%12.6f%12.6f%12.6f\n",
			a.Symbol, a.Coords.X, a.Coords.Y, a.Coords.Z); err != nil {
			return err
		}
	}
	for _, line := range c.Tail {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the input file to path.
func (c *ComFile) WriteFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, utils.PermFile)
	if err != nil {
		return err
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

package cmd

import (
	"fmt"

	"github.com/team-mayes/gaussian-wrangler/internal/gaussian"
	"github.com/team-mayes/gaussian-wrangler/internal/pdb"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

// gatherInputFiles combines positional arguments with an optional list file.
func gatherInputFiles(args []string, listFile string) ([]string, error) {
	files := append([]string(nil), args...)
	if listFile != "" {
		listed, err := utils.ReadListFile(listFile)
		if err != nil {
			return nil, err
		}
		files = append(files, listed...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files given; pass them as arguments or with --list")
	}
	return files, nil
}

// writePdbFromAtoms writes a geometry as a PDB file. With a template the new
// coordinates are spliced into the template's atom records, so residue names,
// serials and connectivity survive; without one a minimal HETATM file is
// built from scratch.
func writePdbFromAtoms(outPath, title string, atoms []gaussian.Atom, tmpl *pdb.File) error {
	var head, lines, tail []string

	if tmpl != nil {
		if tmpl.NumAtoms() != len(atoms) {
			return fmt.Errorf("template %s has %d atoms but %s has %d",
				tmpl.BaseName, tmpl.NumAtoms(), title, len(atoms))
		}
		head, tail = tmpl.Head, tmpl.Tail
		for i, a := range atoms {
			lines = append(lines, tmpl.Models[0][i].SpliceCoords(a.Coords))
		}
	} else {
		head = []string{"TITLE     " + title}
		for i, a := range atoms {
			lines = append(lines, pdb.FormatAtom(i+1, a.Symbol, a.Coords))
		}
		tail = []string{"END"}
	}

	if err := pdb.WriteFile(outPath, head, lines, tail); err != nil {
		return err
	}
	utils.PrintMessage("Wrote %s", utils.StylePath(outPath))
	return nil
}

// writeComFromAtoms writes a geometry as a Gaussian input file, taking the
// route section, title, charge and multiplicity from the template.
func writeComFromAtoms(outPath string, atoms []gaussian.Atom, tmpl *gaussian.ComFile) error {
	out := &gaussian.ComFile{
		Header:       tmpl.Header,
		Charge:       tmpl.Charge,
		Multiplicity: tmpl.Multiplicity,
		Atoms:        atoms,
		Tail:         tmpl.Tail,
	}
	if err := out.WriteFile(outPath); err != nil {
		return err
	}
	utils.PrintMessage("Wrote %s", utils.StylePath(outPath))
	return nil
}

// atomsFromModel converts PDB records to element-and-coordinates atoms.
func atomsFromModel(model pdb.Model) []gaussian.Atom {
	atoms := make([]gaussian.Atom, len(model))
	for i, a := range model {
		atoms[i] = gaussian.Atom{Symbol: a.Element, Coords: a.Coords}
	}
	return atoms
}

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/team-mayes/gaussian-wrangler/internal/gaussian"
	"github.com/team-mayes/gaussian-wrangler/internal/pdb"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

var (
	pdb2comList      string
	pdb2comTemplate  string
	pdb2comFirstOnly bool
	pdb2comRemoveH   bool
)

var pdb2comCmd = &cobra.Command{
	Use:   "pdb2com [pdb_file...]",
	Short: "Convert PDB files to Gaussian input files",
	Long: `Write a Gaussian input file per coordinate set in each PDB file, taking the
route section, title, charge and multiplicity from the template input file.
Multi-MODEL files yield one input per model, suffixed _0, _1 and so on.`,
	Example: `  gwrangler pdb2com conformers.pdb -t route.com
  gwrangler pdb2com -l pdbs.txt -t route.com --first-only`,
	SilenceUsage: true,
	RunE:         runPdb2Com,
}

func init() {
	rootCmd.AddCommand(pdb2comCmd)
	pdb2comCmd.Flags().StringVarP(&pdb2comList, "list", "l", "", "File listing PDB files to convert")
	pdb2comCmd.Flags().StringVarP(&pdb2comTemplate, "template", "t", "", "Gaussian input file providing route, title, charge and multiplicity (required)")
	pdb2comCmd.Flags().BoolVar(&pdb2comFirstOnly, "first-only", false, "Convert only the first model of each file")
	pdb2comCmd.Flags().BoolVar(&pdb2comRemoveH, "remove-h", false, "Drop the last atom of each model if it is a hydrogen")
}

func runPdb2Com(cmd *cobra.Command, args []string) error {
	if pdb2comTemplate == "" {
		return fmt.Errorf("a template Gaussian input file is required (-t)")
	}
	tmpl, err := gaussian.ParseComFile(pdb2comTemplate)
	if err != nil {
		return err
	}

	files, err := gatherInputFiles(args, pdb2comList)
	if err != nil {
		return err
	}

	for _, f := range files {
		pf, err := pdb.ParseFile(f)
		if err != nil {
			return err
		}

		models := pf.Models
		if pdb2comFirstOnly {
			models = models[:1]
		}
		for i, model := range models {
			atoms := atomsFromModel(model)
			if pdb2comRemoveH && len(atoms) > 0 &&
				strings.EqualFold(atoms[len(atoms)-1].Symbol, "H") {
				atoms = atoms[:len(atoms)-1]
				utils.PrintDebug("Dropped trailing hydrogen from %s model %d", f, i)
			}

			name := pf.BaseName
			if len(models) > 1 {
				name = fmt.Sprintf("%s_%d", pf.BaseName, i)
			}
			outPath := filepath.Join(filepath.Dir(f), name+".com")
			if err := writeComFromAtoms(outPath, atoms, tmpl); err != nil {
				return err
			}
		}
	}
	return nil
}

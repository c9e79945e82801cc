package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/team-mayes/gaussian-wrangler/internal/gaussian"
	"github.com/team-mayes/gaussian-wrangler/internal/pdb"
)

var (
	com2pdbList     string
	com2pdbTemplate string
)

var com2pdbCmd = &cobra.Command{
	Use:   "com2pdb [com_file...]",
	Short: "Convert Gaussian input files to PDB format",
	Long: `Write a PDB file next to each Gaussian input file. With a template PDB the
coordinates are spliced into its atom records, keeping residue and
connectivity information; the template must have the same number of atoms.`,
	Example: `  gwrangler com2pdb ethylgly.com
  gwrangler com2pdb -l coms.txt -t ethylgly_ref.pdb`,
	SilenceUsage: true,
	RunE:         runCom2Pdb,
}

func init() {
	rootCmd.AddCommand(com2pdbCmd)
	com2pdbCmd.Flags().StringVarP(&com2pdbList, "list", "l", "", "File listing Gaussian input files to convert")
	com2pdbCmd.Flags().StringVarP(&com2pdbTemplate, "template", "t", "", "Template PDB file to splice coordinates into")
}

func runCom2Pdb(cmd *cobra.Command, args []string) error {
	files, err := gatherInputFiles(args, com2pdbList)
	if err != nil {
		return err
	}

	var tmpl *pdb.File
	if com2pdbTemplate != "" {
		if tmpl, err = pdb.ParseFile(com2pdbTemplate); err != nil {
			return err
		}
	}

	for _, f := range files {
		com, err := gaussian.ParseComFile(f)
		if err != nil {
			return err
		}
		outPath := filepath.Join(filepath.Dir(f), com.BaseName+".pdb")
		if err := writePdbFromAtoms(outPath, com.BaseName, com.Atoms, tmpl); err != nil {
			return err
		}
	}
	return nil
}

package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/team-mayes/gaussian-wrangler/internal/gaussian"
	"github.com/team-mayes/gaussian-wrangler/internal/pdb"
)

var (
	log2pdbList     string
	log2pdbTemplate string
)

var log2pdbCmd = &cobra.Command{
	Use:   "log2pdb [log_file...]",
	Short: "Convert the last geometry of Gaussian output files to PDB format",
	Long: `Extract the final geometry from each Gaussian output file and write it as a
PDB file next to the output. Truncated outputs yield the last complete step.
With a template PDB the coordinates are spliced into its atom records.`,
	Example: `  gwrangler log2pdb ethylgly.log
  gwrangler log2pdb -l logs.txt -t ethylgly_ref.pdb`,
	SilenceUsage: true,
	RunE:         runLog2Pdb,
}

func init() {
	rootCmd.AddCommand(log2pdbCmd)
	log2pdbCmd.Flags().StringVarP(&log2pdbList, "list", "l", "", "File listing Gaussian output files to convert")
	log2pdbCmd.Flags().StringVarP(&log2pdbTemplate, "template", "t", "", "Template PDB file to splice coordinates into")
}

func runLog2Pdb(cmd *cobra.Command, args []string) error {
	files, err := gatherInputFiles(args, log2pdbList)
	if err != nil {
		return err
	}

	var tmpl *pdb.File
	if log2pdbTemplate != "" {
		if tmpl, err = pdb.ParseFile(log2pdbTemplate); err != nil {
			return err
		}
	}

	for _, f := range files {
		log, err := gaussian.ParseLogFile(f, gaussian.LogOptions{})
		if err != nil {
			return err
		}
		outPath := filepath.Join(filepath.Dir(f), log.BaseName+".pdb")
		if err := writePdbFromAtoms(outPath, log.BaseName, log.Atoms, tmpl); err != nil {
			return err
		}
	}
	return nil
}

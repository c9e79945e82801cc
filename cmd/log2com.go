package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/team-mayes/gaussian-wrangler/internal/gaussian"
)

var (
	log2comList      string
	log2comTemplate  string
	log2comStep      int
	log2comLowEnergy bool
)

var log2comCmd = &cobra.Command{
	Use:   "log2com [log_file...]",
	Short: "Convert the last geometry of Gaussian output files to input files",
	Long: `Extract the final geometry from each Gaussian output file and write it as a
new input file, taking the route section, title, charge and multiplicity from
the template input file. Useful for restarting from the last step of an
interrupted optimization, or chaining a new job type onto a finished one.`,
	Example: `  gwrangler log2com ethylgly.log -t route.com
  gwrangler log2com -l logs.txt -t route.com`,
	SilenceUsage: true,
	RunE:         runLog2Com,
}

func init() {
	rootCmd.AddCommand(log2comCmd)
	log2comCmd.Flags().StringVarP(&log2comList, "list", "l", "", "File listing Gaussian output files to convert")
	log2comCmd.Flags().StringVarP(&log2comTemplate, "template", "t", "", "Gaussian input file providing route, title, charge and multiplicity (required)")
	log2comCmd.Flags().IntVarP(&log2comStep, "step", "s", 0, "Take the geometry of this optimization step instead of the last")
	log2comCmd.Flags().BoolVar(&log2comLowEnergy, "low-energy", false, "Take the lowest-energy geometry instead of the last")
}

func runLog2Com(cmd *cobra.Command, args []string) error {
	if log2comTemplate == "" {
		return fmt.Errorf("a template Gaussian input file is required (-t)")
	}
	if log2comStep > 0 && log2comLowEnergy {
		return fmt.Errorf("choose either --step or --low-energy, not both")
	}
	tmpl, err := gaussian.ParseComFile(log2comTemplate)
	if err != nil {
		return err
	}

	files, err := gatherInputFiles(args, log2comList)
	if err != nil {
		return err
	}

	opts := gaussian.LogOptions{LowestEnergy: log2comLowEnergy}
	if log2comStep > 0 {
		// Parsing stops after the requested step, leaving its geometry as
		// the last one read.
		opts.StepConvergence = true
		opts.LastStep = log2comStep
	}

	for _, f := range files {
		log, err := gaussian.ParseLogFile(f, opts)
		if err != nil {
			return err
		}
		if len(log.Atoms) == 0 {
			return fmt.Errorf("%s: no geometry found", f)
		}
		outPath := filepath.Join(filepath.Dir(f), log.BaseName+".com")
		if err := writeComFromAtoms(outPath, log.Atoms, tmpl); err != nil {
			return err
		}
	}
	return nil
}

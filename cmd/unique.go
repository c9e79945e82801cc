package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/team-mayes/gaussian-wrangler/internal/gaussian"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

var (
	uniqueListFile   string
	uniqueTol        float64
	uniqueByEnergy   bool
	uniqueByEnthalpy bool
)

var uniqueCmd = &cobra.Command{
	Use:   "unique",
	Short: "Find unique conformations among a set of Gaussian output files",
	Long: `Compare the dihedral angles of the listed output files and group files
whose geometry agrees within the tolerance. One winner per group is kept, the
member with the best convergence. Files must describe the same molecule with
atoms in the same order.

Files without a dihedral table (single-point jobs, or optimizations without
redundant internal coordinates) fall back to dihedrals computed from the
final geometry.`,
	Example: `  gwrangler unique                  # compare files named in ./list.txt
  gwrangler unique -l conf.txt -t 10 -e`,
	SilenceUsage: true,
	RunE:         runUnique,
}

func init() {
	rootCmd.AddCommand(uniqueCmd)
	uniqueCmd.Flags().StringVarP(&uniqueListFile, "list", "l", "list.txt", "File listing the output files to compare")
	uniqueCmd.Flags().Float64VarP(&uniqueTol, "tol", "t", 5.0, "Dihedral tolerance in degrees")
	uniqueCmd.Flags().BoolVarP(&uniqueByEnergy, "energy", "e", false, "Sort winners by electronic energy")
	uniqueCmd.Flags().BoolVar(&uniqueByEnthalpy, "enthalpy", false, "Sort winners by enthalpy (falls back to energy if any file lacks one)")
}

func runUnique(cmd *cobra.Command, args []string) error {
	files, err := utils.ReadListFile(uniqueListFile)
	if err != nil {
		return err
	}

	var found, missing []string
	for _, f := range files {
		if utils.FileExists(f) {
			found = append(found, f)
		} else {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		utils.PrintWarning("Skipping files that could not be found: %s", strings.Join(missing, ", "))
	}
	if len(found) < 2 {
		return fmt.Errorf("need at least two existing files to compare, got %d from %s",
			len(found), uniqueListFile)
	}

	confs := make([]gaussian.Conformer, 0, len(found))
	for _, f := range found {
		log, err := gaussian.ParseLogFile(f, gaussian.LogOptions{Dihedrals: true, Convergence: true})
		if err != nil {
			return err
		}
		if len(log.Dihedrals) == 0 {
			log.Dihedrals = gaussian.DihedralsFromGeometry(log.Atoms)
			utils.PrintDebug("No dihedral table in %s; computed %d dihedrals from geometry",
				f, len(log.Dihedrals))
		}
		confs = append(confs, gaussian.ConformerFromLog(f, log))
	}

	groups := gaussian.GroupConformers(confs, uniqueTol)
	winners := gaussian.SelectWinners(groups)
	gaussian.SortWinners(winners, uniqueByEnthalpy, uniqueByEnergy)

	// The winner table goes to stdout as csv; warnings stay on stderr so the
	// output can be piped straight into hartree.
	w := csv.NewWriter(os.Stdout)
	if err := w.WriteAll(winnerRows(winners)); err != nil {
		return err
	}
	utils.PrintDebug("Found %d unique conformation(s) among %d file(s).", len(winners), len(found))

	var badConvergence []string
	for _, win := range winners {
		if win.ConvergenceError {
			badConvergence = append(badConvergence, win.Name)
		}
	}
	if len(badConvergence) > 0 {
		utils.PrintWarning("Check convergence of file(s): %s", strings.Join(badConvergence, ", "))
	}
	return nil
}

func winnerRows(winners []gaussian.Conformer) [][]string {
	rows := [][]string{{"File", "Convergence", "Energy", "Enthalpy"}}
	for _, w := range winners {
		rows = append(rows, []string{
			w.Name,
			fmt.Sprintf("%.4f", w.Convergence),
			formatHartree(w.Energy),
			formatHartree(w.Enthalpy),
		})
	}
	return rows
}

func formatHartree(v *float64) string {
	if v == nil {
		return "nan"
	}
	return fmt.Sprintf("%.6f", *v)
}

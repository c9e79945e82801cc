package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/team-mayes/gaussian-wrangler/internal/gaussian"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

var (
	checkDir       string
	checkSubdirs   string
	checkExt       string
	checkFile      string
	checkListFile  string
	checkOutDir    string
	checkStepConv  bool
	checkFinalConv bool
	checkAllSteps  bool
	checkBestSteps bool
	checkToStep    int
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check Gaussian output files for normal termination or convergence",
	Long: `Classify Gaussian output files by their last line: completed files move to
the output directory, files with a known crash signature are reported as
likely failed, and everything else as possibly still running.

The convergence flags skip the termination check and instead report the
optimization convergence score (the sum of each criterion over its threshold;
under 4.0 all four criteria are met).`,
	Example: `  gwrangler check                      # classify *.log in this directory
  gwrangler check -d runs -o done      # classify runs/*.log, completed to done/
  gwrangler check -z -l list.txt       # final convergence of listed files
  gwrangler check -b -f ethyl.log      # ten best steps by convergence`,
	SilenceUsage: true,
	RunE:         runCheckGauss,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkDir, "directory", "d", "", "Directory to search for output files (default: current directory)")
	checkCmd.Flags().StringVar(&checkSubdirs, "subdirs", "", "Directory to search, including subdirectories")
	checkCmd.Flags().StringVarP(&checkExt, "extension", "e", ".log", "Extension of output files to look for")
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "A single output file to check")
	checkCmd.Flags().StringVarP(&checkListFile, "list", "l", "", "A file listing output files to check")
	checkCmd.Flags().StringVarP(&checkOutDir, "output-directory", "o", "for_hartree", "Where to move normally terminated files")
	checkCmd.Flags().BoolVarP(&checkStepConv, "step-converg", "s", false, "Write per-step convergence to a csv per file")
	checkCmd.Flags().BoolVarP(&checkFinalConv, "final-converg", "z", false, "Report the final convergence of each file")
	checkCmd.Flags().BoolVarP(&checkAllSteps, "all", "a", false, "Print the convergence of every step")
	checkCmd.Flags().BoolVarP(&checkBestSteps, "best", "b", false, "Print the ten best steps by convergence")
	checkCmd.Flags().IntVarP(&checkToStep, "to-step", "t", 0, "Only read steps up to this step number, then sort by convergence")
}

func runCheckGauss(cmd *cobra.Command, args []string) error {
	if checkAllSteps || checkBestSteps || checkToStep > 0 {
		checkStepConv = true
	}
	if checkStepConv && checkFinalConv {
		return fmt.Errorf("choose either step convergence or final convergence, not both")
	}

	files, err := collectCheckFiles()
	if err != nil {
		return err
	}
	sort.Strings(files)

	if checkStepConv || checkFinalConv {
		return checkConvergence(files)
	}
	return checkTermination(files)
}

// collectCheckFiles gathers files from the explicit flags, then from a
// directory search when a directory was named (or nothing else was given).
func collectCheckFiles() (files []string, err error) {
	if checkFile != "" {
		files = append(files, checkFile)
	}
	if checkListFile != "" {
		listed, err := utils.ReadListFile(checkListFile)
		if err != nil {
			return nil, err
		}
		files = append(files, listed...)
	}

	searchNeeded := checkDir != "" || checkSubdirs != "" || len(files) == 0
	if !searchNeeded {
		return files, nil
	}

	if checkSubdirs != "" {
		err = filepath.Walk(checkSubdirs, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(path) == checkExt {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		dir := checkDir
		if dir == "" {
			dir = "."
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == checkExt {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files with extension %q found", checkExt)
	}
	return files, nil
}

func checkTermination(files []string) error {
	if err := utils.EnsureDir(checkOutDir); err != nil {
		return err
	}

	var completed, failed, running []string
	for _, f := range files {
		lastLine, err := utils.ReadLastLine(f)
		if err != nil {
			utils.PrintWarning("Could not read the last line of %s: %v", f, err)
			continue
		}
		switch gaussian.ClassifyTermination(lastLine) {
		case gaussian.StatusCompleted:
			if err := os.Rename(f, filepath.Join(checkOutDir, filepath.Base(f))); err != nil {
				return err
			}
			completed = append(completed, f)
		case gaussian.StatusFailed:
			failed = append(failed, f)
		default:
			running = append(running, f)
		}
	}

	if len(completed) > 0 {
		utils.PrintMessage("The following files completed normally:")
		for _, f := range completed {
			utils.PrintMessage("    %s", utils.StylePath(f))
		}
	} else {
		utils.PrintMessage("No normally completed files found.")
	}
	if len(failed) > 0 {
		utils.PrintWarning("The following files may have failed:")
		for _, f := range failed {
			utils.PrintMessage("    %s", utils.StylePath(f))
		}
	}
	if len(running) > 0 {
		utils.PrintMessage("The following files may still be running:")
		for _, f := range running {
			utils.PrintMessage("    %s", utils.StylePath(f))
		}
	}
	return nil
}

func checkConvergence(files []string) error {
	if checkFinalConv {
		utils.PrintMessage("%-36s %-11s %s", "File", "Convergence", "Error")
	}

	for _, f := range files {
		log, err := gaussian.ParseLogFile(f, gaussian.LogOptions{
			Convergence:     true,
			StepConvergence: checkStepConv,
			LastStep:        checkToStep,
		})
		if err != nil {
			return err
		}
		name := filepath.Base(f)

		if !checkStepConv {
			utils.PrintMessage("%-36s %11.4f %v", name, log.Convergence, log.ConvergenceError)
			continue
		}
		if len(log.Steps) == 0 {
			utils.PrintMessage("No convergence data found for file: %s", name)
			continue
		}

		switch {
		case checkToStep > 0 || checkBestSteps:
			steps := append([]gaussian.StepConvergence(nil), log.Steps...)
			sort.SliceStable(steps, func(i, j int) bool {
				return steps[i].Convergence < steps[j].Convergence
			})
			limit := checkToStep
			if checkBestSteps {
				limit = 10
				utils.PrintMessage("Best (up to 10) steps sorted by convergence for file: %s", name)
			} else {
				utils.PrintMessage("Steps sorted by convergence to step number %d for file: %s", checkToStep, name)
			}
			printSteps(steps, limit)
		case checkAllSteps:
			utils.PrintMessage("Convergence of all steps for file: %s", name)
			printSteps(log.Steps, len(log.Steps))
		default:
			if err := writeStepCsv(f, name, log.Steps); err != nil {
				return err
			}
		}
	}
	return nil
}

func printSteps(steps []gaussian.StepConvergence, limit int) {
	utils.PrintMessage("    StepNum  Convergence")
	for i, step := range steps {
		if i == limit {
			break
		}
		utils.PrintMessage("    %7d %10.3f", step.Step, step.Convergence)
	}
}

// writeStepCsv saves every step's criteria next to the output file.
func writeStepCsv(logPath, name string, steps []gaussian.StepConvergence) error {
	outPath := utils.BaseNameNoExt(logPath) + "_conv_steps.csv"
	if dir := filepath.Dir(logPath); dir != "." {
		outPath = filepath.Join(dir, filepath.Base(outPath))
	}

	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, utils.PermFile)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"File", "step_number", "Max Force", "RMS Force",
		"Max Displacement", "RMS Displacement", "Convergence", "Convergence_Error"}); err != nil {
		return err
	}
	for _, s := range steps {
		row := []string{
			name,
			strconv.Itoa(s.Step),
			formatCriterion(s.MaxForce),
			formatCriterion(s.RMSForce),
			formatCriterion(s.MaxDisplacement),
			formatCriterion(s.RMSDisplacement),
			formatCriterion(s.Convergence),
			strconv.FormatBool(s.ConvergenceError),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	utils.PrintMessage("Wrote %s", utils.StylePath(outPath))
	return nil
}

func formatCriterion(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

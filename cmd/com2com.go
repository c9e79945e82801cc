package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/team-mayes/gaussian-wrangler/internal/gaussian"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

var (
	com2comList     string
	com2comTemplate string
	com2comOutDir   string
	com2comCharge   bool
)

var com2comCmd = &cobra.Command{
	Use:   "com2com [com_file...]",
	Short: "Rewrite Gaussian input files against a template input file",
	Long: `Write a new Gaussian input file per source file, keeping the source's
coordinates but taking the route section, title and tail from the template.
A template with its own atom block pins the atom order: each source file must
list the same atoms, and the template's atom entries (with any basis-set or
fragment annotations) are kept.`,
	Example: `  gwrangler com2com ethyl.com -t route.com -o prepared
  gwrangler com2com -l coms.txt -t route.com -c`,
	SilenceUsage: true,
	RunE:         runCom2Com,
}

func init() {
	rootCmd.AddCommand(com2comCmd)
	com2comCmd.Flags().StringVarP(&com2comList, "list", "l", "", "File listing Gaussian input files to rewrite")
	com2comCmd.Flags().StringVarP(&com2comTemplate, "template", "t", "", "Gaussian input file providing route, title, charge and multiplicity (required)")
	com2comCmd.Flags().StringVarP(&com2comOutDir, "out-dir", "o", "", "Directory for the new input files (default: alongside each source)")
	com2comCmd.Flags().BoolVarP(&com2comCharge, "charge-from-file", "c", false, "Take charge and multiplicity from each source file instead of the template")
}

func runCom2Com(cmd *cobra.Command, args []string) error {
	if com2comTemplate == "" {
		return fmt.Errorf("a template Gaussian input file is required (-t)")
	}
	tmpl, err := gaussian.ParseComFile(com2comTemplate)
	if err != nil {
		return err
	}

	files, err := gatherInputFiles(args, com2comList)
	if err != nil {
		return err
	}
	if com2comOutDir != "" {
		if err := utils.EnsureDir(com2comOutDir); err != nil {
			return err
		}
	}

	for _, f := range files {
		src, err := gaussian.ParseComFile(f)
		if err != nil {
			return err
		}
		out, err := gaussian.ApplyTemplate(tmpl, src, com2comCharge)
		if err != nil {
			return err
		}

		dir := com2comOutDir
		if dir == "" {
			dir = filepath.Dir(f)
		}
		outPath := filepath.Join(dir, src.BaseName+".com")
		if err := out.WriteFile(outPath); err != nil {
			return err
		}
		utils.PrintMessage("Wrote %s", utils.StylePath(outPath))
	}
	return nil
}

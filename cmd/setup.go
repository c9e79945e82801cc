package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/team-mayes/gaussian-wrangler/internal/hostinfo"
	"github.com/team-mayes/gaussian-wrangler/internal/job"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

var (
	setupConfigFile string
	setupOldChk     string
	setupListFile   bool
	setupIgnoreChk  bool
	setupSameChk    bool
)

var setupCmd = &cobra.Command{
	Use:   "setup [job_name]",
	Short: "Set up and submit Gaussian job chains to Slurm",
	Long: `Write an sbatch script and a child run config for each thread of the run
config's job_list, then submit them. The submitted job calls 'gwrangler run'
on its assigned node, so resource parameters are derived from the machine the
job actually lands on.

With --list, the job_name argument is a file with one job name per line and
every listed job is set up.`,
	Example: `  gwrangler setup ethylgly               # threads from ./run_gauss.ini
  gwrangler setup jobs.txt -l            # one setup per listed job
  gwrangler setup ethylgly -n            # write scripts, do not submit`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().StringVarP(&setupConfigFile, "config", "c", "run_gauss.ini", "Run config in ini format")
	setupCmd.Flags().StringVarP(&setupOldChk, "old-chk", "o", "", "Base name of the checkpoint file for the first job")
	setupCmd.Flags().BoolVarP(&setupListFile, "list", "l", false, "Treat job_name as a file listing jobs to set up")
	setupCmd.Flags().BoolVarP(&setupIgnoreChk, "ignore-chk-warning", "i", false, "Ignore the missing-checkpoint route warning")
	setupCmd.Flags().BoolVar(&setupSameChk, "same-chk", false, "Start every thread from the job's own checkpoint")
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadJobConfig(setupConfigFile)
	if err != nil {
		return err
	}
	if setupOldChk != "" {
		cfg[job.KeyFirstJobChk] = jobBasePath(setupOldChk)
	}

	jobNames := []string{args[0]}
	if setupListFile {
		jobNames, err = utils.ReadListFile(args[0])
		if err != nil {
			return err
		}
	}

	threads := utils.SplitJobThreads(cfg.Get(job.KeyJobList))
	if len(threads) == 0 {
		threads = [][]string{{""}}
	}

	runner := job.NewRunner(cfg, hostinfo.NewLinuxProbe())
	runner.OutDir = cfg.Get(job.KeyOutDir)
	opts := job.SetupOptions{
		StartFromSameChk: setupSameChk,
		IgnoreChkWarning: setupIgnoreChk,
	}

	for _, name := range jobNames {
		basePath := jobBasePath(name)
		jobName := filepath.Base(basePath)
		for index, thread := range threads {
			res, err := runner.SetupThread(jobName, basePath, thread, threadSuffix(index, len(threads)), opts)
			if err != nil {
				return err
			}
			if err := submitSetup(cmd.Context(), res); err != nil {
				return err
			}
		}
	}
	return nil
}

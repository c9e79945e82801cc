package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/team-mayes/gaussian-wrangler/internal/config"
	"github.com/team-mayes/gaussian-wrangler/internal/hostinfo"
	"github.com/team-mayes/gaussian-wrangler/internal/job"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

var (
	runConfigFile string
	runOldChk     string
	runTesting    bool
	runAllNew     bool
)

var runCmd = &cobra.Command{
	Use:   "run [job_name]",
	Short: "Run a chain of Gaussian jobs on this node, checking termination between steps",
	Long: `Run the named job through the job_list of the run config, on the current
node. Each step renders the job run template with resource parameters derived
from this machine, executes it, and requires normal Gaussian termination
before the next step starts.

A job_list entry of '' runs the job's own input file; any other entry (opt,
freq, stable...) runs that job type's input template against the previous
step's checkpoint. If the run config names a follow_job_list, its first
thread continues on this node and the rest are set up and submitted as fresh
scheduler jobs.`,
	Example: `  gwrangler run ethylgly          # job_list from ./run_gauss.ini
  gwrangler run ethylgly -c my.ini -o previous_opt`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runConfigFile, "config", "c", "run_gauss.ini", "Run config in ini format")
	runCmd.Flags().StringVarP(&runOldChk, "old-chk", "o", "", "Base name of the checkpoint file for the first job")
	runCmd.Flags().BoolVarP(&runTesting, "testing", "t", false, "Do not check for normal Gaussian termination between steps")
	runCmd.Flags().BoolVar(&runAllNew, "all-new", false, "Submit every follow-up thread instead of running the first one here")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadJobConfig(runConfigFile)
	if err != nil {
		return err
	}
	if runOldChk != "" {
		cfg[job.KeyFirstJobChk] = jobBasePath(runOldChk)
	}

	threads := utils.SplitJobThreads(cfg.Get(job.KeyJobList))
	if len(threads) > 1 {
		return fmt.Errorf("job_list has multiple threads (';'); multiple threads are only " +
			"supported when setting up jobs (gwrangler setup)")
	}
	jobs := []string{""}
	if len(threads) == 1 {
		jobs = threads[0]
	}

	basePath := jobBasePath(args[0])
	runner := job.NewRunner(cfg, hostinfo.NewLinuxProbe())
	runner.OutDir = cfg.Get(job.KeyOutDir)
	runner.Testing = runTesting

	if err := runner.RunChain(cmd.Context(), basePath, jobs); err != nil {
		return err
	}

	return runFollowups(cmd, runner, basePath)
}

// runFollowups handles follow_job_list: the first thread continues on this
// node (its checkpoint is already local), later threads go back through the
// scheduler.
func runFollowups(cmd *cobra.Command, runner *job.Runner, basePath string) error {
	follow := utils.SplitJobThreads(runner.Cfg.Get(job.KeyFollowJobs))
	if len(follow) == 0 {
		return nil
	}

	jobName := filepath.Base(basePath)
	opts := job.SetupOptions{StartFromSameChk: true}
	for index, thread := range follow {
		if index == 0 && !runAllNew {
			continue
		}
		res, err := runner.SetupThread(jobName, basePath, thread, threadSuffix(index, len(follow)), opts)
		if err != nil {
			return err
		}
		if err := submitSetup(cmd.Context(), res); err != nil {
			return err
		}
	}

	if !runAllNew {
		if err := runner.RunChain(cmd.Context(), basePath, follow[0]); err != nil {
			return err
		}
	}

	if config.Global.Debug {
		utils.PrintDebug("Finished %d follow-up thread(s) for %s", len(follow), jobName)
	}
	return nil
}

package cmd

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/team-mayes/gaussian-wrangler/internal/config"
	"github.com/team-mayes/gaussian-wrangler/internal/job"
	"github.com/team-mayes/gaussian-wrangler/internal/scheduler"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

// getScheduler builds a Slurm handle from the configured sbatch binary.
// A bare binary name is resolved through PATH.
func getScheduler() (*scheduler.SlurmScheduler, error) {
	bin := config.Global.SbatchBin
	if bin == "" || bin == "sbatch" {
		return scheduler.NewSlurmScheduler()
	}
	return scheduler.NewSlurmSchedulerWithBinary(bin)
}

// submitSetup hands a prepared thread to sbatch, honoring --no-submit.
func submitSetup(ctx context.Context, res *job.SetupResult) error {
	if !config.Global.SubmitJob {
		utils.PrintMessage("Set up %s (submission disabled)", utils.StylePath(res.SbatchPath))
		return nil
	}
	sched, err := getScheduler()
	if err != nil {
		return err
	}
	jobID, err := sched.Submit(ctx, res.JobName, res.SbatchPath)
	if err != nil {
		return err
	}
	utils.PrintSuccess("Submitted batch job %s for %s", utils.StyleNumber(jobID), utils.StyleName(res.JobName))
	return nil
}

// loadJobConfig reads a run config and layers it over the application
// defaults, returning the effective job configuration.
func loadJobConfig(path string) (job.Config, *job.RunConfig, error) {
	rc, err := job.ReadRunConfig(path)
	if err != nil {
		return nil, nil, err
	}
	cfg := job.NewConfig()
	cfg.Merge(config.JobDefaults())
	cfg.Merge(rc.Main)
	return cfg, rc, nil
}

// jobBasePath strips the extension from a job argument, keeping any leading
// directory. "opt/ethyl.com" and "opt/ethyl" name the same job.
func jobBasePath(arg string) string {
	return strings.TrimSuffix(arg, filepath.Ext(arg))
}

// threadSuffix numbers parallel threads; a single thread gets no suffix.
func threadSuffix(index, total int) string {
	if total == 1 {
		return ""
	}
	return strconv.Itoa(index)
}

package job

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/team-mayes/gaussian-wrangler/internal/gaussian"
	"github.com/team-mayes/gaussian-wrangler/internal/hostinfo"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

// ChainState tracks naming across a job chain. Each completed job becomes the
// old job of the next, so its checkpoint carries forward.
type ChainState struct {
	JobName    string // current job name, grows a _<job> suffix per step
	BasePath   string // job name with any leading directory, no extension
	OldJobName string
}

// Runner executes Gaussian job chains on the local node: for each step it
// renders the job script from the run template, executes it, and verifies
// normal termination before starting the next step.
type Runner struct {
	Cfg     Config
	Probe   hostinfo.Probe
	OutDir  string // where rendered scripts are written; "" for the working dir
	Testing bool   // skip the termination check between steps

	// Exec runs a rendered job script to completion. Tests replace it.
	Exec func(ctx context.Context, scriptPath string) error
}

// NewRunner returns a Runner that executes scripts with the shell.
func NewRunner(cfg Config, probe hostinfo.Probe) *Runner {
	return &Runner{
		Cfg:   cfg,
		Probe: probe,
		Exec: func(ctx context.Context, scriptPath string) error {
			// Scripts land in the working directory; exec by absolute path
			// so a bare name is never resolved through PATH.
			abs, err := filepath.Abs(scriptPath)
			if err != nil {
				return err
			}
			cmd := exec.CommandContext(ctx, abs)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			return cmd.Run()
		},
	}
}

// RunChain runs the named job through each step of jobs in order. An empty
// step name means "run the job's own input file"; any other step name runs
// that job type's input template against the previous step's checkpoint.
func (r *Runner) RunChain(ctx context.Context, jobPath string, jobs []string) error {
	basePath := strings.TrimSuffix(jobPath, filepath.Ext(jobPath))
	state := &ChainState{
		JobName:  filepath.Base(basePath),
		BasePath: basePath,
	}
	for _, job := range jobs {
		if err := r.runJob(ctx, state, job); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runJob(ctx context.Context, state *ChainState, job string) error {
	cfg := r.Cfg.Clone()

	var newName, inputFile string
	if job == "" {
		newName = state.JobName
		inputFile = state.BasePath + cfg.Get(KeyGaussInExt)
		if chk, ok := cfg.Lookup(KeyFirstJobChk); ok {
			cfg[KeyOldCheckEcho] = fmt.Sprintf(cfg.Get(KeyOldCheckEcho), chk)
		} else {
			cfg[KeyOldCheckEcho] = ""
		}
	} else {
		newName = state.JobName + "_" + job
		state.OldJobName = state.JobName
		cfg[KeyOldJobName] = state.OldJobName
		cfg[KeyOldCheckEcho] = fmt.Sprintf(cfg.Get(KeyOldCheckEcho), state.OldJobName)
		var err error
		inputFile, err = r.jobInputTemplate(job)
		if err != nil {
			return err
		}
	}
	if !utils.FileExists(inputFile) {
		return fmt.Errorf("input file not found for job %s: %s", newName, inputFile)
	}

	cfg[KeyJobName] = newName
	cfg[KeyInputFile] = inputFile

	tplText, err := LoadTemplate(cfg.GetOrDefault(KeyJobRunTpl, TplRunGaussJob))
	if err != nil {
		return err
	}
	derived, err := ResolveParameters(cfg, tplText, r.Probe)
	if err != nil {
		return err
	}
	script, err := Render(tplText, cfg, derived)
	if err != nil {
		return err
	}

	scriptPath := filepath.Join(r.OutDir, newName+".sh")
	if err := os.WriteFile(scriptPath, []byte(script), utils.PermExec); err != nil {
		return err
	}

	utils.PrintMessage("Running %s", utils.StyleName(newName))
	utils.PrintDebug("Executing %s", utils.StyleCommand(scriptPath))
	if err := r.Exec(ctx, scriptPath); err != nil {
		return fmt.Errorf("job %s: %w", newName, err)
	}
	state.JobName = newName

	if r.Testing {
		utils.PrintWarning("Testing mode; did not check for normal Gaussian termination.")
		return nil
	}
	return r.checkTermination(newName, scriptPath)
}

// checkTermination verifies the step's log ends in the normal termination
// banner; the rendered script is kept around for failed jobs.
func (r *Runner) checkTermination(jobName, scriptPath string) error {
	logFile := jobName + ".log"
	lastLine, err := utils.ReadLastLine(logFile)
	if err != nil {
		return fmt.Errorf("job %s: reading %s: %w", jobName, logFile, err)
	}
	if gaussian.ClassifyTermination(lastLine) != gaussian.StatusCompleted {
		return fmt.Errorf("job failed: %s", logFile)
	}
	utils.PrintSuccess("Successfully completed %s", utils.StylePath(logFile))
	return os.Remove(scriptPath)
}

// jobInputTemplate locates the Gaussian input template for a named job type:
// an option with the job's own name wins, otherwise <job>.tpl in the working
// directory.
func (r *Runner) jobInputTemplate(job string) (string, error) {
	if path, ok := r.Cfg.Lookup(job); ok {
		return path, nil
	}
	path := job + ".tpl"
	if !utils.FileExists(path) {
		return "", fmt.Errorf("for job %q, could not find a template file %q; "+
			"set %q in the run config to point at one", job, path, job)
	}
	return path, nil
}

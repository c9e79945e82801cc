package job

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

var (
	routeLineRe = regexp.MustCompile(`^#`)
	// route keywords that make Gaussian read a checkpoint file
	chkReadRe = regexp.MustCompile(`(?i)\b(guess\S*read|geom\S*check)\b`)
)

// SetupOptions controls batch setup for a job thread.
type SetupOptions struct {
	// StartFromSameChk passes the job's own name as the old checkpoint, for
	// resubmitting a chain that already ran its first step.
	StartFromSameChk bool
	// IgnoreChkWarning skips the route-section guard for missing checkpoints.
	IgnoreChkWarning bool
}

// SetupResult names the files generated for one submitted thread.
type SetupResult struct {
	SbatchPath string
	ConfigPath string
	JobName    string
}

// SetupThread writes the sbatch script and the child run config for one job
// thread, ready for submission. suffix distinguishes parallel threads of the
// same job ("" when there is only one).
func (r *Runner) SetupThread(jobName, basePath string, thread []string, suffix string, opts SetupOptions) (*SetupResult, error) {
	cfg := r.Cfg.Clone()
	cfg[KeyJobName] = jobName
	inputFile := basePath + cfg.Get(KeyGaussInExt)

	configPath := filepath.Join(r.OutDir, jobName+suffix+".ini")
	sbatchPath := filepath.Join(r.OutDir, jobName+suffix+".slurm")

	oldNameFlag, err := r.oldNameFlag(cfg, inputFile, thread, opts)
	if err != nil {
		return nil, err
	}
	cfg[KeyOptOldName] = oldNameFlag
	cfg[KeyRunConfig] = configPath
	cfg[KeyEmail] = emailBlock(cfg.Get(KeyEmail))

	tplText, err := LoadTemplate(cfg.GetOrDefault(KeySbatchTpl, TplSbatch))
	if err != nil {
		return nil, err
	}
	script, err := Render(tplText, cfg, nil)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(sbatchPath, []byte(script), utils.PermFile); err != nil {
		return nil, err
	}

	if err := r.writeChildConfig(configPath, thread); err != nil {
		return nil, err
	}

	return &SetupResult{
		SbatchPath: sbatchPath,
		ConfigPath: configPath,
		JobName:    jobName,
	}, nil
}

// oldNameFlag builds the "-o <chk>" argument the spawned job passes back to
// the runner, or "" when the chain starts fresh. A fresh chain whose first
// input wants to read a checkpoint is an error caught here, before the job
// burns queue time to fail in Gaussian.
func (r *Runner) oldNameFlag(cfg Config, inputFile string, thread []string, opts SetupOptions) (string, error) {
	if chk, ok := cfg.Lookup(KeyFirstJobChk); ok {
		return "-o " + chk, nil
	}
	if opts.StartFromSameChk {
		return "-o " + cfg.Get(KeyJobName), nil
	}
	if len(thread) > 0 && thread[0] == "" && cfg.Get(KeyCheckForChk) == "true" && !opts.IgnoreChkWarning {
		if err := checkRouteForChkRead(inputFile); err != nil {
			return "", err
		}
	}
	return "", nil
}

// checkRouteForChkRead scans the route section of a Gaussian input file for
// keywords that read a checkpoint file.
func checkRouteForChkRead(inputFile string) error {
	f, err := os.Open(inputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	inRoute := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !inRoute {
			inRoute = routeLineRe.MatchString(line)
		}
		if inRoute {
			if line == "" {
				break
			}
			if chkReadRe.MatchString(line) {
				return fmt.Errorf("no old checkpoint file was given, but the route section "+
					"of %s will try to read one:\n  route: %s", inputFile, line)
			}
		}
	}
	return scanner.Err()
}

// emailBlock expands a notification address into sbatch mail directives, or
// nothing when unset.
func emailBlock(email string) string {
	if email == "" {
		return ""
	}
	return "#SBATCH --mail-type=FAIL\n#SBATCH --mail-type=END\n#SBATCH --mail-user=" + email
}

// childConfigKeys are forwarded into spawned run configs when they differ
// from the built-in defaults.
var childConfigKeys = []string{
	KeyPartition, KeyQos, KeyRunTime, KeyAccount, KeySbatchTpl, KeyEmail,
	KeyOutDir, KeyFirstJobChk, KeyOldCheckEcho, KeyGaussInExt,
}

// writeChildConfig writes the run config the spawned job will execute with:
// the thread's job list plus every option that differs from the defaults,
// so a child started on another node reproduces this setup.
func (r *Runner) writeChildConfig(path string, thread []string) error {
	var b strings.Builder
	b.WriteString("[main]\n")
	fmt.Fprintf(&b, "%s = %s\n", KeyJobRunTpl, r.Cfg.GetOrDefault(KeyJobRunTpl, TplRunGaussJob))
	fmt.Fprintf(&b, "%s = %s\n", KeyJobList, strings.Join(thread, ","))

	if follow, ok := r.Cfg.Lookup(KeyFollowJobs); ok {
		fmt.Fprintf(&b, "%s = %s\n", KeyFollowJobs, follow)
	}
	for _, key := range childConfigKeys {
		v := r.Cfg.Get(key)
		if v != "" && v != builtinDefaults[key] {
			fmt.Fprintf(&b, "%s = %s\n", key, v)
		}
	}
	// job input template locations travel with the config
	for _, job := range thread {
		if job == "" {
			continue
		}
		if tplPath, ok := r.Cfg.Lookup(job); ok {
			fmt.Fprintf(&b, "%s = %s\n", job, tplPath)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), utils.PermFile); err != nil {
		return err
	}
	utils.PrintMessage("Wrote %s", utils.StylePath(path))
	return nil
}

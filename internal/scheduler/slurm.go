// Package scheduler submits batch scripts to Slurm and reports whether a
// usable scheduler is present on the current host.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// SlurmScheduler wraps the cluster's sbatch binary.
type SlurmScheduler struct {
	sbatchBin string
	jobIDRe   *regexp.Regexp
}

// NewSlurmScheduler creates a scheduler using sbatch from PATH.
func NewSlurmScheduler() (*SlurmScheduler, error) {
	return newSlurmScheduler("")
}

// NewSlurmSchedulerWithBinary creates a scheduler using an explicit sbatch path.
func NewSlurmSchedulerWithBinary(sbatchBin string) (*SlurmScheduler, error) {
	return newSlurmScheduler(sbatchBin)
}

func newSlurmScheduler(sbatchBin string) (*SlurmScheduler, error) {
	binPath := sbatchBin
	if binPath == "" {
		var err error
		binPath, err = exec.LookPath("sbatch")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchedulerNotFound, err)
		}
	} else {
		if absPath, err := filepath.Abs(binPath); err == nil {
			binPath = absPath
		}
		info, err := os.Stat(binPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchedulerNotFound, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrSchedulerNotFound, binPath)
		}
	}

	return &SlurmScheduler{
		sbatchBin: binPath,
		jobIDRe:   regexp.MustCompile(`Submitted batch job (\d+)`),
	}, nil
}

// InsideJob reports whether the process is already running under Slurm.
func InsideJob() bool {
	_, inJob := os.LookupEnv("SLURM_JOB_ID")
	return inJob
}

// IsAvailable reports whether sbatch can be used for submission from here.
// Submitting from inside a job is refused; chained jobs submit their
// followups from the login node instead.
func (s *SlurmScheduler) IsAvailable() bool {
	return s.sbatchBin != "" && !InsideJob()
}

// Version returns the Slurm version string reported by sbatch.
func (s *SlurmScheduler) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, s.sbatchBin, "--version").Output()
	if err != nil {
		return "", err
	}
	// "slurm 23.02.6"
	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) >= 2 {
		return fields[1], nil
	}
	return strings.TrimSpace(string(out)), nil
}

// Submit hands a batch script to sbatch and returns the assigned job ID.
func (s *SlurmScheduler) Submit(ctx context.Context, jobName, scriptPath string) (string, error) {
	if !s.IsAvailable() {
		return "", NewSubmissionError(jobName, "", ErrSchedulerNotAvailable)
	}

	cmd := exec.CommandContext(ctx, s.sbatchBin, scriptPath)
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return "", NewSubmissionError(jobName, output, err)
	}

	return s.parseJobID(jobName, output)
}

func (s *SlurmScheduler) parseJobID(jobName, output string) (string, error) {
	m := s.jobIDRe.FindStringSubmatch(output)
	if m == nil {
		return "", NewSubmissionError(jobName, output, ErrJobIDParseFailed)
	}
	return m[1], nil
}

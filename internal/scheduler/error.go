package scheduler

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrSchedulerNotFound indicates the sbatch binary was not found
	ErrSchedulerNotFound = errors.New("sbatch not found in PATH")

	// ErrSchedulerNotAvailable indicates Slurm cannot accept submissions here
	ErrSchedulerNotAvailable = errors.New("scheduler is not available")

	// ErrJobIDParseFailed indicates parsing the job ID from sbatch output failed
	ErrJobIDParseFailed = errors.New("failed to parse job ID from sbatch output")
)

// SubmissionError represents an error during job submission
type SubmissionError struct {
	JobName string // Job name
	Output  string // sbatch output
	Err     error  // Underlying error
}

func (e *SubmissionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("submission failed for job %s: %v\nOutput: %s",
			e.JobName, e.Err, e.Output)
	}
	return fmt.Sprintf("submission failed for job %s: %v", e.JobName, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// NewSubmissionError creates a new SubmissionError
func NewSubmissionError(jobName, output string, err error) *SubmissionError {
	return &SubmissionError{JobName: jobName, Output: output, Err: err}
}

// IsSubmissionError checks if an error is a SubmissionError
func IsSubmissionError(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}

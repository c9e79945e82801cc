package gaussian

import "strings"

// TerminationStatus classifies a Gaussian output file by its last line.
type TerminationStatus int

const (
	// StatusCompleted means the job printed its normal termination banner.
	StatusCompleted TerminationStatus = iota
	// StatusFailed means the last line matches a known crash signature.
	StatusFailed
	// StatusRunning means neither; the job is likely still writing output.
	StatusRunning
)

func (s TerminationStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "running"
	}
}

// failPrefixes are last-line signatures of crashed jobs: link-1 I/O failures,
// malformed route cards, and the file-length dump printed after an abort.
var failPrefixes = []string{
	"open-new-file",
	"In source file rdcard",
	"NtrErr Called from FileIO",
	"File lengths",
}

// ClassifyTermination inspects the trimmed last line of a Gaussian output
// file. A job that is neither completed nor recognizably crashed is reported
// as running, since output files are routinely checked mid-job.
func ClassifyTermination(lastLine string) TerminationStatus {
	lastLine = strings.TrimSpace(lastLine)
	if strings.HasPrefix(lastLine, "Normal termination of Gaussian") {
		return StatusCompleted
	}
	for _, p := range failPrefixes {
		if strings.HasPrefix(lastLine, p) {
			return StatusFailed
		}
	}
	return StatusRunning
}

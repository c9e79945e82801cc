// Package hostinfo provides a small capability for querying the resources of
// the machine a job will run on. The resolver in internal/job consumes the
// Probe interface; production code injects the platform implementation and
// tests inject a fixed fake.
package hostinfo

import "errors"

// ErrProbeUnsupported indicates the requested host query is not available on
// this platform (or the underlying OS call failed).
var ErrProbeUnsupported = errors.New("host probe not supported on this platform")

// Probe reports live facts about the executing host.
type Probe interface {
	// LogicalCores returns the number of logical processors.
	LogicalCores() (int, error)

	// FreeBytes returns the free space, in bytes, of the filesystem
	// containing path.
	FreeBytes(path string) (int64, error)

	// Memory returns total and free system memory in kB.
	Memory() (totalKB, freeKB int64, err error)
}

// MemInfo holds the fields of interest from a meminfo listing.
type MemInfo struct {
	TotalKB int64
	FreeKB  int64
}

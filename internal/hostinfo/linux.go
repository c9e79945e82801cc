package hostinfo

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// meminfoPath is a variable so tests can point it at a fixture.
var meminfoPath = "/proc/meminfo"

// LinuxProbe queries the local machine via runtime, statfs and /proc.
type LinuxProbe struct{}

// NewLinuxProbe returns a probe for the local machine.
func NewLinuxProbe() *LinuxProbe {
	return &LinuxProbe{}
}

// LogicalCores returns the number of logical CPUs usable by the process.
func (p *LinuxProbe) LogicalCores() (int, error) {
	n := runtime.NumCPU()
	if n < 1 {
		return 0, fmt.Errorf("%w: could not determine processor count", ErrProbeUnsupported)
	}
	return n, nil
}

// FreeBytes returns the free space of the filesystem containing path.
func (p *LinuxProbe) FreeBytes(path string) (int64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("%w: statfs %s: %v", ErrProbeUnsupported, path, err)
	}
	// Bavail: blocks available to unprivileged users, which is what a
	// scheduler job will actually be able to write.
	return int64(st.Bavail) * st.Bsize, nil
}

// Memory returns total and free system memory in kB, read from /proc/meminfo.
func (p *LinuxProbe) Memory() (totalKB, freeKB int64, err error) {
	data, err := os.ReadFile(meminfoPath)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrProbeUnsupported, err)
	}
	info, err := ParseMemInfo(string(data))
	if err != nil {
		return 0, 0, err
	}
	return info.TotalKB, info.FreeKB, nil
}

// ParseMemInfo extracts MemTotal and MemFree from meminfo-format text.
// Lines look like "MemTotal:       97392668 kB"; order is not relied upon.
func ParseMemInfo(text string) (MemInfo, error) {
	var info MemInfo
	var haveTotal, haveFree bool

	for _, line := range strings.Split(text, "\n") {
		var target *int64
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			target = &info.TotalKB
		case strings.HasPrefix(line, "MemFree:"):
			target = &info.FreeKB
		default:
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 || fields[len(fields)-1] != "kB" {
			return MemInfo{}, fmt.Errorf("unexpected meminfo line: %q", line)
		}
		val, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return MemInfo{}, fmt.Errorf("unexpected meminfo value in %q: %v", line, err)
		}
		*target = val

		if target == &info.TotalKB {
			haveTotal = true
		} else {
			haveFree = true
		}
		if haveTotal && haveFree {
			return info, nil
		}
	}

	return MemInfo{}, fmt.Errorf("meminfo missing MemTotal or MemFree")
}

// ParseCPUInfo counts "processor" entries in cpuinfo-format text and returns
// the processor id range as (first, last, count). The kernel lists processors
// contiguously; the count is cross-checked against the id range.
func ParseCPUInfo(text string) (first, last, count int, err error) {
	first = -1
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, "processor") {
			continue
		}
		fields := strings.Fields(line)
		id, convErr := strconv.Atoi(fields[len(fields)-1])
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("unexpected cpuinfo line: %q", line)
		}
		if first < 0 {
			first = id
		}
		last = id
		count++
	}
	if count == 0 {
		return 0, 0, 0, fmt.Errorf("no processor entries found in cpuinfo")
	}
	if last-first+1 != count {
		return 0, 0, 0, fmt.Errorf("non-contiguous processor ids: %d-%d for %d processors", first, last, count)
	}
	return first, last, count, nil
}

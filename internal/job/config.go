// Package job turns a job configuration plus live host facts into
// fully-substituted Gaussian job scripts ready for execution or Slurm
// submission. It owns the option merge order, the derived-parameter
// resolver, and the placeholder renderer.
package job

// Option names recognized in job configuration files and templates.
const (
	KeyJobName      = "job_name"
	KeyOldJobName   = "old_job_name"
	KeyInputFile    = "input_file"
	KeyOldCheckEcho = "old_check_echo"
	KeyFirstJobChk  = "chk_for_first_job"
	KeyGaussInExt   = "gaussian_input_ext"
	KeyOutDir       = "output_directory"
	KeyJobList      = "job_list"
	KeyFollowJobs   = "follow_job_list"
	KeyJobRunTpl    = "job_run_tpl"
	KeySbatchTpl    = "sbatch_tpl"
	KeyRunConfig    = "run_config"
	KeyOptOldName   = "opt_old_name"
	KeyCheckForChk  = "check_for_chk"

	// Scheduler options
	KeyPartition = "partition"
	KeyRunTime   = "run_time"
	KeyAccount   = "account"
	KeyQos       = "qos"
	KeyEmail     = "email"

	// Derived resource fields; setting one explicitly overrides computation.
	KeyMaxDisk   = "max_disk"
	KeyCacheSize = "cache_size"
	KeyMem       = "mem"
	KeyProcList  = "proc_list"

	// Resource estimation tuning. Empirical values for a specific cluster's
	// Gaussian module; kept configurable rather than hard-coded.
	KeyScratchDir      = "scratch_dir"
	KeyCacheSizeKB     = "cache_size_kb"
	KeyMaxDiskFraction = "max_disk_fraction"
	KeyMemTotalFrac    = "mem_total_fraction"
	KeyMemFreeFrac     = "mem_free_fraction"
)

// builtinDefaults is the lowest-precedence configuration source.
var builtinDefaults = map[string]string{
	KeyGaussInExt:   ".com",
	KeyPartition:    "short",
	KeyRunTime:      "4:00:00",
	KeyAccount:      "bpms",
	KeyQos:          "normal",
	KeyCheckForChk:  "true",
	KeyOldCheckEcho: `echo "%%OldChk=%s.chk" >> $INFILE`,

	KeyScratchDir:      ".",
	KeyCacheSizeKB:     "256",
	KeyMaxDiskFraction: "0.90",
	KeyMemTotalFrac:    "0.75",
	KeyMemFreeFrac:     "0.85",
}

// Config is a flat mapping from option name to value, merged from built-in
// defaults, a user configuration file, and command-line overrides, with later
// sources taking precedence. The resolution order is fixed: explicit
// overrides always win over computed defaults, which win over the built-in
// fallback constants.
type Config map[string]string

// NewConfig returns a Config pre-populated with the built-in defaults.
func NewConfig() Config {
	cfg := make(Config, len(builtinDefaults))
	for k, v := range builtinDefaults {
		cfg[k] = v
	}
	return cfg
}

// Merge applies a higher-precedence source on top of the current values.
// Empty values are skipped so an unset option cannot mask a default.
func (c Config) Merge(overrides map[string]string) {
	for k, v := range overrides {
		if v != "" {
			c[k] = v
		}
	}
}

// Get returns the value for key, or "" when unset.
func (c Config) Get(key string) string {
	return c[key]
}

// Lookup returns the value for key and whether it is set to a non-empty value.
func (c Config) Lookup(key string) (string, bool) {
	v, ok := c[key]
	return v, ok && v != ""
}

// GetOrDefault returns the value for key, or def when unset.
func (c Config) GetOrDefault(key, def string) string {
	if v, ok := c.Lookup(key); ok {
		return v
	}
	return def
}

// Clone returns an independent copy; job chains mutate their working config
// per step without touching the caller's.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

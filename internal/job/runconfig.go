package job

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"
)

// RunConfig is a parsed job configuration file: shared options from the
// [main] section plus per-job-thread sections merged on top of them when a
// chain step names one.
type RunConfig struct {
	Main     Config
	Sections map[string]Config
}

// ReadRunConfig parses an ini-style job configuration file. Options in [main]
// apply to every job in the chain; a section named after a job type (opt,
// freq, stable and so on) overrides [main] for that step only.
func ReadRunConfig(path string) (*RunConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading run config %s: %w", path, err)
	}

	rc := &RunConfig{
		Main:     make(Config),
		Sections: make(map[string]Config),
	}
	for section, raw := range v.AllSettings() {
		values, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		cfg := make(Config, len(values))
		for k, val := range values {
			cfg[k] = fmt.Sprintf("%v", val)
		}
		if section == "main" || section == "default" {
			for k, val := range cfg {
				rc.Main[k] = val
			}
		} else {
			rc.Sections[section] = cfg
		}
	}

	return rc, nil
}

// ConfigFor builds the effective configuration for one job type: built-in
// defaults, then appDefaults, then [main], then the job's own section.
func (rc *RunConfig) ConfigFor(jobType string, appDefaults map[string]string) Config {
	cfg := NewConfig()
	cfg.Merge(appDefaults)
	cfg.Merge(rc.Main)
	if section, ok := rc.Sections[jobType]; ok {
		cfg.Merge(section)
	}
	return cfg
}

// SectionNames returns the non-main section names in sorted order.
func (rc *RunConfig) SectionNames() []string {
	names := make([]string, 0, len(rc.Sections))
	for name := range rc.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

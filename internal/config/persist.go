package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigFilename is the name of the config file
const ConfigFilename = "config"

// ConfigType is the type of config file (yaml, json, toml)
const ConfigType = "yaml"

// InitViper initializes Viper with proper search paths and defaults
// Priority (highest to lowest):
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (GWRANGLER_*)
// 3. User config file (~/.config/gwrangler/config.yaml)
// 4. System config file (/etc/gwrangler/config.yaml)
// 5. Defaults
func InitViper() error {
	viper.SetConfigName(ConfigFilename)
	viper.SetConfigType(ConfigType)

	// Set config search paths (order matters)
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(userConfigDir, "gwrangler"))
	}

	// Home directory fallback
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".gwrangler"))
	}

	// System-wide config (lower priority)
	viper.AddConfigPath("/etc/gwrangler")

	// Current directory (for development)
	viper.AddConfigPath(".")

	// Environment variables
	viper.SetEnvPrefix("GWRANGLER")
	viper.AutomaticEnv()

	// Set defaults (lowest priority)
	setDefaults()

	// Read config file (non-fatal if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for all config keys
func setDefaults() {
	viper.SetDefault("sbatch_bin", "sbatch")
	viper.SetDefault("submit_job", true)
	viper.SetDefault("scratch_dir", ".")

	// Scheduler defaults, overridable per job in a run config
	viper.SetDefault("partition", "short")
	viper.SetDefault("run_time", "4:00:00")
	viper.SetDefault("account", "bpms")
	viper.SetDefault("qos", "normal")
	viper.SetDefault("email", "")

	// Resource estimation tuning
	viper.SetDefault("cache_size_kb", 256)
	viper.SetDefault("max_disk_fraction", 0.90)
	viper.SetDefault("mem_total_fraction", 0.75)
	viper.SetDefault("mem_free_fraction", 0.85)
}

// BindFlags binds a command's flag set into Viper so set flags override the
// config file and environment.
func BindFlags(flags *pflag.FlagSet) error {
	return viper.BindPFlags(flags)
}

// ApplyToGlobal copies Viper-resolved settings into the Global config.
func ApplyToGlobal() {
	Global.Partition = viper.GetString("partition")
	Global.RunTime = viper.GetString("run_time")
	Global.Account = viper.GetString("account")
	Global.Qos = viper.GetString("qos")
	Global.Email = viper.GetString("email")
	Global.ScratchDir = viper.GetString("scratch_dir")
	Global.SbatchBin = viper.GetString("sbatch_bin")
	Global.SubmitJob = viper.GetBool("submit_job")
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".gwrangler", ConfigFilename+"."+ConfigType), nil
	}

	return filepath.Join(userConfigDir, "gwrangler", ConfigFilename+"."+ConfigType), nil
}

// SaveConfig saves current Viper config to the user config file
func SaveConfig() error {
	configPath, err := GetUserConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// JobDefaults returns the Viper-resolved settings as job option overrides,
// ready to merge on top of the built-in job defaults.
func JobDefaults() map[string]string {
	return map[string]string{
		"partition":          viper.GetString("partition"),
		"run_time":           viper.GetString("run_time"),
		"account":            viper.GetString("account"),
		"qos":                viper.GetString("qos"),
		"email":              viper.GetString("email"),
		"scratch_dir":        viper.GetString("scratch_dir"),
		"cache_size_kb":      viper.GetString("cache_size_kb"),
		"max_disk_fraction":  viper.GetString("max_disk_fraction"),
		"mem_total_fraction": viper.GetString("mem_total_fraction"),
		"mem_free_fraction":  viper.GetString("mem_free_fraction"),
	}
}

package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/team-mayes/gaussian-wrangler/internal/config"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

var showPath bool

// configKeys is the list of known configuration keys for shell completion
var configKeys = []string{
	"sbatch_bin",
	"submit_job",
	"scratch_dir",
	"partition",
	"run_time",
	"account",
	"qos",
	"email",
	"cache_size_kb",
	"max_disk_fraction",
	"mem_total_fraction",
	"mem_free_fraction",
}

// configKeysCompletion returns config keys for shell completion
func configKeysCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return configKeys, cobra.ShellCompDirectiveNoFileComp
	}
	if len(args) == 1 {
		return configValueCompletion(args[0]), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// configValueCompletion returns suggested values for a config key
func configValueCompletion(key string) []string {
	switch key {
	case "submit_job":
		return []string{"true", "false"}
	case "run_time":
		return []string{"1:00:00", "4:00:00", "12:00:00", "24:00:00"}
	case "cache_size_kb":
		return []string{"128", "256", "512"}
	default:
		return nil
	}
}

// getConfigEnvVars returns the environment variable name of every known key.
func getConfigEnvVars() []string {
	vars := make([]string, 0, len(configKeys))
	for _, key := range configKeys {
		vars = append(vars, "GWRANGLER_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
	sort.Strings(vars)
	return vars
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gwrangler configuration",
	Long: `Manage gwrangler configuration settings.

Configuration priority (highest to lowest):
  1. Command-line flags
  2. Run config ini file ([main] section)
  3. Environment variables (GWRANGLER_*)
  4. User config file (~/.config/gwrangler/config.yaml)
  5. System config file (/etc/gwrangler/config.yaml)
  6. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if showPath {
			configPath, err := config.GetUserConfigPath()
			if err != nil {
				utils.PrintError("Failed to get config path: %v", err)
				os.Exit(1)
			}
			fmt.Println(configPath)
			return
		}

		fmt.Println(utils.StyleTitle("Config File:"))
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Printf("  %s\n", used)
		} else {
			fmt.Printf("  %s (use 'gwrangler config set' to create one)\n", utils.StyleWarning("no config file found"))
		}
		fmt.Println()

		fmt.Println(utils.StyleTitle("Scheduler Defaults:"))
		fmt.Printf("  partition:       %s\n", viper.GetString("partition"))
		fmt.Printf("  run_time:        %s\n", viper.GetString("run_time"))
		fmt.Printf("  account:         %s\n", viper.GetString("account"))
		fmt.Printf("  qos:             %s\n", viper.GetString("qos"))
		email := viper.GetString("email")
		if email == "" {
			email = "(no job mail)"
		}
		fmt.Printf("  email:           %s\n", email)
		fmt.Println()

		fmt.Println(utils.StyleTitle("Runtime:"))
		fmt.Printf("  sbatch_bin:      %s\n", viper.GetString("sbatch_bin"))
		fmt.Printf("  submit_job:      %v\n", viper.GetBool("submit_job"))
		fmt.Printf("  scratch_dir:     %s\n", viper.GetString("scratch_dir"))
		fmt.Println()

		fmt.Println(utils.StyleTitle("Resource Estimation:"))
		fmt.Printf("  cache_size_kb:       %d\n", viper.GetInt("cache_size_kb"))
		fmt.Printf("  max_disk_fraction:   %v\n", viper.GetFloat64("max_disk_fraction"))
		fmt.Printf("  mem_total_fraction:  %v\n", viper.GetFloat64("mem_total_fraction"))
		fmt.Printf("  mem_free_fraction:   %v\n", viper.GetFloat64("mem_free_fraction"))
		fmt.Println()

		fmt.Println(utils.StyleTitle("Environment Variable Overrides:"))
		hasEnvOverrides := false
		for _, envVar := range getConfigEnvVars() {
			if val := os.Getenv(envVar); val != "" {
				fmt.Printf("  %s=%s\n", envVar, val)
				hasEnvOverrides = true
			}
		}
		if !hasEnvOverrides {
			fmt.Printf("  %s\n", utils.StyleInfo("none"))
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value.

Examples:
  gwrangler config get partition
  gwrangler config get mem_total_fraction`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: configKeysCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := viper.Get(key)
		if value == nil {
			utils.PrintError("Unknown config key: %s", key)
			os.Exit(1)
		}
		fmt.Println(value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save it to the user config file.

Examples:
  gwrangler config set partition long
  gwrangler config set run_time 24:00:00
  gwrangler config set email user@example.edu
  gwrangler config set submit_job false`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: configKeysCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := args[1]

		known := false
		for _, k := range configKeys {
			if k == key {
				known = true
				break
			}
		}
		if !known {
			utils.PrintWarning("Warning: '%s' is not a standard config key", key)
		}

		switch key {
		case "run_time":
			if _, err := utils.ParseDuration(value); err != nil {
				utils.PrintError("Invalid duration format: %s", value)
				utils.PrintHint("Use format like: 2h, 30m, 1h30m, or 02:00:00")
				os.Exit(1)
			}
		case "max_disk_fraction", "mem_total_fraction", "mem_free_fraction":
			frac, err := strconv.ParseFloat(value, 64)
			if err != nil || frac <= 0 || frac > 1 {
				utils.PrintError("'%s' must be a fraction in (0, 1], got %s", key, value)
				os.Exit(1)
			}
		case "cache_size_kb":
			if n, err := strconv.Atoi(value); err != nil || n <= 0 {
				utils.PrintError("'%s' must be a positive integer, got %s", key, value)
				os.Exit(1)
			}
		}

		viper.Set(key, value)

		if err := config.SaveConfig(); err != nil {
			utils.PrintError("Failed to save config: %v", err)
			os.Exit(1)
		}

		configPath, _ := config.GetUserConfigPath()
		utils.PrintSuccess("Set %s = %s", utils.StyleInfo(key), utils.StyleInfo(value))
		utils.PrintMessage("Config saved to: %s", utils.StylePath(configPath))
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit config file in default editor",
	Long:  "Open the configuration file in your default text editor ($EDITOR)",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := config.GetUserConfigPath()
		if err != nil {
			utils.PrintError("Failed to get config path: %v", err)
			os.Exit(1)
		}

		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			utils.PrintMessage("Config file doesn't exist, creating it first...")
			if err := config.SaveConfig(); err != nil {
				utils.PrintError("Failed to create config: %v", err)
				os.Exit(1)
			}
		}

		if !utils.IsInteractiveShell() {
			utils.PrintError("Not an interactive terminal; edit %s directly", configPath)
			os.Exit(1)
		}

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		editorCmd := exec.Command(editor, configPath)
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr

		if err := editorCmd.Run(); err != nil {
			utils.PrintError("Failed to open editor: %v", err)
			os.Exit(1)
		}
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&showPath, "path", false, "Show only the config file path")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEditCmd)

	rootCmd.AddCommand(configCmd)
}

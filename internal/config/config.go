package config

import "os"

const VERSION = "0.4.0"

// Config holds global application settings
type Config struct {
	Debug     bool
	Quiet     bool
	SubmitJob bool
	Version   string

	// Defaults applied to every job unless a run config overrides them.
	Partition string
	RunTime   string
	Account   string
	Qos       string
	Email     string

	ScratchDir string
	SbatchBin  string
	OutputDir  string
}

// Global holds the singleton configuration instance
var Global Config

// LoadDefaults populates Global before Viper and flags are applied.
func LoadDefaults() {
	cwd, _ := os.Getwd()

	Global = Config{
		Debug:     false,
		Quiet:     false,
		SubmitJob: true,
		Version:   VERSION,

		Partition: "short",
		RunTime:   "4:00:00",
		Account:   "bpms",
		Qos:       "normal",

		ScratchDir: ".",
		SbatchBin:  "sbatch",
		OutputDir:  cwd,
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/team-mayes/gaussian-wrangler/internal/config"
	"github.com/team-mayes/gaussian-wrangler/internal/hostinfo"
	"github.com/team-mayes/gaussian-wrangler/internal/job"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

var nodeScratchDir string

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Show the Gaussian resource parameters derived from this machine",
	Long: `Probe the current machine and print the resource values a whole-node
Gaussian run would receive: the processor list, the memory allocation, the
per-core cache size and the scratch disk budget. This is exactly what 'run'
fills into the Link0 section of the job template.`,
	Example:      `  gwrangler node --scratch /scratch/$USER`,
	SilenceUsage: true,
	RunE:         runNode,
}

func init() {
	rootCmd.AddCommand(nodeCmd)
	nodeCmd.Flags().StringVar(&nodeScratchDir, "scratch", "", "Scratch directory to measure disk space on (default: configured scratch_dir)")
}

func runNode(cmd *cobra.Command, args []string) error {
	cfg := job.NewConfig()
	cfg.Merge(config.JobDefaults())
	if nodeScratchDir != "" {
		cfg[job.KeyScratchDir] = nodeScratchDir
	}

	// Request every derivable value by handing the resolver a template that
	// names all of them.
	const allParams = "{max_disk} {cache_size} {mem} {proc_list}"
	derived, err := job.ResolveParameters(cfg, allParams, hostinfo.NewLinuxProbe())
	if err != nil {
		return err
	}

	fmt.Println(utils.StyleTitle("Gaussian resource parameters for this node:"))
	fmt.Printf("  %%CPU=%s\n", *derived.ProcList)
	fmt.Printf("  %%Mem=%dMB\n", *derived.MemoryMB)
	fmt.Printf("  %%CacheSize=%d\n", *derived.CacheSize)
	fmt.Printf("  %%MaxDisk=%d  (%s free on %s)\n",
		*derived.MaxDiskBytes,
		utils.FormatBytes(*derived.MaxDiskBytes),
		cfg.GetOrDefault(job.KeyScratchDir, "."))
	return nil
}

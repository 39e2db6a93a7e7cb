package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/serverless-sim/serverless-sim/sim/workload"
)

var (
	// CLI flags for synthetic workload generation
	genSpecPath   string  // Optional YAML generator spec
	genOutputPath string  // Destination for run-config JSON ("-" = stdout)
	genSeed       int64   // Seed for deterministic generation
	genNumTasks   int     // Number of tasks to generate
	genNumApps    int     // Number of apps (0 = derived)
	genDuration   float64 // Workload duration in seconds
	genHeavy      bool    // Heavy-traffic burst injection
	genBurst      float64 // Burst intensity multiplier
)

// generateCmd synthesizes a workload file the run command can consume.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic Azure-style workload",
	Run: func(cmd *cobra.Command, args []string) {
		var spec *workload.GeneratorSpec
		if genSpecPath != "" {
			loaded, err := workload.LoadGeneratorSpec(genSpecPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			spec = loaded
		} else {
			s := workload.DefaultGeneratorSpec()
			s.Seed = genSeed
			s.NumTasks = genNumTasks
			s.NumApps = genNumApps
			s.DurationSeconds = genDuration
			s.HeavyTraffic = genHeavy
			s.BurstIntensity = genBurst
			spec = &s
		}

		var out io.Writer = os.Stdout
		if genOutputPath != "-" {
			f, err := os.Create(genOutputPath)
			if err != nil {
				logrus.Fatalf("creating output: %v", err)
			}
			defer f.Close()
			out = f
		}
		if err := workload.WriteRunConfig(out, spec); err != nil {
			logrus.Fatalf("generating workload: %v", err)
		}
		if genOutputPath != "-" {
			logrus.Infof("wrote %d-task workload to %s", spec.NumTasks, genOutputPath)
		}
	},
}

func init() {
	generateCmd.Flags().StringVar(&genSpecPath, "spec", "", "Generator spec YAML (flags below are ignored when set)")
	generateCmd.Flags().StringVar(&genOutputPath, "output", "-", "Run-config JSON destination (\"-\" writes stdout)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 42, "Seed for deterministic generation")
	generateCmd.Flags().IntVar(&genNumTasks, "num-tasks", 1000, "Number of tasks to generate")
	generateCmd.Flags().IntVar(&genNumApps, "num-apps", 0, "Number of apps (0 = derive from task count)")
	generateCmd.Flags().Float64Var(&genDuration, "duration-seconds", 3600, "Workload duration in seconds")
	generateCmd.Flags().BoolVar(&genHeavy, "heavy-traffic", false, "Inject traffic bursts")
	generateCmd.Flags().Float64Var(&genBurst, "burst-intensity", 1.0, "Burst intensity multiplier")

	rootCmd.AddCommand(generateCmd)
}

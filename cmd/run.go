package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/serverless-sim/serverless-sim/sim"
	"github.com/serverless-sim/serverless-sim/sim/results"
	"github.com/serverless-sim/serverless-sim/sim/workload"
)

var (
	// CLI flags for the run command; defaults mirror sim.DefaultConfig.
	inputPath        string  // Run-config JSON path ("-" = stdin)
	outputPath       string  // Result CSV path ("-" = stdout)
	maxTasks         int     // Task cap (0 = unlimited)
	batchSize        int     // Tasks per batch
	concurrency      int     // Worker pool size for side computations
	coldStartSeconds float64 // Container provisioning delay
	containerReuse   bool    // Warm starts within the reuse TTL
	reuseTTLSeconds  float64 // Warm window
	costModelEnabled bool    // Per-task cost computation
	skipMalformed    bool    // Skip bad records instead of aborting
)

// runCmd executes a batch simulation over a workload file.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the batch scheduling simulation over a workload",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := sim.Config{
			MaxTasks:         maxTasks,
			BatchSize:        batchSize,
			Concurrency:      concurrency,
			ColdStartSeconds: coldStartSeconds,
			ContainerReuse:   containerReuse,
			ReuseTTLSeconds:  reuseTTLSeconds,
			CostModelEnabled: costModelEnabled,
			SkipMalformed:    skipMalformed,
		}

		engine, err := sim.NewEngine(cfg)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		var in io.Reader = os.Stdin
		if inputPath != "-" {
			f, err := os.Open(inputPath)
			if err != nil {
				logrus.Fatalf("opening workload: %v", err)
			}
			defer f.Close()
			in = f
		}
		runCfg, rejected, err := workload.ParseConfig(in, skipMalformed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if rejected > 0 {
			logrus.Warnf("rejected %d malformed workload records", rejected)
		}
		logrus.Infof("loaded workload: %d tasks, %d functions, policy=%s",
			len(runCfg.Workload), len(runCfg.Functions), runCfg.Simulation.SchedulingPolicy)

		var writer *results.CSVWriter
		if outputPath == "-" {
			writer, err = results.NewCSVWriterTo(os.Stdout)
		} else {
			writer, err = results.NewCSVWriter(outputPath)
		}
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		// SIGINT/SIGTERM cancels the run; the engine flushes what it has
		// and the process exits non-zero.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		startTime := time.Now()
		res, runErr := engine.Run(ctx, runCfg.Workload, writer)
		if cerr := writer.Close(); cerr != nil && runErr == nil {
			runErr = cerr
		}
		if runErr != nil {
			logrus.Fatalf("simulation failed: %v", runErr)
		}

		res.Metrics.Print()
		if res.Truncated {
			logrus.Warnf("run truncated by max_tasks: processed %d, skipped %d", res.Processed, res.Skipped)
		}
		if outputPath != "-" {
			logrus.Infof("results written to %s (%d rows) in %s", outputPath, writer.Rows(), time.Since(startTime).Round(time.Millisecond))
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&inputPath, "input", "-", "Run-config JSON file (\"-\" reads stdin)")
	runCmd.Flags().StringVar(&outputPath, "output", "performance_log.csv", "Result CSV file (\"-\" writes stdout)")
	runCmd.Flags().IntVar(&maxTasks, "max-tasks", 0, "Maximum tasks to process (0 = unlimited)")
	runCmd.Flags().IntVar(&batchSize, "batch-size", 1000, "Tasks per processing batch")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 1, "Worker pool size for cost computation and sink fan-out")
	runCmd.Flags().Float64Var(&coldStartSeconds, "cold-start-seconds", 0.1, "Container cold-start delay in seconds")
	runCmd.Flags().BoolVar(&containerReuse, "container-reuse", true, "Reuse warm containers within the TTL")
	runCmd.Flags().Float64Var(&reuseTTLSeconds, "reuse-ttl-seconds", 60, "Warm container reuse window in seconds")
	runCmd.Flags().BoolVar(&costModelEnabled, "cost-model", true, "Compute per-invocation cost")
	runCmd.Flags().BoolVar(&skipMalformed, "skip-malformed", false, "Skip malformed workload records instead of aborting")

	rootCmd.AddCommand(runCmd)
}

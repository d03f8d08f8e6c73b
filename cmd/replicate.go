package cmd

import (
	"context"
	"encoding/json"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/colmena/demand-sim/sim/replication"
)

var (
	replications int  // Number of seeded runs
	parallelism  int  // Concurrent runs
	summaryJSON  bool // Emit the summary as JSON
)

// replicateCmd runs a scenario under many derived seeds and summarises the spread
var replicateCmd = &cobra.Command{
	Use:   "replicate",
	Short: "Run a scenario many times and summarise the outcome distribution",
	Run: func(cmd *cobra.Command, args []string) {
		closer := setupLogging(logLevel, logFile)
		defer closer.Close()

		sc, err := scenarioFromFlags(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		batchID := uuid.New().String()
		logrus.Infof("Starting batch %s: %d replications of seed %d", batchID, replications, sc.Seed)

		results, err := replication.Run(context.Background(), sc.Config, replication.Options{
			Replications: replications,
			Parallelism:  parallelism,
			Seed:         sc.Seed,
		})
		if err != nil {
			logrus.Fatalf("Batch %s failed: %v", batchID, err)
		}
		summary := replication.Summarize(results)

		if summaryJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				logrus.Fatalf("encoding summary: %v", err)
			}
		} else {
			printReplicationSummary(os.Stdout, summary, productNames(sc))
		}
		logrus.Infof("Batch %s complete.", batchID)
	},
}

func init() {
	registerScenarioFlags(replicateCmd)
	replicateCmd.Flags().IntVar(&replications, "replications", 30, "Number of replications")
	replicateCmd.Flags().IntVar(&parallelism, "parallelism", runtime.NumCPU(), "Maximum concurrent replications")
	replicateCmd.Flags().BoolVar(&summaryJSON, "json", false, "Print the summary as JSON")

	rootCmd.AddCommand(replicateCmd)
}

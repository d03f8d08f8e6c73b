package cmd

import (
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/colmena/demand-sim/sim"
	"github.com/colmena/demand-sim/sim/trace"
)

var (
	// Shared by run, replicate and serve
	logLevel string // Log verbosity level
	logFile  string // Optional rotating log file

	// Scenario selection and overrides
	scenarioPath  string // YAML scenario file
	seed          int64  // Master seed
	zeroTime      bool   // Allocate purchases in the initial phase
	timeDynamics  bool   // Run the time phase
	horizon       int    // Number of time steps
	pricingPolicy string // Pricing policy name

	// run only
	traceLevel  string // Decision trace level
	resultsPath string // File to save results JSON to
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "demand-sim",
	Short: "Discrete-time demand and pricing simulator for a grocery delivery app",
}

// runCmd executes one simulation of a scenario
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demand simulation for a scenario",
	Run: func(cmd *cobra.Command, args []string) {
		closer := setupLogging(logLevel, logFile)
		defer closer.Close()

		sc, err := scenarioFromFlags(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q; valid: none, decisions", traceLevel)
		}

		runID := uuid.New().String()
		logrus.Infof("Starting run %s: seed=%d, products=%d, horizon=%d, policy=%s",
			runID, sc.Seed, len(sc.Products), sc.TimeHorizon, sc.PricingPolicy)

		s, result, err := simulate(sc, trace.TraceLevel(traceLevel))
		if err != nil {
			logrus.Fatalf("Run %s failed: %v", runID, err)
		}

		result.Print(os.Stdout)
		if s.Trace().Enabled() {
			printTraceSummary(os.Stdout, trace.Summarize(s.Trace()))
		}
		if logrus.IsLevelEnabled(logrus.TraceLevel) {
			logrus.Tracef("final catalog:\n%s", spew.Sdump(result.Catalog))
		}

		if resultsPath != "" {
			if err := result.SaveResults(resultsPath); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		logrus.Infof("Run %s complete.", runID)
	},
}

// simulate builds and runs a simulator for sc. The market stream of the
// scenario seed drives every draw.
func simulate(sc *Scenario, level trace.TraceLevel) (*sim.Simulator, *sim.Result, error) {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(sc.Seed))
	s, err := sim.NewSimulator(sc.Config, rng.ForSubsystem(sim.SubsystemMarket))
	if err != nil {
		return nil, nil, err
	}
	if level == trace.TraceLevelDecisions {
		s.SetTrace(trace.NewSimulationTrace(trace.TraceConfig{Level: level}))
	}
	result, err := s.Run()
	if err != nil {
		return s, nil, err
	}
	return s, result, nil
}

// Execute runs the CLI root command
func Execute() {
	// A missing .env is normal.
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerScenarioFlags adds the flags every scenario-driven command accepts.
// Values only override the scenario file when explicitly set.
func registerScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file (default $"+envScenario+")")
	cmd.Flags().Int64Var(&seed, "seed", defaultSeed, "Master seed (overrides scenario)")
	cmd.Flags().BoolVar(&zeroTime, "zero-time", true, "Allocate purchases to the initial customer pool (overrides scenario)")
	cmd.Flags().BoolVar(&timeDynamics, "time-dynamics", true, "Run the time phase after the initial one (overrides scenario)")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "Number of time steps (overrides scenario)")
	cmd.Flags().StringVar(&pricingPolicy, "pricing-policy", sim.PricingDemandDecay, "Pricing policy: demand-decay, demand-decay-clamped (overrides scenario)")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this rotating file (default $"+envLogFile+")")

	registerScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level: none, decisions")
	runCmd.Flags().StringVar(&resultsPath, "results-path", "", "Save results JSON to this file")

	rootCmd.AddCommand(runCmd)
}

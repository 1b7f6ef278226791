package cmd

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/factory-sim/factory-sim/sim"
	"github.com/factory-sim/factory-sim/sim/trace"
)

var (
	// CLI flags for the simulation run
	seed     int64  // Seed for random duration sampling
	logLevel string // Log verbosity level

	// CLI flags for line resources (machines per stage)
	prepStations     int
	machiningCenters int
	qcInspectors     int

	// CLI flags for mean cycle times (minutes)
	prepTime      float64
	machiningTime float64
	qcTime        float64

	// CLI flags for financials (currency units)
	pricePerUnit       float64
	costPerMachineHour float64
	rawMaterialCost    float64

	// CLI flags for simulation time (minutes)
	horizon         float64
	arrivalInterval float64

	// CLI flags for scenario presets and outputs
	scenarioFile string
	scenarioName string
	traceOut     string
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "factory-sim",
	Short: "Discrete-event simulator for manufacturing lines",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the production line simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.Config{
			Prep:               sim.StageParams{Capacity: prepStations, MeanTime: prepTime},
			Machining:          sim.StageParams{Capacity: machiningCenters, MeanTime: machiningTime},
			QC:                 sim.StageParams{Capacity: qcInspectors, MeanTime: qcTime},
			ArrivalInterval:    arrivalInterval,
			Horizon:            horizon,
			PricePerUnit:       pricePerUnit,
			CostPerMachineHour: costPerMachineHour,
			RawMaterialCost:    rawMaterialCost,
		}
		if scenarioFile != "" {
			loaded, err := LoadScenario(scenarioFile, scenarioName)
			if err != nil {
				logrus.Fatalf("Could not load scenario %q from %s: %v", scenarioName, scenarioFile, err)
			}
			cfg = *loaded
		}

		// Initialize and run the simulator
		s, err := sim.NewSimulator(cfg, seed)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		logrus.Infof("Starting simulation: horizon=%.0fmin, interval=%.1fmin, capacities=%d/%d/%d, seed=%d",
			cfg.Horizon, cfg.ArrivalInterval, cfg.Prep.Capacity, cfg.Machining.Capacity, cfg.QC.Capacity, seed)

		s.Run()

		if traceOut != "" {
			writeTrace(s.Trace, traceOut)
		}

		summary, err := sim.ComputeMetrics(s.Trace, cfg)
		if errors.Is(err, sim.ErrNoProduction) {
			logrus.Warn("No production. Increase the horizon or the arrival rate.")
			return
		}
		if err != nil {
			logrus.Fatalf("Metrics computation failed: %v", err)
		}
		summary.Print()

		logrus.Info("Simulation complete.")
	},
}

// writeTrace saves the production log as CSV for external reporting.
func writeTrace(tl *trace.TraceLog, path string) {
	file, err := os.Create(path)
	if err != nil {
		logrus.Fatalf("Error creating trace file %s: %v", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logrus.Fatalf("Error closing trace file %s: %v", path, closeErr)
		}
	}()

	if err := tl.WriteCSV(file); err != nil {
		logrus.Fatalf("Error writing trace file %s: %v", path, err)
	}
	logrus.Debugf("Wrote production log to '%s'", path)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random duration sampling")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// line resources
	runCmd.Flags().IntVar(&prepStations, "prep-stations", 2, "Prep station count")
	runCmd.Flags().IntVar(&machiningCenters, "machining-centers", 1, "Machining center count")
	runCmd.Flags().IntVar(&qcInspectors, "qc-inspectors", 2, "QC inspector count")

	// cycle times
	runCmd.Flags().Float64Var(&prepTime, "prep-time", 10, "Mean prep time (min)")
	runCmd.Flags().Float64Var(&machiningTime, "machining-time", 15, "Mean machining time (min)")
	runCmd.Flags().Float64Var(&qcTime, "qc-time", 8, "Mean QC time (min)")

	// financial config
	runCmd.Flags().Float64Var(&pricePerUnit, "price-per-unit", 150, "Selling price per finished unit")
	runCmd.Flags().Float64Var(&costPerMachineHour, "cost-per-machine-hour", 20, "Operating cost per machine-hour (labor + energy)")
	runCmd.Flags().Float64Var(&rawMaterialCost, "raw-material-cost", 40, "Raw material cost per unit")

	// simulation time
	runCmd.Flags().Float64Var(&horizon, "horizon", 480, "Shift duration (min)")
	runCmd.Flags().Float64Var(&arrivalInterval, "arrival-interval", 5.0, "Mean part inter-arrival interval (min)")

	// scenario presets and outputs
	runCmd.Flags().StringVar(&scenarioFile, "scenario-file", "", "YAML file with named scenario presets")
	runCmd.Flags().StringVar(&scenarioName, "scenario", "", "Scenario preset name to load from --scenario-file")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the production log as CSV to this path")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/outbreak-sim/outbreak-sim/sim"
	"github.com/outbreak-sim/outbreak-sim/sim/record"
)

var (
	// CLI flags shared by all engines
	seed         int64   // Master seed for per-trajectory stream derivation
	seedMode     string  // Seed policy: fixed or entropy
	logLevel     string  // Log verbosity level
	outputPath   string  // CSV output path ("-" = stdout)
	printSummary bool    // Print ensemble summary after the run
	s0           int64   // Initial susceptible count
	i0           int64   // Initial infected count
	r0           int64   // Initial recovered count

	// CLI flags for the Gillespie engine. Each engine owns its rate
	// variables: pflag writes the default into the target at registration
	// time, so sharing one variable across registrations with different
	// defaults would leave the last default in place for every command.
	gillespieBeta  float64 // Transmission rate
	gillespieGamma float64 // Recovery rate
	iterations     int     // Number of independent trajectories
	maxSteps       int     // Per-trajectory event cap (0 = default)

	// CLI flags for the tau-leaping engine
	tauleapBeta  float64 // Transmission rate
	tauleapGamma float64 // Recovery rate
	dt           float64 // Time step width
	steps        int     // Recorded time points
	sims         int     // Parallel trajectories per run
	increments   string  // Increment strategy: poisson or binomial

	// CLI flags for the chain binomial engine
	chainR0     float64 // Per-generation reproduction number
	generations int     // Recorded generations

	// CLI flag for the scenario-driven run command
	scenarioPath string // YAML scenario file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "outbreak-sim",
	Short: "Stochastic SIR epidemic simulators (Gillespie, tau-leaping, chain binomial)",
}

// setupLogging parses the --log flag into a logrus level.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// randomnessFromFlags builds the seed policy from --seed/--seed-mode.
func randomnessFromFlags() sim.RandomnessConfig {
	return sim.RandomnessConfig{Mode: sim.SeedMode(seedMode), Seed: seed}
}

// initStateFromFlags builds the initial compartment state from --s0/--i0/--r0.
func initStateFromFlags() sim.State {
	return sim.State{S: s0, I: i0, R: r0}
}

// writeEnsemble encodes the long-form table to --output ("-" = stdout).
// includeDerived adds the incidence ("cases") and population ("N") columns.
func writeEnsemble(ensemble *record.Ensemble, includeDerived bool, path string) {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			logrus.Fatalf("Failed to create output file %s: %v", path, err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				logrus.Fatalf("Failed to close output file %s: %v", path, closeErr)
			}
		}()
		w = f
	}

	if err := record.WriteCSV(w, ensemble.Rows(includeDerived)); err != nil {
		logrus.Fatalf("Failed to write ensemble CSV: %v", err)
	}
}

// printIterationSummary prints per-ensemble outcome statistics to stdout.
func printIterationSummary(ensemble *record.Ensemble) {
	iters := record.SummarizeIterations(ensemble)
	if len(iters) == 0 {
		return
	}
	var peakSum float64
	for _, it := range iters {
		peakSum += float64(it.PeakPrevalence)
	}
	fmt.Println("=== Ensemble Summary ===")
	fmt.Printf("Trajectories         : %d\n", len(iters))
	fmt.Printf("Mean final size      : %.2f\n", record.MeanFinalSize(ensemble))
	fmt.Printf("Mean peak prevalence : %.2f\n", peakSum/float64(len(iters)))
}

// gillespieCmd runs the exact continuous-time engine from CLI flags.
var gillespieCmd = &cobra.Command{
	Use:   "gillespie",
	Short: "Run the exact continuous-time (Gillespie) SIR engine",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		engine, err := sim.NewGillespieEngine(sim.GillespieConfig{
			Init:       initStateFromFlags(),
			Beta:       gillespieBeta,
			Gamma:      gillespieGamma,
			Iterations: iterations,
			MaxSteps:   maxSteps,
			Randomness: randomnessFromFlags(),
		})
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		ensemble, err := engine.Run()
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		writeEnsemble(ensemble, false, outputPath)
		if printSummary {
			printIterationSummary(ensemble)
		}
	},
}

// tauleapCmd runs the fixed-interval Poisson engine from CLI flags.
var tauleapCmd = &cobra.Command{
	Use:   "tauleap",
	Short: "Run the fixed-interval (tau-leaping) SIR engine",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		engine, err := sim.NewTauLeapEngine(sim.TauLeapConfig{
			Init:       initStateFromFlags(),
			Beta:       tauleapBeta,
			Gamma:      tauleapGamma,
			Dt:         dt,
			Steps:      steps,
			Sims:       sims,
			Increments: sim.IncrementStrategy(increments),
			Randomness: randomnessFromFlags(),
		})
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		ensemble, err := engine.Run()
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		// Incidence is first-class for this engine, so emit the derived columns.
		writeEnsemble(ensemble, true, outputPath)
		if printSummary {
			printIterationSummary(ensemble)
		}
	},
}

// chainCmd runs the generation-interval binomial engine from CLI flags.
var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Run the generation-interval (chain binomial) SIR engine",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		engine, err := sim.NewChainBinomialEngine(sim.ChainBinomialConfig{
			Init:        initStateFromFlags(),
			R0:          chainR0,
			Generations: generations,
			Sims:        sims,
			Randomness:  randomnessFromFlags(),
		})
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		ensemble, err := engine.Run()
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		writeEnsemble(ensemble, false, outputPath)
		if printSummary {
			printIterationSummary(ensemble)
		}
	},
}

// runCmd executes a scenario described by a YAML file.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation described by a YAML scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if scenarioPath == "" {
			logrus.Fatalf("No scenario file provided (use --scenario)")
		}
		spec, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Failed to load scenario: %v", err)
		}

		ensemble, includeDerived, err := runScenario(spec)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		out := outputPath
		if spec.Output != "" {
			out = spec.Output
		}
		writeEnsemble(ensemble, includeDerived, out)
		if printSummary {
			printIterationSummary(ensemble)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{gillespieCmd, tauleapCmd, chainCmd, runCmd} {
		c.Flags().Int64Var(&seed, "seed", 42, "Master seed for per-trajectory RNG streams")
		c.Flags().StringVar(&seedMode, "seed-mode", "fixed", "Seed policy (fixed, entropy)")
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().StringVar(&outputPath, "output", "-", "CSV output path (- = stdout)")
		c.Flags().BoolVar(&printSummary, "summary", false, "Print ensemble summary after the run")
	}

	for _, c := range []*cobra.Command{gillespieCmd, tauleapCmd, chainCmd} {
		c.Flags().Int64Var(&s0, "s0", 998, "Initial susceptible count")
		c.Flags().Int64Var(&i0, "i0", 1, "Initial infected count")
		c.Flags().Int64Var(&r0, "r0", 1, "Initial recovered count")
	}

	gillespieCmd.Flags().Float64Var(&gillespieBeta, "beta", 0.5, "Transmission rate")
	gillespieCmd.Flags().Float64Var(&gillespieGamma, "gamma", 1.0/7.0, "Recovery rate")
	gillespieCmd.Flags().IntVar(&iterations, "iterations", 100, "Number of independent trajectories")
	gillespieCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Per-trajectory event cap (0 = default of 10*N+1000)")

	tauleapCmd.Flags().Float64Var(&tauleapBeta, "beta", 0.5, "Transmission rate")
	tauleapCmd.Flags().Float64Var(&tauleapGamma, "gamma", 1.0/7.0, "Recovery rate")
	tauleapCmd.Flags().Float64Var(&dt, "dt", 1.0, "Time step width")
	tauleapCmd.Flags().IntVar(&steps, "steps", 100, "Recorded time points (including the initial condition)")
	tauleapCmd.Flags().IntVar(&sims, "sims", 1000, "Parallel trajectories")
	tauleapCmd.Flags().StringVar(&increments, "increments", "poisson", "Increment draw strategy (poisson, binomial)")

	chainCmd.Flags().Float64Var(&chainR0, "beta", 3.5, "Per-generation reproduction number (R0)")
	chainCmd.Flags().IntVar(&generations, "generations", 20, "Recorded generations (including generation 0)")
	chainCmd.Flags().IntVar(&sims, "sims", 1000, "Parallel trajectories")

	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file")

	rootCmd.AddCommand(gillespieCmd)
	rootCmd.AddCommand(tauleapCmd)
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(runCmd)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/relsim/internal/batch"
	"github.com/san-kum/relsim/internal/config"
	"github.com/san-kum/relsim/internal/present"
	"github.com/san-kum/relsim/internal/relativity"
	"github.com/san-kum/relsim/internal/storage"
	"github.com/san-kum/relsim/internal/sweep"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	storageKind string
	configFile  string
	preset      string
	theme       string
	verbose     bool
	// collision inputs
	mode      string
	m1        float64
	v1        float64
	m2        float64
	v2        float64
	method    string
	maxIter   int
	speedOfC  float64
	tolerance float64
	clamp     float64
	save      bool
	runName   string
	showBars  bool
	// energy calculator
	mass       float64
	velocity   string
	precise    bool
	precBits   uint
	plotPoints int
	// sweep
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	workers    int
	// monte carlo
	trials int
	seed   int64
	dv     float64
	dm     float64
	// export
	outFile string
	// config init
	force bool
)

var logger = log.New(io.Discard, "relsim: ", 0)

const (
	exitError       = 1
	exitDomain      = 2
	exitConvergence = 3
	exitInvariant   = 4
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "relsim",
		Short:         "relativistic 1D two-body collision lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetOutput(os.Stderr)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&storageKind, "storage", config.DefaultStorage, "storage backend (fs|sqlite)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", config.DefaultTheme, "output theme ("+strings.Join(present.ThemeNames(), "|")+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log solver diagnostics to stderr")

	collideCmd := &cobra.Command{
		Use:   "collide",
		Short: "resolve one collision",
		Args:  cobra.NoArgs,
		RunE:  runCollide,
	}
	collisionFlags(collideCmd)
	collideCmd.Flags().BoolVar(&save, "save", false, "save the run to the store")
	collideCmd.Flags().StringVar(&runName, "name", "", "name for the saved run")
	collideCmd.Flags().BoolVar(&showBars, "bars", true, "draw energy and momentum bar charts")

	energyCmd := &cobra.Command{
		Use:   "energy",
		Short: "energy-momentum calculator for one particle",
		Args:  cobra.NoArgs,
		RunE:  runEnergy,
	}
	energyCmd.Flags().Float64Var(&mass, "mass", 1.0, "rest mass")
	energyCmd.Flags().StringVar(&velocity, "velocity", "0.6", "velocity")
	energyCmd.Flags().Float64Var(&speedOfC, "c", config.DefaultSpeedOfC, "speed of light")
	energyCmd.Flags().BoolVar(&precise, "precise", false, "also compute gamma in arbitrary precision")
	energyCmd.Flags().UintVar(&precBits, "prec", 336, "mantissa bits for --precise")
	energyCmd.Flags().IntVar(&plotPoints, "points", 60, "samples on the momentum curve")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one input parameter and plot final velocities",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	collisionFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "v1", "parameter to sweep (v1|v2|m1|m2)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", -0.9, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0.9, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 50, "number of points")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent collisions (0 = one per cpu)")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().Float64Var(&speedOfC, "c", config.DefaultSpeedOfC, "speed of light")
	batchCmd.Flags().Float64Var(&tolerance, "tolerance", relativity.DefaultTolerance, "conservation tolerance")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb a collision and check conservation on every trial",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	collisionFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	monteCarloCmd.Flags().Float64Var(&dv, "dv", 0.1, "velocity perturbation, in units of c")
	monteCarloCmd.Flags().Float64Var(&dm, "dm", 0.1, "relative mass perturbation")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run states to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "write or check a config file",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default (or --preset) configuration to a yaml or toml file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCheckCmd := &cobra.Command{
		Use:   "check [path]",
		Short: "load a config file and validate the collision it describes",
		Args:  cobra.ExactArgs(1),
		RunE:  checkConfig,
	}
	configCmd.AddCommand(configInitCmd, configCheckCmd)

	rootCmd.AddCommand(collideCmd, energyCmd, presetsCmd, sweepCmd, batchCmd, monteCarloCmd, listCmd, showCmd, exportCSVCmd, exportJSONCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		present.NewRenderer(os.Stderr, present.GetTheme(theme)).Error(err)
		os.Exit(exitCode(err))
	}
}

func collisionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "collision mode (elastic|inelastic)")
	cmd.Flags().Float64Var(&m1, "m1", config.DefaultMass, "rest mass of particle 1")
	cmd.Flags().Float64Var(&v1, "v1", config.DefaultV1, "velocity of particle 1")
	cmd.Flags().Float64Var(&m2, "m2", config.DefaultMass, "rest mass of particle 2")
	cmd.Flags().Float64Var(&v2, "v2", config.DefaultV2, "velocity of particle 2")
	cmd.Flags().StringVar(&method, "method", config.DefaultMethod, "elastic solver (newton|closed)")
	cmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIter, "newton iteration cap")
	cmd.Flags().Float64Var(&speedOfC, "c", config.DefaultSpeedOfC, "speed of light")
	cmd.Flags().Float64Var(&tolerance, "tolerance", relativity.DefaultTolerance, "conservation tolerance")
	cmd.Flags().Float64Var(&clamp, "clamp", config.DefaultClamp, "clamp in-range |v| to clamp*c (0 disables)")
}

// exitCode maps the relativity error classes onto distinct statuses.
func exitCode(err error) int {
	switch {
	case errors.Is(err, relativity.ErrDomain):
		return exitDomain
	case errors.Is(err, relativity.ErrConvergence), errors.Is(err, relativity.ErrPrecision):
		return exitConvergence
	case errors.Is(err, relativity.ErrInvariant):
		return exitInvariant
	}
	return exitError
}

func renderer() *present.Renderer {
	return present.NewRenderer(os.Stdout, present.GetTheme(theme))
}

// loadConfig layers defaults, preset, config file, environment and the
// flags explicitly set on cmd, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		if !config.ApplyPreset(cfg, preset) {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("storage") {
		cfg.Storage = storageKind
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("m1") {
		cfg.Particles.M1 = m1
	}
	if flags.Changed("v1") {
		cfg.Particles.V1 = v1
	}
	if flags.Changed("m2") {
		cfg.Particles.M2 = m2
	}
	if flags.Changed("v2") {
		cfg.Particles.V2 = v2
	}
	if flags.Changed("method") {
		cfg.Solver.Method = method
	}
	if flags.Changed("max-iter") {
		cfg.Solver.MaxIter = maxIter
	}
	if flags.Changed("clamp") {
		cfg.Solver.Clamp = clamp
	}
	if flags.Changed("c") {
		cfg.Units.C = speedOfC
	}
	if flags.Changed("tolerance") {
		cfg.Units.Tolerance = tolerance
	}

	theme = cfg.Theme
	logger.Printf("config: mode=%s units=%s solver=%s storage=%s", cfg.Mode, cfg.GetUnits(), cfg.Solver.Method, cfg.Storage)
	return cfg, nil
}

func openStore(cfg *config.Config) (storage.Backend, error) {
	st, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if err := st.Init(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func logOutcome(out *relativity.Outcome) {
	if e := out.Elastic; e != nil {
		logger.Printf("elastic: method=%s seed=%s iterations=%d reseeded=%t residuals=(%.3e, %.3e)",
			e.Method, e.Seed, e.Iterations, e.Reseeded, e.ResidualEnergy, e.ResidualMomentum)
	}
	if in := out.Inelastic; in != nil {
		logger.Printf("inelastic: M=%.9g v=%.9g", in.InvariantMass, in.Velocity)
	}
}

func runCollide(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	in, err := cfg.GetInput()
	if err != nil {
		return err
	}
	opts, err := cfg.GetOptions()
	if err != nil {
		return err
	}

	out, err := relativity.Collide(cfg.GetUnits(), opts, in)
	if err != nil {
		return err
	}
	logOutcome(out)

	r := renderer()
	if err := r.Outcome(out); err != nil {
		return err
	}
	if showBars {
		fmt.Println()
		if err := r.Bars(out); err != nil {
			return err
		}
	}

	if save {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		name := runName
		if name == "" {
			name = preset
		}
		runID, err := st.Save(cmd.Context(), name, out)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun saved: %s\n", runID)
	}
	return nil
}

func runEnergy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	u := cfg.GetUnits()

	v, err := strconv.ParseFloat(velocity, 64)
	if err != nil {
		return fmt.Errorf("invalid velocity %q: %w", velocity, err)
	}
	rel, err := u.EnergyMomentum(mass, v)
	if err != nil {
		return err
	}

	r := renderer()
	if err := r.Relation(rel, u); err != nil {
		return err
	}

	if precise {
		beta := velocity
		if u.C != 1 {
			beta = strconv.FormatFloat(u.Beta(v), 'g', -1, 64)
		}
		g, err := relativity.PreciseGamma(beta, precBits)
		if err != nil {
			return err
		}
		fmt.Printf("\n  gamma (%d bits)  %s\n", precBits, g.Text('g', 50))
	}

	relativistic, newtonian, err := u.MomentumCurve(mass, 0.999*u.C, plotPoints)
	if err != nil {
		return err
	}
	fmt.Println()
	return r.MomentumCurve(relativistic, newtonian, 0.999*u.C)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tMODE\tM1\tV1\tM2\tV2")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%g\n",
			name, p.Mode, p.Particles.M1, p.Particles.V1, p.Particles.M2, p.Particles.V2)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	in, err := cfg.GetInput()
	if err != nil {
		return err
	}
	opts, err := cfg.GetOptions()
	if err != nil {
		return err
	}
	param, err := sweep.ParseParam(sweepParam)
	if err != nil {
		return err
	}

	runner := sweep.NewRunner(cfg.GetUnits(), opts)
	if workers > 0 {
		runner.Workers = workers
	}
	spec := sweep.Spec{Param: param, From: sweepFrom, To: sweepTo, Steps: sweepSteps}
	points, err := runner.Run(cmd.Context(), in, spec)
	if err != nil {
		return err
	}

	for _, p := range points {
		if p.Err != nil {
			logger.Printf("%s=%g: %v", param, p.Value, p.Err)
		}
	}
	if failed := sweep.Failed(points); failed == len(points) {
		return fmt.Errorf("all %d sweep points failed: %w", failed, points[0].Err)
	} else if failed > 0 {
		fmt.Printf("%d of %d points failed (use --verbose for details)\n", failed, len(points))
	}

	r := renderer()
	final1, final2 := sweep.FinalVelocities(points)
	caption := fmt.Sprintf("final velocities vs %s in [%g, %g] (particle 1, particle 2)", param, sweepFrom, sweepTo)
	if in.Mode == relativity.Inelastic {
		caption = fmt.Sprintf("composite velocity vs %s in [%g, %g]", param, sweepFrom, sweepTo)
		if err := r.Plot(caption, final1); err != nil {
			return err
		}
	} else if err := r.Plot(caption, final1, final2); err != nil {
		return err
	}

	fmt.Println()
	return r.Plot(fmt.Sprintf("max conservation residual vs %s", param), sweep.Residuals(points))
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := batch.LoadScenario(args[0])
	if err != nil {
		return err
	}
	opts, err := cfg.GetOptions()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := batch.NewRunner(cfg.GetUnits(), opts)
	runner.Store = st
	runner.Logger = logger

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("  %s\n", scenario.Description)
	}
	results, err := runner.RunScenario(cmd.Context(), scenario)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tSTATUS\tFINAL\tRUN")
	for _, res := range results {
		status, final := "ok", ""
		switch {
		case res.Err != nil:
			status = res.Err.Error()
		case res.Outcome.Elastic != nil:
			final = fmt.Sprintf("v1'=%.6g v2'=%.6g", res.Outcome.Elastic.Final[0].Velocity, res.Outcome.Elastic.Final[1].Velocity)
		case res.Outcome.Inelastic != nil:
			final = fmt.Sprintf("v=%.6g M=%.6g", res.Outcome.Inelastic.Velocity, res.Outcome.Inelastic.InvariantMass)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.Name, status, final, res.RunID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ok, failed := batch.Summary(results)
	fmt.Printf("\n%d ok, %d failed\n", ok, failed)
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	in, err := cfg.GetInput()
	if err != nil {
		return err
	}
	opts, err := cfg.GetOptions()
	if err != nil {
		return err
	}

	runner := batch.NewRunner(cfg.GetUnits(), opts)
	runner.Logger = logger
	results, err := runner.RunMonteCarlo(cmd.Context(), &batch.MonteCarloConfig{
		Base:                 in,
		VelocityPerturbation: dv,
		MassPerturbation:     dm,
		Trials:               trials,
		Seed:                 seed,
	})
	if err != nil {
		return err
	}

	for _, res := range results {
		if res.Err != nil {
			logger.Printf("trial %d: %v", res.Trial, res.Err)
		}
	}
	conserved, violated, failed := batch.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("  conserved: %d\n", conserved)
	fmt.Printf("  violated:  %d\n", violated)
	fmt.Printf("  failed:    %d\n", failed)
	if violated > 0 {
		return &relativity.InvariantError{Check: "monte carlo conservation", Got: float64(violated), Want: 0}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tMODE\tM1\tV1\tM2\tV2")

	for _, run := range runs {
		p := run.Outcome.Initial
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%g\t%g\t%g\n",
			run.ID,
			run.Name,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Outcome.Mode,
			p[0].Mass, p[0].Velocity, p[1].Mass, p[1].Velocity,
		)
	}

	return w.Flush()
}

func loadRun(ctx context.Context, cmd *cobra.Command, runID string) (*storage.Run, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Load(ctx, runID)
}

func showRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run %s (%s) at %s\n\n", run.ID, run.Name, run.Timestamp.Local().Format("2006-01-02 15:04:05"))
	r := renderer()
	if err := r.Outcome(run.Outcome); err != nil {
		return err
	}
	fmt.Println()
	if err := r.Bars(run.Outcome); err != nil {
		return err
	}

	rows, err := storage.States(st, run)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nPHASE\tLABEL\tVELOCITY\tGAMMA\tENERGY\tMOMENTUM")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%.9g\t%.9g\t%.9g\t%.9g\n",
			row.Phase, row.Label, row.Velocity, row.Gamma, row.Energy, row.Momentum)
	}

	metrics := run.Metrics()
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(w, "\nMETRIC\tVALUE")
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%.9g\n", k, metrics[k])
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if preset != "" && !config.ApplyPreset(cfg, preset) {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("config written: %s\n", path)
	return nil
}

func checkConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return err
	}
	in, err := cfg.GetInput()
	if err != nil {
		return err
	}
	opts, err := cfg.GetOptions()
	if err != nil {
		return err
	}

	p := in.Particles
	fmt.Printf("%s: ok\n", args[0])
	fmt.Printf("  units     %s\n", cfg.GetUnits())
	fmt.Printf("  mode      %s (method %s, max %d iterations)\n", in.Mode, opts.Method, opts.MaxIter)
	fmt.Printf("  particle1 m=%g v=%g\n", p[0].Mass, p[0].Velocity)
	fmt.Printf("  particle2 m=%g v=%g\n", p[1].Mass, p[1].Velocity)
	return nil
}

func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd.Context(), cmd, args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := storage.WriteCSV(w, run.Outcome); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd.Context(), cmd, args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := storage.WriteJSON(w, run); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	}
	return nil
}

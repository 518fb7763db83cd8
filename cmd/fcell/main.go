package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fcell/internal/analysis"
	"github.com/san-kum/fcell/internal/cell"
	"github.com/san-kum/fcell/internal/config"
	"github.com/san-kum/fcell/internal/experiment"
	"github.com/san-kum/fcell/internal/ode"
	"github.com/san-kum/fcell/internal/optim"
	"github.com/san-kum/fcell/internal/polarization"
	"github.com/san-kum/fcell/internal/storage"
	"github.com/san-kum/fcell/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	tolerance  float64
	current    float64
	cellModel  string
	integrator string
	anInit     float64
	caInit     float64
	// Sweep parameters
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	segTime    float64
	// Config file and preset
	configFile string
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fcell",
		Short: "transient fuel-cell double-layer simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fcell", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "solve one transient relaxation at a fixed load current",
		RunE:  runTransient,
	}
	addSolveFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "build a polarization curve by sweeping the load current",
		RunE:  runSweep,
	}
	addSolveFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first current")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 100, "last current")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 21, "number of current points")
	sweepCmd.Flags().Float64Var(&segTime, "seg-time", 10.0, "time horizon per segment")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the relaxation live with adjustable parameters",
		RunE:  runLive,
	}
	addSolveFlags(liveCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run or sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same relaxation",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addSolveFlags(compareCmd)

	fitCmd := &cobra.Command{
		Use:   "fit [run_id]",
		Short: "fit exchange current densities to a stored sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  fitCurve,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(" ", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, sweepCmd, liveCmd, plotCmd, listCmd, exportCSVCmd, exportJSONCmd, compareCmd, fitCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSolveFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "initial timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "time horizon")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "adaptive step tolerance")
	cmd.Flags().Float64Var(&current, "current", config.DefaultCurrent, "external load current")
	cmd.Flags().StringVar(&cellModel, "cell", "stack", "cell model (stack, electrode)")
	cmd.Flags().StringVar(&integrator, "integrator", "rk45", "integrator (euler, rk4, rk45)")
	cmd.Flags().Float64Var(&anInit, "an", 0.6, "initial anode double-layer potential")
	cmd.Flags().Float64Var(&caInit, "ca", 0.5, "initial cathode double-layer potential")
}

// buildConfig resolves preset, config file and CLI flags, in rising
// priority, into one run configuration.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("current") {
		cfg.Current = current
	}
	if cmd.Flags().Changed("cell") {
		cfg.Cell = cellModel
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("an") || cmd.Flags().Changed("ca") {
		cfg.InitState = []float64{anInit, caInit}
	}

	return cfg, nil
}

func runTransient(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	params := cfg.CellParams()
	if err := params.Validate(); err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()

	sys, err := registry.GetCell(cfg.Cell, params)
	if err != nil {
		return err
	}
	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{
		Cell:       cfg.Cell,
		Integrator: cfg.Integrator,
		InitState:  cfg.GetInitState(),
		Current:    cfg.Current,
		Solve:      cfg.SolveConfig(),
	})
	if err := exp.Setup(sys, integ, registry.DefaultMetrics(sys, params)); err != nil {
		return err
	}

	fmt.Printf("solving %s transient at i_ext=%.2f...\n", cfg.Cell, cfg.Current)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	for _, solveErr := range result.Errors {
		fmt.Printf("warning: %v\n", solveErr)
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Cell, cfg.Dt, cfg.Duration, cfg.Tolerance, cfg.Current, cfg.Integrator, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.States))

	final := result.Final()
	if len(final) == 2 {
		fmt.Printf("terminal state: [%.6f, %.6f] V\n", final[0], final[1])
		fmt.Printf("cell voltage: %.6f V\n", final[0]+final[1])
	}
	if ts, ok := analysis.SettlingTime(result, 1e-4); ok {
		fmt.Printf("settled at: t=%.3f s\n", ts)
	}

	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("from") {
		cfg.Sweep.Start = sweepFrom
	}
	if cmd.Flags().Changed("to") {
		cfg.Sweep.Stop = sweepTo
	}
	if cmd.Flags().Changed("steps") {
		cfg.Sweep.Steps = sweepSteps
	}
	if cmd.Flags().Changed("seg-time") {
		cfg.Sweep.Duration = segTime
	}

	params := cfg.CellParams()
	if err := params.Validate(); err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	sys, err := registry.GetCell(cfg.Cell, params)
	if err != nil {
		return err
	}
	c, ok := sys.(polarization.Cell)
	if !ok {
		return fmt.Errorf("cell %q cannot be swept", cfg.Cell)
	}

	currents := polarization.Range(cfg.Sweep.Start, cfg.Sweep.Stop, cfg.Sweep.Steps)

	solve := cfg.SolveConfig()
	solve.Duration = cfg.Sweep.Duration

	fmt.Printf("sweeping %s over %d currents in [%.1f, %.1f]...\n", cfg.Cell, len(currents), cfg.Sweep.Start, cfg.Sweep.Stop)
	start := time.Now()

	curve, err := polarization.Sweep(context.Background(), c, integ, currents, c.EquilibriumState(), solve)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	printCurve(curve)

	runID, err := st.SaveCurve(cfg.Cell, cfg.Dt, cfg.Sweep.Duration, cfg.Tolerance, cfg.Integrator, curve)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)

	return nil
}

func printCurve(curve *polarization.Curve) {
	fmt.Println(asciigraph.Plot(curve.Voltages,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("cell voltage vs current point"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(curve.Powers,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("power vs current point"),
	))

	if idx, peak := curve.MaxPower(); idx >= 0 {
		fmt.Printf("\nmax power: %.3f W at i_ext=%.2f (%.4f V)\n",
			peak, curve.Currents[idx], curve.Voltages[idx])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	params := cfg.CellParams()
	if err := params.Validate(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	sys, err := registry.GetCell(cfg.Cell, params)
	if err != nil {
		return err
	}
	c, ok := sys.(viz.Cell)
	if !ok {
		return fmt.Errorf("cell %q has no live view", cfg.Cell)
	}

	m := viz.NewModel(c, integ, cfg.GetInitState(), cfg.Dt)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("cell: %s\n\n", meta.Cell)

	if meta.Kind == "sweep" {
		curve, err := st.LoadCurve(runID)
		if err != nil {
			return err
		}
		printCurve(curve)
		return nil
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	captions := []string{"anode Δφ (V)", "cathode Δφ (V)"}
	for varIdx := 0; varIdx < len(states[0]); varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		caption := fmt.Sprintf("dphi%d vs time", varIdx)
		if varIdx < len(captions) {
			caption = captions[varIdx]
		}

		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		))
		fmt.Println()
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tCELL\tTIME\tDURATION\tDT\tINTEG\tI_EXT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%.1f\n",
			run.ID,
			run.Kind,
			run.Cell,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Current,
		)
	}

	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if meta.Kind == "sweep" {
		curve, err := st.LoadCurve(runID)
		if err != nil {
			return err
		}
		if err := w.Write([]string{"current", "voltage", "power"}); err != nil {
			return err
		}
		for i := range curve.Currents {
			row := []string{
				strconv.FormatFloat(curve.Currents[i], 'f', 6, 64),
				strconv.FormatFloat(curve.Voltages[i], 'f', 9, 64),
				strconv.FormatFloat(curve.Powers[i], 'f', 9, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	header := []string{"time"}
	for i := range states[0] {
		header = append(header, fmt.Sprintf("dphi%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 9, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if meta.Kind == "sweep" {
		curve, err := st.LoadCurve(runID)
		if err != nil {
			return err
		}
		return storage.ExportCurveJSON(os.Stdout, meta, curve)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, states, times)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	params := cfg.CellParams()
	if err := params.Validate(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()

	fmt.Printf("comparing integrators at i_ext=%.2f (dt=%.4f, t=%.1fs)\n\n", cfg.Current, cfg.Dt, cfg.Duration)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL_STATE\tRESIDUAL\tTIME_MS")

	for _, name := range args {
		integ, err := registry.GetIntegrator(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		sys, err := registry.GetCell(cfg.Cell, params)
		if err != nil {
			return err
		}
		solver := ode.New(sys, integ)

		solve := cfg.SolveConfig()
		// Fixed-step integrators run at the raw dt.
		if _, ok := integ.(ode.AdaptiveIntegrator); !ok {
			solve.Adaptive = false
		}

		start := time.Now()
		result, err := solver.Run(context.Background(), ode.State(cfg.GetInitState()), solve)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		residual := analysis.TerminalResidual(sys, result)

		parts := make([]string, 0, 2)
		for _, v := range result.Final() {
			parts = append(parts, fmt.Sprintf("%.6f", v))
		}

		fmt.Fprintf(w, "%s\t[%s]\t%.2e\t%.2f\n",
			name, strings.Join(parts, " "), residual, float64(elapsed.Microseconds())/1000)
	}

	return w.Flush()
}

func fitCurve(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if meta.Kind != "sweep" {
		return fmt.Errorf("fit needs a sweep run, %s is a %s", runID, meta.Kind)
	}

	curve, err := st.LoadCurve(runID)
	if err != nil {
		return err
	}
	if curve.Len() == 0 {
		return fmt.Errorf("sweep %s has no points", runID)
	}

	base := cell.DefaultParams()

	grid := func(center float64) []float64 {
		vals := make([]float64, 0, 9)
		for f := 0.25; f <= 4.01; f *= 1.5 {
			vals = append(vals, center*f)
		}
		return vals
	}

	gs := optim.NewGridSearch(
		[]string{"i0_an", "i0_ca"},
		[][]float64{grid(base.I0An), grid(base.I0Ca)},
	)

	fmt.Printf("fitting exchange current densities to %s (%d points)...\n", runID, curve.Len())

	best, score, err := gs.Search(context.Background(), optim.CurveObjective(curve, base))
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no parameter set evaluated")
	}

	fmt.Printf("best fit: i0_an=%.4g  i0_ca=%.4g  (sse %.3e)\n", best["i0_an"], best["i0_ca"], score)
	return nil
}

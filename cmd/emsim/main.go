package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/EvanCarter/ElectroSimulations/internal/config"
	"github.com/EvanCarter/ElectroSimulations/internal/emf"
	"github.com/EvanCarter/ElectroSimulations/internal/export"
	"github.com/EvanCarter/ElectroSimulations/internal/flux"
	"github.com/EvanCarter/ElectroSimulations/internal/generator"
	"github.com/EvanCarter/ElectroSimulations/internal/metrics"
	"github.com/EvanCarter/ElectroSimulations/internal/scenario"
	"github.com/EvanCarter/ElectroSimulations/internal/storage"
	"github.com/EvanCarter/ElectroSimulations/internal/sweep"
	"github.com/EvanCarter/ElectroSimulations/internal/tui"
	"github.com/EvanCarter/ElectroSimulations/internal/viz"
	"github.com/EvanCarter/ElectroSimulations/internal/waveform"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	dt       float64
	duration float64
	kernel   string
	seed     int64
	// Rotor geometry
	diskRadius     float64
	magnetDiameter float64
	edgeOffset     float64
	magnetCount    int
	rpm            float64
	field          float64
	// Coil placement, name@degrees
	coilSpecs []string
	// Voltage extraction
	smoothSigma  float64
	tableSamples int
	tableSigma   float64
	// Config file
	configFile string
	// Preset name
	preset string
	// Live view
	frameRate int
	plain     bool
	// Trace selection for stored runs
	trace string
	// Sweep axes
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	sweepParam2  string
	sweepMin2    float64
	sweepMax2    float64
	sweepSteps2  int
	sweepWorkers int
	sweepMetric  string
	// Tolerance study
	trials int
	jitter float64
	// SVG export
	outPath   string
	rotorSVG  bool
	frameTime float64
)

// main is the entry point for the emsim CLI; it registers commands and flags,
// spins up the live rotor view when no subcommand is provided, and executes
// the root command. It exits the process with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "emsim",
		Short: "magnet and coil induction lab",
		Run: func(cmd *cobra.Command, args []string) {
			// Default to the live rotor view when no command given
			if err := liveView(cmd, nil); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".emsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [rig]",
		Short: "run a rig and store the traces",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGenerate,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration (0 runs one revolution or traverse)")
	runCmd.Flags().StringVar(&kernel, "kernel", "exact", "flux kernel (exact, sinusoid, dipole, sampled)")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "random seed for the sampled kernel")
	runCmd.Flags().Float64Var(&diskRadius, "disk-radius", config.DefaultDiskRadius, "disk radius")
	runCmd.Flags().Float64Var(&magnetDiameter, "magnet-diameter", config.DefaultMagnetDiameter, "magnet diameter")
	runCmd.Flags().Float64Var(&edgeOffset, "edge-offset", config.DefaultEdgeOffset, "magnet inset from the disk edge")
	runCmd.Flags().IntVar(&magnetCount, "magnets", config.DefaultMagnetCount, "magnet count")
	runCmd.Flags().Float64Var(&rpm, "rpm", config.DefaultRPM, "rotor speed")
	runCmd.Flags().Float64Var(&field, "field", config.DefaultField, "magnet field strength")
	runCmd.Flags().StringSliceVar(&coilSpecs, "coil", nil, "coil as name@degrees (repeatable)")
	runCmd.Flags().Float64Var(&smoothSigma, "smooth-sigma", 0, "voltage smoothing in samples (0 auto, negative off)")
	runCmd.Flags().IntVar(&tableSamples, "table-samples", 0, "lookup table size (0 default)")
	runCmd.Flags().Float64Var(&tableSigma, "table-sigma", 0, "table smoothing in samples (0 default, negative off)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	validateCmd := &cobra.Command{
		Use:   "validate [rig]",
		Short: "check rig geometry",
		Args:  cobra.MaximumNArgs(1),
		RunE:  validateRig,
	}
	validateCmd.Flags().Float64Var(&diskRadius, "disk-radius", config.DefaultDiskRadius, "disk radius")
	validateCmd.Flags().Float64Var(&magnetDiameter, "magnet-diameter", config.DefaultMagnetDiameter, "magnet diameter")
	validateCmd.Flags().Float64Var(&edgeOffset, "edge-offset", config.DefaultEdgeOffset, "magnet inset from the disk edge")
	validateCmd.Flags().IntVar(&magnetCount, "magnets", config.DefaultMagnetCount, "magnet count")
	validateCmd.Flags().Float64Var(&rpm, "rpm", config.DefaultRPM, "rotor speed")
	validateCmd.Flags().Float64Var(&field, "field", config.DefaultField, "magnet field strength")
	validateCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	validateCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	liveCmd := &cobra.Command{
		Use:   "live [rig]",
		Short: "watch a rig spin with live voltage traces",
		Args:  cobra.MaximumNArgs(1),
		RunE:  liveView,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().Float64Var(&duration, "time", 0, "duration (0 loops forever)")
	liveCmd.Flags().StringVar(&kernel, "kernel", "exact", "flux kernel")
	liveCmd.Flags().Float64Var(&diskRadius, "disk-radius", config.DefaultDiskRadius, "disk radius")
	liveCmd.Flags().Float64Var(&magnetDiameter, "magnet-diameter", config.DefaultMagnetDiameter, "magnet diameter")
	liveCmd.Flags().Float64Var(&edgeOffset, "edge-offset", config.DefaultEdgeOffset, "magnet inset from the disk edge")
	liveCmd.Flags().IntVar(&magnetCount, "magnets", config.DefaultMagnetCount, "magnet count")
	liveCmd.Flags().Float64Var(&rpm, "rpm", config.DefaultRPM, "rotor speed")
	liveCmd.Flags().Float64Var(&field, "field", config.DefaultField, "magnet field strength")
	liveCmd.Flags().StringSliceVar(&coilSpecs, "coil", nil, "coil as name@degrees (repeatable)")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for the plain renderer")
	liveCmd.Flags().BoolVar(&plain, "plain", false, "plain ANSI renderer instead of the full view")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored traces",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&trace, "trace", "", "plot a single named trace")

	portraitCmd := &cobra.Command{
		Use:   "portrait [run_id]",
		Short: "flux versus voltage portrait",
		Args:  cobra.ExactArgs(1),
		RunE:  portraitRun,
	}
	portraitCmd.Flags().StringVar(&trace, "trace", "", "coil to plot (default first)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&trace, "trace", "", "trace to analyze (default first coil voltage)")

	phasesCmd := &cobra.Command{
		Use:   "phases",
		Short: "electrical phase table for the configured stator",
		RunE:  phasesTable,
	}
	phasesCmd.Flags().IntVar(&magnetCount, "magnets", config.DefaultMagnetCount, "magnet count")
	phasesCmd.Flags().Float64Var(&rpm, "rpm", config.DefaultRPM, "rotor speed")
	phasesCmd.Flags().StringSliceVar(&coilSpecs, "coil", nil, "coil as name@degrees (repeatable)")
	phasesCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	phasesCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark kernels across timesteps",
		RunE:  benchKernels,
	}
	benchCmd.Flags().Float64Var(&duration, "time", 2.0, "span per measurement")
	benchCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	benchCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a parameter grid and rank the results",
		RunE:  sweepRuns,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to sweep (rpm, field, magnets, ...)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "axis start")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0, "axis end")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "points along the axis")
	sweepCmd.Flags().StringVar(&sweepParam2, "param2", "", "second axis parameter")
	sweepCmd.Flags().Float64Var(&sweepMin2, "min2", 0, "second axis start")
	sweepCmd.Flags().Float64Var(&sweepMax2, "max2", 0, "second axis end")
	sweepCmd.Flags().IntVar(&sweepSteps2, "steps2", 5, "points along the second axis")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "parallel workers (0 uses all cpus)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "rms", "metric to rank by")
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	sweepCmd.Flags().Float64Var(&duration, "time", 0, "duration per point")
	sweepCmd.Flags().StringVar(&kernel, "kernel", "exact", "flux kernel")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	toleranceCmd := &cobra.Command{
		Use:   "tolerance",
		Short: "monte carlo build-tolerance study",
		RunE:  toleranceStudy,
	}
	toleranceCmd.Flags().IntVar(&trials, "trials", 20, "number of jittered trials")
	toleranceCmd.Flags().Float64Var(&jitter, "jitter", 0.05, "fractional geometry jitter")
	toleranceCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	toleranceCmd.Flags().Float64Var(&diskRadius, "disk-radius", config.DefaultDiskRadius, "disk radius")
	toleranceCmd.Flags().Float64Var(&magnetDiameter, "magnet-diameter", config.DefaultMagnetDiameter, "magnet diameter")
	toleranceCmd.Flags().Float64Var(&edgeOffset, "edge-offset", config.DefaultEdgeOffset, "magnet inset from the disk edge")
	toleranceCmd.Flags().IntVar(&magnetCount, "magnets", config.DefaultMagnetCount, "magnet count")
	toleranceCmd.Flags().Float64Var(&rpm, "rpm", config.DefaultRPM, "rotor speed")
	toleranceCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	toleranceCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenarioFile,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [rig]",
		Short: "list available presets for a rig",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for rig: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run traces to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run traces to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run traces or a rotor snapshot to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	exportSVGCmd.Flags().BoolVar(&rotorSVG, "rotor", false, "render the configured rotor instead of traces")
	exportSVGCmd.Flags().Float64Var(&frameTime, "frame-time", 0, "rotor snapshot time")
	exportSVGCmd.Flags().Float64Var(&diskRadius, "disk-radius", config.DefaultDiskRadius, "disk radius")
	exportSVGCmd.Flags().Float64Var(&magnetDiameter, "magnet-diameter", config.DefaultMagnetDiameter, "magnet diameter")
	exportSVGCmd.Flags().Float64Var(&edgeOffset, "edge-offset", config.DefaultEdgeOffset, "magnet inset from the disk edge")
	exportSVGCmd.Flags().IntVar(&magnetCount, "magnets", config.DefaultMagnetCount, "magnet count")
	exportSVGCmd.Flags().StringSliceVar(&coilSpecs, "coil", nil, "coil as name@degrees (repeatable)")
	exportSVGCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	exportSVGCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	rootCmd.AddCommand(runCmd, validateCmd, liveCmd, listCmd, plotCmd, portraitCmd, analyzeCmd, phasesCmd, benchCmd, sweepCmd, toleranceCmd, scenarioCmd, presetsCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	rig := ""
	if len(args) > 0 {
		rig = args[0]
	}
	cfg, err := buildConfig(cmd, rig)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	r, err := cfg.BuildRig()
	if err != nil {
		return err
	}
	runCfg, err := cfg.RunConfig()
	if err != nil {
		return err
	}

	driver := generator.New(r, cfg.BuildCoils())
	driver.AddMetric(metrics.NewRMS())
	driver.AddMetric(metrics.NewFluxBalance())

	fmt.Printf("running %s rig...\n", cfg.Rig)
	start := time.Now()

	result, err := driver.Run(context.Background(), runCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Rig, string(runCfg.Kernel), runCfg.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	fmt.Println("\ncoils:")
	for _, tr := range result.Traces {
		pos, neg := waveform.Peaks(tr.Voltage.Values, peakThreshold(tr.Voltage.Values))
		fmt.Printf("  %s: rms %.4f, peaks +%d/-%d\n",
			tr.Coil.Name, waveform.RMS(tr.Voltage.Values), pos, neg)
	}

	return nil
}

func validateRig(cmd *cobra.Command, args []string) error {
	rig := ""
	if len(args) > 0 {
		rig = args[0]
	}
	cfg, err := buildConfig(cmd, rig)
	if err != nil {
		return err
	}

	r, err := cfg.BuildRig()
	if err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	switch rr := r.(type) {
	case *generator.RotaryRig:
		fmt.Fprintf(w, "disk radius\t%.3f\n", rr.DiskRadius)
		fmt.Fprintf(w, "magnet diameter\t%.3f\n", rr.MagnetDiameter)
		fmt.Fprintf(w, "edge offset\t%.3f\n", rr.EdgeOffset)
		fmt.Fprintf(w, "path radius\t%.3f\n", rr.PathRadius())
		fmt.Fprintf(w, "magnets\t%d of %d max\n", rr.MagnetCount, rr.MaxMagnets())
		fmt.Fprintf(w, "speed\t%.1f rpm\n", rr.Omega*60/(2*math.Pi))
		fmt.Fprintf(w, "revolution\t%.3fs\n", rr.DefaultDuration())
	case *generator.LinearRig:
		fmt.Fprintf(w, "magnet radius\t%.3f\n", rr.MagnetRadius)
		fmt.Fprintf(w, "magnets\t%d\n", rr.MagnetCount)
		fmt.Fprintf(w, "stride\t%.3f\n", rr.Stride())
		fmt.Fprintf(w, "window width\t%.3f\n", rr.Window.Width())
		fmt.Fprintf(w, "speed\t%.3f\n", rr.Speed)
		fmt.Fprintf(w, "traverse\t%.3fs\n", rr.DefaultDuration())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\ngeometry ok")
	return nil
}

func liveView(cmd *cobra.Command, args []string) error {
	rig := ""
	if len(args) > 0 {
		rig = args[0]
	}
	cfg, err := buildConfig(cmd, rig)
	if err != nil {
		return err
	}

	r, err := cfg.BuildRig()
	if err != nil {
		return err
	}
	runCfg, err := cfg.RunConfig()
	if err != nil {
		return err
	}

	rr, ok := r.(*generator.RotaryRig)
	if !ok {
		return fmt.Errorf("live view needs a rotary rig, got %s", cfg.Rig)
	}

	coils := cfg.BuildCoils()
	driver := generator.New(r, coils)

	if plain {
		if runCfg.Duration == 0 {
			// A single revolution is over in a blink; give the plain view sixty.
			runCfg.Duration = 60 * rr.DefaultDuration()
		}
		renderer := tui.NewLiveRenderer(rr, coils, frameRate)
		renderer.Start()
		defer renderer.Stop()
		return driver.RunLive(context.Background(), runCfg, func(t float64, volts []float64) bool {
			renderer.OnStep(t, volts)
			return true
		})
	}

	stepper, err := driver.Stepper(runCfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewLive(stepper))
	if _, err := p.Run(); err != nil {
		return err
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
	fmt.Fprintln(w, "ID\tRIG\tTIME\tDURATION\tDT\tKERNEL\tCOILS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Rig,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Kernel,
			strings.Join(run.Coils, ","),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	data, err := st.LoadTraces(runID)
	if err != nil {
		return err
	}

	if len(data.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("rig: %s\n", meta.Rig)
	fmt.Printf("samples: %d\n\n", len(data.Times))

	names := data.Names
	if trace != "" {
		if data.Column(trace) == nil {
			return fmt.Errorf("no trace %q in run (have %v)", trace, data.Names)
		}
		names = []string{trace}
	}

	maxPlots := 6
	if len(names) > maxPlots {
		names = names[:maxPlots]
	}

	for _, name := range names {
		graph := asciigraph.Plot(data.Column(name),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func portraitRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	data, err := st.LoadTraces(runID)
	if err != nil {
		return err
	}
	if len(data.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	coil := trace
	if coil == "" {
		if len(meta.Coils) == 0 {
			return fmt.Errorf("run has no coils")
		}
		coil = meta.Coils[0]
	}

	xData := data.Column(coil + "_flux")
	yData := data.Column(coil + "_voltage")
	if xData == nil || yData == nil {
		return fmt.Errorf("no traces for coil %q (have %v)", coil, meta.Coils)
	}

	fmt.Printf("flux portrait: %s\n", meta.ID)
	fmt.Printf("coil: %s\n", coil)
	fmt.Printf("x-axis: flux, y-axis: voltage\n\n")

	xMin, xMax := xData[0], xData[0]
	yMin, yMax := yData[0], yData[0]
	for i := range xData {
		if xData[i] < xMin {
			xMin = xData[i]
		}
		if xData[i] > xMax {
			xMax = xData[i]
		}
		if yData[i] < yMin {
			yMin = yData[i]
		}
		if yData[i] > yMax {
			yMax = yData[i]
		}
	}

	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	width := 70
	height := 20
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i := range xData {
		px := int(float64(width-1) * (xData[i] - xMin) / xRange)
		py := int(float64(height-1) * (yData[i] - yMin) / yRange)
		py = height - 1 - py
		if px >= 0 && px < width && py >= 0 && py < height {
			// Age the glyph with simulation time
			if i < len(xData)/3 {
				canvas[py][px] = '.'
			} else if i < 2*len(xData)/3 {
				canvas[py][px] = 'o'
			} else {
				canvas[py][px] = '●'
			}
		}
	}

	fmt.Printf("  %.2f ┌", yMax)
	for i := 0; i < width; i++ {
		fmt.Print("─")
	}
	fmt.Println("┐")

	for i := range canvas {
		if i == height/2 {
			fmt.Printf("  %.2f │", (yMax+yMin)/2)
		} else {
			fmt.Print("       │")
		}
		fmt.Print(string(canvas[i]))
		fmt.Println("│")
	}

	fmt.Printf("  %.2f └", yMin)
	for i := 0; i < width; i++ {
		fmt.Print("─")
	}
	fmt.Println("┘")

	fmt.Printf("       %.2f", xMin)
	padding := width - 20
	for i := 0; i < padding; i++ {
		fmt.Print(" ")
	}
	fmt.Printf("%.2f\n", xMax)

	fmt.Printf("\nLegend: . = early, o = middle, ● = late\n")

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	data, err := st.LoadTraces(runID)
	if err != nil {
		return err
	}
	if len(data.Times) == 0 {
		return fmt.Errorf("no data")
	}

	name := trace
	if name == "" {
		if len(meta.Coils) == 0 {
			return fmt.Errorf("run has no coils")
		}
		name = meta.Coils[0] + "_voltage"
	}
	col := data.Column(name)
	if col == nil {
		return fmt.Errorf("no trace %q in run (have %v)", name, data.Names)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("trace: %s\n\n", name)

	s := &emf.Series{Name: name, Times: data.Times, Values: col}
	mags, df, err := waveform.PowerSpectrum(s)
	if err != nil {
		return err
	}

	// The interesting peaks sit in the low quarter of the spectrum.
	plotData := mags[:len(mags)/4]
	if len(plotData) < 2 {
		plotData = mags
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, err := waveform.DominantFrequency(s)
	if err != nil {
		return err
	}

	fmt.Printf("bin width: %.4f hz\n", df)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func phasesTable(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, "rotary")
	if err != nil {
		return err
	}

	pp := waveform.PolePairs(cfg.Rotor.MagnetCount)
	if pp < 1 {
		return fmt.Errorf("need at least 2 magnets for an electrical cycle, got %d", cfg.Rotor.MagnetCount)
	}

	coils := cfg.Coils
	if len(coils) == 0 {
		coils = []config.CoilConfig{{Name: "coil", AngleDeg: 90}}
	}

	fmt.Printf("%d magnets, %d pole pairs\n", cfg.Rotor.MagnetCount, pp)
	fmt.Printf("electrical frequency at %.0f rpm: %.2f hz\n\n",
		cfg.Rotor.RPM, waveform.ElectricalFrequency(cfg.Rotor.RPM/60, pp))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COIL\tMECH DEG\tELEC DEG\tPHASE")
	for _, c := range coils {
		mech := c.AngleDeg * math.Pi / 180
		elec := waveform.ElectricalOffset(mech, pp) * 180 / math.Pi
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%s\n", c.Name, c.AngleDeg, elec, waveform.CoilPhase(mech, pp))
	}
	return w.Flush()
}

func benchKernels(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, "")
	if err != nil {
		return err
	}

	dts := []float64{0.0005, 0.001, 0.005}
	span := duration
	if span <= 0 {
		span = 2.0
	}

	fmt.Printf("benchmarking %s rig over %.1fs\n\n", cfg.Rig, span)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KERNEL\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, k := range flux.Kernels() {
		for _, step := range dts {
			runCfg, err := cfg.RunConfig()
			if err != nil {
				return err
			}
			runCfg.Kernel = k
			runCfg.Dt = step
			runCfg.Duration = span

			r, err := cfg.BuildRig()
			if err != nil {
				return err
			}
			driver := generator.New(r, cfg.BuildCoils())

			start := time.Now()
			result, err := driver.Run(context.Background(), runCfg)
			if err != nil {
				fmt.Fprintf(w, "%s\t%.4fs\terror: %v\n", k, step, err)
				continue
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%.4fs\t%d\t%v\t%.0f\n",
				k, step, result.StepsTaken, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func sweepRuns(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, "")
	if err != nil {
		return err
	}

	if sweepParam == "" {
		return fmt.Errorf("need --param")
	}
	if sweepSteps < 2 {
		return fmt.Errorf("need at least 2 steps, got %d", sweepSteps)
	}

	axes := []sweep.Axis{{Name: sweepParam, Values: linspace(sweepMin, sweepMax, sweepSteps)}}
	if sweepParam2 != "" {
		if sweepSteps2 < 2 {
			return fmt.Errorf("need at least 2 steps on the second axis, got %d", sweepSteps2)
		}
		axes = append(axes, sweep.Axis{Name: sweepParam2, Values: linspace(sweepMin2, sweepMax2, sweepSteps2)})
	}

	grid := sweep.Grid{Axes: axes, Workers: sweepWorkers}
	fmt.Printf("sweeping %d points...\n\n", len(grid.Points()))

	start := time.Now()
	points, err := grid.Run(context.Background(), func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		pc := *cfg
		for name, val := range params {
			if err := applyParam(&pc, name, val); err != nil {
				return nil, err
			}
		}

		r, err := pc.BuildRig()
		if err != nil {
			return nil, err
		}
		runCfg, err := pc.RunConfig()
		if err != nil {
			return nil, err
		}

		driver := generator.New(r, pc.BuildCoils())
		driver.AddMetric(metrics.NewRMS())
		driver.AddMetric(metrics.NewFluxBalance())

		result, err := driver.Run(ctx, runCfg)
		if err != nil {
			return nil, err
		}
		return result.Metrics, nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := strings.ToUpper(sweepParam)
	if sweepParam2 != "" {
		header += "\t" + strings.ToUpper(sweepParam2)
	}
	fmt.Fprintf(w, "%s\t%s\n", header, strings.ToUpper(sweepMetric))

	for _, p := range points {
		row := strconv.FormatFloat(p.Params[sweepParam], 'f', 4, 64)
		if sweepParam2 != "" {
			row += "\t" + strconv.FormatFloat(p.Params[sweepParam2], 'f', 4, 64)
		}
		if p.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", row, p.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6f\n", row, p.Metrics[sweepMetric])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := sweep.Best(points, sweepMetric); ok {
		fmt.Printf("\nbest %s: %.6f at", sweepMetric, best.Metrics[sweepMetric])
		fmt.Printf(" %s=%.4f", sweepParam, best.Params[sweepParam])
		if sweepParam2 != "" {
			fmt.Printf(" %s=%.4f", sweepParam2, best.Params[sweepParam2])
		}
		fmt.Println()
	}

	return nil
}

func toleranceStudy(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, "rotary")
	if err != nil {
		return err
	}

	tol := &scenario.Tolerance{
		Base:   cfg,
		Jitter: jitter,
		Trials: trials,
		Seed:   seed,
	}

	fmt.Printf("tolerance study: %d trials, %.1f%% jitter\n\n", trials, jitter*100)

	results, err := scenario.RunTolerance(context.Background(), tol)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tDIAMETER\tOFFSET\tVALID\tRMS")
	for _, tr := range results {
		valid := "yes"
		if !tr.Valid {
			valid = "no"
		}
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%s\t%.6f\n", tr.Trial, tr.Diameter, tr.Offset, valid, tr.RMS)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	valid, invalid := scenario.ToleranceStats(results)
	fmt.Printf("\n%d fit, %d out of tolerance\n", valid, invalid)
	return nil
}

func runScenarioFile(cmd *cobra.Command, args []string) error {
	sc, err := scenario.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	fmt.Println()

	start := time.Now()
	results, err := scenario.RunScenario(context.Background(), sc, st)
	if err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN\tRMS")
	for _, res := range results {
		id := res.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%.6f\n", res.Name, id, res.Metrics["rms"])
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	data, err := st.LoadTraces(runID)
	if err != nil {
		return err
	}

	if len(data.Times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, data.Names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range data.Times {
		row := []string{strconv.FormatFloat(data.Times[i], 'f', 6, 64)}
		for _, col := range data.Values {
			row = append(row, strconv.FormatFloat(col[i], 'f', 6, 64))
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

	data, err := st.LoadTraces(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSONStdout(meta.Rig, meta.Kernel, resultFromTraces(meta, data))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	var doc string

	if rotorSVG {
		cfg, err := buildConfig(cmd, "rotary")
		if err != nil {
			return err
		}
		r, err := cfg.BuildRig()
		if err != nil {
			return err
		}
		rr, ok := r.(*generator.RotaryRig)
		if !ok {
			return fmt.Errorf("rotor snapshots need a rotary rig")
		}
		canvas := viz.RenderRotor(rr, cfg.BuildCoils(), frameTime, 60, 30)
		doc = export.CanvasToSVG(canvas, 8)
	} else {
		if len(args) == 0 {
			return fmt.Errorf("need a run id (or --rotor)")
		}
		st := storage.New(dataDir)
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		data, err := st.LoadTraces(args[0])
		if err != nil {
			return err
		}

		var series []export.Series
		for _, name := range meta.Coils {
			if col := data.Column(name + "_voltage"); col != nil {
				series = append(series, export.Series{Name: name + "_voltage", Values: col})
			}
		}
		doc = export.TracesSVG(data.Times, series, 800, 400)
		if doc == "" {
			return fmt.Errorf("no data to export")
		}
	}

	if outPath == "" {
		fmt.Print(doc)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(doc), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

// buildConfig resolves the effective config: preset first, then config file,
// then any flags the user actually set. A non-empty rig argument wins over
// all of them.
func buildConfig(cmd *cobra.Command, rig string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if rig != "" {
		cfg.Rig = rig
	}

	if preset != "" {
		p := config.GetPreset(cfg.Rig, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Rig))
		}
		pc := *p
		cfg = &pc
	}

	if configFile != "" {
		fc, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fc
		if rig != "" {
			cfg.Rig = rig
		}
	}

	f := cmd.Flags()
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("time") {
		cfg.Duration = duration
	}
	if f.Changed("kernel") {
		cfg.Kernel = kernel
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("disk-radius") {
		cfg.Rotor.DiskRadius = diskRadius
	}
	if f.Changed("magnet-diameter") {
		cfg.Rotor.MagnetDiameter = magnetDiameter
	}
	if f.Changed("edge-offset") {
		cfg.Rotor.EdgeOffset = edgeOffset
	}
	if f.Changed("magnets") {
		cfg.Rotor.MagnetCount = magnetCount
	}
	if f.Changed("rpm") {
		cfg.Rotor.RPM = rpm
	}
	if f.Changed("field") {
		cfg.Rotor.Field = field
		cfg.Track.Field = field
	}
	if f.Changed("smooth-sigma") {
		cfg.Voltage.SmoothSigma = smoothSigma
	}
	if f.Changed("table-samples") {
		cfg.Voltage.TableSamples = tableSamples
	}
	if f.Changed("table-sigma") {
		cfg.Voltage.TableSigma = tableSigma
	}
	if f.Changed("coil") {
		parsed, err := parseCoils(coilSpecs)
		if err != nil {
			return nil, err
		}
		cfg.Coils = parsed
	}

	return cfg, nil
}

// parseCoils turns name@degrees specs into coil configs.
func parseCoils(specs []string) ([]config.CoilConfig, error) {
	out := make([]config.CoilConfig, 0, len(specs))
	for _, s := range specs {
		name, deg, ok := strings.Cut(s, "@")
		if !ok {
			return nil, fmt.Errorf("bad coil spec %q, want name@degrees", s)
		}
		angle, err := strconv.ParseFloat(strings.TrimSpace(deg), 64)
		if err != nil {
			return nil, fmt.Errorf("bad coil angle in %q: %w", s, err)
		}
		out = append(out, config.CoilConfig{Name: strings.TrimSpace(name), AngleDeg: angle})
	}
	return out, nil
}

// applyParam routes a sweep axis onto the matching config knob.
func applyParam(cfg *config.Config, name string, val float64) error {
	switch name {
	case "rpm":
		cfg.Rotor.RPM = val
	case "field":
		cfg.Rotor.Field = val
		cfg.Track.Field = val
	case "disk_radius":
		cfg.Rotor.DiskRadius = val
	case "magnet_diameter":
		cfg.Rotor.MagnetDiameter = val
	case "edge_offset":
		cfg.Rotor.EdgeOffset = val
	case "magnets":
		cfg.Rotor.MagnetCount = int(val + 0.5)
	case "speed":
		cfg.Track.Speed = val
	case "gap":
		cfg.Track.Gap = val
	case "dt":
		cfg.Dt = val
	default:
		return fmt.Errorf("unknown sweep parameter %q", name)
	}
	return nil
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// peakThreshold is a tenth of the largest swing, enough to step over lookup
// table ripple near zero.
func peakThreshold(values []float64) float64 {
	max := 0.0
	for _, v := range values {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return max * 0.1
}

// resultFromTraces rebuilds a driver result from stored columns so the JSON
// exporter can reuse the normal path.
func resultFromTraces(meta *storage.RunMetadata, data *storage.TraceData) *generator.Result {
	result := &generator.Result{
		Metrics:    meta.Metrics,
		StepsTaken: len(data.Times),
		Dt:         meta.Dt,
		Duration:   meta.Duration,
	}
	for _, name := range meta.Coils {
		result.Traces = append(result.Traces, generator.Trace{
			Coil:    generator.Coil{Name: name},
			Flux:    &emf.Series{Name: name + "_flux", Times: data.Times, Values: data.Column(name + "_flux")},
			Voltage: &emf.Series{Name: name + "_voltage", Times: data.Times, Values: data.Column(name + "_voltage")},
		})
	}
	return result
}

package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/botsim/internal/analysis"
	"github.com/san-kum/botsim/internal/batch"
	"github.com/san-kum/botsim/internal/config"
	"github.com/san-kum/botsim/internal/datalog"
	"github.com/san-kum/botsim/internal/export"
	"github.com/san-kum/botsim/internal/geom"
	"github.com/san-kum/botsim/internal/metrics"
	"github.com/san-kum/botsim/internal/scene"
	"github.com/san-kum/botsim/internal/tui"
	"github.com/san-kum/botsim/internal/world"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

var (
	dataDir  string
	dt       float64
	duration float64
	seed     uint64
	linear   float64
	angular  float64
	// Scene file
	sceneFile  string
	configFile string
	preset     string
	// Sensor fidelity switches
	perfectOdometry bool
	perfectContact  bool
	filterSetpoints bool
	roomWidth       float64
	roomHeight      float64
	// Plot variable selection
	plotVars   string
	analyzeVar string
	svgOut     string
	batchRuns  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "botsim",
		Short: "differential drive robot simulator",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".botsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scripted simulation",
		RunE:  runScripted,
	}
	addSimFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	runCmd.Flags().Float64Var(&linear, "linear", 0.5, "commanded forward velocity (m/s)")
	runCmd.Flags().Float64Var(&angular, "angular", 0.0, "commanded angular velocity (rad/s)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "drive the robot interactively",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded variables",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotVars, "vars",
		"pos_x.pose.true,pos_y.pose.true,angle.pose.true",
		"comma-separated variable names")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.Presets[name]
				fmt.Printf("  %-12s lin=%.2f ang=%.2f dur=%.0fs\n",
					name, cfg.Command.Linear, cfg.Command.Angular, cfg.Duration)
			}
			return nil
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded variable",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeVar, "var", "wheel_vel_l.true", "variable to analyze")

	statsCmd := &cobra.Command{
		Use:   "stats [run_id]",
		Short: "summary metrics for a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  statsRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render recorded trajectories to svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output path (default <run_id>.svg)")
	exportSVGCmd.Flags().Float64Var(&roomWidth, "room-width", config.DefaultRoomSize, "room width (m)")
	exportSVGCmd.Flags().Float64Var(&roomHeight, "room-height", config.DefaultRoomSize, "room height (m)")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "run a seed sweep and report odometry drift spread",
		RunE:  runBatch,
	}
	addSimFlags(batchCmd)
	batchCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	batchCmd.Flags().Float64Var(&linear, "linear", 0.5, "commanded forward velocity (m/s)")
	batchCmd.Flags().Float64Var(&angular, "angular", 0.0, "commanded angular velocity (rad/s)")
	batchCmd.Flags().IntVar(&batchRuns, "runs", 8, "number of seeds to run")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd,
		analyzeCmd, statsCmd, exportSVGCmd, batchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "physics timestep")
	cmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "noise seed")
	cmd.Flags().StringVar(&sceneFile, "scene", "", "scene file path (yaml)")
	cmd.Flags().BoolVar(&perfectOdometry, "perfect-odometry", false, "disable odometry noise")
	cmd.Flags().BoolVar(&perfectContact, "perfect-contact", false, "disable contact force noise")
	cmd.Flags().BoolVar(&filterSetpoints, "filter-setpoints", false, "low-pass filter velocity commands")
	cmd.Flags().Float64Var(&roomWidth, "room-width", config.DefaultRoomSize, "room width (m)")
	cmd.Flags().Float64Var(&roomHeight, "room-height", config.DefaultRoomSize, "room height (m)")
}

// resolveConfig merges preset, config file, and explicit flags; later
// sources win only where the flag was actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("linear") {
		cfg.Command.Linear = linear
	}
	if cmd.Flags().Changed("angular") {
		cfg.Command.Angular = angular
	}
	if cmd.Flags().Changed("scene") {
		cfg.Scene = sceneFile
	}
	if cmd.Flags().Changed("perfect-odometry") {
		cfg.PerfectOdometry = perfectOdometry
	}
	if cmd.Flags().Changed("perfect-contact") {
		cfg.PerfectContact = perfectContact
	}
	if cmd.Flags().Changed("filter-setpoints") {
		cfg.FilterSetpoints = filterSetpoints
	}
	if cmd.Flags().Changed("room-width") {
		cfg.Room.Width = roomWidth
	}
	if cmd.Flags().Changed("room-height") {
		cfg.Room.Height = roomHeight
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSim(cfg *config.Config) (*world.Sim, error) {
	s := world.New(world.Options{
		Dt:              cfg.Dt,
		TicksPerUpdate:  cfg.TicksPerUpdate,
		Seed:            cfg.Seed,
		PerfectOdometry: cfg.PerfectOdometry,
		PerfectContact:  cfg.PerfectContact,
		RoomWidth:       cfg.Room.Width,
		RoomHeight:      cfg.Room.Height,
		DataDir:         dataDir,
	})

	if cfg.Scene != "" {
		if err := scene.LoadInto(s, cfg.Scene); err != nil {
			return nil, err
		}
	} else {
		s.InitializeRobot(geom.Pose{X: cfg.Room.Width / 2, Y: cfg.Room.Height / 2})
	}

	s.Robot().FilterSetpoints = cfg.FilterSetpoints
	return s, nil
}

func runScripted(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	s, err := buildSim(cfg)
	if err != nil {
		return err
	}

	s.Robot().SetDesiredVelocity(cfg.Command.Linear, cfg.Command.Angular)

	updatePeriod := cfg.Dt * float64(cfg.TicksPerUpdate)
	updates := int(cfg.Duration / updatePeriod)

	fmt.Printf("running %.1fs at dt=%.3fs (%d updates)...\n", cfg.Duration, cfg.Dt, updates)
	start := time.Now()

	for i := 0; i < updates; i++ {
		if err := s.Update(); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	runDir, err := s.Logger().Finish()
	if err != nil {
		return err
	}

	truePose := s.Robot().TruePose()
	odomPose := s.Robot().OdomPose()
	drift := math.Hypot(odomPose.X-truePose.X, odomPose.Y-truePose.Y)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run: %s\n", runDir)
	fmt.Printf("true pose: x=%.3f y=%.3f θ=%.3f\n", truePose.X, truePose.Y, truePose.Angle)
	fmt.Printf("odom pose: x=%.3f y=%.3f θ=%.3f\n", odomPose.X, odomPose.Y, odomPose.Angle)
	fmt.Printf("odometry drift: %.3f m\n", drift)

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	s, err := buildSim(cfg)
	if err != nil {
		return err
	}

	app := tui.NewLiveApp(s)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	if err := app.Err(); err != nil {
		return err
	}

	runDir, err := s.Logger().Finish()
	if err != nil {
		return err
	}
	if runDir != "" {
		fmt.Printf("run: %s\n", runDir)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := datalog.List(dataDir)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tROWS\tDT\tDURATION")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3fs\t%.2fs\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows,
			run.Dt,
			float64(run.Rows)*run.Dt,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	meta, cols, err := datalog.LoadRun(dataDir, runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", meta.Rows)

	for _, name := range strings.Split(plotVars, ",") {
		name = strings.TrimSpace(name)
		data, ok := cols[name]
		if !ok {
			return fmt.Errorf("unknown variable %q (have %v)", name, meta.Variables)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, _, err := datalog.LoadRun(dataDir, args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, cols, err := datalog.LoadRun(dataDir, args[0])
	if err != nil {
		return err
	}

	data, ok := cols[analyzeVar]
	if !ok {
		return fmt.Errorf("unknown variable %q (have %v)", analyzeVar, meta.Variables)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("variable: %s, %d samples at %.3fs\n\n", analyzeVar, meta.Rows, meta.Dt)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/2]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum: "+analyzeVar),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func statsRun(cmd *cobra.Command, args []string) error {
	meta, cols, err := datalog.LoadRun(dataDir, args[0])
	if err != nil {
		return err
	}

	trueX, trueY := cols["pos_x.pose.true"], cols["pos_y.pose.true"]
	odomX, odomY := cols["pos_x.pose.odom"], cols["pos_y.pose.odom"]

	fmt.Printf("run: %s (%d samples, %.2fs)\n\n", meta.ID, meta.Rows, float64(meta.Rows)*meta.Dt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "path length\t%.3f m\n", metrics.PathLength(trueX, trueY))
	fmt.Fprintf(w, "odometry path length\t%.3f m\n", metrics.PathLength(odomX, odomY))
	fmt.Fprintf(w, "final drift\t%.3f m\n", metrics.FinalDrift(trueX, trueY, odomX, odomY))
	fmt.Fprintf(w, "rms drift\t%.3f m\n", metrics.RMSDrift(trueX, trueY, odomX, odomY))
	fmt.Fprintf(w, "control effort\t%.3f V\n",
		metrics.ControlEffort(cols["motor_voltage.l"], cols["motor_voltage.r"]))
	fmt.Fprintf(w, "peak skid force\t%.3f N\n",
		math.Max(metrics.MaxAbs(cols["wheel_skid_force.l"]),
			metrics.MaxAbs(cols["wheel_skid_force.r"])))
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	_, cols, err := datalog.LoadRun(dataDir, runID)
	if err != nil {
		return err
	}

	out := svgOut
	if out == "" {
		out = runID + ".svg"
	}

	err = export.WriteTrajectory(out,
		cols["pos_x.pose.true"], cols["pos_y.pose.true"],
		cols["pos_x.pose.odom"], cols["pos_y.pose.odom"],
		roomWidth, roomHeight)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	spec := batch.Spec{
		Runs:      batchRuns,
		SeedStart: cfg.Seed,
		Options: world.Options{
			Dt:              cfg.Dt,
			TicksPerUpdate:  cfg.TicksPerUpdate,
			PerfectOdometry: cfg.PerfectOdometry,
			PerfectContact:  cfg.PerfectContact,
			RoomWidth:       cfg.Room.Width,
			RoomHeight:      cfg.Room.Height,
			DataDir:         filepath.Join(dataDir, "batch"),
		},
		Spawn:    geom.Pose{X: cfg.Room.Width / 2, Y: cfg.Room.Height / 2},
		Linear:   cfg.Command.Linear,
		Angular:  cfg.Command.Angular,
		Duration: cfg.Duration,
	}

	fmt.Printf("sweeping %d seeds from %d...\n", spec.Runs, spec.SeedStart)
	start := time.Now()

	results, err := batch.Run(cmd.Context(), spec)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFINAL X\tFINAL Y\tDRIFT")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\n", r.Seed, r.FinalTrue.X, r.FinalTrue.Y, r.Drift)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	drifts := batch.Drifts(results)
	fmt.Printf("\ndrift mean %.4f m, stddev %.4f m\n", stat.Mean(drifts, nil), stat.StdDev(drifts, nil))
	return nil
}

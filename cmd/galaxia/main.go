package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/r-ferrin/galaxia/internal/analysis"
	"github.com/r-ferrin/galaxia/internal/automation"
	"github.com/r-ferrin/galaxia/internal/config"
	"github.com/r-ferrin/galaxia/internal/export"
	"github.com/r-ferrin/galaxia/internal/metrics"
	"github.com/r-ferrin/galaxia/internal/particle"
	"github.com/r-ferrin/galaxia/internal/sim"
	"github.com/r-ferrin/galaxia/internal/solver"
	"github.com/r-ferrin/galaxia/internal/storage"
	"github.com/r-ferrin/galaxia/internal/task"
	"github.com/r-ferrin/galaxia/internal/vec"
	"github.com/r-ferrin/galaxia/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	neurons  int
	photons  int
	dt       float64
	duration float64
	seed     int64
	burstsIn string

	useGalaxy bool
	frames    int
	outDir    string

	ensembleRuns int

	svgSize  int
	svgScale float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "galaxia",
		Short: "neural galaxy simulation and pattern reasoning",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: time.TimeOnly,
			})))
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".galaxia", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a galaxy simulation and store the result",
		RunE:  runGalaxy,
	}
	runCmd.Flags().IntVar(&neurons, "neurons", config.DefaultNeurons, "neuron count")
	runCmd.Flags().IntVar(&photons, "photons", config.DefaultPhotons, "photon pool size")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&burstsIn, "bursts", "", "burst injection file (json)")
	runCmd.Flags().IntVar(&ensembleRuns, "ensemble", 1, "number of seeded runs")

	solveCmd := &cobra.Command{
		Use:   "solve [task.json ...]",
		Short: "solve pattern tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE:  solveTasks,
	}
	solveCmd.Flags().BoolVar(&useGalaxy, "galaxy", false, "let the galaxy propose transforms")
	solveCmd.Flags().IntVar(&frames, "frames", 100, "galaxy frames per task")
	solveCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	solveCmd.Flags().StringVar(&outDir, "out", "", "write predictions to this directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a galaxy evolve in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&neurons, "neurons", config.DefaultNeurons, "neuron count")
	liveCmd.Flags().IntVar(&photons, "photons", config.DefaultPhotons, "photon pool size")
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "print the final population snapshot of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  printSnapshot,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectral analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render the final snapshot of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")
	renderCmd.Flags().Float64Var(&svgScale, "scale", 1200, "world radius mapped to the image half-width")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	scenarioCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, solveCmd, liveCmd, listCmd, exportCmd, snapshotCmd,
		analyzeCmd, renderCmd, scenarioCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, config file, and flag overrides, in that
// order of increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
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

	if cmd.Flags().Changed("neurons") {
		cfg.Neurons = neurons
	}
	if cmd.Flags().Changed("photons") {
		cfg.Photons = photons
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("frames") {
		cfg.Solver.Frames = frames
	}
	if cmd.Flags().Changed("galaxy") {
		cfg.Solver.UseGalaxy = useGalaxy
	}
	return cfg, nil
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Neurons:          cfg.Neurons,
		Photons:          cfg.Photons,
		Dt:               cfg.Dt,
		Duration:         cfg.Duration,
		Seed:             cfg.Seed,
		Dynamics:         cfg.DynamicsParams(),
		Diversity:        cfg.DiversityParams(),
		Oracle:           cfg.OracleParams(),
		DiversityEnabled: cfg.Diversity.Enabled,
	}
}

func runGalaxy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	scfg := simConfig(cfg)
	if burstsIn != "" {
		bursts, err := loadBursts(burstsIn)
		if err != nil {
			return err
		}
		scfg.Bursts = bursts
		slog.Info("bursts loaded", "file", burstsIn, "count", len(bursts))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if ensembleRuns > 1 {
		return runEnsemble(ctx, scfg, st, cfg)
	}

	runner := sim.New(scfg)
	runner.AddMetric(metrics.NewMeanTemperature())
	runner.AddMetric(metrics.NewPhotonActivity(scfg.Photons))
	runner.AddMetric(metrics.NewClusterCount())
	runner.AddMetric(metrics.NewEnergyDrift())

	slog.Info("starting run",
		"neurons", scfg.Neurons, "photons", scfg.Photons,
		"dt", scfg.Dt, "duration", scfg.Duration, "seed", scfg.Seed)

	start := time.Now()
	result, err := runner.Run(ctx)
	if result == nil {
		return err
	}
	if err != nil {
		slog.Warn("run interrupted", "err", err, "frames", result.Frames)
	}

	runID, err := st.Save(storage.RunMetadata{
		Seed:     scfg.Seed,
		Dt:       scfg.Dt,
		Duration: scfg.Duration,
		Neurons:  scfg.Neurons,
		Photons:  scfg.Photons,
		Metrics:  result.Metrics,
	}, result.History, result.Final)
	if err != nil {
		return err
	}

	slog.Info("run stored",
		"id", runID, "frames", result.Frames, "elapsed", time.Since(start).Round(time.Millisecond))
	for name, value := range result.Metrics {
		slog.Info("metric", "name", name, "value", value)
	}
	return nil
}

func runEnsemble(ctx context.Context, scfg sim.Config, st *storage.Store, cfg *config.Config) error {
	slog.Info("starting ensemble", "runs", ensembleRuns, "seed_start", scfg.Seed)

	results, err := sim.NewEnsemble(scfg, ensembleRuns, scfg.Seed).Run(ctx)
	if err != nil {
		return err
	}

	for i, result := range results {
		runID, err := st.Save(storage.RunMetadata{
			Seed:     scfg.Seed + int64(i),
			Dt:       scfg.Dt,
			Duration: scfg.Duration,
			Neurons:  scfg.Neurons,
			Photons:  scfg.Photons,
			Metrics:  result.Metrics,
		}, result.History, result.Final)
		if err != nil {
			return err
		}
		slog.Info("run stored", "id", runID, "seed", scfg.Seed+int64(i))
	}
	return nil
}

func solveTasks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	params := cfg.SolverParams()

	solved, scored := 0, 0
	for _, path := range args {
		t, err := task.LoadFile(path)
		if err != nil {
			return err
		}

		start := time.Now()
		res := solver.Solve(t, params)

		attrs := []any{
			"task", res.TaskID,
			"rules", len(res.Rules),
			"elapsed", time.Since(start).Round(time.Millisecond),
		}
		if len(res.Rules) > 0 {
			attrs = append(attrs, "best", res.Rules[0].String())
		}
		if res.Scored > 0 {
			attrs = append(attrs, "correct", fmt.Sprintf("%d/%d", res.Correct, res.Scored))
			scored += res.Scored
			solved += res.Correct
		}
		if params.UseGalaxy {
			attrs = append(attrs, "validity", fmt.Sprintf("%.3f", res.Validity))
		}
		slog.Info("task solved", attrs...)

		if outDir != "" {
			if err := writePredictions(outDir, res); err != nil {
				return err
			}
		}
	}

	if scored > 0 {
		slog.Info("summary", "correct", solved, "scored", scored)
	}
	return nil
}

func writePredictions(dir string, res solver.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	out := make([][][]int, len(res.Outputs))
	for i, g := range res.Outputs {
		out[i] = g.Rows()
	}

	data, err := json.MarshalIndent(out, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(fmt.Sprintf("%s/%s.json", dir, res.TaskID), data, 0644)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	return viz.Run(viz.Options{
		Neurons:          cfg.Neurons,
		Photons:          cfg.Photons,
		Dt:               cfg.Dt,
		Seed:             cfg.Seed,
		Dynamics:         cfg.DynamicsParams(),
		Diversity:        cfg.DiversityParams(),
		DiversityEnabled: cfg.Diversity.Enabled,
	})
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tNEURONS\tFRAMES\tSEED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.Timestamp.Format(time.DateTime), r.Neurons, r.Frames, r.Seed)
	}
	return w.Flush()
}

type exportData struct {
	Meta    storage.RunMetadata `json:"metadata"`
	History []exportFrame       `json:"history"`
}

type exportFrame struct {
	Frame           int     `json:"frame"`
	Time            float64 `json:"time"`
	MeanTemperature float64 `json:"mean_temperature"`
	MeanLuminosity  float64 `json:"mean_luminosity"`
	ActivePhotons   int     `json:"active_photons"`
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}

	data := exportData{Meta: *meta}
	for _, h := range history {
		data.History = append(data.History, exportFrame{
			Frame:           h.Frame,
			Time:            h.Time,
			MeanTemperature: h.MeanTemperature,
			MeanLuminosity:  h.MeanLuminosity,
			ActivePhotons:   h.ActivePhotons,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	history, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("run %s has no frames", args[0])
	}

	temps := analysis.Temperatures(history)
	lums := analysis.Luminosities(history)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tPERIOD (frames)\tDRIFT")
	fmt.Fprintf(w, "temperature\t%.1f\t%.4f\n", analysis.DominantPeriod(temps), analysis.Drift(temps))
	fmt.Fprintf(w, "luminosity\t%.1f\t%.4f\n", analysis.DominantPeriod(lums), analysis.Drift(lums))
	if err := w.Flush(); err != nil {
		return err
	}

	if len(temps) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(temps,
			asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("mean temperature")))
	}
	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, err := st.LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	return export.SnapshotSVG(os.Stdout, states, svgSize, svgScale)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting scenario", "name", sc.Name, "steps", len(sc.Steps))
	results, err := sc.Run(ctx, cfg, st)
	for _, r := range results {
		slog.Info("step stored", "label", r.Label, "id", r.RunID, "frames", r.Frames)
	}
	return err
}

func printSnapshot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, err := st.LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	return particle.WriteSnapshot(os.Stdout, states)
}

type burstFile []struct {
	Time      float64 `json:"time"`
	Emissions []struct {
		X          float64 `json:"x"`
		Y          float64 `json:"y"`
		Z          float64 `json:"z"`
		Wavelength float64 `json:"wavelength"`
		Energy     float64 `json:"energy"`
	} `json:"emissions"`
}

func loadBursts(path string) ([]particle.Burst, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw burstFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse bursts: %w", err)
	}

	bursts := make([]particle.Burst, 0, len(raw))
	for _, b := range raw {
		burst := particle.Burst{Time: b.Time}
		for _, e := range b.Emissions {
			burst.Emissions = append(burst.Emissions, particle.Emission{
				Offset:     vec.New(e.X, e.Y, e.Z),
				Wavelength: e.Wavelength,
				Energy:     e.Energy,
			})
		}
		bursts = append(bursts, burst)
	}
	return bursts, nil
}

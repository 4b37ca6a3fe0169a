package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"gwsurr/internal/analysis"
	"gwsurr/internal/config"
	"gwsurr/internal/fits"
	"gwsurr/internal/store"
	"gwsurr/internal/surrogate"
	"gwsurr/internal/tui"
)

var (
	configFile string
	q          float64
	totalMass  float64
	distance   float64
	theta      float64
	phi        float64
	phiRef     float64
	fLow       float64
	modeKeys   []string
	stack      bool
	gridStart  float64
	gridStop   float64
	gridNum    int
	outPath    string
	outFormat  string
	benchN     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gwsurr",
		Short: "gravitational-wave surrogate model evaluator",
	}

	evalCmd := &cobra.Command{
		Use:   "eval [surrogate_dir]",
		Short: "evaluate the surrogate and write the waveform",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEval,
	}
	evalCmd.Flags().StringVar(&configFile, "config", "", "evaluation profile (yaml)")
	evalCmd.Flags().Float64Var(&q, "q", config.DefaultQ, "mass ratio")
	evalCmd.Flags().Float64Var(&totalMass, "mass", 0, "total mass (solar masses)")
	evalCmd.Flags().Float64Var(&distance, "dist", 0, "distance (Mpc)")
	evalCmd.Flags().Float64Var(&theta, "theta", 0, "polar angle")
	evalCmd.Flags().Float64Var(&phi, "phi", 0, "azimuthal angle")
	evalCmd.Flags().Float64Var(&phiRef, "phi-ref", 0, "phase at peak amplitude")
	evalCmd.Flags().Float64Var(&fLow, "f-low", 0, "minimum starting frequency")
	evalCmd.Flags().StringSliceVar(&modeKeys, "modes", nil, "modes to evaluate (e.g. l2_m2,l2_m-2)")
	evalCmd.Flags().BoolVar(&stack, "stack", false, "keep per-mode columns instead of summing")
	evalCmd.Flags().Float64Var(&gridStart, "t-start", 0, "output grid start (t/M)")
	evalCmd.Flags().Float64Var(&gridStop, "t-stop", 0, "output grid stop (t/M)")
	evalCmd.Flags().IntVar(&gridNum, "t-num", 0, "output grid samples (0 = native grid)")
	evalCmd.Flags().StringVar(&outPath, "out", config.DefaultOutput, "output file")
	evalCmd.Flags().StringVar(&outFormat, "format", config.DefaultFormat, "output format (txt|csv|json)")

	modesCmd := &cobra.Command{
		Use:   "modes [surrogate_dir]",
		Short: "list the modes of a surrogate",
		Args:  cobra.ExactArgs(1),
		RunE:  listModes,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [surrogate_dir]",
		Short: "plot h+ in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotWaveform,
	}
	plotCmd.Flags().Float64Var(&q, "q", config.DefaultQ, "mass ratio")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [surrogate_dir]",
		Short: "print the power spectrum of the strain",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSpectrum,
	}
	spectrumCmd.Flags().Float64Var(&q, "q", config.DefaultQ, "mass ratio")

	benchCmd := &cobra.Command{
		Use:   "bench [surrogate_dir]",
		Short: "time evaluations at random parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  benchSurrogate,
	}
	benchCmd.Flags().IntVar(&benchN, "n", 1000, "number of evaluations")

	exploreCmd := &cobra.Command{
		Use:   "explore [surrogate_dir]",
		Short: "interactive parameter sweep",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sur, err := loadSurrogate(args[0])
			if err != nil {
				return err
			}
			_, err = tui.NewExplorer(sur).Run()
			return err
		},
	}

	demoCmd := &cobra.Command{
		Use:   "init-demo [dir]",
		Short: "write a small analytic surrogate bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.WriteDemo(args[0])
		},
	}

	configCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a default evaluation profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(evalCmd, modesCmd, plotCmd, spectrumCmd, benchCmd, exploreCmd, demoCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadSurrogate(path string) (*surrogate.MultiMode, error) {
	data, err := store.Discover(path)
	if err != nil {
		return nil, err
	}
	return surrogate.NewMultiMode(data, fits.NewRegistry())
}

func buildProfile(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Surrogate = args[0]
	}

	flagSets := map[string]func(){
		"q":       func() { cfg.Q = q },
		"mass":    func() { cfg.TotalMass = totalMass },
		"dist":    func() { cfg.Distance = distance },
		"theta":   func() { cfg.Theta = &theta },
		"phi":     func() { cfg.Phi = &phi },
		"phi-ref": func() { cfg.PhiRef = &phiRef },
		"f-low":   func() { cfg.FLow = fLow },
		"modes":   func() { cfg.Modes = modeKeys },
		"stack":   func() { cfg.Sum = !stack },
		"t-start": func() { cfg.Grid.Start = gridStart },
		"t-stop":  func() { cfg.Grid.Stop = gridStop },
		"t-num":   func() { cfg.Grid.Num = gridNum },
		"out":     func() { cfg.Output = outPath },
		"format":  func() { cfg.Format = outFormat },
	}
	for name, apply := range flagSets {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	if cfg.Surrogate == "" {
		return nil, fmt.Errorf("no surrogate directory given (argument or config)")
	}
	return cfg, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := buildProfile(cmd, args)
	if err != nil {
		return err
	}

	sur, err := loadSurrogate(cfg.Surrogate)
	if err != nil {
		return err
	}

	modes, err := cfg.ModeList()
	if err != nil {
		return err
	}
	samples, err := cfg.Samples()
	if err != nil {
		return err
	}

	opts := surrogate.MultiOpts{
		Opts: surrogate.Opts{
			TotalMass: cfg.TotalMass,
			Distance:  cfg.Distance,
			PhiRef:    cfg.PhiRef,
			FLow:      cfg.FLow,
			Samples:   samples,
		},
		Theta: cfg.Theta,
		Phi:   cfg.Phi,
		Modes: modes,
		Stack: !cfg.Sum,
	}

	wf, err := sur.Evaluate(cfg.Q, opts)
	if err != nil {
		return err
	}
	for _, w := range wf.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	if opts.Stack {
		return writeStacked(cfg, wf)
	}
	out := &surrogate.Waveform{T: wf.T, HPlus: wf.HPlus, HCross: wf.HCross}
	if err := store.WriteWaveform(cfg.Output, cfg.Format, out); err != nil {
		return err
	}
	fmt.Printf("wrote %d samples to %s\n", len(wf.T), cfg.Output)
	return nil
}

// writeStacked saves one waveform file per mode column.
func writeStacked(cfg *config.Config, wf *surrogate.MultiWaveform) error {
	for col, mode := range wf.Modes {
		n := len(wf.T)
		out := &surrogate.Waveform{
			T:      wf.T,
			HPlus:  make([]float64, n),
			HCross: make([]float64, n),
		}
		for i := 0; i < n; i++ {
			out.HPlus[i] = wf.HPlusModes.At(i, col)
			out.HCross[i] = wf.HCrossModes.At(i, col)
		}
		path := strings.TrimSuffix(cfg.Output, "."+cfg.Format) + "_" + mode.Key() + "." + cfg.Format
		if err := store.WriteWaveform(path, cfg.Format, out); err != nil {
			return err
		}
		fmt.Printf("wrote mode %s to %s\n", mode.Key(), path)
	}
	return nil
}

func listModes(cmd *cobra.Command, args []string) error {
	sur, err := loadSurrogate(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tSAMPLES\tFIT INTERVAL")
	interval := sur.FitInterval()
	for _, mode := range sur.Modes() {
		fmt.Fprintf(w, "%s\t%d\t[%g, %g]\n", mode.Key(), len(sur.Times()), interval[0], interval[1])
	}
	return w.Flush()
}

func plotWaveform(cmd *cobra.Command, args []string) error {
	sur, err := loadSurrogate(args[0])
	if err != nil {
		return err
	}

	wf, err := sur.Evaluate(q, surrogate.MultiOpts{})
	if err != nil {
		return err
	}
	for _, w := range wf.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	data := wf.HPlus
	if len(data) > 120 {
		ds := make([]float64, 120)
		for i := range ds {
			ds[i] = data[i*len(data)/120]
		}
		data = ds
	}
	fmt.Printf("h+ at q=%.3f\n", q)
	fmt.Println(asciigraph.Plot(data, asciigraph.Height(18), asciigraph.Width(120)))
	return nil
}

func plotSpectrum(cmd *cobra.Command, args []string) error {
	sur, err := loadSurrogate(args[0])
	if err != nil {
		return err
	}

	wf, err := sur.Evaluate(q, surrogate.MultiOpts{})
	if err != nil {
		return err
	}

	sp, err := analysis.StrainSpectrum(wf.T, wf.HPlus, wf.HCross)
	if err != nil {
		return err
	}

	data := sp.Power
	if len(data) > 120 {
		ds := make([]float64, 120)
		for i := range ds {
			ds[i] = data[i*len(data)/120]
		}
		data = ds
	}
	fmt.Printf("|h(f)| at q=%.3f, peak at %.4g cycles/M\n", q, sp.PeakFrequency())
	fmt.Println(asciigraph.Plot(data, asciigraph.Height(18), asciigraph.Width(120)))
	return nil
}

func benchSurrogate(cmd *cobra.Command, args []string) error {
	sur, err := loadSurrogate(args[0])
	if err != nil {
		return err
	}

	interval := sur.FitInterval()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	tic := time.Now()
	for i := 0; i < benchN; i++ {
		qi := interval[0] + rng.Float64()*(interval[1]-interval[0])
		if _, err := sur.Evaluate(qi, surrogate.MultiOpts{}); err != nil {
			return err
		}
	}
	elapsed := time.Since(tic)

	fmt.Printf("%d evaluations in %v\n", benchN, elapsed)
	fmt.Printf("mean per waveform: %v\n", elapsed/time.Duration(benchN))
	return nil
}

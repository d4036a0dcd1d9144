package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/reel/internal/config"
	"github.com/ensigniasec/reel/internal/source"
	"github.com/ensigniasec/reel/internal/storage"
	"github.com/ensigniasec/reel/internal/trace"
	"github.com/ensigniasec/reel/internal/tui"
)

// exitAborted is the exit code when the picker is closed without a choice.
const exitAborted = 1

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	verbose    bool
	jsonOutput bool
	configFile string
	stateFile  string

	pickStart   int
	seqStart    int
	seqFormat   string
	seqCount    int
	scriptFile  string
	simPool     int
	simTotal    int
	simDrag     []float64
	simTicks    int
	simDT       float64
	forceConfig bool

	rootCmd = &cobra.Command{
		Use:   "reel",
		Short: "A terminal carousel picker for files, lists and sequences.",
		Long:  `reel shows a list as a scrolling carousel of recycled cards. Drag, scroll or jump to an item and press enter to print it. Long and infinite lists stay cheap: only a small pool of cards is ever drawn.`,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format instead of plain text")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/reel/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&stateFile, "state-file", "", "State file holding saved positions (default "+storage.DefaultPath+")")

	pickCmd.Flags().IntVar(&pickStart, "start", -1, "Index to center first (default: the saved position)")
	seqCmd.Flags().StringVar(&seqFormat, "format", "item %d", "fmt format for each item, given its index")
	seqCmd.Flags().IntVar(&seqCount, "count", -1, "Number of items; negative for an endless sequence")
	seqCmd.Flags().IntVar(&seqStart, "start", 0, "Index to center first")

	simulateCmd.Flags().StringVar(&scriptFile, "script", "", "YAML script of steps to run")
	simulateCmd.Flags().IntVar(&simPool, "pool", 0, "Pool size (default from config)")
	simulateCmd.Flags().IntVar(&simTotal, "total", -1, "Number of items; negative for an endless list")
	simulateCmd.Flags().Float64SliceVar(&simDrag, "drag", nil, "Drag deltas in pixels, followed by a release")
	simulateCmd.Flags().IntVar(&simTicks, "ticks", 0, "Frames to tick after the drag")
	simulateCmd.Flags().Float64Var(&simDT, "dt", 1.0/60, "Seconds per tick")

	configInitCmd.Flags().BoolVar(&forceConfig, "force", false, "Overwrite an existing config file")

	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(seqCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(stateCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateClearCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func main() {
	Execute()
}

// setLogLevel applies --verbose and --json to the standard logger.
func setLogLevel() {
	if jsonOutput && !verbose {
		logrus.SetLevel(logrus.WarnLevel)
	} else if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		logrus.Fatal(err)
	}
	return cfg
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var pickCmd = &cobra.Command{
	Use:   "pick PATH",
	Short: "Pick a line, list entry or file from PATH",
	Long:  "Open PATH in the carousel. Text files give one item per line, .json/.yaml/.toml files a list of items and directories their files. The reel resumes where it was last left for PATH and reloads when PATH changes.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		cfg := loadConfig()

		path := args[0]
		name := source.Name(path)
		if _, err := os.Stat(name); err != nil {
			logrus.Fatal(err)
		}

		st, err := storage.NewStorage(stateFile)
		if err != nil {
			logrus.Fatalf("Unable to open or create state file: %v", err)
		}
		start := pickStart
		if start < 0 {
			start, _ = st.Position(name)
		}

		choice, err := tui.Run(cmd.Context(), tui.Options{
			Title:     name,
			Load:      func(ctx context.Context) (source.Source, error) { return source.Open(ctx, name) },
			WatchPath: name,
			Start:     start,
			Config:    cfg,
		})
		if err != nil && !errors.Is(err, tui.ErrAborted) {
			logrus.Fatalf("Picker failed: %v", err)
		}
		// Quitting before the source loaded leaves the saved position alone.
		if errors.Is(err, tui.ErrNotLoaded) {
			os.Exit(exitAborted)
		}

		st.SetPosition(name, choice.Index)
		if saveErr := st.Save(); saveErr != nil {
			logrus.Warnf("Unable to save position: %v", saveErr)
		}
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(exitAborted)
		}
		printChoice(cmd.OutOrStdout(), choice)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var seqCmd = &cobra.Command{
	Use:   "seq",
	Short: "Pick from a generated sequence",
	Long:  "Open a carousel over items generated from --format and their index. Without --count the sequence has no end in either direction.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		cfg := loadConfig()

		choice, err := tui.Run(cmd.Context(), tui.Options{
			Source: source.Sequence{Format: seqFormat, Count: seqCount},
			Start:  seqStart,
			Config: cfg,
		})
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(exitAborted)
		}
		if err != nil {
			logrus.Fatalf("Picker failed: %v", err)
		}
		printChoice(cmd.OutOrStdout(), choice)
	},
}

func printChoice(w io.Writer, choice tui.Choice) {
	if jsonOutput {
		enc := json.NewEncoder(w)
		if err := enc.Encode(choice); err != nil {
			logrus.Fatal(err)
		}
		return
	}
	fmt.Fprintln(w, choice.Item)
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the carousel headless and print every frame",
	Long:  "Build a carousel without a terminal, feed it drags, ticks and jumps from --script or from the --drag/--ticks flags, and print the state after each input.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		cfg := loadConfig()

		script, err := buildScript(cfg)
		if err != nil {
			logrus.Fatal(err)
		}
		curves, err := cfg.CurveSet()
		if err != nil {
			logrus.Fatal(err)
		}
		opts, err := cfg.ViewOptions()
		if err != nil {
			logrus.Fatal(err)
		}

		frames, err := trace.Simulate(script, curves, opts...)
		if err != nil {
			logrus.Fatal(err)
		}
		printFrames(cmd.OutOrStdout(), frames)
	},
}

// buildScript loads --script, or assembles one from the flags.
func buildScript(cfg *config.Config) (trace.Script, error) {
	if scriptFile != "" {
		return trace.LoadScript(scriptFile)
	}
	script := trace.Script{Pool: simPool}
	if script.Pool == 0 {
		script.Pool = cfg.View.PoolSize
	}
	if simTotal >= 0 {
		total := simTotal
		script.Total = &total
	}
	if len(simDrag) > 0 {
		script.Steps = append(script.Steps, trace.Step{Drag: simDrag}, trace.Step{Release: true})
	}
	if simTicks > 0 {
		script.Steps = append(script.Steps, trace.Step{Tick: &trace.TickStep{DT: simDT, Count: simTicks}})
	}
	return script, script.Validate()
}

func printFrames(w io.Writer, frames []trace.Frame) {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(frames); err != nil {
			logrus.Fatal(err)
		}
		return
	}
	fmt.Fprintf(w, "%-5s %-8s %10s %7s %-5s %s\n", "STEP", "OP", "VALUE", "CENTER", "ANIM", "VISIBLE")
	for _, f := range frames {
		visible := make([]string, len(f.Visible))
		for i, v := range f.Visible {
			visible[i] = fmt.Sprint(v)
		}
		line := fmt.Sprintf("%-5d %-8s %10.4f %7d %-5t [%s]", f.Step, f.Op, f.Value, f.CenterIndex, f.Animating, strings.Join(visible, " "))
		if len(f.Events) > 0 {
			line += " " + strings.Join(f.Events, ",")
		}
		fmt.Fprintln(w, line)
	}
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the reel configuration",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write the default configuration",
	Long:  "Write the default configuration to PATH, --config or the default location. The format follows the extension: .yaml, .yml, .toml or .json.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		path := configFile
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			p, err := config.ConfigPath()
			if err != nil {
				logrus.Fatal(err)
			}
			path = p
		}
		if _, err := os.Stat(path); err == nil && !forceConfig {
			logrus.Fatalf("Config %s already exists; use --force to overwrite it", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		cfg := loadConfig()
		name := "config.yaml"
		if jsonOutput {
			name = "config.json"
		}
		data, err := cfg.Marshal(name)
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(data), "\n"))
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or clear saved positions",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved position of every source",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		st, err := storage.NewStorage(stateFile)
		if err != nil {
			logrus.Fatal(err)
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(st.Data); err != nil {
				logrus.Fatal(err)
			}
			return
		}
		if len(st.Data.Positions) == 0 {
			fmt.Fprintln(out, "No saved positions")
			return
		}
		names := make([]string, 0, len(st.Data.Positions))
		for name := range st.Data.Positions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "%6d  %s\n", st.Data.Positions[name], name)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every saved position",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		st, err := storage.NewStorage(stateFile)
		if err != nil {
			logrus.Fatal(err)
		}
		st.Reset()
		if err := st.Save(); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved positions cleared")
	},
}

// Package main provides the CLI entrypoint for keyidle.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/keyidle/internal/catalog"
	"github.com/verte-zerg/keyidle/internal/config"
	"github.com/verte-zerg/keyidle/internal/engine"
	"github.com/verte-zerg/keyidle/internal/generator"
	"github.com/verte-zerg/keyidle/internal/model"
	"github.com/verte-zerg/keyidle/internal/runner"
	"github.com/verte-zerg/keyidle/internal/stats"
	"github.com/verte-zerg/keyidle/internal/store"
	"github.com/verte-zerg/keyidle/internal/tui"
	"github.com/verte-zerg/keyidle/internal/typing"
)

const (
	defaultSaveIntervalSec = 60
	defaultFocusFactor     = 2.0
	defaultFocusWindow     = 50
	defaultCurveWindow     = 20
	defaultStatsTop        = 5
)

var (
	gameSlot         string
	gameTickRate     int
	gameSaveInterval int
	gameCatalog      string
	gameChallenges   string
	gameSeed         int64
	gameFocusHard    bool
	gameFocusFactor  float64
	gameFocusWindow  int

	statsSlot        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTop         int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keyidle",
		Short:         "Idle typing game for the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	addGameFlags(rootCmd)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSaveCmd())

	return rootCmd
}

func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&gameSlot, "slot", runner.DefaultSlot, "save slot")
	cmd.Flags().IntVar(&gameTickRate, "tick-rate", runner.DefaultTickRate, "engine updates per second")
	cmd.Flags().IntVar(&gameSaveInterval, "save-interval", defaultSaveIntervalSec, "autosave interval in seconds")
	cmd.Flags().StringVar(&gameCatalog, "catalog", config.DefaultCatalogPath(), "catalog override (YAML)")
	cmd.Flags().StringVar(&gameChallenges, "challenges-file", "", "plain-text challenges, one per line")
	cmd.Flags().Int64Var(&gameSeed, "seed", 0, "challenge selection seed (0 = random)")
	cmd.Flags().BoolVar(&gameFocusHard, "focus-hard", false, "favor challenges you fail most")
	cmd.Flags().Float64Var(&gameFocusFactor, "focus-factor", defaultFocusFactor, "weight factor for failed challenges")
	cmd.Flags().IntVar(&gameFocusWindow, "focus-window", defaultFocusWindow, "number of recent challenges to compute failure rates")
}

// resolveGameConfig merges the config file into unchanged flags.
func resolveGameConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.GameConfig, error) {
	applyStringConfig(cmd, "slot", &gameSlot, fileCfg.Game.Slot)
	applyIntConfig(cmd, "tick-rate", &gameTickRate, fileCfg.Game.TickRate)
	applyIntConfig(cmd, "save-interval", &gameSaveInterval, fileCfg.Game.SaveInterval)
	applyStringConfig(cmd, "catalog", &gameCatalog, fileCfg.Game.Catalog)
	applyStringConfig(cmd, "challenges-file", &gameChallenges, fileCfg.Game.ChallengesFile)
	applyInt64Config(cmd, "seed", &gameSeed, fileCfg.Game.Seed)
	applyBoolConfig(cmd, "focus-hard", &gameFocusHard, fileCfg.Game.FocusHard)
	applyFloatConfig(cmd, "focus-factor", &gameFocusFactor, fileCfg.Game.FocusFactor)
	applyIntConfig(cmd, "focus-window", &gameFocusWindow, fileCfg.Game.FocusWindow)

	cfg := model.GameConfig{
		Slot:           strings.TrimSpace(gameSlot),
		TickRate:       gameTickRate,
		SaveInterval:   time.Duration(gameSaveInterval) * time.Second,
		CatalogPath:    gameCatalog,
		ChallengesPath: gameChallenges,
		Seed:           gameSeed,
		FocusHard:      gameFocusHard,
		FocusFactor:    gameFocusFactor,
		FocusWindow:    gameFocusWindow,
	}
	if err := validateGameConfig(cfg); err != nil {
		return model.GameConfig{}, err
	}
	return cfg, nil
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := resolveGameConfig(cmd, fileCfg)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	r, err := openGame(ctx, cfg, st)
	if err != nil {
		return err
	}

	m := tui.NewModel(ctx, r, cfg.TickRate)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// openGame builds the engine for cfg and restores its slot.
func openGame(ctx context.Context, cfg model.GameConfig, st *store.Store) (*runner.Runner, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	eng := engine.New(engine.Options{
		Catalog: &cat,
		Picker:  challengePicker(ctx, cfg, cat, st),
	})
	r := runner.New(eng, st, cfg.Slot, cfg.SaveInterval)
	if _, err := r.Restore(ctx, eng.Now()); err != nil {
		return nil, err
	}
	return r, nil
}

func loadCatalog(cfg model.GameConfig) (catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return catalog.Catalog{}, err
	}
	if cfg.ChallengesPath == "" {
		return cat, nil
	}
	texts, err := catalog.LoadChallengeTexts(cfg.ChallengesPath)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("failed to load challenges %s: %w", cfg.ChallengesPath, err)
	}
	cat.Challenges = catalog.CustomChallenges(texts)
	return cat, nil
}

func challengePicker(ctx context.Context, cfg model.GameConfig, cat catalog.Catalog, st *store.Store) typing.Picker {
	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewSeeded(cfg.Seed)
	}
	if !cfg.FocusHard {
		return gen
	}
	aggs, err := st.ChallengeAggregates(ctx, cfg.Slot, cfg.FocusWindow)
	if err != nil {
		logErrf("failed to load challenge history: %v\n", err)
		return gen
	}
	if len(aggs) == 0 {
		logErrln("no challenge history yet; picking challenges uniformly")
		return gen
	}
	return gen.Biased(stats.FailureWeights(cat.Challenges, aggs), cfg.FocusFactor)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show challenge history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSlot, "slot", "", "slot filter (default: all slots)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N challenges")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsTop, "top", defaultStatsTop, "number of most played challenges to list")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}

	cfg := model.StatsConfig{
		Slot:        statsSlot,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Top:         statsTop,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Results); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	width := stats.CurveWidthFor(stats.TerminalWidth(out))
	if err := stats.RenderCurve(out, report.Results, cfg.CurveWindow, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Top) > 0 {
		if _, err := fmt.Fprintf(out, "Most played: %s\n\n", strings.Join(report.Top, ", ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := stats.RenderChallengeTable(out, report.Aggregates); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keyidle configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# slot = %q               # Save slot
# tick-rate = %d           # Engine updates per second
# save-interval = %d       # Autosave interval in seconds
# catalog = %q
# challenges-file = ""      # Plain-text challenges, one per line
# seed = 0                  # Challenge selection seed (0 = random)
# focus-hard = false        # Favor challenges you fail most
# focus-factor = %.1f       # Weight factor for failed challenges
# focus-window = %d         # Number of recent challenges to compute failure rates

[server]
# addr = %q
# actions-per-second = %.1f  # Inbound actions per connection
# burst = %d               # Action burst per connection
`,
		runner.DefaultSlot,
		runner.DefaultTickRate,
		defaultSaveIntervalSec,
		config.DefaultCatalogPath(),
		defaultFocusFactor,
		defaultFocusWindow,
		defaultServeAddr,
		float64(defaultActionsPerSecond),
		defaultActionBurst,
	)
}

func validateGameConfig(cfg model.GameConfig) error {
	if cfg.Slot == "" {
		return fmt.Errorf("--slot must not be empty")
	}
	if cfg.TickRate <= 0 || cfg.TickRate > 120 {
		return fmt.Errorf("--tick-rate must be between 1 and 120")
	}
	if cfg.SaveInterval <= 0 {
		return fmt.Errorf("--save-interval must be > 0")
	}
	if cfg.FocusFactor < 0 {
		return fmt.Errorf("--focus-factor must be >= 0")
	}
	if cfg.FocusWindow < 0 {
		return fmt.Errorf("--focus-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

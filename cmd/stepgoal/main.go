// Package main provides the CLI entrypoint for stepgoal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/stepgoal/internal/config"
	"github.com/verte-zerg/stepgoal/internal/input"
	"github.com/verte-zerg/stepgoal/internal/logger"
	"github.com/verte-zerg/stepgoal/internal/metrics"
	"github.com/verte-zerg/stepgoal/internal/model"
	"github.com/verte-zerg/stepgoal/internal/projection"
	"github.com/verte-zerg/stepgoal/internal/session"
	"github.com/verte-zerg/stepgoal/internal/store"
	"github.com/verte-zerg/stepgoal/internal/tui"
)

var (
	calcAge      int
	calcGender   string
	calcActivity string
	calcHeight   float64
	calcWeight   float64
	calcTarget   float64
	calcDeficit  float64
	calcSteps    float64
	dateFormat   string
	logFile      string
	logLevel     string

	edits           []string
	estimatePlot    bool
	estimateMetrics bool
	estimateHistory bool

	planFormat string
	planOut    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := session.DefaultConfig()
	rootCmd := &cobra.Command{
		Use:           "stepgoal",
		Short:         "Weight-loss calculator balancing calorie deficit and daily steps",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runCalculatorCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&calcAge, "age", defaults.Age, "age in years")
	flags.StringVar(&calcGender, "gender", string(defaults.Gender), "gender (male|female)")
	flags.StringVar(&calcActivity, "activity", string(defaults.Activity), "activity level (sedentary|moderate|heavy)")
	flags.Float64Var(&calcHeight, "height", defaults.HeightCm, "height in cm")
	flags.Float64Var(&calcWeight, "weight", defaults.CurrentWeightKg, "current weight in kg")
	flags.Float64Var(&calcTarget, "target", defaults.TargetWeightKg, "target weight in kg")
	flags.Float64Var(&calcDeficit, "deficit", defaults.Deficit, "daily calorie deficit in kcal")
	flags.Float64Var(&calcSteps, "steps", defaults.StepsPerDay, "steps per day")
	flags.StringVar(&dateFormat, "date-format", defaults.DateLayout, "Go time layout of the target date")
	flags.StringVar(&logFile, "log-file", "", "write diagnostics to this file")
	flags.StringVar(&logLevel, "log-level", "info", "diagnostics level (debug|info|warn|error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newPlanCmd())

	return rootCmd
}

// loadCalculatorConfig merges the config file under the flags and validates
// the result.
func loadCalculatorConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	d := fileCfg.Defaults
	applyIntConfig(cmd, "age", &calcAge, d.Age)
	applyStringConfig(cmd, "gender", &calcGender, d.Gender)
	applyStringConfig(cmd, "activity", &calcActivity, d.Activity)
	applyFloatConfig(cmd, "height", &calcHeight, d.Height)
	applyFloatConfig(cmd, "weight", &calcWeight, d.CurrentWeight)
	applyFloatConfig(cmd, "target", &calcTarget, d.TargetWeight)
	applyFloatConfig(cmd, "deficit", &calcDeficit, d.Deficit)
	applyFloatConfig(cmd, "steps", &calcSteps, d.Steps)
	applyStringConfig(cmd, "date-format", &dateFormat, fileCfg.Display.DateFormat)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)

	if err := validateConfig(calcGender, calcActivity, dateFormat); err != nil {
		return model.Config{}, err
	}
	return model.Config{
		Age:             calcAge,
		Gender:          input.Gender(calcGender),
		Activity:        input.Activity(calcActivity),
		HeightCm:        calcHeight,
		CurrentWeightKg: calcWeight,
		TargetWeightKg:  calcTarget,
		Deficit:         calcDeficit,
		StepsPerDay:     calcSteps,
		DateLayout:      dateFormat,
	}, nil
}

// calculator bundles a session with the collaborators it feeds.
type calculator struct {
	session  *session.Session
	journal  *store.Store
	recorder *metrics.Recorder
	log      *zap.Logger
}

func newCalculator(cfg model.Config) (*calculator, error) {
	log, err := logger.New(logFile, logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	journal, err := store.OpenMemory()
	if err != nil {
		logger.Close(log)
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	recorder := metrics.NewRecorder()
	sess := session.New(
		session.InitialState(cfg),
		session.WithJournal(journal),
		session.WithRecorder(recorder),
		session.WithLogger(log),
		session.WithDateLayout(cfg.DateLayout),
	)
	log.Info("session started",
		zap.String("session", sess.ID()),
		zap.Int("expected_days", sess.State().ExpectedDays),
	)
	return &calculator{session: sess, journal: journal, recorder: recorder, log: log}, nil
}

func (c *calculator) Close() {
	if err := c.journal.Close(); err != nil {
		logErrf("failed to close journal: %v\n", err)
	}
	logger.Close(c.log)
}

// applyEdits applies field=value assignments in order.
func (c *calculator) applyEdits(ctx context.Context, assignments []string) error {
	for _, a := range assignments {
		e, err := input.ParseAssignment(a)
		if err != nil {
			return fmt.Errorf("invalid --edit: %w", err)
		}
		if _, err := c.session.Apply(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (c *calculator) plan() projection.Plan {
	p := projection.Build(c.session.State(), c.session.Now())
	p.DateLayout = dateFormat
	return p
}

func runCalculatorCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCalculatorConfig(cmd)
	if err != nil {
		return err
	}
	calc, err := newCalculator(cfg)
	if err != nil {
		return err
	}
	defer calc.Close()

	ui := tui.NewModel(cmd.Context(), calc.session, calc.log)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Print calculator outputs without the TUI",
		Example: "  stepgoal estimate --weight 80 --target 75 --edit deficit=500\n" +
			"  stepgoal estimate --edit deficit=500 --edit steps=5000 --history",
		Args: cobra.NoArgs,
		RunE: runEstimateCmd,
	}
	cmd.Flags().StringArrayVar(&edits, "edit", nil, "apply field=value in order (repeatable)")
	cmd.Flags().BoolVar(&estimatePlot, "plot", false, "plot the projected weight")
	cmd.Flags().BoolVar(&estimateMetrics, "metrics", false, "print edit metrics in Prometheus text format")
	cmd.Flags().BoolVar(&estimateHistory, "history", false, "print the applied edits")
	return cmd
}

func runEstimateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCalculatorConfig(cmd)
	if err != nil {
		return err
	}
	calc, err := newCalculator(cfg)
	if err != nil {
		return err
	}
	defer calc.Close()

	ctx := cmd.Context()
	if err := calc.applyEdits(ctx, edits); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := projection.RenderSummary(out, calc.session.Outputs(), calc.session.State()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if estimateHistory {
		if err := writeHistory(ctx, out, calc.session); err != nil {
			return err
		}
	}
	if estimatePlot {
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := projection.PlotWeight(out, calc.plan(), 0, 0, false); err != nil {
			return fmt.Errorf("failed to plot: %w", err)
		}
	}
	if estimateMetrics {
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := calc.recorder.WriteText(out); err != nil {
			return err
		}
	}
	return nil
}

func writeHistory(ctx context.Context, w io.Writer, sess *session.Session) error {
	entries, err := sess.History(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	count, err := sess.EditCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count edits: %w", err)
	}
	if _, err := fmt.Fprintf(w, "\nEdits (%d):\n", count); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for i, e := range entries {
		_, err := fmt.Fprintf(w, "%d. %s=%s  %s pass  %d -> %d days\n",
			i+1, e.Field, e.Value, e.Pass, e.Before.ExpectedDays, e.After.ExpectedDays)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print or export the weekly projection",
		Args:  cobra.NoArgs,
		RunE:  runPlanCmd,
	}
	cmd.Flags().StringArrayVar(&edits, "edit", nil, "apply field=value in order (repeatable)")
	cmd.Flags().StringVar(&planFormat, "format", "text", "output format (text|csv|json)")
	cmd.Flags().StringVar(&planOut, "out", "", "write to this file instead of stdout")
	return cmd
}

func runPlanCmd(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(strings.TrimSpace(planFormat))
	if format != "text" && format != "csv" && format != "json" {
		return fmt.Errorf("--format must be text, csv or json")
	}
	cfg, err := loadCalculatorConfig(cmd)
	if err != nil {
		return err
	}
	calc, err := newCalculator(cfg)
	if err != nil {
		return err
	}
	defer calc.Close()

	if err := calc.applyEdits(cmd.Context(), edits); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if planOut != "" {
		f, err := os.Create(planOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", planOut, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logErrf("failed to close %s: %v\n", planOut, cerr)
			}
		}()
		out = f
	}

	p := calc.plan()
	switch format {
	case "csv":
		err = projection.WriteCSV(out, p)
	case "json":
		err = projection.WriteJSON(out, p)
	default:
		err = projection.RenderPlan(out, p)
	}
	if err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	if planOut != "" {
		logErrf("Wrote %s\n", planOut)
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	d := session.DefaultConfig()
	return fmt.Sprintf(`# stepgoal configuration
# Uncomment a value to enable it. CLI flags override config values.

[defaults]
# age = %d                  # Age in years
# gender = %q           # male or female
# activity = %q    # sedentary, moderate or heavy
# height = %g              # Height in cm
# current-weight = %g       # Current weight in kg
# target-weight = %g        # Target weight in kg
# deficit = %g               # Daily calorie deficit in kcal
# steps = %g             # Steps per day

[display]
# date-format = %q  # Go time layout of the target date

[log]
# file = %q
# level = "info"             # debug, info, warn or error
`,
		d.Age,
		d.Gender,
		d.Activity,
		d.HeightCm,
		d.CurrentWeightKg,
		d.TargetWeightKg,
		d.Deficit,
		d.StepsPerDay,
		d.DateLayout,
		config.DefaultLogPath(),
	)
}

func validateConfig(gender, activity, layout string) error {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case string(model.Male), string(model.Female):
	default:
		return fmt.Errorf("--gender must be male or female")
	}
	switch strings.ToLower(strings.TrimSpace(activity)) {
	case string(model.Sedentary), string(model.Moderate), string(model.Heavy):
	default:
		return fmt.Errorf("--activity must be sedentary, moderate or heavy")
	}
	if strings.TrimSpace(layout) == "" {
		return fmt.Errorf("--date-format must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

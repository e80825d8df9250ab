// Package main provides the CLI entrypoint for scoretally.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/scoretally/internal/config"
	"github.com/verte-zerg/scoretally/internal/model"
	"github.com/verte-zerg/scoretally/internal/parser"
	"github.com/verte-zerg/scoretally/internal/stats"
	"github.com/verte-zerg/scoretally/internal/statsui"
	"github.com/verte-zerg/scoretally/internal/store"
)

const (
	defaultOrder        = "name"
	defaultLogLevel     = "warn"
	defaultHistoryLimit = 20
)

// ErrMissingArgument is returned when no input file is given.
var ErrMissingArgument = errors.New("expected filename")

var (
	reportOrder   string
	reportTrim    bool
	reportTable   bool
	reportNoDebug bool
	reportSave    bool
	logLevel      string

	historyLimit int
)

func main() {
	if err := run(context.Background(), newRootCmd(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, rootCmd *cobra.Command, args []string) error {
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(inputFileArgs(rootCmd, args))
	return rootCmd.ExecuteContext(ctx)
}

// inputFileArgs moves a first positional argument that names both a subcommand
// and an existing regular file behind "--", so it is read as the input file.
func inputFileArgs(rootCmd *cobra.Command, args []string) []string {
	i := firstPositional(rootCmd, args)
	if i < 0 || !isSubcommand(rootCmd, args[i]) {
		return args
	}
	info, err := os.Stat(args[i])
	if err != nil || !info.Mode().IsRegular() {
		return args
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args[:i]...)
	out = append(out, args[i+1:]...)
	return append(out, "--", args[i])
}

func firstPositional(rootCmd *cobra.Command, args []string) int {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return -1
		case strings.HasPrefix(arg, "--"):
			name, _, hasValue := strings.Cut(arg[2:], "=")
			if hasValue {
				continue
			}
			flag := rootCmd.Flags().Lookup(name)
			if flag == nil {
				flag = rootCmd.PersistentFlags().Lookup(name)
			}
			if flag != nil && flag.NoOptDefVal == "" {
				i++
			}
		case strings.HasPrefix(arg, "-") && arg != "-":
			continue
		default:
			return i
		}
	}
	return -1
}

func isSubcommand(rootCmd *cobra.Command, name string) bool {
	for _, sub := range rootCmd.Commands() {
		if sub.Name() == name || sub.HasAlias(name) {
			return true
		}
	}
	return false
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "scoretally <file>",
		Short:         "Summarize per-person test scores from a text file",
		Long:          "Summarize per-person test scores from a text file.\n\n" +
			"A file whose name matches a subcommand (history, replay, view, config) is read\n" +
			"as the input file when it exists. Use \"scoretally -- <file>\" to force it.",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          exactlyOneFile,
		RunE:          runReportCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&reportOrder, "order", defaultOrder, "report order: name or first-seen")
	flags.BoolVar(&reportTrim, "trim-names", false, "strip surrounding whitespace from names")
	flags.BoolVar(&reportTable, "table", false, "print an aligned table instead of sentences")
	flags.BoolVar(&reportNoDebug, "no-debug", false, "skip the parsed record dump")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "diagnostic log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&reportSave, "save", false, "store the parsed records in the run history")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newViewCmd())

	return rootCmd
}

func exactlyOneFile(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return ErrMissingArgument
	case 1:
		return nil
	default:
		return fmt.Errorf("expected exactly one filename, got %d arguments", len(args))
	}
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	order, err := stats.ParseOrder(cfg.Order)
	if err != nil {
		return err
	}

	path := args[0]
	logger.Debug("parsing score file", slog.String("path", path), slog.Bool("trim_names", cfg.TrimNames))
	records, err := parser.ParseFile(path, parser.Options{TrimNames: cfg.TrimNames})
	if err != nil {
		return err
	}
	logger.Debug("parsed score file", slog.Int("records", len(records)))

	if cfg.Save {
		id, err := saveRun(cmd.Context(), path, records)
		if err != nil {
			return err
		}
		logger.Info("saved run", slog.Int64("run_id", id), slog.String("path", path))
	}
	return writeReport(cmd.OutOrStdout(), records, order, cfg)
}

// setup resolves flags against the config file and builds the diagnostic logger.
func setup(cmd *cobra.Command) (model.ReportConfig, *slog.Logger, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.ReportConfig{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "order", &reportOrder, fileCfg.Report.Order)
	applyBoolConfig(cmd, "trim-names", &reportTrim, fileCfg.Report.TrimNames)
	applyBoolConfig(cmd, "table", &reportTable, fileCfg.Report.Table)
	applyBoolConfig(cmd, "save", &reportSave, fileCfg.Report.Save)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	if fileCfg.Report.Debug != nil {
		noDebug := !*fileCfg.Report.Debug
		applyBoolConfig(cmd, "no-debug", &reportNoDebug, &noDebug)
	}

	cfg := model.ReportConfig{
		Order:     reportOrder,
		TrimNames: reportTrim,
		Debug:     !reportNoDebug,
		Table:     reportTable,
		Save:      reportSave && cmd.Flags().Lookup("save") != nil,
		LogLevel:  logLevel,
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return model.ReportConfig{}, nil, err
	}
	return cfg, logger, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// writeReport prints the record dump and per-person summary. Nothing is
// written unless the whole input parsed.
func writeReport(w io.Writer, records []model.Record, order stats.Order, cfg model.ReportConfig) error {
	tally, err := stats.Aggregate(records)
	if err != nil {
		return err
	}
	if cfg.Debug {
		if err := stats.RenderDebug(w, records); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	render := stats.RenderSummary
	if cfg.Table {
		render = stats.RenderTable
	}
	if err := render(w, tally, order); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func saveRun(ctx context.Context, path string, records []model.Record) (int64, error) {
	source, err := filepath.Abs(path)
	if err != nil {
		source = path
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return 0, fmt.Errorf("failed to open history db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history db: %v\n", cerr)
		}
	}()
	id, err := st.InsertRun(ctx, model.Run{SourcePath: source, LoadedAt: time.Now()}, records)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	return id, nil
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
	if err := ensureConfigFile(path); err != nil {
		return err
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

func ensureConfigFile(path string) error {
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
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "number of runs to show (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if _, _, err := setup(cmd); err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history db: %v\n", cerr)
		}
	}()

	runs, err := st.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		logErrln("No saved runs. Save one with: scoretally --save <file>")
		return nil
	}
	headers := []string{"ID", "Loaded", "Records", "Source"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.LoadedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(run.RecordCount),
			run.SourcePath,
		})
	}
	for _, line := range stats.FormatTable(headers, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Print the summary of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplayCmd,
	}
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	order, err := stats.ParseOrder(cfg.Order)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history db: %v\n", cerr)
		}
	}()

	records, err := st.ListRecords(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", id, err)
	}
	logger.Debug("loaded run", slog.Int64("run_id", id), slog.Int("records", len(records)))
	return writeReport(cmd.OutOrStdout(), records, order, cfg)
}

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <file>",
		Short: "Browse the summary interactively",
		Args:  exactlyOneFile,
		RunE:  runViewCmd,
	}
}

func runViewCmd(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("view needs a terminal; use scoretally --table %s instead", args[0])
	}
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	order, err := stats.ParseOrder(cfg.Order)
	if err != nil {
		return err
	}
	records, err := parser.ParseFile(args[0], parser.Options{TrimNames: cfg.TrimNames})
	if err != nil {
		return err
	}
	logger.Debug("parsed score file", slog.String("path", args[0]), slog.Int("records", len(records)))

	tally, err := stats.Aggregate(records)
	if err != nil {
		return err
	}
	m := statsui.NewModel(args[0], tally, order)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run view: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	flag := cmd.Flags().Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	flag := cmd.Flags().Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# scoretally configuration
# Uncomment a value to enable it. CLI flags override config values.

[report]
# order = %q          # name or first-seen
# trim-names = false     # Strip whitespace around names before aggregating
# debug = true           # Print the parsed record dump before the summary
# table = false          # Print an aligned table instead of sentences
# save = false           # Store parsed records in the run history

[log]
# level = %q           # debug, info, warn or error
`,
		defaultOrder,
		defaultLogLevel,
	)
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

// Package main provides the CLI entrypoint for tallybox.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tallybox/internal/config"
	"github.com/verte-zerg/tallybox/internal/firmware"
	"github.com/verte-zerg/tallybox/internal/hal"
	"github.com/verte-zerg/tallybox/internal/journal"
	"github.com/verte-zerg/tallybox/internal/panel"
	"github.com/verte-zerg/tallybox/internal/report"
	"github.com/verte-zerg/tallybox/internal/script"
	"github.com/verte-zerg/tallybox/internal/sim"
)

const (
	defaultSpeed       = 1.0
	defaultHoldMs      = 150
	defaultHistoryLast = 20
)

var (
	panelSpeed  float64
	panelHoldMs int

	journalEnabled bool
	journalPath    string

	historySession int64
	historyLast    int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tallybox",
		Short:         "Four-button voting tally simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPanelCmd,
	}

	rootCmd.Flags().Float64Var(&panelSpeed, "speed", defaultSpeed, "clock speed multiplier for the simulated device")
	rootCmd.Flags().IntVar(&panelHoldMs, "hold-ms", defaultHoldMs, "how long a key press holds a button down (ms)")
	rootCmd.PersistentFlags().BoolVar(&journalEnabled, "journal", true, "record sessions in the event journal")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal-path", config.DefaultJournalPath(), "event journal database path")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func loadFileConfig(cmd *cobra.Command) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "speed", &panelSpeed, fileCfg.Panel.Speed)
	applyIntConfig(cmd, "hold-ms", &panelHoldMs, fileCfg.Panel.HoldMs)
	applyBoolConfig(cmd, "journal", &journalEnabled, fileCfg.Journal.Enabled)
	applyStringConfig(cmd, "journal-path", &journalPath, fileCfg.Journal.Path)
	return nil
}

func runPanelCmd(cmd *cobra.Command, _ []string) error {
	if err := loadFileConfig(cmd); err != nil {
		return err
	}
	if err := validatePanel(panelSpeed, panelHoldMs); err != nil {
		return err
	}

	board := sim.NewBoard()
	var model *panel.Model
	var observer firmware.Observer
	if journalEnabled {
		j, err := journal.Open(journalPath)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer closeJournal(j)
		rec, err := journal.NewRecorder(context.Background(), j, "panel", func(err error) {
			if model != nil {
				model.ReportError(fmt.Errorf("failed to record event: %w", err))
			}
		})
		if err != nil {
			return fmt.Errorf("failed to start journal session: %w", err)
		}
		defer func() {
			if cerr := rec.Close(context.Background()); cerr != nil {
				logErrf("failed to end journal session: %v\n", cerr)
			}
		}()
		observer = rec
	}

	device := firmware.New(board, hal.RealClock{Scale: panelSpeed}, observer)
	model = panel.NewModel(device, board, time.Duration(panelHoldMs)*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := device.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			model.ReportError(err)
		}
	}()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run panel: %w", err)
	}
	return nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.toml>",
		Short: "Play a press script headlessly and print the display",
		Args:  cobra.ExactArgs(1),
		RunE:  runScriptCmd,
	}
}

func runScriptCmd(cmd *cobra.Command, args []string) error {
	if err := loadFileConfig(cmd); err != nil {
		return err
	}
	s, err := script.Load(args[0])
	if err != nil {
		return err
	}

	var observer firmware.Observer
	if journalEnabled {
		j, err := journal.Open(journalPath)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer closeJournal(j)
		rec, err := journal.NewRecorder(cmd.Context(), j, "script", func(err error) {
			logErrf("failed to record event: %v\n", err)
		})
		if err != nil {
			return fmt.Errorf("failed to start journal session: %w", err)
		}
		defer func() {
			if cerr := rec.Close(context.Background()); cerr != nil {
				logErrf("failed to end journal session: %v\n", cerr)
			}
		}()
		observer = rec
	}

	res := script.Run(s, observer)
	out := cmd.OutOrStdout()
	border := "+" + strings.Repeat("-", len(res.Lines[0])) + "+"
	lines := []string{border}
	for _, line := range res.Lines {
		lines = append(lines, "|"+line+"|")
	}
	lines = append(lines,
		border,
		fmt.Sprintf("counts: A=%d B=%d C=%d D=%d", res.Counts.A, res.Counts.B, res.Counts.C, res.Counts.D),
		fmt.Sprintf("next reset: %s", res.Mode),
		fmt.Sprintf("events: %d  simulated time: %s", len(res.Events), res.Elapsed),
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded sessions or the events of one session",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().Int64Var(&historySession, "session", 0, "show events of this session id")
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to last N sessions (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if err := loadFileConfig(cmd); err != nil {
		return err
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	j, err := journal.Open(journalPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer closeJournal(j)

	ctx := cmd.Context()
	var lines []string
	if historySession > 0 {
		entries, err := j.ListEvents(ctx, historySession)
		if err != nil {
			return fmt.Errorf("failed to load session %d: %w", historySession, err)
		}
		if len(entries) == 0 {
			logErrf("session %d has no events\n", historySession)
			return nil
		}
		lines = report.EventsTable(entries)
	} else {
		sessions, err := j.ListSessions(ctx, historyLast)
		if err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}
		if len(sessions) == 0 {
			logErrln("no sessions recorded yet")
			return nil
		}
		lines = report.SessionsTable(sessions)
	}

	for _, line := range report.Truncate(lines, report.TerminalWidth()) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
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

func closeJournal(j *journal.Journal) {
	if cerr := j.Close(); cerr != nil {
		logErrf("failed to close journal: %v\n", cerr)
	}
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
	return fmt.Sprintf(`# tallybox configuration
# Uncomment a value to enable it. CLI flags override config values.
# These settings only affect the simulator, never the device behaviour.

[panel]
# speed = %.1f            # Clock speed multiplier for the simulated device
# hold-ms = %d            # How long a key press holds a button down (ms)

[journal]
# enabled = true          # Record sessions in the event journal
# path = %q
`,
		defaultSpeed,
		defaultHoldMs,
		config.DefaultJournalPath(),
	)
}

func validatePanel(speed float64, holdMs int) error {
	if speed <= 0 {
		return fmt.Errorf("--speed must be > 0")
	}
	if holdMs <= 0 {
		return fmt.Errorf("--hold-ms must be > 0")
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

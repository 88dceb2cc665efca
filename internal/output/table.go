// Package output provides terminal output utilities for powertrim.
//
// This package includes:
//   - Table rendering for step results, operation history, and journal events
//   - A spinner for indeterminate operations
//   - Human-readable formatting for relative times and durations
//
// All table rendering functions use ASCII characters and ANSI color codes for
// terminal output. The spinner is thread-safe.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"powertrim/internal/engine"
	"powertrim/internal/journal"
)

// ANSI color codes for result display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderStepTable renders the per-step results of an apply or restore run.
// Note: Does not reorder - steps are shown in execution order.
func RenderStepTable(steps []engine.Step) string {
	if len(steps) == 0 {
		return "No steps executed.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-8s %-28s %s\n", "Result", "Step", "Detail"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for _, step := range steps {
		label, color := stepResult(step)
		sb.WriteString(fmt.Sprintf("%s %-28s %s\n",
			colorize(color, fmt.Sprintf("%-8s", label)),
			truncate(step.Name, 28),
			step.Detail))
	}

	return sb.String()
}

// stepResult returns the label and color for one step outcome.
func stepResult(step engine.Step) (string, string) {
	switch {
	case step.OK:
		return "✓ ok", colorGreen
	case step.Soft:
		return "⚠ warn", colorYellow
	default:
		return "✗ failed", colorRed
	}
}

// RenderOperationTable renders operation history rows.
// Note: Does not sort - expects operations to be pre-sorted by the caller
// (the journal returns newest first).
func RenderOperationTable(ops []journal.Operation) string {
	if len(ops) == 0 {
		return "No operations recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-10s %-10s %-12s %-18s %-10s %s\n",
		"ID", "Operation", "Mode", "Started", "Duration", "Result"))
	sb.WriteString(strings.Repeat("─", 76))
	sb.WriteString("\n")

	for _, op := range ops {
		mode := op.Mode
		if mode == "" {
			mode = "—"
		}

		sb.WriteString(fmt.Sprintf("%-10s %-10s %-12s %-18s %-10s %s\n",
			shortID(op.ID),
			op.Kind,
			mode,
			humanize.Time(op.StartedAt),
			formatOpDuration(op),
			renderOpResult(op)))
	}

	return sb.String()
}

// RenderEventTable renders the step-level events of one operation.
func RenderEventTable(events []journal.Event) string {
	if len(events) == 0 {
		return "No events recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-10s %-7s %-28s %s\n", "Time", "Level", "Step", "Message"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, ev := range events {
		sb.WriteString(fmt.Sprintf("%-10s %s %-28s %s\n",
			ev.At.Format("15:04:05"),
			colorize(levelColor(ev.Level), fmt.Sprintf("%-7s", ev.Level)),
			truncate(ev.Step, 28),
			ev.Message))
	}

	return sb.String()
}

// shortID abbreviates a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatOpDuration returns the elapsed time of a finished operation, or "—"
// for one still running (or killed before finishing).
func formatOpDuration(op journal.Operation) string {
	if op.FinishedAt.IsZero() {
		return "—"
	}
	d := op.FinishedAt.Sub(op.StartedAt)
	if d < 0 {
		d = 0
	}
	return d.Round(10 * time.Millisecond).String()
}

// renderOpResult returns the colored result column for an operation.
func renderOpResult(op journal.Operation) string {
	if op.FinishedAt.IsZero() {
		return colorize(colorGray, "running")
	}
	if op.Success {
		return colorize(colorGreen, "ok")
	}
	return colorize(colorRed, "failed")
}

// levelColor maps a journal event level to its display color.
func levelColor(level string) string {
	switch level {
	case journal.LevelError:
		return colorRed
	case journal.LevelWarn:
		return colorYellow
	default:
		return colorGray
	}
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

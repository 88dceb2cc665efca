package app

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"powertrim/internal/config"
	"powertrim/internal/journal"
	"powertrim/internal/output"
)

var (
	logFlagLimit  int
	logFlagEvents string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the operation journal",
	Long: `Show the journal of apply, restore, schedule, and cancel operations.

Every mode operation is recorded with per-step events: what each directive
did, what it failed on, and what was merely a warning. The journal is the
authoritative record of what powertrim changed; the console output of a
run mirrors it.

By default the most recent operations are listed. Use --events with an
operation id (a prefix is enough) or 'latest' to see the step-level events
of one operation.`,
	Example: `  # Recent operations
  powertrim log

  # More history
  powertrim log --limit 50

  # Step events of the newest operation
  powertrim log --events latest

  # Step events of one operation by id prefix
  powertrim log --events a1b2c3d4`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func init() {
	logCmd.Flags().IntVar(&logFlagLimit, "limit", 10, "number of operations to show")
	logCmd.Flags().StringVar(&logFlagEvents, "events", "", "show step events for an operation (id prefix or 'latest')")

	RootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	if logFlagLimit < 1 {
		return fmt.Errorf("--limit must be at least 1, got %d", logFlagLimit)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.JournalPath()); os.IsNotExist(err) {
		fmt.Print(output.RenderOperationTable(nil))
		return nil
	}

	j, err := journal.New(cfg.JournalPath())
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer j.Close()

	if logFlagEvents != "" {
		return showEvents(j, logFlagEvents)
	}

	list, err := j.RecentOperations(logFlagLimit)
	if err != nil {
		return err
	}
	ops := make([]journal.Operation, len(list))
	for i, op := range list {
		ops[i] = *op
	}
	fmt.Print(output.RenderOperationTable(ops))
	return nil
}

// showEvents renders the step events of one operation.
func showEvents(j *journal.Journal, ref string) error {
	op, err := j.FindOperation(ref)
	if err != nil {
		return err
	}

	list, err := j.Events(op.ID)
	if err != nil {
		return err
	}
	events := make([]journal.Event, len(list))
	for i, ev := range list {
		events[i] = *ev
	}

	desc := op.Kind
	if op.Mode != "" {
		desc += " " + op.Mode
	}
	fmt.Printf("Operation %s (%s, started %s):\n\n", op.ID, desc, humanize.Time(op.StartedAt))
	fmt.Print(output.RenderEventTable(events))
	return nil
}

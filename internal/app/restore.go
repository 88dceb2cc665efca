package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"powertrim/internal/config"
	"powertrim/internal/journal"
	"powertrim/internal/lock"
	"powertrim/internal/mode"
	"powertrim/internal/output"
	"powertrim/internal/sched"
	"powertrim/internal/settings"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the settings captured before the first apply",
	Long: `Replay the backup snapshot and return the machine to the settings it had
before the first profile was applied.

The snapshot is consumed on restore: power plan, brightness, wireless,
services, and startup items are put back, the backup file is removed, and
any pending automatic restore is canceled. Individual steps that fail are
recorded in the journal and shown in the result table; the rest of the
restore still runs.

With no profile applied there is nothing to restore; the command says so
and exits successfully.`,
	Example: `  # Put the original settings back
  powertrim restore`,
	Args: cobra.NoArgs,
	RunE: runRestore,
}

func init() {
	RootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return restoreSettings(cfg)
}

// restoreSettings runs the full restore operation: lock, transition guard,
// snapshot replay, mode commit. Shared by 'restore' and the scheduled
// revert waiter.
func restoreSettings(cfg *config.Config) error {
	l, err := lock.Acquire(cfg.LockPath(), cfg.LockTimeout)
	if err != nil {
		return err
	}
	defer l.Release()

	tracker := mode.NewTracker(cfg.ModePath())
	current, err := tracker.Current()
	if err != nil {
		return err
	}
	if err := mode.Validate(current, mode.Restored); err != nil {
		if errors.Is(err, mode.ErrNothingToRestore) {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			return nil
		}
		return err
	}

	eng, _, err := newEngine(cfg)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	op, err := j.Begin(journal.KindRestore, "")
	if err != nil {
		return err
	}
	eng.SetRecorder(op)
	eng.SetRevertCanceler(sched.New(cfg.MarkerPath(), cfg.WaiterLogPath()))

	spinner := output.NewSpinner("Restoring original settings")
	spinner.Start()
	result, err := eng.Restore()
	spinner.Stop()
	if err != nil {
		if errors.Is(err, settings.ErrNoSnapshot) {
			// The mode says a profile is applied but the backup is gone.
			// Nothing to replay; leave the mode for status to show.
			op.Event(journal.LevelWarn, "restore", err.Error())
			op.Finish(true)
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			return nil
		}
		op.Finish(false)
		return err
	}

	fmt.Println()
	fmt.Print(output.RenderStepTable(result.Steps))

	// The snapshot is consumed, so the mode goes to restored even after
	// partial failures: a second restore has nothing left to replay.
	if err := tracker.Set(mode.Restored); err != nil {
		op.Finish(false)
		return fmt.Errorf("settings restored but failed to record mode: %w", err)
	}
	op.Finish(result.Success())

	fmt.Println()
	if fails := result.Failed(); len(fails) > 0 {
		fmt.Fprintf(os.Stderr, "⚠️  Restore completed with %d failed steps. The snapshot is consumed;\n", len(fails))
		fmt.Fprintf(os.Stderr, "fix the steps above by hand, or see 'powertrim log' for details.\n")
	} else {
		fmt.Printf("✓ Original settings restored\n")
	}
	return nil
}

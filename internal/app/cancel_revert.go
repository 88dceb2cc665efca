package app

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"powertrim/internal/config"
	"powertrim/internal/journal"
	"powertrim/internal/lock"
	"powertrim/internal/sched"
)

var cancelRevertCmd = &cobra.Command{
	Use:   "cancel-revert",
	Short: "Cancel a scheduled automatic restore",
	Long: `Cancel the automatic restore scheduled by 'apply --revert-after'.

The waiter process notices the cancellation and exits without restoring
anything. The applied profile stays in place until 'powertrim restore'.`,
	Example: `  # Cancel the pending automatic restore
  powertrim cancel-revert`,
	Args: cobra.NoArgs,
	RunE: runCancelRevert,
}

func init() {
	RootCmd.AddCommand(cancelRevertCmd)
}

func runCancelRevert(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Taking the lock first means a revert that already fired blocks the
	// cancel instead of racing it.
	l, err := lock.Acquire(cfg.LockPath(), cfg.LockTimeout)
	if err != nil {
		return err
	}
	defer l.Release()

	s := sched.New(cfg.MarkerPath(), cfg.WaiterLogPath())
	marker, err := s.Pending()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		if err := s.Cancel(); err != nil {
			return err
		}
		fmt.Println("✓ Removed the unreadable revert marker")
		return nil
	}
	if marker == nil {
		fmt.Println("No revert is scheduled.")
		return nil
	}

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	op, err := j.Begin(journal.KindCancel, "")
	if err != nil {
		return err
	}

	if err := s.Cancel(); err != nil {
		op.Event(journal.LevelError, "cancel-revert", err.Error())
		op.Finish(false)
		return fmt.Errorf("failed to cancel revert: %w", err)
	}
	op.Event(journal.LevelInfo, "cancel-revert",
		fmt.Sprintf("canceled revert scheduled for %s (pid %d)", marker.FireAt.Format(time.RFC3339), marker.PID))
	op.Finish(true)

	fmt.Printf("✓ Canceled the restore scheduled to fire %s\n", humanize.Time(marker.FireAt))
	return nil
}

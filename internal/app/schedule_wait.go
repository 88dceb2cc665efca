package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"powertrim/internal/config"
	"powertrim/internal/sched"
)

var scheduleWaitFlagMinutes int

var scheduleWaitCmd = &cobra.Command{
	Use:    "schedule-wait",
	Short:  "Wait out a revert delay, then restore (internal)",
	Hidden: true,
	Long: `schedule-wait is the detached child spawned by 'apply --revert-after'.

It watches the revert marker until the scheduled time. If the marker is
removed (cancel-revert, or a manual restore) or rewritten for a newer
waiter, it exits without acting. When the delay elapses it runs the same
restore operation as 'powertrim restore' and exits.

Not intended to be invoked directly; its output goes to revert.log in the
state directory.`,
	Args: cobra.NoArgs,
	RunE: runScheduleWait,
}

func init() {
	scheduleWaitCmd.Flags().IntVar(&scheduleWaitFlagMinutes, "minutes", 0, "scheduled delay in minutes (informational; the marker is authoritative)")

	RootCmd.AddCommand(scheduleWaitCmd)
}

func runScheduleWait(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s := sched.New(cfg.MarkerPath(), cfg.WaiterLogPath())
	return s.Wait(func() error {
		fmt.Printf("Revert delay elapsed; restoring original settings (pid %d)\n", os.Getpid())
		return restoreSettings(cfg)
	})
}

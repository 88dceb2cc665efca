package app

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"powertrim/internal/config"
	"powertrim/internal/journal"
	"powertrim/internal/mode"
	"powertrim/internal/sched"
	"powertrim/internal/settings"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current mode, backup, and scheduled revert",
	Long: `Display what powertrim has done to this machine and what it is about to do.

Shows:
  • Which profile is applied, if any
  • Whether a backup snapshot exists and what it captured
  • Any pending automatic restore and when it fires
  • The most recent journal operation

Status only reads state; it never changes settings.`,
	Example: `  # Check status
  powertrim status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	// Register with root command
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	const label = "%-14s"

	fmt.Println()

	// Mode line
	current, err := mode.NewTracker(cfg.ModePath()).Current()
	switch {
	case err != nil:
		fmt.Printf(label+"unknown ⚠  (%v)\n", "Mode:", err)
	case current == mode.Restored:
		fmt.Printf(label+"restored  (run 'powertrim apply powersaver' to apply a profile)\n", "Mode:")
	default:
		applied := ""
		if fi, statErr := os.Stat(cfg.ModePath()); statErr == nil {
			applied = fmt.Sprintf("applied %s · ", humanize.Time(fi.ModTime()))
		}
		fmt.Printf(label+"%s  (%srestore with 'powertrim restore')\n", "Mode:", current, applied)
	}

	// Backup line
	store := settings.NewStore(cfg.SnapshotPath())
	if !store.Exists() {
		fmt.Printf(label+"none\n", "Backup:")
	} else if snap, loadErr := store.Load(); loadErr != nil {
		fmt.Printf(label+"unreadable ⚠  (%v)\n", "Backup:", loadErr)
	} else {
		startup := len(snap.RegistryRun) + len(snap.Shortcuts)
		fmt.Printf(label+"present  (captured %s · %d services · %d startup items)\n",
			"Backup:", humanize.Time(snap.CapturedAt), len(snap.Services), startup)
	}

	// Revert line
	s := sched.New(cfg.MarkerPath(), cfg.WaiterLogPath())
	if marker, pendErr := s.Pending(); pendErr != nil {
		fmt.Printf(label+"unreadable ⚠  (remove with 'powertrim cancel-revert')\n", "Revert:")
	} else if marker == nil {
		fmt.Printf(label+"none scheduled\n", "Revert:")
	} else {
		fmt.Printf(label+"restore fires %s (PID %d)\n", "Revert:", humanize.Time(marker.FireAt), marker.PID)
	}

	// Last operation line
	fmt.Printf(label+"%s\n", "Last op:", lastOperationLine(cfg))

	fmt.Printf(label+"%s\n", "State dir:", cfg.StateDir)

	fmt.Println()
	return nil
}

// lastOperationLine summarizes the newest journal operation.
func lastOperationLine(cfg *config.Config) string {
	if _, err := os.Stat(cfg.JournalPath()); os.IsNotExist(err) {
		return "none recorded"
	}

	j, err := journal.New(cfg.JournalPath())
	if err != nil {
		return fmt.Sprintf("unknown ⚠  (%v)", err)
	}
	defer j.Close()

	op, err := j.LastOperation()
	if err != nil {
		return fmt.Sprintf("unknown ⚠  (%v)", err)
	}
	if op == nil {
		return "none recorded"
	}

	desc := op.Kind
	if op.Mode != "" {
		desc += " " + op.Mode
	}
	result := "running"
	if !op.FinishedAt.IsZero() {
		result = "failed"
		if op.Success {
			result = "ok"
		}
	}
	return fmt.Sprintf("%s · %s · %s", desc, humanize.Time(op.StartedAt), result)
}

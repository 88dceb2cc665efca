package app

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"powertrim/internal/config"
	"powertrim/internal/engine"
	"powertrim/internal/journal"
	"powertrim/internal/lock"
	"powertrim/internal/mode"
	"powertrim/internal/output"
	"powertrim/internal/profile"
	"powertrim/internal/sched"
)

var (
	applyFlagEnableWiFi  bool
	applyFlagRevertAfter int
	applyFlagDryRun      bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <powersaver|ultrasaver>",
	Short: "Apply a power-saving profile",
	Long: `Apply a power-saving profile to the machine.

Before the first directive runs, the current settings are captured into a
backup snapshot. The snapshot is created once: re-applying a profile, or
escalating after a restore, never overwrites it, so the restore target is
always the settings from before the first apply.

Profiles:
  powersaver   Power saver plan, 40% brightness, wireless and Bluetooth
               off, battery saver at 30%, 5 min display timeout,
               background apps off. Honors --enable-wifi.
  ultrasaver   Power saver plan, 30% brightness, wireless and Bluetooth
               off, battery saver always on, 2 min display timeout, plus
               search indexing, prefetch, diagnostics, visual effects,
               notifications, and startup items. Ignores --enable-wifi.

Switching directly between profiles is not allowed: the first apply already
changed the settings the second would capture. Restore first.

Each directive is attempted independently; failures are recorded in the
journal and shown in the result table, and the remaining directives still
run. The profile mode is committed either way.`,
	Example: `  # Apply the moderate profile
  powertrim apply powersaver

  # Keep the wireless adapter up for an online work session
  powertrim apply powersaver --enable-wifi

  # Aggressive profile with an automatic restore in 90 minutes
  powertrim apply ultrasaver --revert-after 90

  # Preview without changing anything
  powertrim apply ultrasaver --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolVar(&applyFlagEnableWiFi, "enable-wifi", false, "keep the wireless adapter up (powersaver only)")
	applyCmd.Flags().IntVar(&applyFlagRevertAfter, "revert-after", 0, "schedule an automatic restore after N minutes")
	applyCmd.Flags().BoolVar(&applyFlagDryRun, "dry-run", false, "show what would change without touching anything")

	RootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	target, err := mode.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid profile %q\n\nUsage: powertrim apply <powersaver|ultrasaver>", args[0])
	}
	p, err := profile.ForMode(target)
	if err != nil {
		return fmt.Errorf("cannot apply %q: use 'powertrim restore' to put the original settings back", args[0])
	}

	if cmd.Flags().Changed("revert-after") && applyFlagRevertAfter < 1 {
		return sched.ErrInvalidDelay
	}
	if applyFlagEnableWiFi && !p.HonorWiFiOverride {
		fmt.Fprintf(os.Stderr, "Warning: %s always disables wireless; --enable-wifi is ignored\n", p.Name)
	}

	// Dry-run mode - print the plan and exit without touching anything
	if applyFlagDryRun {
		fmt.Printf("Applying %s would:\n\n", p.Name)
		for _, action := range p.Plan(applyFlagEnableWiFi) {
			fmt.Printf("  • %s\n", action)
		}
		if applyFlagRevertAfter > 0 {
			fmt.Printf("  • schedule an automatic restore in %d minutes\n", applyFlagRevertAfter)
		}
		fmt.Println()
		fmt.Println("Dry-run mode: no settings were changed.")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

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
	if err := mode.Validate(current, target); err != nil {
		return err
	}

	eng, store, err := newEngine(cfg)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	op, err := j.Begin(journal.KindApply, string(target))
	if err != nil {
		return err
	}
	eng.SetRecorder(op)

	spinner := output.NewSpinner("Backing up current settings")
	spinner.Start()
	snap, created, err := eng.Backup()
	if err != nil {
		spinner.Stop()
		op.Finish(false)
		return err
	}
	if created {
		spinner.StopWithMessage(fmt.Sprintf("✓ Settings backed up (%s)", store.Path()))
	} else {
		spinner.StopWithMessage(fmt.Sprintf("✓ Existing backup kept (captured %s)", humanize.Time(snap.CapturedAt)))
	}

	fmt.Printf("\nApplying %s profile...\n\n", p.Name)
	result := eng.Apply(p, engine.ApplyOptions{EnableWiFi: applyFlagEnableWiFi})
	fmt.Print(output.RenderStepTable(result.Steps))

	// The mode is committed even after partial failures: it records intent,
	// and the journal records what actually happened.
	if err := tracker.Set(target); err != nil {
		op.Finish(false)
		return fmt.Errorf("profile applied but failed to record mode: %w", err)
	}
	op.Finish(result.Success())

	fmt.Println()
	if fails := result.Failed(); len(fails) > 0 {
		fmt.Fprintf(os.Stderr, "⚠️  %s applied with %d failed steps. See 'powertrim log' for details.\n", p.Name, len(fails))
	} else {
		fmt.Printf("✓ %s applied\n", p.Name)
	}

	if applyFlagRevertAfter > 0 {
		s := sched.New(cfg.MarkerPath(), cfg.WaiterLogPath())
		if _, err := s.Schedule(applyFlagRevertAfter); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Automatic restore could not be scheduled: %v\n", err)
			recordSchedule(j, target, false, err.Error())
		} else {
			fmt.Printf("✓ Automatic restore in %d minutes (cancel with: powertrim cancel-revert)\n", applyFlagRevertAfter)
			recordSchedule(j, target, true, fmt.Sprintf("revert scheduled in %d minutes", applyFlagRevertAfter))
		}
	}

	fmt.Printf("\nRestore with: powertrim restore\n")
	return nil
}

// recordSchedule journals the scheduling outcome. Best-effort: the schedule
// itself already succeeded or failed, so a journal problem only warns.
func recordSchedule(j *journal.Journal, target mode.Mode, ok bool, detail string) {
	op, err := j.Begin(journal.KindSchedule, string(target))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record schedule operation: %v\n", err)
		return
	}
	level := journal.LevelInfo
	if !ok {
		level = journal.LevelError
	}
	op.Event(level, "schedule", detail)
	op.Finish(ok)
}

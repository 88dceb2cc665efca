package app

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"powertrim/internal/mode"
	"powertrim/internal/sched"
)

func TestApplyCommandFlags(t *testing.T) {
	for _, name := range []string{"enable-wifi", "revert-after", "dry-run"} {
		if applyCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag to be registered", name)
		}
	}
}

func TestApplyDryRunPrintsPlan(t *testing.T) {
	cfg := resetTestConfig(t)

	origDryRun := applyFlagDryRun
	applyFlagDryRun = true
	defer func() { applyFlagDryRun = origDryRun }()

	var runErr error
	out, _ := captureOutput(t, func() {
		runErr = runApply(applyCmd, []string{"ultrasaver"})
	})
	if runErr != nil {
		t.Fatalf("runApply() error = %v", runErr)
	}

	contains := []string{
		"Applying Ultra saver would:",
		"set active power plan",
		"disable the wireless adapter",
		"stop and disable search indexing",
		"remove startup items",
		"Dry-run mode: no settings were changed.",
	}
	for _, want := range contains {
		if !strings.Contains(out, want) {
			t.Errorf("expected dry-run output to contain %q, got:\n%s", want, out)
		}
	}

	// Dry-run must not touch the state directory.
	entries, err := os.ReadDir(cfg.StateDir)
	if err != nil {
		t.Fatalf("Failed to read state dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty state dir after dry-run, found %d entries", len(entries))
	}
}

func TestApplyDryRunHonorsWiFiOverride(t *testing.T) {
	resetTestConfig(t)

	origDryRun, origWiFi := applyFlagDryRun, applyFlagEnableWiFi
	applyFlagDryRun = true
	applyFlagEnableWiFi = true
	defer func() {
		applyFlagDryRun = origDryRun
		applyFlagEnableWiFi = origWiFi
	}()

	var runErr error
	out, _ := captureOutput(t, func() {
		runErr = runApply(applyCmd, []string{"powersaver"})
	})
	if runErr != nil {
		t.Fatalf("runApply() error = %v", runErr)
	}

	if !strings.Contains(out, "enable the wireless adapter (--enable-wifi)") {
		t.Errorf("expected the plan to keep wireless up, got:\n%s", out)
	}
	if strings.Contains(out, "disable the wireless adapter") {
		t.Errorf("expected no wireless disable in the plan, got:\n%s", out)
	}
}

func TestApplyWarnsWhenWiFiOverrideIgnored(t *testing.T) {
	resetTestConfig(t)

	origDryRun, origWiFi := applyFlagDryRun, applyFlagEnableWiFi
	applyFlagDryRun = true
	applyFlagEnableWiFi = true
	defer func() {
		applyFlagDryRun = origDryRun
		applyFlagEnableWiFi = origWiFi
	}()

	var runErr error
	_, stderr := captureOutput(t, func() {
		runErr = runApply(applyCmd, []string{"ultrasaver"})
	})
	if runErr != nil {
		t.Fatalf("runApply() error = %v", runErr)
	}
	if !strings.Contains(stderr, "--enable-wifi is ignored") {
		t.Errorf("expected a warning that the override is ignored, got:\n%s", stderr)
	}
}

func TestApplyInvalidProfile(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		wantErr string
	}{
		{"unknown token", "hibernate", "invalid profile"},
		{"restored is not appliable", "restored", "powertrim restore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runApply(applyCmd, []string{tt.arg})
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error to contain %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyRejectsIllegalTransition(t *testing.T) {
	cfg := resetTestConfig(t)
	if err := mode.NewTracker(cfg.ModePath()).Set(mode.PowerSaver); err != nil {
		t.Fatalf("Failed to set mode: %v", err)
	}

	err := runApply(applyCmd, []string{"ultrasaver"})
	if err == nil {
		t.Fatal("expected an error for powersaver -> ultrasaver")
	}
	if !errors.Is(err, mode.ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition, got: %v", err)
	}
	if !strings.Contains(err.Error(), "restore original settings first") {
		t.Errorf("expected the error to point at restore, got: %v", err)
	}

	// The mode must be untouched.
	current, err := mode.NewTracker(cfg.ModePath()).Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if current != mode.PowerSaver {
		t.Errorf("expected mode to stay powersaver, got %s", current)
	}
}

func TestApplyRejectsZeroRevertDelay(t *testing.T) {
	resetTestConfig(t)

	RootCmd.SetOut(bytes.NewBuffer(nil))
	defer RootCmd.SetOut(nil)
	RootCmd.SetErr(bytes.NewBuffer(nil))
	defer RootCmd.SetErr(nil)

	RootCmd.SetArgs([]string{"apply", "powersaver", "--revert-after", "0"})
	t.Cleanup(func() {
		applyFlagRevertAfter = 0
		applyCmd.Flags().Lookup("revert-after").Changed = false
	})

	err := Execute()
	if !errors.Is(err, sched.ErrInvalidDelay) {
		t.Errorf("expected ErrInvalidDelay, got: %v", err)
	}
}

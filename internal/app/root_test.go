package app

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"powertrim/internal/config"
	"powertrim/internal/mode"
)

// resetTestConfig points the state directory at a fresh temp dir and returns
// the loaded config.
func resetTestConfig(t *testing.T) *config.Config {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults()
	viper.Set("state.dir", t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// captureOutput runs fn while capturing everything written to stdout and
// stderr.
func captureOutput(t *testing.T, fn func()) (string, string) {
	t.Helper()

	origOut, origErr := os.Stdout, os.Stderr
	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout, os.Stderr = outW, errW

	fn()

	outW.Close()
	errW.Close()
	os.Stdout, os.Stderr = origOut, origErr

	var outBuf, errBuf bytes.Buffer
	outBuf.ReadFrom(outR)
	errBuf.ReadFrom(errR)
	return outBuf.String(), errBuf.String()
}

func TestRootCommand(t *testing.T) {
	if RootCmd.Use != "powertrim" {
		t.Errorf("expected Use to be 'powertrim', got '%s'", RootCmd.Use)
	}
	if RootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if RootCmd.Long == "" {
		t.Error("expected Long description to be set")
	}
	if !strings.Contains(RootCmd.Long, "Quick Start") {
		t.Error("expected Long description to contain a 'Quick Start' section")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, cmd := range RootCmd.Commands() {
		found[cmd.Name()] = true
	}

	for _, expected := range []string{"apply", "restore", "status", "log", "cancel-revert", "schedule-wait"} {
		if !found[expected] {
			t.Errorf("expected command '%s' to be registered", expected)
		}
	}
}

func TestRootCommandHasPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "state-dir"} {
		flag := RootCmd.PersistentFlags().Lookup(name)
		if flag == nil {
			t.Errorf("expected --%s flag to be registered", name)
			continue
		}
		if flag.Usage == "" {
			t.Errorf("expected --%s flag to have usage text", name)
		}
	}
}

func TestRootCommandSilencesCobra(t *testing.T) {
	if !RootCmd.SilenceUsage {
		t.Error("expected SilenceUsage to be true")
	}
	if !RootCmd.SilenceErrors {
		t.Error("expected SilenceErrors to be true")
	}
	if RootCmd.SuggestionsMinimumDistance != 2 {
		t.Errorf("SuggestionsMinimumDistance = %d, want 2", RootCmd.SuggestionsMinimumDistance)
	}
}

func TestScheduleWaitIsHidden(t *testing.T) {
	if !scheduleWaitCmd.Hidden {
		t.Error("expected schedule-wait to be hidden from help")
	}
}

func TestRootCommandHelp(t *testing.T) {
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	defer RootCmd.SetOut(nil)
	RootCmd.SetErr(bytes.NewBuffer(nil))
	defer RootCmd.SetErr(nil)

	RootCmd.SetArgs([]string{"--help"})
	if err := RootCmd.Execute(); err != nil {
		t.Errorf("expected --help to succeed, got error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Usage:") {
		t.Errorf("expected help output to contain 'Usage:', got: %s", out)
	}
	if !strings.Contains(out, "apply") || !strings.Contains(out, "restore") {
		t.Errorf("expected help output to list subcommands, got: %s", out)
	}
	if strings.Contains(out, "schedule-wait") {
		t.Errorf("expected help output to hide schedule-wait, got: %s", out)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	RootCmd.SetOut(bytes.NewBuffer(nil))
	defer RootCmd.SetOut(nil)
	RootCmd.SetErr(bytes.NewBuffer(nil))
	defer RootCmd.SetErr(nil)

	RootCmd.SetArgs([]string{"blorp"})
	err := Execute()
	if err == nil {
		t.Fatal("expected Execute() to return an error for an unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected error to contain 'unknown command', got: %v", err)
	}
}

func TestBareInvocationTips(t *testing.T) {
	t.Run("no profile applied", func(t *testing.T) {
		resetTestConfig(t)

		var runErr error
		out, _ := captureOutput(t, func() {
			runErr = RootCmd.RunE(RootCmd, []string{})
		})
		if runErr != nil {
			t.Fatalf("RunE() error = %v", runErr)
		}
		if !strings.Contains(out, "powertrim apply powersaver") {
			t.Errorf("expected quick start tip, got: %s", out)
		}
	})

	t.Run("profile applied", func(t *testing.T) {
		cfg := resetTestConfig(t)
		if err := mode.NewTracker(cfg.ModePath()).Set(mode.PowerSaver); err != nil {
			t.Fatalf("Failed to set mode: %v", err)
		}

		var runErr error
		out, _ := captureOutput(t, func() {
			runErr = RootCmd.RunE(RootCmd, []string{})
		})
		if runErr != nil {
			t.Fatalf("RunE() error = %v", runErr)
		}
		if !strings.Contains(out, "powersaver profile is currently applied") {
			t.Errorf("expected applied-profile tip, got: %s", out)
		}
		if !strings.Contains(out, "powertrim restore") {
			t.Errorf("expected restore tip, got: %s", out)
		}
	})
}

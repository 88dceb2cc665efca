package app

import (
	"os"
	"strings"
	"testing"
	"time"

	"powertrim/internal/journal"
)

func TestCancelRevertNothingPending(t *testing.T) {
	resetTestConfig(t)

	var runErr error
	out, _ := captureOutput(t, func() {
		runErr = runCancelRevert(cancelRevertCmd, nil)
	})
	if runErr != nil {
		t.Fatalf("runCancelRevert() error = %v", runErr)
	}
	if !strings.Contains(out, "No revert is scheduled.") {
		t.Errorf("expected a friendly no-op message, got:\n%s", out)
	}
}

func TestCancelRevertCancelsPending(t *testing.T) {
	cfg := resetTestConfig(t)
	writeTestMarker(t, cfg, os.Getpid(), time.Now().Add(45*time.Minute))

	var runErr error
	out, _ := captureOutput(t, func() {
		runErr = runCancelRevert(cancelRevertCmd, nil)
	})
	if runErr != nil {
		t.Fatalf("runCancelRevert() error = %v", runErr)
	}
	if !strings.Contains(out, "✓ Canceled") {
		t.Errorf("expected a cancellation message, got:\n%s", out)
	}
	if _, err := os.Stat(cfg.MarkerPath()); !os.IsNotExist(err) {
		t.Error("expected the marker to be removed")
	}

	// The cancellation lands in the journal.
	j, err := journal.New(cfg.JournalPath())
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	defer j.Close()
	last, err := j.LastOperation()
	if err != nil {
		t.Fatalf("LastOperation() error = %v", err)
	}
	if last == nil || last.Kind != journal.KindCancel {
		t.Fatalf("expected a cancel operation, got %+v", last)
	}
	if !last.Success {
		t.Error("expected the cancel operation to be recorded as success")
	}
}

func TestCancelRevertStaleMarker(t *testing.T) {
	cfg := resetTestConfig(t)
	writeTestMarker(t, cfg, 999999, time.Now().Add(45*time.Minute))

	var runErr error
	out, _ := captureOutput(t, func() {
		runErr = runCancelRevert(cancelRevertCmd, nil)
	})
	if runErr != nil {
		t.Fatalf("runCancelRevert() error = %v", runErr)
	}

	// A marker whose waiter died reads as nothing pending and is reaped.
	if !strings.Contains(out, "No revert is scheduled.") {
		t.Errorf("expected a no-op message for a dead waiter, got:\n%s", out)
	}
	if _, err := os.Stat(cfg.MarkerPath()); !os.IsNotExist(err) {
		t.Error("expected the stale marker to be removed")
	}
}

func TestCancelRevertCorruptMarker(t *testing.T) {
	cfg := resetTestConfig(t)
	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		t.Fatalf("Failed to create state dir: %v", err)
	}
	if err := os.WriteFile(cfg.MarkerPath(), []byte("{broken"), 0644); err != nil {
		t.Fatalf("Failed to write marker: %v", err)
	}

	var runErr error
	out, stderr := captureOutput(t, func() {
		runErr = runCancelRevert(cancelRevertCmd, nil)
	})
	if runErr != nil {
		t.Fatalf("runCancelRevert() error = %v", runErr)
	}
	if !strings.Contains(stderr, "Warning:") {
		t.Errorf("expected a warning about the unreadable marker, got:\n%s", stderr)
	}
	if !strings.Contains(out, "unreadable revert marker") {
		t.Errorf("expected a removal message, got:\n%s", out)
	}
	if _, err := os.Stat(cfg.MarkerPath()); !os.IsNotExist(err) {
		t.Error("expected the corrupt marker to be removed")
	}
}

package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"powertrim/internal/settings"
	"powertrim/internal/surface"
)

func TestBackupCapturesMachineState(t *testing.T) {
	e, fake, store := newTestEngine(t)

	snap, created, err := e.Backup()
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if !created {
		t.Fatal("expected a fresh snapshot")
	}
	if !store.Exists() {
		t.Fatal("snapshot file should exist after Backup")
	}

	if snap.PowerPlanID != fake.ActivePlan {
		t.Errorf("expected plan %q, got %q", fake.ActivePlan, snap.PowerPlanID)
	}
	if snap.Brightness != 75 {
		t.Errorf("expected brightness 75, got %d", snap.Brightness)
	}
	if snap.ExecutionPolicy != "RemoteSigned" {
		t.Errorf("expected policy RemoteSigned, got %q", snap.ExecutionPolicy)
	}
	if snap.Wireless.AdapterID != "Wi-Fi" || !snap.Wireless.Enabled {
		t.Errorf("unexpected wireless capture: %+v", snap.Wireless)
	}
	if len(snap.Services) != len(DefaultTrackedServices) {
		t.Errorf("expected %d services, got %d", len(DefaultTrackedServices), len(snap.Services))
	}
	if svc, ok := snap.Service("BTAGService"); !ok || svc.Running {
		t.Errorf("BTAGService should be captured stopped: %+v", svc)
	}
	if len(snap.RegistryRun) != 1 || snap.RegistryRun[0].Name != "OneDrive" {
		t.Errorf("unexpected registry capture: %+v", snap.RegistryRun)
	}
	if len(snap.Shortcuts) != 1 {
		t.Errorf("expected 1 shortcut, got %d", len(snap.Shortcuts))
	}
	if snap.CapturedAt.IsZero() {
		t.Error("expected a capture timestamp")
	}
}

func TestBackupPreservesExistingSnapshot(t *testing.T) {
	e, fake, store := newTestEngine(t)

	original := &settings.Snapshot{
		CapturedAt: time.Now().Add(-time.Hour),
		Brightness: 33,
	}
	if err := store.Save(original); err != nil {
		t.Fatalf("Failed to seed snapshot: %v", err)
	}

	snap, created, err := e.Backup()
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if created {
		t.Fatal("Backup must not replace an unconsumed snapshot")
	}
	if snap.Brightness != 33 {
		t.Errorf("expected the original snapshot back, got brightness %d", snap.Brightness)
	}

	// Nothing should have been read from the machine.
	if len(fake.Calls) != 0 {
		t.Errorf("expected no surface reads, got %v", fake.Calls)
	}
}

func TestBackupReadFailuresDowngradeToWarnings(t *testing.T) {
	e, fake, _ := newTestEngine(t)

	fake.Errs["ActivePowerPlan"] = errors.New("powercfg broke")
	fake.Errs["Brightness"] = errors.New("wmi unavailable")
	fake.Errs["ServiceState:WSearch"] = errors.New("access denied")

	snap, created, err := e.Backup()
	if err != nil {
		t.Fatalf("Backup() should not fail on read errors, got %v", err)
	}
	if !created {
		t.Fatal("expected a snapshot despite read failures")
	}

	if snap.PowerPlanID != "" {
		t.Errorf("unreadable plan should capture as empty, got %q", snap.PowerPlanID)
	}
	if snap.Brightness != DefaultBrightness {
		t.Errorf("unreadable brightness should fall back to %d, got %d", DefaultBrightness, snap.Brightness)
	}
	if _, ok := snap.Service("WSearch"); ok {
		t.Error("unreadable service should be omitted from the snapshot")
	}
	if len(snap.Services) != len(DefaultTrackedServices)-1 {
		t.Errorf("expected %d services, got %d", len(DefaultTrackedServices)-1, len(snap.Services))
	}
}

func TestBackupPersistFailureIsFatal(t *testing.T) {
	fake := surface.NewFake()

	// Park the snapshot under a path whose parent is a regular file, so the
	// store's MkdirAll fails.
	tempDir := t.TempDir()
	blocker := filepath.Join(tempDir, "state")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create blocker file: %v", err)
	}

	store := settings.NewStore(filepath.Join(blocker, "backup.json"))
	e := New(fake, store, Config{})

	if _, _, err := e.Backup(); err == nil {
		t.Fatal("expected Backup to fail when the snapshot cannot be persisted")
	}
}

func TestBackupCorruptExistingSnapshotIsFatal(t *testing.T) {
	e, _, store := newTestEngine(t)

	if err := os.MkdirAll(filepath.Dir(store.Path()), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("{broken"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt snapshot: %v", err)
	}

	if _, _, err := e.Backup(); err == nil {
		t.Fatal("expected Backup to fail on an unreadable existing snapshot")
	}
}

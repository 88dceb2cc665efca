package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		CapturedAt:      time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
		PowerPlanID:     "381b4222-f694-41f0-9685-ff5bb260df2e",
		Brightness:      75,
		ExecutionPolicy: "RemoteSigned",
		Wireless:        WirelessSetting{AdapterID: "Wi-Fi", Enabled: true},
		Services: []ServiceSetting{
			{Name: "WSearch", StartupType: "Automatic", Running: true},
			{Name: "bthserv", StartupType: "Manual", Running: false},
		},
		RegistryRun: []RunEntrySetting{
			{Path: `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`, Name: "OneDrive", Value: `C:\OneDrive.exe`},
		},
		Shortcuts: []ShortcutSetting{
			{Path: `C:\Startup\notes.lnk`, Target: `C:\Tools\notes.exe`, Arguments: "--minimized"},
		},
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	store := NewStore(filepath.Join(tempDir, "state", "backup.json"))

	if store.Exists() {
		t.Fatal("Exists() should be false before Save")
	}

	snap := testSnapshot()
	if err := store.Save(snap); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}

	if !store.Exists() {
		t.Fatal("Exists() should be true after Save")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}

	if loaded.PowerPlanID != snap.PowerPlanID {
		t.Errorf("expected plan %q, got %q", snap.PowerPlanID, loaded.PowerPlanID)
	}
	if loaded.Brightness != 75 {
		t.Errorf("expected brightness 75, got %d", loaded.Brightness)
	}
	if !loaded.CapturedAt.Equal(snap.CapturedAt) {
		t.Errorf("expected captured at %v, got %v", snap.CapturedAt, loaded.CapturedAt)
	}
	if !loaded.Wireless.Enabled || loaded.Wireless.AdapterID != "Wi-Fi" {
		t.Errorf("unexpected wireless setting: %+v", loaded.Wireless)
	}
	if len(loaded.Services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(loaded.Services))
	}
	if len(loaded.RegistryRun) != 1 || loaded.RegistryRun[0].Name != "OneDrive" {
		t.Errorf("unexpected registry entries: %+v", loaded.RegistryRun)
	}
	if len(loaded.Shortcuts) != 1 || loaded.Shortcuts[0].Arguments != "--minimized" {
		t.Errorf("unexpected shortcuts: %+v", loaded.Shortcuts)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "backup.json"))

	_, err := store.Load()
	if !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	store := NewStore(path)
	_, err := store.Load()
	if err == nil {
		t.Fatal("expected error for corrupt snapshot")
	}
	if errors.Is(err, ErrNoSnapshot) {
		t.Fatal("corrupt file should not read as missing")
	}
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "backup.json"))

	// Deleting a missing file is fine.
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete on missing file: %v", err)
	}

	if err := store.Save(testSnapshot()); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("Failed to delete snapshot: %v", err)
	}
	if store.Exists() {
		t.Error("Exists() should be false after Delete")
	}
}

func TestSnapshotServiceLookup(t *testing.T) {
	snap := testSnapshot()

	svc, ok := snap.Service("bthserv")
	if !ok {
		t.Fatal("expected bthserv to be present")
	}
	if svc.StartupType != "Manual" || svc.Running {
		t.Errorf("unexpected bthserv state: %+v", svc)
	}

	if _, ok := snap.Service("NoSuchService"); ok {
		t.Error("expected lookup miss for unknown service")
	}
}

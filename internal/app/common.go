package app

import (
	"fmt"

	"powertrim/internal/config"
	"powertrim/internal/engine"
	"powertrim/internal/journal"
	"powertrim/internal/settings"
	"powertrim/internal/surface"
)

// openJournal opens the operation journal and ensures its schema exists.
func openJournal(cfg *config.Config) (*journal.Journal, error) {
	j, err := journal.New(cfg.JournalPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := j.CreateSchema(); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

// newEngine assembles an engine over the local machine's control surface.
// Fails on platforms where the surface is unavailable.
func newEngine(cfg *config.Config) (*engine.Engine, *settings.Store, error) {
	surf, err := surface.New()
	if err != nil {
		return nil, nil, err
	}

	store := settings.NewStore(cfg.SnapshotPath())
	eng := engine.New(surf, store, engine.Config{
		DefaultBrightness: cfg.DefaultBrightness,
		TrackedServices:   cfg.TrackedServices,
		BluetoothServices: cfg.BluetoothServices,
	})
	return eng, store, nil
}

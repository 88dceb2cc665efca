package engine

import (
	"fmt"
	"time"

	"powertrim/internal/settings"
)

// Backup captures the current machine state into the settings store. If an
// unconsumed snapshot already exists it is kept untouched: the oldest
// snapshot is the one that still points at the user's real settings, and a
// re-apply must not clobber it with profile output.
//
// Individual read failures downgrade to warnings with safe defaults; the
// only fatal outcome is a snapshot that cannot be persisted. Returns the
// snapshot in effect and whether this call created it.
func (e *Engine) Backup() (*settings.Snapshot, bool, error) {
	if e.store.Exists() {
		snap, err := e.store.Load()
		if err != nil {
			return nil, false, fmt.Errorf("an earlier snapshot exists but cannot be read: %w", err)
		}
		e.warnf("backup", "keeping snapshot captured %s; restore before capturing a new one",
			snap.CapturedAt.Format(time.RFC3339))
		return snap, false, nil
	}

	snap := &settings.Snapshot{
		CapturedAt: time.Now(),
		Brightness: e.defaultBrightness,
	}

	if plan, err := e.surf.ActivePowerPlan(); err != nil {
		e.warnf("backup", "could not read active power plan: %v", err)
	} else {
		snap.PowerPlanID = plan
	}

	if pct, err := e.surf.Brightness(); err != nil {
		e.warnf("backup", "could not read brightness, assuming %d%%: %v", e.defaultBrightness, err)
	} else {
		snap.Brightness = pct
	}

	if policy, err := e.surf.ExecutionPolicy(); err != nil {
		e.warnf("backup", "could not read execution policy: %v", err)
	} else {
		snap.ExecutionPolicy = policy
	}

	if id, enabled, err := e.surf.WirelessAdapter(); err != nil {
		e.warnf("backup", "could not read wireless adapter: %v", err)
	} else {
		snap.Wireless = settings.WirelessSetting{AdapterID: id, Enabled: enabled}
	}

	for _, name := range e.trackedServices {
		startupType, running, err := e.surf.ServiceState(name)
		if err != nil {
			e.warnf("backup", "could not read service %s: %v", name, err)
			continue
		}
		snap.Services = append(snap.Services, settings.ServiceSetting{
			Name:        name,
			StartupType: startupType,
			Running:     running,
		})
	}

	if items, err := e.surf.StartupItems(); err != nil {
		e.warnf("backup", "could not list startup items: %v", err)
	} else {
		for _, entry := range items.Registry {
			snap.RegistryRun = append(snap.RegistryRun, settings.RunEntrySetting{
				Path:  entry.Path,
				Name:  entry.Name,
				Value: entry.Value,
			})
		}
		for _, sc := range items.Shortcuts {
			snap.Shortcuts = append(snap.Shortcuts, settings.ShortcutSetting{
				Path:       sc.Path,
				Target:     sc.Target,
				Arguments:  sc.Arguments,
				WorkingDir: sc.WorkingDir,
			})
		}
	}

	if err := e.store.Save(snap); err != nil {
		return nil, false, fmt.Errorf("failed to persist settings snapshot: %w", err)
	}
	e.rec.Event("info", "backup", fmt.Sprintf("captured %d services and %d startup items",
		len(snap.Services), len(snap.RegistryRun)+len(snap.Shortcuts)))

	return snap, true, nil
}

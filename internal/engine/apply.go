package engine

import (
	"fmt"
	"path/filepath"

	"powertrim/internal/profile"
	"powertrim/internal/surface"
)

// ApplyOptions carries the per-invocation overrides.
type ApplyOptions struct {
	// EnableWiFi keeps the wireless adapter up. Only profiles that honor
	// the override obey it.
	EnableWiFi bool
}

// ApplyResult records the outcome of every directive of one apply.
type ApplyResult struct {
	Profile profile.Profile
	Steps   []Step
}

// Success reports whether every directive succeeded.
func (r *ApplyResult) Success() bool {
	return success(r.Steps)
}

// Failed returns the directives that did not succeed.
func (r *ApplyResult) Failed() []Step {
	return failed(r.Steps)
}

// Apply carries out the profile's directives in their fixed order. Each is
// attempted independently; a failure is recorded and the sequence moves on.
// Callers commit the new mode afterwards regardless of partial failures,
// because the mode records intent, and the journal records the truth.
func (e *Engine) Apply(p profile.Profile, opts ApplyOptions) *ApplyResult {
	l := &stepList{rec: e.rec}

	l.run("power-plan", fmt.Sprintf("active plan set to %s", p.PowerPlanID), func() error {
		return e.surf.SetActivePowerPlan(p.PowerPlanID)
	})

	l.run("brightness", fmt.Sprintf("brightness set to %d%%", p.Brightness), func() error {
		return e.surf.SetBrightness(p.Brightness)
	})

	if p.DisableWireless {
		e.applyWireless(l, p, opts)
	}

	if p.DisableBluetooth {
		for _, svc := range e.bluetoothServices {
			l.run("bluetooth:"+svc, "stopped and disabled", func() error {
				return e.surf.SetServiceState(svc, surface.StartupDisabled, false)
			})
		}
		l.run("bluetooth-devices", "Bluetooth devices disabled", func() error {
			return e.surf.SetBluetoothDeviceEnabled(false)
		})
	}

	l.run("battery-threshold", fmt.Sprintf("battery saver threshold set to %d%%", p.BatteryThreshold), func() error {
		return e.surf.SetPowerThreshold(p.BatteryThreshold)
	})

	l.run("display-timeout", fmt.Sprintf("display timeout set to %d minutes", p.DisplayTimeoutMin), func() error {
		return e.surf.SetDisplayTimeout(p.DisplayTimeoutMin)
	})

	if p.DisableBackgroundApps {
		l.run("background-apps", "background apps disabled", func() error {
			return e.surf.SetBackgroundAppsDisabled(true)
		})
	}

	if p.DisableSearchIndexing {
		for _, svc := range searchServices {
			l.run("search-indexing:"+svc, "stopped and disabled", func() error {
				return e.surf.SetServiceState(svc, surface.StartupDisabled, false)
			})
		}
	}

	if p.DisablePrefetch {
		l.run("prefetch", "prefetch disabled", func() error {
			return e.surf.SetPrefetchDisabled(true)
		})
	}

	if p.DisableDiagnostics {
		l.run("diagnostics:"+diagnosticsService, "stopped and disabled", func() error {
			return e.surf.SetServiceState(diagnosticsService, surface.StartupDisabled, false)
		})
		l.run("diagnostics:telemetry", "telemetry disabled", func() error {
			return e.surf.SetTelemetryDisabled(true)
		})
	}

	if p.ReduceVisualEffects {
		l.run("visual-effects", "reduced to best performance", func() error {
			return e.surf.SetVisualEffectsReduced(true)
		})
	}

	if p.DisableNotifications {
		l.run("notifications", "toast notifications disabled", func() error {
			return e.surf.SetNotificationsDisabled(true)
		})
	}

	if p.SuppressStartupItems {
		e.suppressStartupItems(l)
	}

	return &ApplyResult{Profile: p, Steps: l.steps}
}

// applyWireless resolves the profile's wireless policy against the override
// and mutates the adapter. On success the persisted snapshot's wireless flag
// is updated to the applied value: restore replays what this apply decided.
func (e *Engine) applyWireless(l *stepList, p profile.Profile, opts ApplyOptions) {
	enable := !p.WirelessDisabled(opts.EnableWiFi)
	detail := "wireless adapter disabled"
	if enable {
		detail = "wireless adapter enabled (--enable-wifi)"
	}

	ok := l.run("wireless", detail, func() error {
		id, _, err := e.surf.WirelessAdapter()
		if err != nil {
			return fmt.Errorf("failed to find wireless adapter: %w", err)
		}
		return e.surf.SetWirelessEnabled(id, enable)
	})
	if !ok {
		return
	}

	snap, err := e.store.Load()
	if err != nil {
		e.warnf("wireless", "could not update snapshot wireless state: %v", err)
		return
	}
	snap.Wireless.Enabled = enable
	if err := e.store.Save(snap); err != nil {
		e.warnf("wireless", "could not update snapshot wireless state: %v", err)
	}
}

// suppressStartupItems removes the startup items recorded in the snapshot.
// Working from the captured list, not a fresh enumeration, keeps removal
// and restore symmetric.
func (e *Engine) suppressStartupItems(l *stepList) {
	snap, err := e.store.Load()
	if err != nil {
		l.fail("startup-items", fmt.Sprintf("could not load snapshot: %v", err), false)
		return
	}

	for _, entry := range snap.RegistryRun {
		l.run("startup-registry:"+entry.Name, "removed", func() error {
			return e.surf.DeleteRegistryRunValue(entry.Path, entry.Name)
		})
	}
	for _, sc := range snap.Shortcuts {
		l.run("startup-shortcut:"+filepath.Base(sc.Path), "removed", func() error {
			return e.surf.DeleteStartupShortcut(sc.Path)
		})
	}
}

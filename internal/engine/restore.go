package engine

import (
	"fmt"
	"path/filepath"
	"time"

	"powertrim/internal/surface"
)

// Bluetooth re-enable retry policy.
const (
	bluetoothAttempts = 5
	bluetoothBackoff  = 5 * time.Second
)

// RestoreResult records the outcome of every restore step.
type RestoreResult struct {
	Steps []Step
}

// Success is the AND over the hard steps; brightness, execution policy and
// the Bluetooth retry are warning-level.
func (r *RestoreResult) Success() bool {
	return success(r.Steps)
}

// Failed returns the steps that did not succeed, warning-level included.
func (r *RestoreResult) Failed() []Step {
	return failed(r.Steps)
}

// Restore replays the settings snapshot and consumes it. Returns
// settings.ErrNoSnapshot when there is nothing to restore; callers treat
// that as a warning, not a failure.
//
// Every step is independent and restart-safe: a restore that died halfway
// can simply be re-run.
func (e *Engine) Restore() (*RestoreResult, error) {
	snap, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	l := &stepList{rec: e.rec}

	if snap.PowerPlanID == "" {
		l.skip("power-plan", "no captured plan id, skipped")
	} else {
		l.run("power-plan", fmt.Sprintf("restored plan %s", snap.PowerPlanID), func() error {
			return e.surf.SetActivePowerPlan(snap.PowerPlanID)
		})
	}

	l.soft("brightness", fmt.Sprintf("restored brightness %d%%", snap.Brightness), func() error {
		return e.surf.SetBrightness(snap.Brightness)
	})

	if snap.ExecutionPolicy == "" {
		l.skip("execution-policy", "not captured, skipped")
	} else {
		l.soft("execution-policy", "restored policy "+snap.ExecutionPolicy, func() error {
			return e.surf.SetExecutionPolicy(snap.ExecutionPolicy)
		})
	}

	// The enable call is skipped entirely when the captured state is
	// disabled; there is nothing to put back.
	switch {
	case snap.Wireless.AdapterID == "":
		l.skip("wireless", "no captured adapter, skipped")
	case !snap.Wireless.Enabled:
		l.skip("wireless", "captured disabled, leaving adapter off")
	default:
		l.run("wireless", "adapter re-enabled", func() error {
			return e.surf.SetWirelessEnabled(snap.Wireless.AdapterID, true)
		})
	}

	e.restoreBluetooth(l)

	for _, svc := range snap.Services {
		state := "stopped"
		if svc.Running {
			state = "running"
		}
		l.run("service:"+svc.Name, fmt.Sprintf("restored to %s, %s", svc.StartupType, state), func() error {
			return e.surf.SetServiceState(svc.Name, svc.StartupType, svc.Running)
		})
	}

	for _, entry := range snap.RegistryRun {
		l.run("startup-registry:"+entry.Name, "restored", func() error {
			return e.surf.WriteRegistryRunValue(entry.Path, entry.Name, entry.Value)
		})
	}
	for _, sc := range snap.Shortcuts {
		l.run("startup-shortcut:"+filepath.Base(sc.Path), "restored", func() error {
			return e.surf.WriteStartupShortcut(sc.Path, sc.Target, sc.Arguments, sc.WorkingDir)
		})
	}

	l.run("snapshot-cleanup", "snapshot consumed", func() error {
		return e.store.Delete()
	})

	if e.sched == nil {
		l.skip("cancel-revert", "no scheduler configured")
	} else {
		l.run("cancel-revert", "pending revert canceled", e.sched.Cancel)
	}

	return &RestoreResult{Steps: l.steps}, nil
}

// restoreBluetooth unconditionally brings Bluetooth support back: all
// services to automatic and started, then the devices. Bounded retry with a
// fixed backoff; the first fully successful attempt wins. Exhaustion is a
// warning-level failure.
func (e *Engine) restoreBluetooth(l *stepList) {
	var lastErr error
	for attempt := 1; attempt <= bluetoothAttempts; attempt++ {
		if attempt > 1 {
			e.sleep(bluetoothBackoff)
		}
		if lastErr = e.enableBluetoothOnce(); lastErr == nil {
			l.ok("bluetooth", fmt.Sprintf("re-enabled on attempt %d/%d", attempt, bluetoothAttempts), true)
			return
		}
		e.warnf("bluetooth", "enable attempt %d/%d failed: %v", attempt, bluetoothAttempts, lastErr)
	}
	l.fail("bluetooth", fmt.Sprintf("gave up after %d attempts: %v", bluetoothAttempts, lastErr), true)
}

// enableBluetoothOnce is one full attempt across every Bluetooth service
// plus the devices. Any failure fails the attempt.
func (e *Engine) enableBluetoothOnce() error {
	for _, svc := range e.bluetoothServices {
		if err := e.surf.SetServiceState(svc, surface.StartupAutomatic, true); err != nil {
			return fmt.Errorf("service %s: %w", svc, err)
		}
	}
	if err := e.surf.SetBluetoothDeviceEnabled(true); err != nil {
		return fmt.Errorf("devices: %w", err)
	}
	return nil
}

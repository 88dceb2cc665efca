package profile

import (
	"fmt"

	"powertrim/internal/mode"
)

// PowerSaverPlanID is the GUID of the built-in Windows "Power saver" scheme.
// It is stable across installations.
const PowerSaverPlanID = "a1841308-3541-4fab-bc81-f71556f20b4a"

// Profile is the set of directives a single apply carries out. Both profiles
// are static: what varies at runtime arrives through ApplyOptions, not here.
type Profile struct {
	Name string
	Mode mode.Mode

	PowerPlanID string
	Brightness  int

	// DisableWireless turns the 802.11 adapter off. HonorWiFiOverride makes
	// the --enable-wifi flag effective; without it the flag is ignored.
	DisableWireless   bool
	HonorWiFiOverride bool

	DisableBluetooth bool

	// BatteryThreshold is the battery saver activation percentage.
	BatteryThreshold  int
	DisplayTimeoutMin int

	DisableBackgroundApps bool

	// Aggressive directives, used by UltraSaver only.
	DisableSearchIndexing bool
	DisablePrefetch       bool
	DisableDiagnostics    bool
	ReduceVisualEffects   bool
	DisableNotifications  bool
	SuppressStartupItems  bool
}

// PowerSaver returns the moderate profile: trims the obvious drains but
// keeps the machine pleasant for continued work.
func PowerSaver() Profile {
	return Profile{
		Name:                  "Power saver",
		Mode:                  mode.PowerSaver,
		PowerPlanID:           PowerSaverPlanID,
		Brightness:            40,
		DisableWireless:       true,
		HonorWiFiOverride:     true,
		DisableBluetooth:      true,
		BatteryThreshold:      30,
		DisplayTimeoutMin:     5,
		DisableBackgroundApps: true,
	}
}

// UltraSaver returns the aggressive profile for squeezing out the last of
// the battery. Wireless goes down regardless of --enable-wifi.
func UltraSaver() Profile {
	return Profile{
		Name:                  "Ultra saver",
		Mode:                  mode.UltraSaver,
		PowerPlanID:           PowerSaverPlanID,
		Brightness:            30,
		DisableWireless:       true,
		HonorWiFiOverride:     false,
		DisableBluetooth:      true,
		BatteryThreshold:      100,
		DisplayTimeoutMin:     2,
		DisableBackgroundApps: true,
		DisableSearchIndexing: true,
		DisablePrefetch:       true,
		DisableDiagnostics:    true,
		ReduceVisualEffects:   true,
		DisableNotifications:  true,
		SuppressStartupItems:  true,
	}
}

// ForMode returns the profile matching a profile mode.
func ForMode(m mode.Mode) (Profile, error) {
	switch m {
	case mode.PowerSaver:
		return PowerSaver(), nil
	case mode.UltraSaver:
		return UltraSaver(), nil
	}
	return Profile{}, fmt.Errorf("no profile for mode %q", m)
}

// WirelessDisabled reports whether this apply will turn the adapter off,
// given the --enable-wifi flag.
func (p Profile) WirelessDisabled(enableWiFi bool) bool {
	if !p.DisableWireless {
		return false
	}
	if p.HonorWiFiOverride && enableWiFi {
		return false
	}
	return true
}

// Plan returns the human-readable list of actions this apply would perform,
// in execution order. Used by --dry-run.
func (p Profile) Plan(enableWiFi bool) []string {
	actions := []string{
		fmt.Sprintf("set active power plan to %s (%s)", p.Name, p.PowerPlanID),
		fmt.Sprintf("set display brightness to %d%%", p.Brightness),
	}

	if p.WirelessDisabled(enableWiFi) {
		actions = append(actions, "disable the wireless adapter")
	} else if p.DisableWireless {
		actions = append(actions, "enable the wireless adapter (--enable-wifi)")
	}

	if p.DisableBluetooth {
		actions = append(actions, "stop and disable Bluetooth services, disable Bluetooth devices")
	}

	actions = append(actions,
		fmt.Sprintf("set battery saver threshold to %d%%", p.BatteryThreshold),
		fmt.Sprintf("set display timeout to %d minutes", p.DisplayTimeoutMin),
	)

	if p.DisableBackgroundApps {
		actions = append(actions, "disable background apps")
	}
	if p.DisableSearchIndexing {
		actions = append(actions, "stop and disable search indexing (WSearch, SysMain)")
	}
	if p.DisablePrefetch {
		actions = append(actions, "disable prefetch")
	}
	if p.DisableDiagnostics {
		actions = append(actions, "stop and disable diagnostics tracking (DiagTrack, telemetry)")
	}
	if p.ReduceVisualEffects {
		actions = append(actions, "reduce visual effects to best performance")
	}
	if p.DisableNotifications {
		actions = append(actions, "disable toast notifications")
	}
	if p.SuppressStartupItems {
		actions = append(actions, "remove startup items (recreated on restore)")
	}
	return actions
}

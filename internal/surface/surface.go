package surface

// Service startup types as reported by the service control manager.
const (
	StartupAutomatic = "Automatic"
	StartupManual    = "Manual"
	StartupDisabled  = "Disabled"
)

// RegistryRunEntry is a single value under an autostart Run key.
type RegistryRunEntry struct {
	Path  string
	Name  string
	Value string
}

// ShortcutEntry describes a .lnk file in a Startup folder.
type ShortcutEntry struct {
	Path       string
	Target     string
	Arguments  string
	WorkingDir string
}

// StartupItems groups everything that launches at login.
type StartupItems struct {
	Registry  []RegistryRunEntry
	Shortcuts []ShortcutEntry
}

// Surface is the set of machine knobs the tool reads and writes. The real
// implementation shells out to powercfg, sc, reg, and PowerShell; tests use
// the in-memory Fake.
type Surface interface {
	// ActivePowerPlan returns the GUID of the active power scheme.
	ActivePowerPlan() (string, error)
	SetActivePowerPlan(id string) error

	// Brightness returns the display brightness as a percentage.
	Brightness() (int, error)
	SetBrightness(pct int) error

	// WirelessAdapter returns the first 802.11 adapter and whether it is
	// administratively enabled.
	WirelessAdapter() (id string, enabled bool, err error)
	SetWirelessEnabled(id string, enabled bool) error

	ExecutionPolicy() (string, error)
	SetExecutionPolicy(policy string) error

	// ServiceState returns a service's startup type and whether it is running.
	ServiceState(name string) (startupType string, running bool, err error)
	SetServiceState(name, startupType string, running bool) error

	StartupItems() (StartupItems, error)
	WriteRegistryRunValue(path, name, value string) error
	DeleteRegistryRunValue(path, name string) error
	WriteStartupShortcut(path, target, args, workDir string) error
	DeleteStartupShortcut(path string) error

	// SetBluetoothDeviceEnabled toggles the Bluetooth radio devices
	// themselves, independent of the Bluetooth services.
	SetBluetoothDeviceEnabled(enabled bool) error

	// SetPowerThreshold sets the battery saver activation threshold.
	SetPowerThreshold(pct int) error
	// SetDisplayTimeout sets the display-off timeout in minutes.
	SetDisplayTimeout(minutes int) error

	SetBackgroundAppsDisabled(disabled bool) error
	SetPrefetchDisabled(disabled bool) error
	SetTelemetryDisabled(disabled bool) error
	SetVisualEffectsReduced(reduced bool) error
	SetNotificationsDisabled(disabled bool) error
}

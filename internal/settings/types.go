package settings

import "time"

// Snapshot represents the JSON structure stored in the backup file. It is
// the machine state captured immediately before the first profile apply,
// and the target state a later restore returns to.
type Snapshot struct {
	CapturedAt      time.Time
	PowerPlanID     string
	Brightness      int
	ExecutionPolicy string
	Wireless        WirelessSetting
	Services        []ServiceSetting
	RegistryRun     []RunEntrySetting
	Shortcuts       []ShortcutSetting
}

// WirelessSetting records the wireless adapter state in a snapshot.
type WirelessSetting struct {
	AdapterID string
	Enabled   bool
}

// ServiceSetting records one service's state in a snapshot.
type ServiceSetting struct {
	Name        string
	StartupType string
	Running     bool
}

// RunEntrySetting records one autostart Run key value in a snapshot.
type RunEntrySetting struct {
	Path  string
	Name  string
	Value string
}

// ShortcutSetting records one Startup folder shortcut in a snapshot.
type ShortcutSetting struct {
	Path       string
	Target     string
	Arguments  string
	WorkingDir string
}

// Service returns the captured state for the named service, if present.
func (s *Snapshot) Service(name string) (ServiceSetting, bool) {
	for _, svc := range s.Services {
		if svc.Name == name {
			return svc, true
		}
	}
	return ServiceSetting{}, false
}

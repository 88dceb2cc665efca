package surface

import (
	"fmt"
	"strings"
)

// FakeService is the recorded state of one service in the Fake.
type FakeService struct {
	StartupType string
	Running     bool
}

// Fake is an in-memory Surface for tests. Every call appends an id of the
// form "Method" or "Method:arg" to Calls; Errs and FailFirst induce failures
// keyed by those ids (or by the bare method name).
type Fake struct {
	Calls     []string
	Errs      map[string]error
	FailFirst map[string]int

	ActivePlan       string
	BrightnessPct    int
	AdapterID        string
	AdapterEnabled   bool
	Policy           string
	Services         map[string]FakeService
	RunValues        []RegistryRunEntry
	Shortcuts        []ShortcutEntry
	BluetoothOn      bool
	Threshold        int
	TimeoutMin       int
	BackgroundOff    bool
	PrefetchOff      bool
	TelemetryOff     bool
	VisualReduced    bool
	NotificationsOff bool
}

// NewFake returns a Fake populated with a plausible machine state.
func NewFake() *Fake {
	return &Fake{
		Errs:           map[string]error{},
		FailFirst:      map[string]int{},
		ActivePlan:     "381b4222-f694-41f0-9685-ff5bb260df2e",
		BrightnessPct:  75,
		AdapterID:      "Wi-Fi",
		AdapterEnabled: true,
		Policy:         "RemoteSigned",
		Services: map[string]FakeService{
			"WSearch":              {StartupType: StartupAutomatic, Running: true},
			"SysMain":              {StartupType: StartupAutomatic, Running: true},
			"DiagTrack":            {StartupType: StartupAutomatic, Running: true},
			"bthserv":              {StartupType: StartupManual, Running: true},
			"BTAGService":          {StartupType: StartupManual, Running: false},
			"BthAvctpSvc":          {StartupType: StartupManual, Running: true},
			"BluetoothUserService": {StartupType: StartupManual, Running: true},
		},
		RunValues: []RegistryRunEntry{
			{Path: `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`, Name: "OneDrive", Value: `"C:\Users\me\OneDrive.exe" /background`},
		},
		Shortcuts: []ShortcutEntry{
			{Path: `C:\Users\me\Startup\notes.lnk`, Target: `C:\Tools\notes.exe`, Arguments: "--minimized", WorkingDir: `C:\Tools`},
		},
		BluetoothOn: true,
		Threshold:   20,
		TimeoutMin:  10,
	}
}

// called records the invocation and returns the induced error, if any.
// Failed attempts are recorded too, so retry tests can count them.
func (f *Fake) called(id string) error {
	f.Calls = append(f.Calls, id)
	if err, ok := f.Errs[id]; ok {
		return err
	}
	method, _, cut := strings.Cut(id, ":")
	if cut {
		if err, ok := f.Errs[method]; ok {
			return err
		}
	}
	for _, key := range []string{id, method} {
		if n, ok := f.FailFirst[key]; ok && n > 0 {
			f.FailFirst[key] = n - 1
			return fmt.Errorf("%s: induced failure", key)
		}
	}
	return nil
}

// CallCount returns how many recorded calls match id.
func (f *Fake) CallCount(id string) int {
	n := 0
	for _, c := range f.Calls {
		if c == id {
			n++
		}
	}
	return n
}

func (f *Fake) ActivePowerPlan() (string, error) {
	if err := f.called("ActivePowerPlan"); err != nil {
		return "", err
	}
	return f.ActivePlan, nil
}

func (f *Fake) SetActivePowerPlan(id string) error {
	if err := f.called("SetActivePowerPlan"); err != nil {
		return err
	}
	f.ActivePlan = id
	return nil
}

func (f *Fake) Brightness() (int, error) {
	if err := f.called("Brightness"); err != nil {
		return 0, err
	}
	return f.BrightnessPct, nil
}

func (f *Fake) SetBrightness(pct int) error {
	if err := f.called("SetBrightness"); err != nil {
		return err
	}
	f.BrightnessPct = pct
	return nil
}

func (f *Fake) WirelessAdapter() (string, bool, error) {
	if err := f.called("WirelessAdapter"); err != nil {
		return "", false, err
	}
	return f.AdapterID, f.AdapterEnabled, nil
}

func (f *Fake) SetWirelessEnabled(id string, enabled bool) error {
	if err := f.called(fmt.Sprintf("SetWirelessEnabled:%v", enabled)); err != nil {
		return err
	}
	f.AdapterID = id
	f.AdapterEnabled = enabled
	return nil
}

func (f *Fake) ExecutionPolicy() (string, error) {
	if err := f.called("ExecutionPolicy"); err != nil {
		return "", err
	}
	return f.Policy, nil
}

func (f *Fake) SetExecutionPolicy(policy string) error {
	if err := f.called("SetExecutionPolicy"); err != nil {
		return err
	}
	f.Policy = policy
	return nil
}

func (f *Fake) ServiceState(name string) (string, bool, error) {
	if err := f.called("ServiceState:" + name); err != nil {
		return "", false, err
	}
	svc, ok := f.Services[name]
	if !ok {
		return "", false, fmt.Errorf("service %s not found", name)
	}
	return svc.StartupType, svc.Running, nil
}

func (f *Fake) SetServiceState(name, startupType string, running bool) error {
	if err := f.called("SetServiceState:" + name); err != nil {
		return err
	}
	f.Services[name] = FakeService{StartupType: startupType, Running: running}
	return nil
}

func (f *Fake) StartupItems() (StartupItems, error) {
	if err := f.called("StartupItems"); err != nil {
		return StartupItems{}, err
	}
	items := StartupItems{
		Registry:  append([]RegistryRunEntry(nil), f.RunValues...),
		Shortcuts: append([]ShortcutEntry(nil), f.Shortcuts...),
	}
	return items, nil
}

func (f *Fake) WriteRegistryRunValue(path, name, value string) error {
	if err := f.called("WriteRegistryRunValue:" + name); err != nil {
		return err
	}
	for i, e := range f.RunValues {
		if e.Path == path && e.Name == name {
			f.RunValues[i].Value = value
			return nil
		}
	}
	f.RunValues = append(f.RunValues, RegistryRunEntry{Path: path, Name: name, Value: value})
	return nil
}

func (f *Fake) DeleteRegistryRunValue(path, name string) error {
	if err := f.called("DeleteRegistryRunValue:" + name); err != nil {
		return err
	}
	for i, e := range f.RunValues {
		if e.Path == path && e.Name == name {
			f.RunValues = append(f.RunValues[:i], f.RunValues[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *Fake) WriteStartupShortcut(path, target, args, workDir string) error {
	if err := f.called("WriteStartupShortcut:" + path); err != nil {
		return err
	}
	entry := ShortcutEntry{Path: path, Target: target, Arguments: args, WorkingDir: workDir}
	for i, e := range f.Shortcuts {
		if e.Path == path {
			f.Shortcuts[i] = entry
			return nil
		}
	}
	f.Shortcuts = append(f.Shortcuts, entry)
	return nil
}

func (f *Fake) DeleteStartupShortcut(path string) error {
	if err := f.called("DeleteStartupShortcut:" + path); err != nil {
		return err
	}
	for i, e := range f.Shortcuts {
		if e.Path == path {
			f.Shortcuts = append(f.Shortcuts[:i], f.Shortcuts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *Fake) SetBluetoothDeviceEnabled(enabled bool) error {
	if err := f.called(fmt.Sprintf("SetBluetoothDeviceEnabled:%v", enabled)); err != nil {
		return err
	}
	f.BluetoothOn = enabled
	return nil
}

func (f *Fake) SetPowerThreshold(pct int) error {
	if err := f.called("SetPowerThreshold"); err != nil {
		return err
	}
	f.Threshold = pct
	return nil
}

func (f *Fake) SetDisplayTimeout(minutes int) error {
	if err := f.called("SetDisplayTimeout"); err != nil {
		return err
	}
	f.TimeoutMin = minutes
	return nil
}

func (f *Fake) SetBackgroundAppsDisabled(disabled bool) error {
	if err := f.called("SetBackgroundAppsDisabled"); err != nil {
		return err
	}
	f.BackgroundOff = disabled
	return nil
}

func (f *Fake) SetPrefetchDisabled(disabled bool) error {
	if err := f.called("SetPrefetchDisabled"); err != nil {
		return err
	}
	f.PrefetchOff = disabled
	return nil
}

func (f *Fake) SetTelemetryDisabled(disabled bool) error {
	if err := f.called("SetTelemetryDisabled"); err != nil {
		return err
	}
	f.TelemetryOff = disabled
	return nil
}

func (f *Fake) SetVisualEffectsReduced(reduced bool) error {
	if err := f.called("SetVisualEffectsReduced"); err != nil {
		return err
	}
	f.VisualReduced = reduced
	return nil
}

func (f *Fake) SetNotificationsDisabled(disabled bool) error {
	if err := f.called("SetNotificationsDisabled"); err != nil {
		return err
	}
	f.NotificationsOff = disabled
	return nil
}

//go:build windows

package surface

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Run keys scanned for startup entries.
var runKeyPaths = []string{
	`HKCU\Software\Microsoft\Windows\CurrentVersion\Run`,
	`HKLM\SOFTWARE\Microsoft\Windows\CurrentVersion\Run`,
}

// sc config start= values per startup type.
var scStartTypes = map[string]string{
	StartupAutomatic: "auto",
	StartupManual:    "demand",
	StartupDisabled:  "disabled",
}

type winSurface struct{}

// New returns the Surface backed by the local machine.
func New() (Surface, error) {
	if _, err := exec.LookPath("powercfg"); err != nil {
		return nil, fmt.Errorf("powercfg not found in PATH: %w", err)
	}
	return &winSurface{}, nil
}

// powershell runs a script fragment with profile loading and prompts disabled.
func (s *winSurface) powershell(script string) (string, error) {
	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("powershell failed: %w (output: %s)", err, string(output))
	}
	return string(output), nil
}

// psQuote wraps s in a PowerShell single-quoted literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (s *winSurface) ActivePowerPlan() (string, error) {
	cmd := exec.Command("powercfg", "/getactivescheme")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("powercfg /getactivescheme failed: %w (output: %s)", err, string(output))
	}
	return parseActiveSchemeGUID(string(output))
}

func (s *winSurface) SetActivePowerPlan(id string) error {
	cmd := exec.Command("powercfg", "/setactive", id)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("powercfg /setactive %s failed: %w (output: %s)", id, err, string(output))
	}
	return nil
}

func (s *winSurface) Brightness() (int, error) {
	output, err := s.powershell(`(Get-CimInstance -Namespace root/WMI -ClassName WmiMonitorBrightness).CurrentBrightness`)
	if err != nil {
		return 0, fmt.Errorf("failed to query brightness: %w", err)
	}
	return parseBrightness(output)
}

func (s *winSurface) SetBrightness(pct int) error {
	script := fmt.Sprintf(
		`Get-CimInstance -Namespace root/WMI -ClassName WmiMonitorBrightnessMethods | ForEach-Object { Invoke-CimMethod -InputObject $_ -MethodName WmiSetBrightness -Arguments @{Timeout=1; Brightness=%d} } | Out-Null`,
		pct)
	if _, err := s.powershell(script); err != nil {
		return fmt.Errorf("failed to set brightness to %d%%: %w", pct, err)
	}
	return nil
}

func (s *winSurface) WirelessAdapter() (string, bool, error) {
	output, err := s.powershell(`Get-NetAdapter -Physical | Where-Object { $_.PhysicalMediaType -like '*802.11' } | Select-Object -First 1 | ForEach-Object { "$($_.Name)` + "`t" + `$($_.AdminStatus)" }`)
	if err != nil {
		return "", false, fmt.Errorf("failed to query wireless adapter: %w", err)
	}
	return parseAdapterStatus(output)
}

func (s *winSurface) SetWirelessEnabled(id string, enabled bool) error {
	verb := "Disable-NetAdapter"
	if enabled {
		verb = "Enable-NetAdapter"
	}
	if _, err := s.powershell(fmt.Sprintf(`%s -Name %s -Confirm:$false`, verb, psQuote(id))); err != nil {
		return fmt.Errorf("failed to set adapter %s enabled=%v: %w", id, enabled, err)
	}
	return nil
}

func (s *winSurface) ExecutionPolicy() (string, error) {
	output, err := s.powershell(`Get-ExecutionPolicy -Scope CurrentUser`)
	if err != nil {
		return "", fmt.Errorf("failed to query execution policy: %w", err)
	}
	policy := strings.TrimSpace(output)
	if policy == "" {
		return "", fmt.Errorf("empty execution policy output")
	}
	return policy, nil
}

func (s *winSurface) SetExecutionPolicy(policy string) error {
	script := fmt.Sprintf(`Set-ExecutionPolicy -Scope CurrentUser -ExecutionPolicy %s -Force`, policy)
	if _, err := s.powershell(script); err != nil {
		return fmt.Errorf("failed to set execution policy %s: %w", policy, err)
	}
	return nil
}

func (s *winSurface) ServiceState(name string) (string, bool, error) {
	cmd := exec.Command("sc", "qc", name)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", false, fmt.Errorf("sc qc %s failed: %w (output: %s)", name, err, string(output))
	}
	startupType, err := parseServiceStartType(string(output))
	if err != nil {
		return "", false, fmt.Errorf("failed to parse sc qc %s output: %w", name, err)
	}

	cmd = exec.Command("sc", "query", name)
	output, err = cmd.CombinedOutput()
	if err != nil {
		return "", false, fmt.Errorf("sc query %s failed: %w (output: %s)", name, err, string(output))
	}
	running, err := parseServiceRunning(string(output))
	if err != nil {
		return "", false, fmt.Errorf("failed to parse sc query %s output: %w", name, err)
	}
	return startupType, running, nil
}

func (s *winSurface) SetServiceState(name, startupType string, running bool) error {
	scType, ok := scStartTypes[startupType]
	if !ok {
		return fmt.Errorf("unknown startup type %q for service %s", startupType, name)
	}
	cmd := exec.Command("sc", "config", name, "start=", scType)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("sc config %s failed: %w (output: %s)", name, err, string(output))
	}

	if running {
		cmd = exec.Command("sc", "start", name)
		output, err := cmd.CombinedOutput()
		// 1056: an instance of the service is already running
		if err != nil && !strings.Contains(string(output), "1056") {
			return fmt.Errorf("sc start %s failed: %w (output: %s)", name, err, string(output))
		}
		return nil
	}
	cmd = exec.Command("sc", "stop", name)
	output, err := cmd.CombinedOutput()
	// 1062: the service has not been started
	if err != nil && !strings.Contains(string(output), "1062") {
		return fmt.Errorf("sc stop %s failed: %w (output: %s)", name, err, string(output))
	}
	return nil
}

func (s *winSurface) StartupItems() (StartupItems, error) {
	var items StartupItems
	for _, path := range runKeyPaths {
		cmd := exec.Command("reg", "query", path)
		output, err := cmd.CombinedOutput()
		if err != nil {
			// A missing Run key reads as empty, not as a failure.
			if strings.Contains(string(output), "unable to find") {
				continue
			}
			return StartupItems{}, fmt.Errorf("reg query %s failed: %w (output: %s)", path, err, string(output))
		}
		items.Registry = append(items.Registry, parseRegistryRunValues(path, string(output))...)
	}

	for _, dir := range startupFolders() {
		script := fmt.Sprintf(
			`$sh = New-Object -ComObject WScript.Shell; Get-ChildItem -Path %s -Filter *.lnk -ErrorAction SilentlyContinue | ForEach-Object { $lnk = $sh.CreateShortcut($_.FullName); "$($_.FullName)`+"`t"+`$($lnk.TargetPath)`+"`t"+`$($lnk.Arguments)`+"`t"+`$($lnk.WorkingDirectory)" }`,
			psQuote(dir))
		output, err := s.powershell(script)
		if err != nil {
			return StartupItems{}, fmt.Errorf("failed to list startup shortcuts in %s: %w", dir, err)
		}
		items.Shortcuts = append(items.Shortcuts, parseShortcutLines(output)...)
	}
	return items, nil
}

// startupFolders returns the per-user and all-users Startup directories.
func startupFolders() []string {
	var dirs []string
	if appData := os.Getenv("APPDATA"); appData != "" {
		dirs = append(dirs, filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs", "Startup"))
	}
	if programData := os.Getenv("ProgramData"); programData != "" {
		dirs = append(dirs, filepath.Join(programData, "Microsoft", "Windows", "Start Menu", "Programs", "Startup"))
	}
	return dirs
}

func (s *winSurface) WriteRegistryRunValue(path, name, value string) error {
	cmd := exec.Command("reg", "add", path, "/v", name, "/t", "REG_SZ", "/d", value, "/f")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg add %s /v %s failed: %w (output: %s)", path, name, err, string(output))
	}
	return nil
}

func (s *winSurface) DeleteRegistryRunValue(path, name string) error {
	cmd := exec.Command("reg", "delete", path, "/v", name, "/f")
	output, err := cmd.CombinedOutput()
	if err != nil {
		if strings.Contains(string(output), "unable to find") {
			return nil
		}
		return fmt.Errorf("reg delete %s /v %s failed: %w (output: %s)", path, name, err, string(output))
	}
	return nil
}

func (s *winSurface) WriteStartupShortcut(path, target, args, workDir string) error {
	script := fmt.Sprintf(
		`$sh = New-Object -ComObject WScript.Shell; $lnk = $sh.CreateShortcut(%s); $lnk.TargetPath = %s; $lnk.Arguments = %s; $lnk.WorkingDirectory = %s; $lnk.Save()`,
		psQuote(path), psQuote(target), psQuote(args), psQuote(workDir))
	if _, err := s.powershell(script); err != nil {
		return fmt.Errorf("failed to write startup shortcut %s: %w", path, err)
	}
	return nil
}

func (s *winSurface) DeleteStartupShortcut(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete startup shortcut %s: %w", path, err)
	}
	return nil
}

func (s *winSurface) SetBluetoothDeviceEnabled(enabled bool) error {
	var script string
	if enabled {
		script = `Get-PnpDevice -Class Bluetooth | Where-Object { $_.Status -ne 'OK' } | Enable-PnpDevice -Confirm:$false`
	} else {
		script = `Get-PnpDevice -Class Bluetooth -Status OK | Disable-PnpDevice -Confirm:$false`
	}
	if _, err := s.powershell(script); err != nil {
		return fmt.Errorf("failed to set Bluetooth devices enabled=%v: %w", enabled, err)
	}
	return nil
}

func (s *winSurface) SetPowerThreshold(pct int) error {
	cmd := exec.Command("powercfg", "/setdcvalueindex", "SCHEME_CURRENT", "SUB_ENERGYSAVER", "ESBATTTHRESHOLD", strconv.Itoa(pct))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("powercfg /setdcvalueindex failed: %w (output: %s)", err, string(output))
	}
	// Re-activate the current scheme so the new index takes effect.
	cmd = exec.Command("powercfg", "/setactive", "SCHEME_CURRENT")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("powercfg /setactive SCHEME_CURRENT failed: %w (output: %s)", err, string(output))
	}
	return nil
}

func (s *winSurface) SetDisplayTimeout(minutes int) error {
	for _, arg := range []string{"monitor-timeout-dc", "monitor-timeout-ac"} {
		cmd := exec.Command("powercfg", "/change", arg, strconv.Itoa(minutes))
		output, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("powercfg /change %s failed: %w (output: %s)", arg, err, string(output))
		}
	}
	return nil
}

func (s *winSurface) SetBackgroundAppsDisabled(disabled bool) error {
	return s.setRegistryDWORD(
		`HKCU\Software\Microsoft\Windows\CurrentVersion\BackgroundAccessApplications`,
		"GlobalUserDisabled", boolDWORD(disabled))
}

func (s *winSurface) SetPrefetchDisabled(disabled bool) error {
	// 3 enables both prefetch and superfetch, the machine default.
	value := "3"
	if disabled {
		value = "0"
	}
	return s.setRegistryDWORD(
		`HKLM\SYSTEM\CurrentControlSet\Control\Session Manager\Memory Management\PrefetchParameters`,
		"EnablePrefetcher", value)
}

func (s *winSurface) SetTelemetryDisabled(disabled bool) error {
	value := "1"
	if disabled {
		value = "0"
	}
	return s.setRegistryDWORD(
		`HKLM\SOFTWARE\Policies\Microsoft\Windows\DataCollection`,
		"AllowTelemetry", value)
}

func (s *winSurface) SetVisualEffectsReduced(reduced bool) error {
	// 2 is "adjust for best performance", 0 lets Windows choose.
	value := "0"
	if reduced {
		value = "2"
	}
	return s.setRegistryDWORD(
		`HKCU\Software\Microsoft\Windows\CurrentVersion\Explorer\VisualEffects`,
		"VisualFXSetting", value)
}

func (s *winSurface) SetNotificationsDisabled(disabled bool) error {
	return s.setRegistryDWORD(
		`HKCU\Software\Microsoft\Windows\CurrentVersion\PushNotifications`,
		"ToastEnabled", boolDWORD(!disabled))
}

func (s *winSurface) setRegistryDWORD(path, name, value string) error {
	cmd := exec.Command("reg", "add", path, "/v", name, "/t", "REG_DWORD", "/d", value, "/f")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg add %s /v %s failed: %w (output: %s)", path, name, err, string(output))
	}
	return nil
}

func boolDWORD(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

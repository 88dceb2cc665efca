package surface

import (
	"fmt"
	"strconv"
	"strings"
)

// parseActiveSchemeGUID extracts the scheme GUID from powercfg /getactivescheme
// output. Example input:
//
//	Power Scheme GUID: 381b4222-f694-41f0-9685-ff5bb260df2e  (Balanced)
func parseActiveSchemeGUID(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, "GUID:")
		if idx < 0 {
			continue
		}
		fields := strings.Fields(line[idx+len("GUID:"):])
		if len(fields) == 0 {
			continue
		}
		return strings.ToLower(fields[0]), nil
	}
	return "", fmt.Errorf("no power scheme GUID in powercfg output")
}

// parseServiceStartType extracts the startup type from sc qc output.
// The START_TYPE line looks like "START_TYPE : 2 AUTO_START (DELAYED)".
func parseServiceStartType(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "START_TYPE") {
			continue
		}
		switch {
		case strings.Contains(line, "AUTO_START"):
			return StartupAutomatic, nil
		case strings.Contains(line, "DEMAND_START"):
			return StartupManual, nil
		case strings.Contains(line, "DISABLED"):
			return StartupDisabled, nil
		}
	}
	return "", fmt.Errorf("no START_TYPE in sc qc output")
}

// parseServiceRunning extracts the run state from sc query output.
// The STATE line looks like "STATE : 4 RUNNING".
func parseServiceRunning(output string) (bool, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "STATE") {
			continue
		}
		return strings.Contains(line, "RUNNING") || strings.Contains(line, "START_PENDING"), nil
	}
	return false, fmt.Errorf("no STATE in sc query output")
}

// Value types that can appear under a Run key. EXPAND must be checked first.
var runValueTypes = []string{"REG_EXPAND_SZ", "REG_SZ"}

// parseRegistryRunValues parses reg query output for a Run key. Value lines
// are indented and separated by the type token:
//
//	    OneDrive    REG_SZ    "C:\Users\me\OneDrive.exe" /background
func parseRegistryRunValues(path, output string) []RegistryRunEntry {
	var entries []RegistryRunEntry
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "HKEY_") {
			continue
		}
		for _, typ := range runValueTypes {
			idx := strings.Index(trimmed, typ)
			if idx < 0 {
				continue
			}
			name := strings.TrimSpace(trimmed[:idx])
			value := strings.TrimSpace(trimmed[idx+len(typ):])
			if name != "" && name != "(Default)" {
				entries = append(entries, RegistryRunEntry{Path: path, Name: name, Value: value})
			}
			break
		}
	}
	return entries
}

// parseAdapterStatus parses a "name<TAB>adminStatus" line produced by the
// wireless adapter query. AdminStatus is Up when the adapter is enabled.
func parseAdapterStatus(output string) (string, bool, error) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, status, found := strings.Cut(line, "\t")
		if !found {
			return "", false, fmt.Errorf("unexpected adapter status line: %q", line)
		}
		return strings.TrimSpace(name), strings.EqualFold(strings.TrimSpace(status), "Up"), nil
	}
	return "", false, fmt.Errorf("no wireless adapter found")
}

// parseBrightness parses the WMI brightness query output. Multi-monitor
// systems report one value per line; the first one wins.
func parseBrightness(output string) (int, error) {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty brightness output")
	}
	pct, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("failed to parse brightness %q: %w", fields[0], err)
	}
	if pct < 0 || pct > 100 {
		return 0, fmt.Errorf("brightness %d out of range", pct)
	}
	return pct, nil
}

// parseShortcutLines parses "path<TAB>target<TAB>args<TAB>workdir" lines
// produced by the Startup folder listing script.
func parseShortcutLines(output string) []ShortcutEntry {
	var entries []ShortcutEntry
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 4)
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		entry := ShortcutEntry{Path: parts[0], Target: parts[1]}
		if len(parts) > 2 {
			entry.Arguments = parts[2]
		}
		if len(parts) > 3 {
			entry.WorkingDir = parts[3]
		}
		entries = append(entries, entry)
	}
	return entries
}

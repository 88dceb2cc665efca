package sched

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// ErrInvalidDelay is returned when a revert is scheduled zero or negative
// minutes out.
var ErrInvalidDelay = errors.New("revert delay must be at least one minute")

// Marker records a scheduled automatic restore. It lives as a JSON file in
// the state directory; the file doubles as the cancellation channel, since
// removing it tells the waiter process to exit without restoring.
type Marker struct {
	PID          int
	DelayMinutes int
	ScheduledAt  time.Time
	FireAt       time.Time
}

// Scheduler starts, inspects, and cancels the deferred-restore waiter.
type Scheduler struct {
	markerPath string
	logPath    string
}

func New(markerPath, logPath string) *Scheduler {
	return &Scheduler{markerPath: markerPath, logPath: logPath}
}

// MarkerPath returns the path of the schedule marker file.
func (s *Scheduler) MarkerPath() string {
	return s.markerPath
}

// Schedule spawns a detached waiter process that restores the machine after
// the given delay, then writes the marker naming it. Writing the marker last
// means an already-running waiter sees the new PID and exits, so the newest
// schedule always wins.
func (s *Scheduler) Schedule(minutes int) (*Marker, error) {
	if minutes <= 0 {
		return nil, ErrInvalidDelay
	}

	executable, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	logF, err := os.OpenFile(s.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open waiter log: %w", err)
	}
	defer logF.Close()

	cmd := exec.Command(executable, "schedule-wait", "--minutes", strconv.Itoa(minutes))
	cmd.Stdout = logF
	cmd.Stderr = logF
	cmd.Stdin = nil
	cmd.SysProcAttr = detachAttr()

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start revert waiter: %w", err)
	}

	now := time.Now()
	marker := &Marker{
		PID:          cmd.Process.Pid,
		DelayMinutes: minutes,
		ScheduledAt:  now,
		FireAt:       now.Add(time.Duration(minutes) * time.Minute),
	}
	if err := writeMarker(s.markerPath, marker); err != nil {
		cmd.Process.Kill()
		return nil, fmt.Errorf("failed to write schedule marker: %w", err)
	}

	if err := cmd.Process.Release(); err != nil {
		return nil, fmt.Errorf("failed to release waiter process: %w", err)
	}

	return marker, nil
}

// Cancel removes the schedule marker. The waiter notices the removal and
// exits without restoring. Canceling when nothing is scheduled is not an
// error.
func (s *Scheduler) Cancel() error {
	if err := os.Remove(s.markerPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove schedule marker: %w", err)
	}
	return nil
}

// Pending returns the active schedule, or nil when none exists. A marker
// whose waiter process is gone is stale; it is removed and reported as no
// schedule.
func (s *Scheduler) Pending() (*Marker, error) {
	marker, err := readMarker(s.markerPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if !processAlive(marker.PID) {
		os.Remove(s.markerPath)
		return nil, nil
	}

	return marker, nil
}

func writeMarker(path string, m *Marker) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func readMarker(path string) (*Marker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Marker
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse schedule marker %s: %w", path, err)
	}
	return &m, nil
}

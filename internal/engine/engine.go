package engine

import (
	"fmt"
	"os"
	"time"

	"powertrim/internal/settings"
	"powertrim/internal/surface"
)

// DefaultTrackedServices is the capture list used when none is configured.
// It covers everything the profiles touch.
var DefaultTrackedServices = []string{
	"WSearch",
	"SysMain",
	"DiagTrack",
	"bthserv",
	"BTAGService",
	"BthAvctpSvc",
	"BluetoothUserService",
}

// DefaultBluetoothServices is the fixed service set behind Bluetooth support.
var DefaultBluetoothServices = []string{
	"bthserv",
	"BTAGService",
	"BthAvctpSvc",
	"BluetoothUserService",
}

// DefaultBrightness is the fallback used when the backup cannot read the
// real value.
const DefaultBrightness = 50

// Services behind the search-indexing and diagnostics directives.
var searchServices = []string{"WSearch", "SysMain"}

const diagnosticsService = "DiagTrack"

// Recorder receives step-level events for the operation journal.
// journal.Op satisfies it.
type Recorder interface {
	Event(level, step, message string)
}

type nopRecorder struct{}

func (nopRecorder) Event(level, step, message string) {}

// RevertCanceler cancels a pending deferred revert. sched.Scheduler
// satisfies it.
type RevertCanceler interface {
	Cancel() error
}

// Config tunes an Engine. Zero values fall back to the package defaults.
type Config struct {
	DefaultBrightness int
	TrackedServices   []string
	BluetoothServices []string
}

// Engine runs the mode operations against a control surface and a
// settings store.
type Engine struct {
	surf  surface.Surface
	store *settings.Store
	rec   Recorder
	sched RevertCanceler

	defaultBrightness int
	trackedServices   []string
	bluetoothServices []string

	sleep func(time.Duration)
}

// New creates an Engine.
func New(surf surface.Surface, store *settings.Store, cfg Config) *Engine {
	if cfg.DefaultBrightness <= 0 {
		cfg.DefaultBrightness = DefaultBrightness
	}
	if len(cfg.TrackedServices) == 0 {
		cfg.TrackedServices = DefaultTrackedServices
	}
	if len(cfg.BluetoothServices) == 0 {
		cfg.BluetoothServices = DefaultBluetoothServices
	}
	return &Engine{
		surf:              surf,
		store:             store,
		rec:               nopRecorder{},
		defaultBrightness: cfg.DefaultBrightness,
		trackedServices:   cfg.TrackedServices,
		bluetoothServices: cfg.BluetoothServices,
		sleep:             time.Sleep,
	}
}

// SetRecorder routes step events to r, typically a journal operation.
func (e *Engine) SetRecorder(r Recorder) {
	if r != nil {
		e.rec = r
	}
}

// SetRevertCanceler wires the scheduler whose pending revert a restore
// cancels.
func (e *Engine) SetRevertCanceler(c RevertCanceler) {
	e.sched = c
}

// warnf prints a warning and records it in the journal.
func (e *Engine) warnf(step, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	e.rec.Event("warn", step, msg)
}

// Step is the outcome of one directive or restore action.
type Step struct {
	Name   string
	OK     bool
	Detail string
	// Soft marks warning-level steps whose failure does not flip the
	// aggregate result.
	Soft bool
}

// stepList collects step outcomes and mirrors them to the recorder.
type stepList struct {
	rec   Recorder
	steps []Step
}

func (l *stepList) exec(name, detail string, soft bool, fn func() error) bool {
	if err := fn(); err != nil {
		l.fail(name, err.Error(), soft)
		return false
	}
	l.ok(name, detail, soft)
	return true
}

// run executes a hard step.
func (l *stepList) run(name, detail string, fn func() error) bool {
	return l.exec(name, detail, false, fn)
}

// soft executes a warning-level step.
func (l *stepList) soft(name, detail string, fn func() error) bool {
	return l.exec(name, detail, true, fn)
}

// skip records a step that required no action.
func (l *stepList) skip(name, detail string) {
	l.ok(name, detail, false)
}

func (l *stepList) ok(name, detail string, soft bool) {
	l.steps = append(l.steps, Step{Name: name, OK: true, Detail: detail, Soft: soft})
	l.rec.Event("info", name, detail)
}

func (l *stepList) fail(name, detail string, soft bool) {
	l.steps = append(l.steps, Step{Name: name, OK: false, Detail: detail, Soft: soft})
	level := "error"
	if soft {
		level = "warn"
	}
	l.rec.Event(level, name, detail)
}

// success is the aggregate over hard steps.
func success(steps []Step) bool {
	for _, s := range steps {
		if !s.OK && !s.Soft {
			return false
		}
	}
	return true
}

// failed returns the steps that did not succeed, soft ones included.
func failed(steps []Step) []Step {
	var out []Step
	for _, s := range steps {
		if !s.OK {
			out = append(out, s)
		}
	}
	return out
}

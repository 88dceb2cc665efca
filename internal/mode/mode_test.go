package mode

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "powersaver", want: PowerSaver},
		{input: "ultrasaver", want: UltraSaver},
		{input: "restored", want: Restored},
		{input: "turbo", wantErr: true},
		{input: "PowerSaver", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		from    Mode
		to      Mode
		wantErr error
	}{
		{name: "restored to powersaver", from: Restored, to: PowerSaver},
		{name: "restored to ultrasaver", from: Restored, to: UltraSaver},
		{name: "powersaver reapply", from: PowerSaver, to: PowerSaver},
		{name: "ultrasaver reapply", from: UltraSaver, to: UltraSaver},
		{name: "powersaver to restored", from: PowerSaver, to: Restored},
		{name: "ultrasaver to restored", from: UltraSaver, to: Restored},
		{name: "powersaver to ultrasaver", from: PowerSaver, to: UltraSaver, wantErr: ErrIllegalTransition},
		{name: "ultrasaver to powersaver", from: UltraSaver, to: PowerSaver, wantErr: ErrIllegalTransition},
		{name: "restored to restored", from: Restored, to: Restored, wantErr: ErrNothingToRestore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.from, tt.to)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate(%s, %s) = %v, want nil", tt.from, tt.to, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate(%s, %s) = %v, want %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestTransitionErrorMessage(t *testing.T) {
	err := Validate(PowerSaver, UltraSaver)

	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransitionError, got %T", err)
	}
	if te.From != PowerSaver || te.To != UltraSaver {
		t.Errorf("unexpected endpoints: %+v", te)
	}
}

func TestTrackerMissingFileReadsAsRestored(t *testing.T) {
	tr := NewTracker(filepath.Join(t.TempDir(), "mode"))

	m, err := tr.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if m != Restored {
		t.Errorf("expected Restored for missing file, got %q", m)
	}
}

func TestTrackerRoundTrip(t *testing.T) {
	tr := NewTracker(filepath.Join(t.TempDir(), "state", "mode"))

	if err := tr.Set(UltraSaver); err != nil {
		t.Fatalf("Failed to set mode: %v", err)
	}

	m, err := tr.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if m != UltraSaver {
		t.Errorf("expected ultrasaver, got %q", m)
	}

	// Overwrite with a new mode.
	if err := tr.Set(Restored); err != nil {
		t.Fatalf("Failed to set mode: %v", err)
	}
	m, err = tr.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if m != Restored {
		t.Errorf("expected restored, got %q", m)
	}
}

func TestTrackerCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mode")
	if err := os.WriteFile(path, []byte("hibernate\n"), 0644); err != nil {
		t.Fatalf("Failed to write mode file: %v", err)
	}

	if _, err := NewTracker(path).Current(); err == nil {
		t.Fatal("expected error for corrupt mode file")
	}
}

package mode

import (
	"errors"
	"fmt"
)

// Mode identifies which profile, if any, currently owns the machine state.
type Mode string

const (
	// PowerSaver is the moderate battery-stretching profile.
	PowerSaver Mode = "powersaver"
	// UltraSaver is the aggressive last-resort profile.
	UltraSaver Mode = "ultrasaver"
	// Restored means no profile is applied and original settings are in place.
	Restored Mode = "restored"
)

// ErrIllegalTransition is wrapped by TransitionError for errors.Is checks.
var ErrIllegalTransition = errors.New("illegal mode transition")

// ErrNothingToRestore is returned when a restore is requested but no profile
// is applied. Callers should treat it as a warning, not a failure.
var ErrNothingToRestore = errors.New("nothing to restore: no profile is applied")

// Parse converts a token (CLI argument or mode file content) to a Mode.
func Parse(s string) (Mode, error) {
	switch Mode(s) {
	case PowerSaver, UltraSaver, Restored:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (expected powersaver, ultrasaver, or restored)", s)
}

// TransitionError reports an illegal transition with both endpoints.
type TransitionError struct {
	From Mode
	To   Mode
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot switch from %s to %s: restore original settings first", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// Validate checks whether moving from one mode to another is allowed.
//
// Re-applying the active profile is allowed and idempotent. Switching
// directly between the two profiles is not: the first profile's apply
// mutated the very settings the second would capture, so its snapshot
// would record profile output instead of user state.
func Validate(from, to Mode) error {
	if to == Restored {
		if from == Restored {
			return ErrNothingToRestore
		}
		return nil
	}
	if from == Restored || from == to {
		return nil
	}
	return &TransitionError{From: from, To: to}
}

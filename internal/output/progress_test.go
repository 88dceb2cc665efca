package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestWriterIsTTY_Buffer(t *testing.T) {
	if writerIsTTY(&bytes.Buffer{}) {
		t.Error("writerIsTTY() = true for *bytes.Buffer, want false")
	}
}

func TestSpinner_NonTTYPrintsOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Capturing current settings")
	s.SetWriter(buf)

	s.Start()

	// Give a hypothetical animation goroutine time to write; on a non-TTY
	// writer none should exist.
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	got := buf.String()
	if got != "Capturing current settings...\n" {
		t.Errorf("non-TTY spinner output = %q, want single message line", got)
	}
}

func TestSpinner_StartTwice(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Working")
	s.SetWriter(buf)

	s.Start()
	s.Start()
	s.Stop()

	if n := strings.Count(buf.String(), "Working"); n != 1 {
		t.Errorf("message printed %d times, want 1", n)
	}
}

func TestSpinner_MultipleStops(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Test")
	s.SetWriter(buf)

	s.Start()

	// Multiple stops should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinner_StopWithMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Restoring")
	s.SetWriter(buf)

	s.Start()
	s.StopWithMessage("Restore complete.")

	if !strings.Contains(buf.String(), "Restore complete.") {
		t.Errorf("Spinner should contain final message, got: %q", buf.String())
	}
}

func TestSpinner_UpdateMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Initial")
	s.SetWriter(buf)

	s.UpdateMessage("Updated")
	s.Start()
	s.Stop()

	if !strings.Contains(buf.String(), "Updated") {
		t.Errorf("Spinner should print the updated message, got: %q", buf.String())
	}
}

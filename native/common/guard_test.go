package common

import (
	"errors"
	"testing"
)

func TestGuardNilView(t *testing.T) {
	if err := Guard(nil, "lending"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGuardSwitch(t *testing.T) {
	sw := NewSwitch()
	if err := Guard(sw, "lending"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sw.SetPaused("lending", true)
	if err := Guard(sw, "lending"); !errors.Is(err, ErrModulePaused) {
		t.Fatalf("expected ErrModulePaused, got %v", err)
	}
	if err := Guard(sw, "leverage"); err != nil {
		t.Fatalf("other module should not be paused: %v", err)
	}

	sw.SetPaused("lending", false)
	if err := Guard(sw, "lending"); err != nil {
		t.Fatalf("unexpected error after unpause: %v", err)
	}
}

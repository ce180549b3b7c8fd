// internal/telemetry/serialport/port_test.go
package serialport

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goburrow/serial"
)

func TestIsTimeout(t *testing.T) {
	if !IsTimeout(serial.ErrTimeout) {
		t.Fatalf("bare timeout not recognized")
	}
	if !(Link{}).IsIdle(fmt.Errorf("read: %w", serial.ErrTimeout)) {
		t.Fatalf("wrapped timeout not recognized")
	}
	if IsTimeout(errors.New("device unplugged")) {
		t.Fatalf("other errors are not idle")
	}
}

func TestOpenRequiresDevice(t *testing.T) {
	if _, err := (Link{}).Open(); err == nil {
		t.Fatalf("expected error")
	}
}

// internal/indicator/indicator_test.go
package indicator

import (
	"testing"

	"github.com/tamzrod/drawbar-console/internal/telemetry"
)

type fakeLEDs struct {
	one, two bool
	calls    int
}

func (f *fakeLEDs) SetLEDs(one, two bool) error {
	f.one, f.two = one, two
	f.calls++
	return nil
}

func TestRegistrationLightsExactlyOne(t *testing.T) {
	leds := &fakeLEDs{}
	r := NewRegistration(leds)

	if err := r.Show(telemetry.RegistrationTwo); err != nil {
		t.Fatalf("show: %v", err)
	}
	if leds.one || !leds.two {
		t.Fatalf("registration 2: got one=%v two=%v", leds.one, leds.two)
	}

	if err := r.Show(telemetry.RegistrationOne); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !leds.one || leds.two {
		t.Fatalf("registration 1: got one=%v two=%v", leds.one, leds.two)
	}
}

func TestRegistrationRejectsInvalid(t *testing.T) {
	leds := &fakeLEDs{}
	if err := NewRegistration(leds).Show(telemetry.Registration(3)); err == nil {
		t.Fatalf("expected error")
	}
	if leds.calls != 0 {
		t.Fatalf("lamps touched on invalid registration")
	}
}

func TestUnwiredGPIOIsNoop(t *testing.T) {
	g := &GPIO{}
	if err := g.SetLEDs(true, false); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

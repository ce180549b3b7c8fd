// internal/indicator/indicator.go
package indicator

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"

	"github.com/tamzrod/drawbar-console/internal/telemetry"
)

// LEDs is a pair of registration lamps.
type LEDs interface {
	SetLEDs(one, two bool) error
}

// Registration shows the active registration: exactly one lamp is lit.
type Registration struct {
	leds LEDs
}

func NewRegistration(leds LEDs) *Registration {
	return &Registration{leds: leds}
}

func (r *Registration) Show(reg telemetry.Registration) error {
	switch reg {
	case telemetry.RegistrationOne:
		return r.leds.SetLEDs(true, false)
	case telemetry.RegistrationTwo:
		return r.leds.SetLEDs(false, true)
	default:
		return fmt.Errorf("indicator: invalid registration %d", reg)
	}
}

// ---- GPIO ----

// GPIO drives the lamps from two output lines; nil offsets are skipped.
type GPIO struct {
	one, two *gpiocdev.Line
}

// OpenGPIO requests the lamp lines, both initially off.
func OpenGPIO(chip string, one, two *int) (*GPIO, error) {
	g := &GPIO{}
	var err error
	if one != nil {
		if g.one, err = gpiocdev.RequestLine(chip, *one, gpiocdev.AsOutput(0)); err != nil {
			return nil, fmt.Errorf("indicator: request %s line %d: %w", chip, *one, err)
		}
	}
	if two != nil {
		if g.two, err = gpiocdev.RequestLine(chip, *two, gpiocdev.AsOutput(0)); err != nil {
			_ = g.Close()
			return nil, fmt.Errorf("indicator: request %s line %d: %w", chip, *two, err)
		}
	}
	return g, nil
}

func (g *GPIO) SetLEDs(one, two bool) error {
	return multierr.Append(set(g.one, one), set(g.two, two))
}

// Close switches the lamps off and releases the lines.
func (g *GPIO) Close() error {
	var err error
	for _, l := range []*gpiocdev.Line{g.one, g.two} {
		if l == nil {
			continue
		}
		err = multierr.Append(err, l.SetValue(0))
		err = multierr.Append(err, l.Close())
	}
	return err
}

func set(l *gpiocdev.Line, on bool) error {
	if l == nil {
		return nil
	}
	v := 0
	if on {
		v = 1
	}
	return l.SetValue(v)
}

// ---- none ----

// None is used when no lamps are wired.
type None struct{}

func (None) SetLEDs(bool, bool) error { return nil }

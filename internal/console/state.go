// internal/console/state.go
package console

import "github.com/tamzrod/drawbar-console/internal/telemetry"

// Unseen marks a drawbar no frame has reported yet.
const Unseen = '-'

// UpperSlots is the number of drawbars on the upper manual.
const UpperSlots = 9

// DrawbarCache is the last known digit per registration, per slot.
// The lower manual has a single slot.
type DrawbarCache struct {
	upper [2][UpperSlots]byte
	lower [2]byte
}

func NewDrawbarCache() DrawbarCache {
	var c DrawbarCache
	for r := range c.upper {
		for i := range c.upper[r] {
			c.upper[r][i] = Unseen
		}
		c.lower[r] = Unseen
	}
	return c
}

// Set records u. It reports false for updates outside the cache.
func (c *DrawbarCache) Set(u telemetry.DrawbarUpdate) bool {
	r, ok := regIndex(u.Registration)
	if !ok {
		return false
	}
	switch u.Keyboard {
	case telemetry.Upper:
		if u.Slot < 0 || u.Slot >= UpperSlots {
			return false
		}
		c.upper[r][u.Slot] = u.Digit
	case telemetry.Lower:
		c.lower[r] = u.Digit
	default:
		return false
	}
	return true
}

func (c *DrawbarCache) Upper(reg telemetry.Registration) [UpperSlots]byte {
	r, ok := regIndex(reg)
	if !ok {
		var none [UpperSlots]byte
		return none
	}
	return c.upper[r]
}

func (c *DrawbarCache) Lower(reg telemetry.Registration) byte {
	r, ok := regIndex(reg)
	if !ok {
		return Unseen
	}
	return c.lower[r]
}

func regIndex(reg telemetry.Registration) (int, bool) {
	switch reg {
	case telemetry.RegistrationOne:
		return 0, true
	case telemetry.RegistrationTwo:
		return 1, true
	}
	return 0, false
}

// Level is a bounded setting such as volume or reverb.
type Level struct {
	Value int
	Max   int
}

// Step moves the level by delta, clamped to 0..Max.
// It reports whether the value changed.
func (l *Level) Step(delta int) bool {
	v := l.Value + delta
	if v < 0 {
		v = 0
	}
	if v > l.Max {
		v = l.Max
	}
	if v == l.Value {
		return false
	}
	l.Value = v
	return true
}

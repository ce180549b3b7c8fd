// internal/telemetry/types.go
package telemetry

import (
	"errors"
	"fmt"
)

// Delimiter terminates every frame on the wire.
const Delimiter byte = '\n'

// FrameLen is the exact byte count between two delimiters.
const FrameLen = 3

// Keyboard identifies the manual a drawbar belongs to.
type Keyboard uint8

const (
	Upper Keyboard = iota
	Lower
)

func (k Keyboard) String() string {
	if k == Lower {
		return "lower"
	}
	return "upper"
}

// Registration is one of the two drawbar presets.
type Registration uint8

const (
	RegistrationOne Registration = 1
	RegistrationTwo Registration = 2
)

// DrawbarUpdate is a validated frame.
type DrawbarUpdate struct {
	Keyboard     Keyboard
	Registration Registration
	Slot         int  // 0..8
	Digit        byte // '0'..'8'
}

func (u DrawbarUpdate) String() string {
	return fmt.Sprintf("%s reg%d slot%d=%c", u.Keyboard, u.Registration, u.Slot, u.Digit)
}

// Result is one decode outcome: exactly one of Update / Err is meaningful.
type Result struct {
	Update DrawbarUpdate
	Err    error
}

var (
	ErrMalformedFrame  = errors.New("telemetry: malformed frame")
	ErrUnknownPosition = errors.New("telemetry: unknown drawbar position")
	ErrUnknownStatus   = errors.New("telemetry: unknown status byte")
	ErrUnknownDrawbar  = errors.New("telemetry: drawbar index out of range")
	ErrTransportClosed = errors.New("telemetry: transport closed")
)

// FrameError reports a frame that could not be decoded.
// Frame is a copy of the offending bytes (delimiter excluded).
type FrameError struct {
	Frame []byte
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%v: % x", e.Err, e.Frame)
}

func (e *FrameError) Unwrap() error { return e.Err }

// Code is a stable numeric code for status registers.
func (e *FrameError) Code() uint16 {
	switch {
	case errors.Is(e.Err, ErrMalformedFrame):
		return 10
	case errors.Is(e.Err, ErrUnknownStatus):
		return 11
	case errors.Is(e.Err, ErrUnknownPosition):
		return 12
	case errors.Is(e.Err, ErrUnknownDrawbar):
		return 13
	default:
		return 1
	}
}

// ---- wire tables (protocol-locked) ----

// status byte => keyboard + registration (MIDI CC status, channels 1-4)
var statusTable = map[byte]struct {
	kb  Keyboard
	reg Registration
}{
	0xB0: {Upper, RegistrationOne},
	0xB1: {Lower, RegistrationOne},
	0xB2: {Upper, RegistrationTwo},
	0xB3: {Lower, RegistrationTwo},
}

// calibrated raw position => drawbar digit
var positionTable = map[byte]byte{
	127: '0',
	110: '1',
	92:  '2',
	79:  '3',
	63:  '4',
	47:  '5',
	31:  '6',
	15:  '7',
	0:   '8',
}

// upperIndexBase is the drawbar index of upper slot 0.
const upperIndexBase = 70

// StatusByte returns the wire status byte for a keyboard/registration pair.
func StatusByte(kb Keyboard, reg Registration) byte {
	for b, v := range statusTable {
		if v.kb == kb && v.reg == reg {
			return b
		}
	}
	return 0
}

// RawPosition returns the calibrated wire value for a digit.
func RawPosition(digit byte) (byte, bool) {
	for raw, d := range positionTable {
		if d == digit {
			return raw, true
		}
	}
	return 0, false
}

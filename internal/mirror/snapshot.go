// internal/mirror/snapshot.go
package mirror

// Snapshot is exactly what the mirror is allowed to deliver.
// It is comparable, so callers can skip unchanged states.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16

	Registration uint16
	Volume       uint16
	Reverb       uint16
	DecodeErrors uint16

	// Drawbars[r] is registration r+1: upper slots 0..8, then lower.
	Drawbars [2][DrawbarsPerRegistration]uint16
}

// Encode converts the live part of a Snapshot into block registers.
// The device name slots are left zero.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerBlock)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	regs[SlotRegistration] = s.Registration
	regs[SlotVolume] = s.Volume
	regs[SlotReverb] = s.Reverb
	regs[SlotDecodeErrors] = s.DecodeErrors

	for r := range s.Drawbars {
		copy(regs[SlotDrawbarsStart+r*DrawbarsPerRegistration:], s.Drawbars[r][:])
	}
	return regs
}

// DrawbarValue maps a cached digit ('0'..'8', '-') to its register value.
func DrawbarValue(digit byte) uint16 {
	if digit < '0' || digit > '8' {
		return DrawbarUnknown
	}
	return uint16(digit - '0')
}

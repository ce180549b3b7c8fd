// internal/mirror/writer.go
package mirror

import (
	"errors"
	"fmt"
	"strings"
)

// endpointClient is the exact contract the mirror uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

type Plan struct {
	UnitID     uint8
	BaseAddr   uint16
	DeviceName string
}

// Writer delivers snapshots into the mirror block.
// The first write, and the first write after any failure, asserts the
// full block including the device name; later writes send only the
// registers that changed, one request per contiguous run.
type Writer struct {
	plan Plan
	cli  endpointClient

	needFull bool
	last     []uint16
	nameRegs []uint16
}

func NewWriter(plan Plan, cli endpointClient) *Writer {
	return &Writer{
		plan:     plan,
		cli:      cli,
		needFull: true,
		nameRegs: encodeDeviceNameRegs(plan.DeviceName),
	}
}

// Write delivers s. On any write failure, the next call re-asserts the full block.
func (w *Writer) Write(s Snapshot) error {
	if w.cli == nil {
		return errors.New("mirror: no client")
	}

	regs := Encode(s)
	copy(regs[SlotDeviceNameStart:], w.nameRegs)

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if w.needFull {
		if err := w.cli.WriteRegisters(w.plan.UnitID, w.plan.BaseAddr, regs); err != nil {
			return fmt.Errorf("mirror: full block write failed: %w", err)
		}
		w.needFull = false
		w.last = regs
		return nil
	}

	var errs []string
	for _, run := range changedRuns(w.last, regs) {
		lo, hi := run[0], run[1]
		addr := w.plan.BaseAddr + uint16(lo)
		if err := w.cli.WriteRegisters(w.plan.UnitID, addr, regs[lo:hi]); err != nil {
			errs = append(errs, fmt.Sprintf("slots %d-%d write failed: %v", lo, hi-1, err))
			continue
		}
		copy(w.last[lo:hi], regs[lo:hi])
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt — re-assert on next call.
		w.needFull = true
		return errors.New("mirror: " + strings.Join(errs, " | "))
	}
	return nil
}

// changedRuns returns [lo, hi) index pairs where a and b differ.
func changedRuns(a, b []uint16) [][2]int {
	var runs [][2]int
	start := -1
	for i := range b {
		diff := i >= len(a) || a[i] != b[i]
		switch {
		case diff && start < 0:
			start = i
		case !diff && start >= 0:
			runs = append(runs, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(b)})
	}
	return runs
}

// encodeDeviceNameRegs packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func encodeDeviceNameRegs(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}

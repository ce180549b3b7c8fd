// internal/display/lcd/rw1063.go
package lcd

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"

	"github.com/tamzrod/drawbar-console/internal/display"
)

// DefaultRW1063Address is the address of the MC21605 module.
const DefaultRW1063Address = 0x3C

// Control bytes selecting the register a transfer targets.
const (
	regCommand = 0x00
	regData    = 0x40
	regInit    = 0x01
)

// Instruction set.
const (
	cmdClearDisplay   = 0x01
	cmdReturnHome     = 0x02
	cmdEntryModeSet   = 0x04
	cmdDisplayControl = 0x08
	cmdFunctionSet    = 0x20
	cmdSetDDRAMAddr   = 0x80

	flagI2CMode   = 0x10
	flagTwoLine   = 0x08
	flagDisplayOn = 0x04
	flagMoveRight = 0x04
)

// RW1063 drives an RW1063 character controller in I2C mode.
type RW1063 struct {
	bus        Bus
	addr       uint16
	rowOffsets []int
	size       display.Size
	closer     io.Closer

	sleep func(time.Duration)
}

// NewRW1063 runs the controller's power-on sequence. closer may be nil.
func NewRW1063(bus Bus, closer io.Closer, addr uint16, size display.Size, rowOffsets []int) (*RW1063, error) {
	if len(rowOffsets) < size.Rows {
		return nil, fmt.Errorf("rw1063: %d row offsets for %d rows", len(rowOffsets), size.Rows)
	}
	d := &RW1063{
		bus:        bus,
		addr:       addr,
		rowOffsets: append([]int(nil), rowOffsets...),
		size:       size,
		closer:     closer,
		sleep:      time.Sleep,
	}
	if err := d.init(); err != nil {
		return nil, fmt.Errorf("rw1063: init at 0x%02x: %w", addr, err)
	}
	return d, nil
}

type step struct {
	reg  byte
	val  byte
	wait time.Duration
}

var initSequence = []step{
	{regCommand, cmdFunctionSet | flagI2CMode, time.Millisecond},
	{regCommand, cmdFunctionSet | flagI2CMode, time.Millisecond},
	{regCommand, cmdDisplayControl, time.Millisecond},
	{regCommand, cmdEntryModeSet | flagMoveRight, time.Millisecond},
	{regInit, 0x34, 10 * time.Millisecond},
	{regInit, 0x02, 100 * time.Millisecond},
	{regInit, 0x06, 100 * time.Millisecond},
	{regInit, 0x16, 100 * time.Millisecond},
	{regInit, 0x08, 100 * time.Millisecond},
	{regInit, 0x08, 100 * time.Millisecond},
	{regCommand, cmdFunctionSet | flagI2CMode | flagTwoLine, time.Millisecond},
	{regCommand, cmdDisplayControl | flagDisplayOn, time.Millisecond},
}

func (d *RW1063) init() error {
	for _, s := range initSequence {
		if err := d.tx(s.reg, s.val); err != nil {
			return err
		}
		d.sleep(s.wait)
	}
	return d.Clear()
}

func (d *RW1063) tx(reg byte, data ...byte) error {
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)
	return d.bus.Tx(d.addr, w, nil)
}

func (d *RW1063) Clear() error {
	if err := d.tx(regCommand, cmdClearDisplay); err != nil {
		return fmt.Errorf("rw1063: clear: %w", err)
	}
	d.sleep(3 * time.Millisecond)
	return nil
}

func (d *RW1063) Home() error {
	if err := d.tx(regCommand, cmdReturnHome); err != nil {
		return fmt.Errorf("rw1063: home: %w", err)
	}
	d.sleep(3 * time.Millisecond)
	return nil
}

func (d *RW1063) SetCursor(row, col int) error {
	if row < 0 || row >= d.size.Rows || col < 0 || col >= d.size.Cols {
		return fmt.Errorf("rw1063: cursor %d,%d outside %dx%d", row, col, d.size.Rows, d.size.Cols)
	}
	addr := byte(d.rowOffsets[row] + col)
	if err := d.tx(regCommand, cmdSetDDRAMAddr|addr); err != nil {
		return fmt.Errorf("rw1063: cursor: %w", err)
	}
	return nil
}

// Write sends the text one data byte per transfer, as the controller expects.
func (d *RW1063) Write(text string) error {
	for i := 0; i < len(text); i++ {
		if err := d.tx(regData, text[i]); err != nil {
			return fmt.Errorf("rw1063: write: %w", err)
		}
	}
	return nil
}

func (d *RW1063) Close() error {
	err := d.Clear()
	if d.closer != nil {
		err = multierr.Append(err, d.closer.Close())
	}
	return err
}

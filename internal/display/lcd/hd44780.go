// internal/display/lcd/hd44780.go
package lcd

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
	"tinygo.org/x/drivers/hd44780i2c"

	"github.com/tamzrod/drawbar-console/internal/display"
)

// DefaultHD44780Address is the usual PCF8574 backpack address.
const DefaultHD44780Address = 0x27

// HD44780 drives an HD44780 module behind a PCF8574 I2C backpack.
type HD44780 struct {
	dev    hd44780i2c.Device
	bus    *trackingBus
	closer io.Closer
	size   display.Size
}

// NewHD44780 initializes the controller. closer may be nil.
func NewHD44780(bus Bus, closer io.Closer, addr uint16, size display.Size) (*HD44780, error) {
	tb := &trackingBus{bus: bus}
	d := &HD44780{
		dev:    hd44780i2c.New(tb, uint8(addr)),
		bus:    tb,
		closer: closer,
		size:   size,
	}

	d.dev.Configure(hd44780i2c.Config{
		Width:  uint8(size.Cols),
		Height: uint8(size.Rows),
	})
	if err := tb.take(); err != nil {
		return nil, fmt.Errorf("hd44780: init at 0x%02x: %w", addr, err)
	}
	return d, nil
}

func (d *HD44780) Clear() error {
	d.dev.ClearDisplay()
	return d.result("clear")
}

func (d *HD44780) Home() error {
	d.dev.Home()
	return d.result("home")
}

func (d *HD44780) SetCursor(row, col int) error {
	d.dev.SetCursor(uint8(col), uint8(row))
	return d.result("cursor")
}

func (d *HD44780) Write(text string) error {
	d.dev.Print([]byte(text))
	return d.result("write")
}

// Close blanks the panel, switches the backlight off and releases the bus.
func (d *HD44780) Close() error {
	d.dev.ClearDisplay()
	d.dev.BacklightOn(false)
	err := d.result("close")
	if d.closer != nil {
		err = multierr.Append(err, d.closer.Close())
	}
	return err
}

func (d *HD44780) result(op string) error {
	if err := d.bus.take(); err != nil {
		return fmt.Errorf("hd44780: %s: %w", op, err)
	}
	return nil
}

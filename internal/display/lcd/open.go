// internal/display/lcd/open.go
package lcd

import (
	"fmt"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/tamzrod/drawbar-console/internal/display"
)

const (
	DriverHD44780 = "hd44780"
	DriverRW1063  = "rw1063"
)

type Config struct {
	Driver     string
	Bus        string // "" opens the first registered bus
	Address    uint16
	Size       display.Size
	RowOffsets []int
}

// Open initializes the host, opens the I2C bus and brings up the controller.
// The returned Surface owns the bus.
func Open(cfg Config) (display.Surface, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("lcd: host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("lcd: open i2c bus %q: %w", cfg.Bus, err)
	}

	var s display.Surface
	switch cfg.Driver {
	case DriverHD44780:
		s, err = NewHD44780(bus, bus, cfg.Address, cfg.Size)
	case DriverRW1063:
		s, err = NewRW1063(bus, bus, cfg.Address, cfg.Size, cfg.RowOffsets)
	default:
		err = fmt.Errorf("lcd: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	return s, nil
}

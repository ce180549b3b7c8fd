// internal/display/lcd/bus.go
package lcd

// Bus is an I2C bus as periph exposes it. The tinygo drivers use the same
// Tx shape, so one bus serves every controller here.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
}

// trackingBus keeps the first transfer error for drivers whose methods
// do not return one. take hands it over and resets.
type trackingBus struct {
	bus Bus
	err error
}

func (b *trackingBus) Tx(addr uint16, w, r []byte) error {
	err := b.bus.Tx(addr, w, r)
	if err != nil && b.err == nil {
		b.err = err
	}
	return err
}

func (b *trackingBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}

func (b *trackingBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	w := make([]byte, 0, len(buf)+1)
	w = append(w, reg)
	w = append(w, buf...)
	return b.Tx(uint16(addr), w, nil)
}

func (b *trackingBus) take() error {
	err := b.err
	b.err = nil
	return err
}

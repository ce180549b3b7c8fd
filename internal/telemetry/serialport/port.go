// internal/telemetry/serialport/port.go
package serialport

import (
	"errors"
	"io"
	"time"

	"github.com/goburrow/serial"
)

// Config is minimal transport config.
type Config struct {
	Device      string
	BaudRate    int
	ReadTimeout time.Duration
}

// Open opens the microcontroller link as 8N1.
// The read timeout lets readers notice cancellation on an idle link.
func Open(cfg Config) (io.ReadWriteCloser, error) {
	if cfg.Device == "" {
		return nil, errors.New("serialport: device required")
	}

	return serial.Open(&serial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.ReadTimeout,
	})
}

// IsTimeout reports a read that simply saw no bytes.
func IsTimeout(err error) bool {
	return errors.Is(err, serial.ErrTimeout)
}

// Link opens the same port on every call, for reconnecting hosts.
type Link struct {
	Config Config
}

func (l Link) Open() (io.ReadWriteCloser, error) { return Open(l.Config) }

func (Link) IsIdle(err error) bool { return IsTimeout(err) }

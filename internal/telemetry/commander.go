// internal/telemetry/commander.go
package telemetry

import (
	"fmt"
	"io"
	"sync"
)

// Commander sends one-line commands to the microcontroller.
// Writes are serialized; no acknowledgment is awaited.
type Commander struct {
	mu sync.Mutex
	w  io.Writer
}

func NewCommander(w io.Writer) *Commander {
	return &Commander{w: w}
}

// SelectRegistration emits "1\n" or "2\n".
func (c *Commander) SelectRegistration(reg Registration) error {
	if reg != RegistrationOne && reg != RegistrationTwo {
		return fmt.Errorf("telemetry: invalid registration %d", reg)
	}
	return c.send([]byte{'0' + byte(reg), Delimiter})
}

// Attach swaps the underlying writer (nil detaches), e.g. after a reconnect.
func (c *Commander) Attach(w io.Writer) {
	c.mu.Lock()
	c.w = w
	c.mu.Unlock()
}

func (c *Commander) send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.w == nil {
		return fmt.Errorf("telemetry: command channel not connected")
	}

	for len(b) > 0 {
		n, err := c.w.Write(b)
		if err != nil {
			return fmt.Errorf("telemetry: command write: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("telemetry: command write: %w", io.ErrShortWrite)
		}
		b = b[n:]
	}
	return nil
}

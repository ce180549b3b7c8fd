// internal/console/run.go
package console

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/tamzrod/drawbar-console/internal/input"
	"github.com/tamzrod/drawbar-console/internal/telemetry"
)

// Link opens the microcontroller transport.
type Link interface {
	Open() (io.ReadWriteCloser, error)
	IsIdle(err error) bool
}

// Run shows the welcome message, sets registration 1 and drives the menu
// and telemetry loops until ctx is done or a Quit event arrives. It ends
// with the goodbye message, held for the goodbye delay even when ctx is
// already done, since closing the display blanks the panel. Closing the
// display is left to the caller.
// link may be nil when no microcontroller is attached.
func (c *Console) Run(ctx context.Context, events <-chan input.Event, link Link) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.start(ctx)

	var wg sync.WaitGroup
	if link != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.runTelemetry(ctx, link)
		}()
	}

	c.runMenu(ctx, cancel, events)

	wg.Wait()
	c.message(c.goodbye)
	if c.goodbyeDelay > 0 {
		time.Sleep(c.goodbyeDelay)
	}
	return nil
}

func (c *Console) start(ctx context.Context) {
	if c.welcome != "" {
		c.message(c.welcome)
		sleep(ctx, c.welcomeDelay)
	}
	if err := c.ind.Show(telemetry.RegistrationOne); err != nil {
		c.log.Error(err, "registration indicator failed")
	}
	c.render(ctx, true)
}

// runMenu is the only goroutine that moves the cursor.
func (c *Console) runMenu(ctx context.Context, quit context.CancelFunc, events <-chan input.Event) {
	t := time.NewTicker(c.tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Kind == input.Quit {
				c.log.Info("quit requested")
				quit()
				return
			}
			c.HandleEvent(ctx, ev)

		case <-t.C:
			c.Tick(ctx)
		}
	}
}

// runTelemetry keeps one connection open at a time. After the transport
// closes it waits the reconnect delay and opens a fresh one; decode state
// never carries over.
func (c *Console) runTelemetry(ctx context.Context, link Link) {
	for {
		port, err := link.Open()
		if err != nil {
			c.linkDown(err)
		} else {
			c.session(ctx, link, port)
		}

		if !sleep(ctx, c.reconnect) {
			return
		}
		c.m.Reconnects.Inc()
	}
}

func (c *Console) session(ctx context.Context, link Link, port io.ReadWriteCloser) {
	c.linkUp()
	c.cmd.Attach(port)
	c.log.Info("serial link up")

	results := make(chan telemetry.Result)
	done := make(chan error, 1)
	go func() {
		done <- telemetry.NewReader(link.IsIdle).Run(ctx, port, results)
	}()

	for {
		select {
		case res := <-results:
			c.ApplyResult(res)
		case <-done:
			c.cmd.Attach(nil)
			if err := port.Close(); err != nil {
				c.log.V(1).Info("serial close", "error", err.Error())
			}
			return
		}
	}
}

// sleep waits d or until ctx is done; it reports whether ctx is still live.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

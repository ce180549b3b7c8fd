// internal/input/gpio.go
package input

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
)

// EventBuffer is the capacity of the event channel. Edge callbacks never
// block; events arriving while it is full are dropped and logged.
const EventBuffer = 64

type Encoder struct {
	A, B int
}

// GPIOConfig names the line offsets on one chip; nil means not wired.
type GPIOConfig struct {
	Chip     string
	Debounce time.Duration

	MenuPush      *int
	Registration1 *int
	Registration2 *int

	MenuEncoder   *Encoder
	VolumeEncoder *Encoder
	ReverbEncoder *Encoder
}

// GPIO turns button edges and encoder detents into Events.
type GPIO struct {
	events chan Event
	log    logr.Logger

	mu      sync.Mutex
	closers []func() error
}

// OpenGPIO requests every configured line. On error, lines already
// requested are released.
func OpenGPIO(cfg GPIOConfig, log logr.Logger) (*GPIO, error) {
	if cfg.Chip == "" {
		return nil, errors.New("input: gpio chip required")
	}

	g := &GPIO{
		events: make(chan Event, EventBuffer),
		log:    log.WithName("gpio"),
	}

	buttons := []struct {
		pin  *int
		kind Kind
	}{
		{cfg.MenuPush, SubSelect},
		{cfg.Registration1, Registration1},
		{cfg.Registration2, Registration2},
	}
	for _, b := range buttons {
		if b.pin == nil {
			continue
		}
		if err := g.button(cfg.Chip, *b.pin, cfg.Debounce, b.kind); err != nil {
			_ = g.Close()
			return nil, err
		}
	}

	encoders := []struct {
		enc     *Encoder
		cw, ccw Kind
	}{
		{cfg.MenuEncoder, TopForward, TopBackward},
		{cfg.VolumeEncoder, VolumeUp, VolumeDown},
		{cfg.ReverbEncoder, ReverbUp, ReverbDown},
	}
	for _, e := range encoders {
		if e.enc == nil {
			continue
		}
		if err := g.encoder(cfg.Chip, *e.enc, e.cw, e.ccw); err != nil {
			_ = g.Close()
			return nil, err
		}
	}

	return g, nil
}

// Events delivers decoded input. It is never closed.
func (g *GPIO) Events() <-chan Event { return g.events }

// Close releases all requested lines.
func (g *GPIO) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var err error
	for _, fn := range g.closers {
		err = multierr.Append(err, fn())
	}
	g.closers = nil
	return err
}

func (g *GPIO) emit(k Kind) {
	select {
	case g.events <- Event{Kind: k}:
	default:
		g.log.Info("input event dropped", "kind", k.String())
	}
}

// button is active low with the internal pull-up; the kernel debounces it.
func (g *GPIO) button(chip string, pin int, debounce time.Duration, kind Kind) error {
	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { g.emit(kind) }),
	}
	if debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(debounce))
	}

	l, err := gpiocdev.RequestLine(chip, pin, opts...)
	if err != nil {
		return fmt.Errorf("input: request %s line %d (%s): %w", chip, pin, kind, err)
	}
	g.track(l.Close)
	return nil
}

func (g *GPIO) encoder(chip string, enc Encoder, cw, ccw Kind) error {
	var (
		mu    sync.Mutex
		level = map[int]bool{enc.A: true, enc.B: true}
		q     = NewQuadrature(true, true)
	)

	handler := func(evt gpiocdev.LineEvent) {
		mu.Lock()
		level[evt.Offset] = evt.Type == gpiocdev.LineEventRisingEdge
		d := q.Update(level[enc.A], level[enc.B])
		mu.Unlock()

		switch d {
		case 1:
			g.emit(cw)
		case -1:
			g.emit(ccw)
		}
	}

	ls, err := gpiocdev.RequestLines(chip, []int{enc.A, enc.B},
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(handler),
	)
	if err != nil {
		return fmt.Errorf("input: request %s encoder %d/%d: %w", chip, enc.A, enc.B, err)
	}

	vals := make([]int, 2)
	if err := ls.Values(vals); err != nil {
		_ = ls.Close()
		return fmt.Errorf("input: read encoder %d/%d: %w", enc.A, enc.B, err)
	}
	mu.Lock()
	level[enc.A], level[enc.B] = vals[0] == 1, vals[1] == 1
	*q = *NewQuadrature(level[enc.A], level[enc.B])
	mu.Unlock()

	g.track(ls.Close)
	return nil
}

func (g *GPIO) track(fn func() error) {
	g.mu.Lock()
	g.closers = append(g.closers, fn)
	g.mu.Unlock()
}

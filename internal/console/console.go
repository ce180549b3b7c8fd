// internal/console/console.go
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/tamzrod/drawbar-console/internal/display"
	"github.com/tamzrod/drawbar-console/internal/input"
	"github.com/tamzrod/drawbar-console/internal/menu"
	"github.com/tamzrod/drawbar-console/internal/metrics"
	"github.com/tamzrod/drawbar-console/internal/mirror"
	"github.com/tamzrod/drawbar-console/internal/telemetry"
)

// Commander sends registration selects to the microcontroller.
type Commander interface {
	SelectRegistration(reg telemetry.Registration) error
	Attach(w io.Writer)
}

// Indicator shows the active registration.
type Indicator interface {
	Show(reg telemetry.Registration) error
}

type Options struct {
	Items     []menu.Item
	Arbiter   *display.Arbiter
	Commander Commander
	Indicator Indicator
	Metrics   *metrics.Metrics // nil => private, unexported registry
	Log       logr.Logger

	Drawbars DrawbarLayout
	Volume   Level
	Reverb   Level

	Tick            time.Duration
	ProducerTimeout time.Duration
	Welcome         string
	WelcomeDelay    time.Duration
	Goodbye         string
	GoodbyeDelay    time.Duration
	Reconnect       time.Duration
}

// Console owns the session: menu cursor, registration, levels and the
// drawbar cache. mu guards all of it; it is never held while calling a
// producer or while waiting for the display.
type Console struct {
	arb  *display.Arbiter
	size display.Size
	cmd  Commander
	ind  Indicator
	m    *metrics.Metrics
	log  logr.Logger

	layout       DrawbarLayout
	tick         time.Duration
	welcome      string
	welcomeDelay time.Duration
	goodbye      string
	goodbyeDelay time.Duration
	reconnect    time.Duration

	mu     sync.Mutex
	engine *menu.Engine
	reg    telemetry.Registration
	volume Level
	reverb Level
	cache  DrawbarCache

	health       uint16
	lastErrCode  uint16
	decodeErrors uint16
}

func New(opts Options) (*Console, error) {
	if opts.Arbiter == nil {
		return nil, errors.New("console: arbiter required")
	}
	if opts.Commander == nil || opts.Indicator == nil {
		return nil, errors.New("console: commander and indicator required")
	}

	size := opts.Arbiter.Size()
	l := opts.Drawbars
	if l.Row < 0 || l.Row >= size.Rows || l.UpperCol < 0 || l.UpperCol+UpperSlots > size.Cols {
		return nil, fmt.Errorf("console: drawbar row %d col %d outside %dx%d", l.Row, l.UpperCol, size.Rows, size.Cols)
	}
	if l.LowerCol < 0 || l.LowerCol >= size.Cols {
		return nil, fmt.Errorf("console: lower drawbar col %d outside 0-%d", l.LowerCol, size.Cols-1)
	}

	c := &Console{
		arb:          opts.Arbiter,
		size:         size,
		cmd:          opts.Commander,
		ind:          opts.Indicator,
		m:            opts.Metrics,
		log:          opts.Log,
		layout:       l,
		tick:         opts.Tick,
		welcome:      opts.Welcome,
		welcomeDelay: opts.WelcomeDelay,
		goodbye:      opts.Goodbye,
		goodbyeDelay: opts.GoodbyeDelay,
		reconnect:    opts.Reconnect,
		reg:          telemetry.RegistrationOne,
		volume:       opts.Volume,
		reverb:       opts.Reverb,
		cache:        NewDrawbarCache(),
		health:       mirror.HealthUnknown,
	}
	if c.m == nil {
		c.m = metrics.New()
	}
	if c.tick <= 0 {
		c.tick = time.Second
	}
	if c.reconnect <= 0 {
		c.reconnect = 2 * time.Second
	}

	engineOpts := []menu.Option{
		menu.WithRenderer(menu.Volume, menu.RendererFunc(c.renderLevel)),
		menu.WithRenderer(menu.Reverb, menu.RendererFunc(c.renderLevel)),
		menu.WithRenderer(menu.Drawbars, menu.RendererFunc(c.renderDrawbars)),
		menu.WithErrorHook(func(it menu.Item, err error) {
			c.m.RenderFallbacks.Inc()
			c.log.V(1).Info("render fallback", "item", it.Name, "error", err.Error())
		}),
	}
	if opts.ProducerTimeout > 0 {
		engineOpts = append(engineOpts, menu.WithProducerTimeout(opts.ProducerTimeout))
	}

	e, err := menu.New(opts.Items, engineOpts...)
	if err != nil {
		return nil, err
	}
	c.engine = e
	return c, nil
}

// Cursor returns the menu position.
func (c *Console) Cursor() menu.Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Cursor()
}

// Registration returns the active registration.
func (c *Console) Registration() telemetry.Registration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reg
}

// Levels returns the current volume and reverb.
func (c *Console) Levels() (volume, reverb Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume, c.reverb
}

// ---- input ----

// HandleEvent applies one input event. Quit is handled by Run.
func (c *Console) HandleEvent(ctx context.Context, ev input.Event) {
	c.m.Navigations.WithLabelValues(ev.Kind.String()).Inc()

	switch ev.Kind {
	case input.TopForward, input.TopBackward, input.SubSelect, input.SubPrev:
		c.navigate(ctx, ev.Kind)
	case input.Registration1:
		c.selectRegistration(telemetry.RegistrationOne)
	case input.Registration2:
		c.selectRegistration(telemetry.RegistrationTwo)
	case input.VolumeUp, input.VolumeDown, input.ReverbUp, input.ReverbDown:
		c.stepLevel(ctx, ev.Kind)
	}
}

func (c *Console) navigate(ctx context.Context, k input.Kind) {
	c.mu.Lock()
	switch k {
	case input.TopForward:
		c.engine.Forward()
	case input.TopBackward:
		c.engine.Backward()
	case input.SubSelect:
		c.engine.SelectNext()
	case input.SubPrev:
		c.engine.SelectPrev()
	}
	c.mu.Unlock()

	c.render(ctx, true)
}

// selectRegistration sends the command once, then updates the lamps.
// The menu cursor is not touched.
func (c *Console) selectRegistration(reg telemetry.Registration) {
	c.mu.Lock()
	c.reg = reg
	c.mu.Unlock()

	c.m.Registrations.WithLabelValues(strconv.Itoa(int(reg))).Inc()

	if err := c.cmd.SelectRegistration(reg); err != nil {
		c.log.Error(err, "registration select not sent", "registration", int(reg))
	}
	if err := c.ind.Show(reg); err != nil {
		c.log.Error(err, "registration indicator failed", "registration", int(reg))
	}
}

func (c *Console) stepLevel(ctx context.Context, k input.Kind) {
	c.mu.Lock()
	var (
		changed bool
		kind    menu.Kind
	)
	switch k {
	case input.VolumeUp:
		changed, kind = c.volume.Step(1), menu.Volume
	case input.VolumeDown:
		changed, kind = c.volume.Step(-1), menu.Volume
	case input.ReverbUp:
		changed, kind = c.reverb.Step(1), menu.Reverb
	case input.ReverbDown:
		changed, kind = c.reverb.Step(-1), menu.Reverb
	}
	it, ok := c.engine.Current()
	c.mu.Unlock()

	if changed && ok && it.Kind == kind {
		c.render(ctx, false)
	}
}

// ---- display ----

// Tick re-renders the current item in place.
func (c *Console) Tick(ctx context.Context) {
	c.render(ctx, false)
}

// render draws the item under the cursor. Producers run outside every
// lock; the sequence is dropped if the cursor moved meanwhile, since the
// move renders on its own.
func (c *Console) render(ctx context.Context, clear bool) {
	c.mu.Lock()
	cur := c.engine.Cursor()
	it, ok := c.engine.Current()
	c.mu.Unlock()

	var screen menu.Screen
	if ok && it.Kind != menu.Drawbars {
		screen = c.engine.Render(ctx, it)
	}

	err := c.arb.Do(func(w display.Writer) error {
		c.mu.Lock()
		if c.engine.Cursor() != cur {
			c.mu.Unlock()
			return nil
		}
		if ok && it.Kind == menu.Drawbars {
			// read under the same sequence a live update would use
			screen = c.drawbarScreenLocked(it)
		}
		c.mu.Unlock()

		return show(w, screen.Lines, clear)
	})
	c.observe("menu", err)
}

// show writes every row, blanking those without a line.
func show(w display.Writer, lines []string, clear bool) error {
	if clear {
		if err := w.Clear(); err != nil {
			return err
		}
	}
	for row := 0; row < w.Size().Rows; row++ {
		var text string
		if row < len(lines) {
			text = lines[row]
		}
		if err := w.Line(row, text); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) message(text string) {
	err := c.arb.Show([]string{text}, true)
	c.observe("message", err)
}

func (c *Console) observe(producer string, err error) {
	c.m.Sequences.WithLabelValues(producer).Inc()
	if err != nil && !errors.Is(err, display.ErrClosed) {
		c.log.Error(err, "display write failed", "producer", producer)
	}
}

// ---- telemetry ----

// ApplyUpdate records u and, while its Drawbars page is showing, writes
// the digit in place. The page check runs inside the display sequence,
// so a racing navigation either clears the digit or suppresses it.
func (c *Console) ApplyUpdate(u telemetry.DrawbarUpdate) {
	c.mu.Lock()
	ok := c.cache.Set(u)
	c.mu.Unlock()
	if !ok {
		return
	}
	c.m.Frames.Inc()

	err := c.arb.Do(func(w display.Writer) error {
		c.mu.Lock()
		it, cur := c.engine.Current()
		visible := cur && it.Kind == menu.Drawbars && it.Registration == int(u.Registration)
		c.mu.Unlock()
		if !visible {
			return nil
		}
		if err := w.SetCursor(c.layout.Row, c.layout.col(u)); err != nil {
			return err
		}
		return w.Write(string(u.Digit))
	})
	c.observe("telemetry", err)
}

// ApplyResult dispatches one decode outcome.
func (c *Console) ApplyResult(res telemetry.Result) {
	if res.Err == nil {
		c.ApplyUpdate(res.Update)
		return
	}

	if errors.Is(res.Err, telemetry.ErrTransportClosed) {
		c.linkDown(res.Err)
		return
	}

	var fe *telemetry.FrameError
	code := uint16(1)
	if errors.As(res.Err, &fe) {
		code = fe.Code()
	}
	c.m.DecodeErrors.WithLabelValues(errorKind(res.Err)).Inc()
	c.log.V(1).Info("frame rejected", "error", res.Err.Error())

	c.mu.Lock()
	c.lastErrCode = code
	if c.decodeErrors < 65535 {
		c.decodeErrors++
	}
	c.mu.Unlock()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, telemetry.ErrMalformedFrame):
		return "malformed"
	case errors.Is(err, telemetry.ErrUnknownStatus):
		return "unknown_status"
	case errors.Is(err, telemetry.ErrUnknownPosition):
		return "unknown_position"
	case errors.Is(err, telemetry.ErrUnknownDrawbar):
		return "unknown_drawbar"
	default:
		return "other"
	}
}

func (c *Console) linkUp() {
	c.mu.Lock()
	c.health = mirror.HealthOK
	c.lastErrCode = 0
	c.mu.Unlock()
}

func (c *Console) linkDown(err error) {
	c.log.Error(err, "serial link down")
	c.mu.Lock()
	c.health = mirror.HealthError
	c.lastErrCode = 1
	c.mu.Unlock()
}

// ---- mirror ----

// Snapshot reports the session for the status mirror.
func (c *Console) Snapshot() mirror.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := mirror.Snapshot{
		Health:        c.health,
		LastErrorCode: c.lastErrCode,
		Registration:  uint16(c.reg),
		Volume:        uint16(c.volume.Value),
		Reverb:        uint16(c.reverb.Value),
		DecodeErrors:  c.decodeErrors,
	}
	for r, reg := range []telemetry.Registration{telemetry.RegistrationOne, telemetry.RegistrationTwo} {
		upper := c.cache.Upper(reg)
		for i, d := range upper {
			s.Drawbars[r][i] = mirror.DrawbarValue(d)
		}
		s.Drawbars[r][UpperSlots] = mirror.DrawbarValue(c.cache.Lower(reg))
	}
	return s
}

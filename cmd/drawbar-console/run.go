// cmd/drawbar-console/run.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/tamzrod/drawbar-console/internal/config"
	"github.com/tamzrod/drawbar-console/internal/console"
	"github.com/tamzrod/drawbar-console/internal/display"
	"github.com/tamzrod/drawbar-console/internal/display/lcd"
	"github.com/tamzrod/drawbar-console/internal/display/term"
	"github.com/tamzrod/drawbar-console/internal/hostinfo"
	"github.com/tamzrod/drawbar-console/internal/indicator"
	"github.com/tamzrod/drawbar-console/internal/input"
	"github.com/tamzrod/drawbar-console/internal/logging"
	"github.com/tamzrod/drawbar-console/internal/menu"
	"github.com/tamzrod/drawbar-console/internal/metrics"
	"github.com/tamzrod/drawbar-console/internal/mirror"
	"github.com/tamzrod/drawbar-console/internal/telemetry"
	"github.com/tamzrod/drawbar-console/internal/telemetry/serialport"
)

func newRunCmd() *cobra.Command {
	var simulate bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if simulate {
				cfg.Console.Display.Driver = config.DriverTerminal
			}
			return run(cfg)
		},
	}

	cmd.Flags().BoolVar(&simulate, "simulate", false, "Use the terminal panel and keyboard instead of the LCD and GPIO")
	return cmd
}

func run(cfg *config.Config) error {
	c := cfg.Console
	simulated := c.Display.Driver == config.DriverTerminal

	// --------------------
	// Logging
	// --------------------

	log, flush, err := logging.New(logging.Options{
		Level:       c.Log.Level,
		Development: c.Log.Development,
	})
	if err != nil {
		return err
	}
	defer flush()
	if simulated {
		// the terminal belongs to the panel
		log = logr.Discard()
	}
	log = log.WithName("console")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		var cerr error
		for i := len(closers) - 1; i >= 0; i-- {
			cerr = multierr.Append(cerr, closers[i]())
		}
		if cerr != nil {
			log.Error(cerr, "shutdown")
		}
	}()

	// --------------------
	// Display + indicator + input
	// --------------------

	size := display.Size{Rows: c.Display.Rows, Cols: c.Display.Cols}
	events := make(chan input.Event, input.EventBuffer)

	var (
		surface display.Surface
		leds    indicator.LEDs
	)
	if simulated {
		panel, err := term.Open(size)
		if err != nil {
			return err
		}
		surface, leds = panel, panel
		go input.PollTerminal(ctx, events)
	} else {
		surface, err = lcd.Open(lcd.Config{
			Driver:     c.Display.Driver,
			Bus:        c.Display.Bus,
			Address:    c.Display.Address,
			Size:       size,
			RowOffsets: c.Display.RowOffsets,
		})
		if err != nil {
			return fmt.Errorf("display open failed: %w", err)
		}

		g, err := indicator.OpenGPIO(c.GPIO.Chip, c.GPIO.Registration1L, c.GPIO.Registration2L)
		if err != nil {
			_ = surface.Close()
			return err
		}
		closers = append(closers, g.Close)
		leds = g

		in, err := input.OpenGPIO(gpioInput(c.GPIO), log)
		if err != nil {
			_ = surface.Close()
			return err
		}
		closers = append(closers, in.Close)
		go forward(ctx, in.Events(), events)
	}

	arb, err := display.NewArbiter(surface, size)
	if err != nil {
		_ = surface.Close()
		return err
	}
	closers = append(closers, arb.Close)

	// --------------------
	// Menu
	// --------------------

	items, err := menu.Build(c.Menu, hostinfo.NewRegistry().Resolve)
	if err != nil {
		return fmt.Errorf("menu build failed: %w", err)
	}

	// --------------------
	// Console
	// --------------------

	m := metrics.New()
	cmdr := telemetry.NewCommander(nil)

	con, err := console.New(console.Options{
		Items:     items,
		Arbiter:   arb,
		Commander: cmdr,
		Indicator: indicator.NewRegistration(leds),
		Metrics:   m,
		Log:       log,
		Drawbars: console.DrawbarLayout{
			Row:      c.Drawbars.Row,
			UpperCol: c.Drawbars.UpperCol,
			LowerCol: c.Drawbars.LowerCol,
		},
		Volume:       level(c.Levels.Volume),
		Reverb:       level(c.Levels.Reverb),
		Tick:         ms(c.TickMs),
		Welcome:      c.Welcome,
		WelcomeDelay: ms(c.WelcomeMs),
		Goodbye:      c.Goodbye,
		GoodbyeDelay: ms(c.GoodbyeMs),
		Reconnect:    ms(c.Serial.ReconnectMs),
	})
	if err != nil {
		return err
	}

	var link console.Link
	if c.Serial.Device != "" {
		link = serialport.Link{Config: serialport.Config{
			Device:      c.Serial.Device,
			BaudRate:    c.Serial.BaudRate,
			ReadTimeout: ms(c.Serial.ReadTimeoutMs),
		}}
	} else {
		log.Info("no serial device configured; drawbar telemetry disabled")
	}

	// --------------------
	// Optional surfaces
	// --------------------

	var wg sync.WaitGroup

	if c.Metrics.Listen != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Serve(ctx, c.Metrics.Listen, log); err != nil {
				log.Error(err, "metrics server stopped")
			}
		}()
	}

	if c.Mirror != nil {
		w, closeMirror, err := mirror.Build(*c.Mirror, c.DeviceName)
		if err != nil {
			// the mirror is an observer; the panel runs without it
			log.Error(err, "mirror unavailable", "endpoint", c.Mirror.Endpoint)
		} else {
			closers = append(closers, closeMirror)
			wg.Add(1)
			go func() {
				defer wg.Done()
				mirror.NewRunner(w, con.Snapshot, time.Second, log).Run(ctx)
			}()
		}
	}

	// --------------------
	// Run until signal or quit
	// --------------------

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	err = con.Run(runCtx, events, link)
	cancel()
	stop()
	wg.Wait()
	return err
}

func forward(ctx context.Context, in <-chan input.Event, out chan<- input.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-in:
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func gpioInput(g config.GPIOConfig) input.GPIOConfig {
	enc := func(e *config.EncoderConfig) *input.Encoder {
		if e == nil {
			return nil
		}
		return &input.Encoder{A: e.A, B: e.B}
	}
	return input.GPIOConfig{
		Chip:          g.Chip,
		Debounce:      ms(g.DebounceMs),
		MenuPush:      g.MenuPush,
		Registration1: g.Registration1,
		Registration2: g.Registration2,
		MenuEncoder:   enc(g.MenuEncoder),
		VolumeEncoder: enc(g.VolumeEncoder),
		ReverbEncoder: enc(g.ReverbEncoder),
	}
}

func level(l config.LevelConfig) console.Level {
	v := 0
	if l.Initial != nil {
		v = *l.Initial
	}
	return console.Level{Value: v, Max: l.Max}
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

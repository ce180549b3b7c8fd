// internal/config/validate.go
package config

import (
	"fmt"
)

var (
	displayDrivers = map[string]bool{"": true, "hd44780": true, "rw1063": true, "terminal": true}
	menuKinds      = map[string]bool{"static": true, "dynamic": true, "volume": true, "reverb": true, "drawbars": true}
	logLevels      = map[string]bool{"": true, "debug": true, "info": true, "error": true}
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values mean "use the default" and are accepted.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}
	c := cfg.Console

	// device_name sanity (ASCII only)
	for i := 0; i < len(c.DeviceName); i++ {
		if c.DeviceName[i] > 0x7F {
			return fmt.Errorf("device_name must contain ASCII characters only")
		}
	}

	// ------------------------------------------------------------
	// DISPLAY GEOMETRY
	// ------------------------------------------------------------

	if !displayDrivers[c.Display.Driver] {
		return fmt.Errorf("display.driver %q: want hd44780, rw1063 or terminal", c.Display.Driver)
	}

	rows := orDefault(c.Display.Rows, DefaultRows)
	cols := orDefault(c.Display.Cols, DefaultCols)

	if rows < 1 || rows > 4 {
		return fmt.Errorf("display.rows %d out of range 1-4", rows)
	}
	if cols < 10 || cols > 40 {
		return fmt.Errorf("display.cols %d out of range 10-40", cols)
	}
	if n := len(c.Display.RowOffsets); n != 0 && n < rows {
		return fmt.Errorf("display.row_offsets has %d entries, need %d", n, rows)
	}
	for i, off := range c.Display.RowOffsets {
		if off < 0 || off > 0x7F {
			return fmt.Errorf("display.row_offsets[%d] 0x%x out of DDRAM range", i, off)
		}
	}

	// ------------------------------------------------------------
	// SERIAL
	// ------------------------------------------------------------

	if c.Serial.BaudRate < 0 || c.Serial.ReadTimeoutMs < 0 || c.Serial.ReconnectMs < 0 {
		return fmt.Errorf("serial: baud_rate, read_timeout_ms and reconnect_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// DRAWBAR GEOMETRY (9 upper slots + 1 lower slot must fit)
	// ------------------------------------------------------------

	if c.Drawbars.Row < 0 || c.Drawbars.Row >= rows {
		return fmt.Errorf("drawbars.row %d outside display rows 0-%d", c.Drawbars.Row, rows-1)
	}
	if c.Drawbars.UpperCol < 0 || c.Drawbars.UpperCol+9 > cols {
		return fmt.Errorf("drawbars.upper_col %d: 9 slots do not fit in %d columns", c.Drawbars.UpperCol, cols)
	}
	if c.Drawbars.LowerCol < 0 || c.Drawbars.LowerCol >= cols {
		return fmt.Errorf("drawbars.lower_col %d outside display columns 0-%d", c.Drawbars.LowerCol, cols-1)
	}
	if c.Drawbars.LowerCol != 0 &&
		c.Drawbars.LowerCol >= c.Drawbars.UpperCol && c.Drawbars.LowerCol < c.Drawbars.UpperCol+9 {
		return fmt.Errorf("drawbars.lower_col %d overlaps upper slots %d-%d",
			c.Drawbars.LowerCol, c.Drawbars.UpperCol, c.Drawbars.UpperCol+8)
	}

	// ------------------------------------------------------------
	// LEVELS
	// ------------------------------------------------------------

	for name, l := range map[string]LevelConfig{"volume": c.Levels.Volume, "reverb": c.Levels.Reverb} {
		if l.Max < 0 {
			return fmt.Errorf("levels.%s.max must be >= 0", name)
		}
		if l.Initial != nil {
			max := orDefault(l.Max, DefaultLevelMax)
			if *l.Initial < 0 || *l.Initial > max {
				return fmt.Errorf("levels.%s.initial %d out of range 0-%d", name, *l.Initial, max)
			}
		}
	}

	// ------------------------------------------------------------
	// GPIO (no pin may be claimed twice)
	// ------------------------------------------------------------

	if c.GPIO.DebounceMs < 0 {
		return fmt.Errorf("gpio.debounce_ms must be >= 0")
	}
	owner := make(map[int]string)
	claim := func(name string, pin *int) error {
		if pin == nil {
			return nil
		}
		if *pin < 0 {
			return fmt.Errorf("gpio.%s: negative pin %d", name, *pin)
		}
		if prev, ok := owner[*pin]; ok {
			return fmt.Errorf("gpio pin collision: pin %d used by %s and %s", *pin, prev, name)
		}
		owner[*pin] = name
		return nil
	}
	pins := []struct {
		name string
		pin  *int
	}{
		{"menu_push", c.GPIO.MenuPush},
		{"registration_1", c.GPIO.Registration1},
		{"registration_2", c.GPIO.Registration2},
		{"registration_1_led", c.GPIO.Registration1L},
		{"registration_2_led", c.GPIO.Registration2L},
	}
	for _, enc := range []struct {
		name string
		cfg  *EncoderConfig
	}{
		{"menu_encoder", c.GPIO.MenuEncoder},
		{"volume_encoder", c.GPIO.VolumeEncoder},
		{"reverb_encoder", c.GPIO.ReverbEncoder},
	} {
		if enc.cfg == nil {
			continue
		}
		a, b := enc.cfg.A, enc.cfg.B
		pins = append(pins,
			struct {
				name string
				pin  *int
			}{enc.name + ".a", &a},
			struct {
				name string
				pin  *int
			}{enc.name + ".b", &b},
		)
	}
	for _, p := range pins {
		if err := claim(p.name, p.pin); err != nil {
			return err
		}
	}

	// ------------------------------------------------------------
	// MENU TREE (two levels, named, typed)
	// ------------------------------------------------------------

	for i, top := range c.Menu {
		path := fmt.Sprintf("menu[%d]", i)
		if len(top.Children) > 0 {
			if top.Name == "" {
				return fmt.Errorf("%s: name required", path)
			}
			for j, child := range top.Children {
				cpath := fmt.Sprintf("%s.children[%d]", path, j)
				if len(child.Children) > 0 {
					return fmt.Errorf("%s: menus are limited to two levels", cpath)
				}
				if err := validateItem(cpath, child); err != nil {
					return err
				}
			}
			continue
		}
		if err := validateItem(path, top); err != nil {
			return err
		}
	}

	// ------------------------------------------------------------
	// OPTIONAL SURFACES
	// ------------------------------------------------------------

	if c.Mirror != nil && c.Mirror.Endpoint == "" {
		return fmt.Errorf("mirror: endpoint required when mirror is set")
	}
	if !logLevels[c.Log.Level] {
		return fmt.Errorf("log.level %q: want debug, info or error", c.Log.Level)
	}
	if c.TickMs < 0 || c.WelcomeMs < 0 || c.GoodbyeMs < 0 {
		return fmt.Errorf("tick_ms, welcome_ms and goodbye_ms must be >= 0")
	}

	return nil
}

func validateItem(path string, it MenuItem) error {
	if it.Name == "" {
		return fmt.Errorf("%s: name required", path)
	}
	if !menuKinds[it.Kind] {
		return fmt.Errorf("%s (%s): unknown kind %q", path, it.Name, it.Kind)
	}
	switch it.Kind {
	case "dynamic":
		if it.Source == "" {
			return fmt.Errorf("%s (%s): dynamic item needs a source", path, it.Name)
		}
	case "drawbars":
		if it.Registration != 1 && it.Registration != 2 {
			return fmt.Errorf("%s (%s): registration must be 1 or 2", path, it.Name)
		}
	}
	return nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

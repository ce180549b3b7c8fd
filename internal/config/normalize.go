// internal/config/normalize.go
package config

const (
	DefaultRows        = 2
	DefaultCols        = 16
	DefaultBaudRate    = 115200
	DefaultTickMs      = 1000
	DefaultWelcomeMs   = 3000
	DefaultGoodbyeMs   = 3000
	DefaultLevelMax    = 50
	DefaultDebounceMs  = 5
	DeviceNameMaxChars = 16
)

// DefaultRowOffsets is the DDRAM start address of each logical row
// on HD44780-compatible controllers.
var DefaultRowOffsets = []int{0x00, 0x40, 0x14, 0x54}

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	c := &cfg.Console

	// ------------------------------------------------------------
	// DISPLAY
	// ------------------------------------------------------------

	if c.Display.Driver == "" {
		c.Display.Driver = "hd44780"
	}
	if c.Display.Address == 0 {
		switch c.Display.Driver {
		case "rw1063":
			c.Display.Address = 0x3C
		default:
			c.Display.Address = 0x27
		}
	}
	if c.Display.Rows == 0 {
		c.Display.Rows = DefaultRows
	}
	if c.Display.Cols == 0 {
		c.Display.Cols = DefaultCols
	}
	if len(c.Display.RowOffsets) == 0 {
		c.Display.RowOffsets = append([]int(nil), DefaultRowOffsets...)
	}

	// ------------------------------------------------------------
	// SERIAL (empty device => telemetry disabled)
	// ------------------------------------------------------------

	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = DefaultBaudRate
	}
	if c.Serial.ReadTimeoutMs == 0 {
		c.Serial.ReadTimeoutMs = 200
	}
	if c.Serial.ReconnectMs == 0 {
		c.Serial.ReconnectMs = 2000
	}

	// ------------------------------------------------------------
	// DRAWBARS: upper bank on the left, lower summary after a gap
	// ------------------------------------------------------------

	if c.Drawbars.Row == 0 && c.Display.Rows > 1 {
		c.Drawbars.Row = 1
	}
	if c.Drawbars.LowerCol == 0 {
		c.Drawbars.LowerCol = c.Drawbars.UpperCol + 10
		if c.Drawbars.LowerCol >= c.Display.Cols {
			c.Drawbars.LowerCol = c.Display.Cols - 1
		}
	}

	// ------------------------------------------------------------
	// LEVELS
	// ------------------------------------------------------------

	normalizeLevel(&c.Levels.Volume)
	normalizeLevel(&c.Levels.Reverb)

	// ------------------------------------------------------------
	// GPIO
	// ------------------------------------------------------------

	if c.GPIO.Chip == "" {
		c.GPIO.Chip = "gpiochip0"
	}
	if c.GPIO.DebounceMs == 0 {
		c.GPIO.DebounceMs = DefaultDebounceMs
	}

	// ------------------------------------------------------------
	// MENU
	// ------------------------------------------------------------

	if len(c.Menu) == 0 {
		c.Menu = DefaultMenu()
	}

	// ------------------------------------------------------------
	// TIMING + MESSAGES
	// ------------------------------------------------------------

	if c.TickMs == 0 {
		c.TickMs = DefaultTickMs
	}
	if c.WelcomeMs == 0 {
		c.WelcomeMs = DefaultWelcomeMs
	}
	if c.GoodbyeMs == 0 {
		c.GoodbyeMs = DefaultGoodbyeMs
	}
	if c.Welcome == "" {
		c.Welcome = "=== Welcome ==="
	}
	if c.Goodbye == "" {
		c.Goodbye = "===== Bye ====="
	}

	// device_name: ASCII already validated, truncate to 16 characters
	if len(c.DeviceName) > DeviceNameMaxChars {
		c.DeviceName = c.DeviceName[:DeviceNameMaxChars]
	}

	if c.Mirror != nil && c.Mirror.TimeoutMs == 0 {
		c.Mirror.TimeoutMs = 1000
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func normalizeLevel(l *LevelConfig) {
	if l.Max == 0 {
		l.Max = DefaultLevelMax
	}
	if l.Initial == nil {
		v := l.Max / 10
		l.Initial = &v
	}
}

// DefaultMenu mirrors the setBfree settings pages of the upper control panel.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Name: "Drawbars 1", Kind: "drawbars", Registration: 1},
		{Name: "Drawbars 2", Kind: "drawbars", Registration: 2},
		{Name: "Tuning", Kind: "static", Text: "A4 = 440 Hz"},
		{Name: "Vibrato & Perc.", Kind: "static", Text: "C3 / 2nd soft"},
		{Name: "Analog Model", Kind: "static", Text: "Tonewheel"},
		{Name: "Leslie Config.", Kind: "static", Text: "Horn + Drum"},
		{Name: "Leslie Filters", Kind: "static", Text: "Default"},
		{Name: "Volume", Kind: "volume"},
		{Name: "Reverb", Kind: "reverb"},
		{
			Name: "System",
			Children: []MenuItem{
				{Name: "Host", Kind: "dynamic", Source: "hostname"},
				{Name: "IP", Kind: "dynamic", Source: "ip", Arg: "wlan0"},
				{Name: "Uptime", Kind: "dynamic", Source: "uptime"},
				{Name: "CPU temp", Kind: "dynamic", Source: "cpu_temp"},
			},
		},
	}
}

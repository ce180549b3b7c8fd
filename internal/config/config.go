// internal/config/config.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Console ConsoleConfig `yaml:"console"`
}

type ConsoleConfig struct {
	DeviceName string `yaml:"device_name"`

	Display  DisplayConfig  `yaml:"display"`
	Serial   SerialConfig   `yaml:"serial"`
	Drawbars DrawbarsConfig `yaml:"drawbars"`
	Levels   LevelsConfig   `yaml:"levels"`
	GPIO     GPIOConfig     `yaml:"gpio"`
	Menu     []MenuItem     `yaml:"menu"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Mirror   *MirrorConfig  `yaml:"mirror"`
	Log      LogConfig      `yaml:"log"`

	TickMs    int    `yaml:"tick_ms"`
	WelcomeMs int    `yaml:"welcome_ms"`
	GoodbyeMs int    `yaml:"goodbye_ms"`
	Welcome   string `yaml:"welcome"`
	Goodbye   string `yaml:"goodbye"`
}

// ---- DISPLAY ----

// DriverTerminal renders the panel in the controlling terminal.
const DriverTerminal = "terminal"

type DisplayConfig struct {
	Driver     string `yaml:"driver"` // hd44780 | rw1063 | terminal
	Bus        string `yaml:"bus"`    // periph I2C bus name, "" = first
	Address    uint16 `yaml:"address"`
	Rows       int    `yaml:"rows"`
	Cols       int    `yaml:"cols"`
	RowOffsets []int  `yaml:"row_offsets"` // rw1063 only
}

// ---- SERIAL ----

type SerialConfig struct {
	Device        string `yaml:"device"`
	BaudRate      int    `yaml:"baud_rate"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
	ReconnectMs   int    `yaml:"reconnect_ms"`
}

// ---- DRAWBARS ----

type DrawbarsConfig struct {
	Row      int `yaml:"row"`
	UpperCol int `yaml:"upper_col"`
	LowerCol int `yaml:"lower_col"`
}

// ---- LEVELS ----

type LevelsConfig struct {
	Volume LevelConfig `yaml:"volume"`
	Reverb LevelConfig `yaml:"reverb"`
}

type LevelConfig struct {
	Max     int  `yaml:"max"`
	Initial *int `yaml:"initial"` // nil => Max/10
}

// ---- GPIO ----

type GPIOConfig struct {
	Chip       string `yaml:"chip"`
	DebounceMs int    `yaml:"debounce_ms"`

	// Pin offsets on the chip; nil => not wired.
	MenuPush       *int `yaml:"menu_push"`
	Registration1  *int `yaml:"registration_1"`
	Registration2  *int `yaml:"registration_2"`
	Registration1L *int `yaml:"registration_1_led"`
	Registration2L *int `yaml:"registration_2_led"`

	MenuEncoder   *EncoderConfig `yaml:"menu_encoder"`
	VolumeEncoder *EncoderConfig `yaml:"volume_encoder"`
	ReverbEncoder *EncoderConfig `yaml:"reverb_encoder"`
}

type EncoderConfig struct {
	A int `yaml:"a"`
	B int `yaml:"b"`
}

// ---- MENU ----

// MenuItem is the declarative form of one menu entry.
// Kind is one of static, dynamic, volume, reverb, drawbars.
type MenuItem struct {
	Name         string     `yaml:"name"`
	Kind         string     `yaml:"kind"`
	Text         string     `yaml:"text"`         // static
	Source       string     `yaml:"source"`       // dynamic: registry key
	Arg          string     `yaml:"arg"`          // dynamic: source argument
	Registration int        `yaml:"registration"` // drawbars: 1 or 2
	Children     []MenuItem `yaml:"children"`
}

// ---- METRICS ----

type MetricsConfig struct {
	Listen string `yaml:"listen"` // "" disables
}

// ---- MIRROR ----

type MirrorConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	BaseAddr  uint16 `yaml:"base_address"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level       string `yaml:"level"` // debug | info | error
	Development bool   `yaml:"development"`
}

// Load reads and decodes a YAML config file.
// It does not validate; call Validate then Normalize.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML bytes into a Config. Unknown keys are rejected.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

// cmd/drawbar-console/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tamzrod/drawbar-console/internal/config"
)

var (
	cfgPath  string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "drawbar-console",
		Short: "Organ control panel: LCD menu and live drawbar telemetry",
		Long: `drawbar-console drives the upper control panel of a setBfree organ:
a character LCD with a two-level menu, rotary encoders and buttons on GPIO,
and the drawbar positions streamed by the microcontroller over serial.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "/etc/drawbar-console/config.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level (debug, info, error)")

	rootCmd.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newDecodeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig runs the Load → Validate → Normalize pipeline.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if logLevel != "" {
		cfg.Console.Log.Level = logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

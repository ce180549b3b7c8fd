// cmd/drawbar-console/validate.go
package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tamzrod/drawbar-console/internal/config"
	"github.com/tamzrod/drawbar-console/internal/hostinfo"
	"github.com/tamzrod/drawbar-console/internal/menu"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config and print the resolved menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c := cfg.Console

			// resolving proves every dynamic source and argument is usable
			items, err := menu.Build(c.Menu, hostinfo.NewRegistry().Resolve)
			if err != nil {
				return fmt.Errorf("menu build failed: %w", err)
			}

			out := cmd.OutOrStdout()
			printSummary(out, c)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ITEM\tKIND\tDETAIL")
			for _, it := range items {
				printItem(w, it, "")
			}
			return w.Flush()
		},
	}
}

func printSummary(out io.Writer, c config.ConsoleConfig) {
	fmt.Fprintf(out, "display  %s %dx%d at 0x%02x\n", c.Display.Driver, c.Display.Rows, c.Display.Cols, c.Display.Address)
	fmt.Fprintf(out, "serial   %q @ %d\n", c.Serial.Device, c.Serial.BaudRate)
	if c.Mirror != nil {
		fmt.Fprintf(out, "mirror   %s unit %d base %d\n", c.Mirror.Endpoint, c.Mirror.UnitID, c.Mirror.BaseAddr)
	}
}

func printItem(w *tabwriter.Writer, it menu.Item, indent string) {
	if len(it.Children) > 0 {
		fmt.Fprintf(w, "%s%s\tsubmenu\t%d items\n", indent, it.Name, len(it.Children))
		for _, child := range it.Children {
			printItem(w, child, indent+"  ")
		}
		return
	}

	detail := ""
	switch it.Kind {
	case menu.Static:
		detail = it.Text
	case menu.Drawbars:
		detail = fmt.Sprintf("registration %d", it.Registration)
	}
	fmt.Fprintf(w, "%s%s\t%s\t%s\n", indent, it.Name, it.Kind, detail)
}

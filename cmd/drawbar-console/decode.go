// cmd/drawbar-console/decode.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/drawbar-console/internal/telemetry"
	"github.com/tamzrod/drawbar-console/internal/telemetry/serialport"
)

func newDecodeCmd() *cobra.Command {
	var (
		device string
		baud   int
	)

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a drawbar byte stream and print every frame",
		Long: `Reads a raw telemetry stream from a file, from stdin ("-" or no argument)
or, with --device, from the serial port, and prints one line per frame.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var (
				src  io.Reader = cmd.InOrStdin()
				idle telemetry.IsIdle
			)
			switch {
			case device != "":
				port, err := serialport.Open(serialport.Config{
					Device:      device,
					BaudRate:    baud,
					ReadTimeout: 200 * time.Millisecond,
				})
				if err != nil {
					return err
				}
				defer port.Close()
				src, idle = port, serialport.IsTimeout
			case len(args) == 1 && args[0] != "-":
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}

			out := make(chan telemetry.Result)
			done := make(chan error, 1)
			go func() {
				done <- telemetry.NewReader(idle).Run(ctx, src, out)
			}()

			var frames, rejected int
			for {
				select {
				case res := <-out:
					if res.Err != nil {
						var fe *telemetry.FrameError
						if errors.As(res.Err, &fe) {
							rejected++
						}
						fmt.Fprintf(cmd.OutOrStdout(), "error   %v\n", res.Err)
						continue
					}
					frames++
					fmt.Fprintf(cmd.OutOrStdout(), "update  %s\n", res.Update)
				case <-done:
					fmt.Fprintf(cmd.OutOrStdout(), "%d frames, %d rejected\n", frames, rejected)
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVar(&device, "device", "", "Serial device to read instead of a file")
	cmd.Flags().IntVar(&baud, "baud", 115200, "Serial baud rate")
	return cmd
}

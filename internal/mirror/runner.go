// internal/mirror/runner.go
package mirror

import (
	"context"
	"time"

	"github.com/go-logr/logr"
)

// Source reports the console state without the seconds-in-error counter,
// which the Runner owns.
type Source func() Snapshot

// Runner samples a Source on a fixed interval and writes changes.
type Runner struct {
	w        *Writer
	src      Source
	interval time.Duration
	log      logr.Logger
}

func NewRunner(w *Writer, src Source, interval time.Duration, log logr.Logger) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{w: w, src: src, interval: interval, log: log.WithName("mirror")}
}

// Run writes the initial state, then every tick. Seconds-in-error counts
// whole ticks spent in HealthError and resets otherwise; it never wraps.
// HealthUnknown (no link attempted yet, or none configured) does not count.
func (r *Runner) Run(ctx context.Context) {
	var (
		secs    uint16
		last    Snapshot
		written bool
	)

	deliver := func(s Snapshot) {
		if written && s == last {
			return
		}
		if err := r.w.Write(s); err != nil {
			r.log.Error(err, "mirror write failed")
			written = false
			return
		}
		last, written = s, true
	}

	deliver(r.src())

	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s := r.src()
			switch {
			case s.Health != HealthError:
				secs = 0
			case secs < 65535:
				secs++
			}
			s.SecondsInError = secs
			deliver(s)
		}
	}
}

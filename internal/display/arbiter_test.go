// internal/display/arbiter_test.go
package display_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tamzrod/drawbar-console/internal/display"
	"github.com/tamzrod/drawbar-console/internal/display/displaytest"
)

func newArbiter(t *testing.T, rows, cols int) (*display.Arbiter, *displaytest.Grid) {
	t.Helper()
	g := displaytest.NewGrid(rows, cols)
	a, err := display.NewArbiter(g, display.Size{Rows: rows, Cols: cols})
	if err != nil {
		t.Fatalf("NewArbiter: %v", err)
	}
	return a, g
}

func TestLongThenShortLeavesNoResidue(t *testing.T) {
	a, g := newArbiter(t, 2, 16)

	if err := a.Show([]string{"Leslie Filters", "192.168.100.200"}, true); err != nil {
		t.Fatalf("show long: %v", err)
	}
	// tick re-render: no clear
	if err := a.Show([]string{"IP", "10.0.0.1"}, false); err != nil {
		t.Fatalf("show short: %v", err)
	}

	want := []string{"IP", "10.0.0.1"}
	if diff := cmp.Diff(want, g.Rows()); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestShowBlanksMissingRows(t *testing.T) {
	a, g := newArbiter(t, 2, 16)

	_ = a.Show([]string{"Tuning", "A4 = 440 Hz"}, false)
	_ = a.Show([]string{"Volume"}, false)

	if got := g.Row(1); got != strings.Repeat(" ", 16) {
		t.Fatalf("row 1 not blanked: %q", got)
	}
}

func TestShowTruncatesToWidth(t *testing.T) {
	a, g := newArbiter(t, 1, 10)

	if err := a.Show([]string{"Vibrato & Percussion"}, true); err != nil {
		t.Fatalf("show: %v", err)
	}
	if got := g.Row(0); got != "Vibrato & " {
		t.Fatalf("got %q", got)
	}
}

func TestOutOfBoundsRejectedBeforeSurface(t *testing.T) {
	a, g := newArbiter(t, 2, 16)

	cases := [][2]int{{2, 0}, {-1, 0}, {0, 16}, {0, -1}}
	for _, c := range cases {
		err := a.Put(c[0], c[1], "x")
		if !errors.Is(err, display.ErrOutOfBounds) {
			t.Fatalf("Put(%d,%d): expected ErrOutOfBounds, got %v", c[0], c[1], err)
		}
	}
	if ops := g.Ops(); len(ops) != 0 {
		t.Fatalf("surface touched: %v", ops)
	}
}

func TestPutTruncatesAtRowEnd(t *testing.T) {
	a, g := newArbiter(t, 2, 16)

	if err := a.Put(1, 14, "8765"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := g.Row(1)[14:]; got != "87" {
		t.Fatalf("got %q", got)
	}
}

func TestFitSanitizes(t *testing.T) {
	if got := display.Fit("a\tb°", 5); got != "a?b? " {
		t.Fatalf("got %q", got)
	}
	if got := display.Fit("anything", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestConcurrentSequencesNeverInterleave(t *testing.T) {
	a, g := newArbiter(t, 4, 20)

	const writers = 8
	const rounds = 50

	var wg sync.WaitGroup
	for id := 0; id < writers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			tag := fmt.Sprintf("w%d", id)
			for i := 0; i < rounds; i++ {
				err := a.Do(func(w display.Writer) error {
					for row := 0; row < 4; row++ {
						if err := w.Line(row, tag); err != nil {
							return err
						}
					}
					return nil
				})
				if err != nil {
					t.Errorf("do: %v", err)
					return
				}
			}
		}(id)
	}
	wg.Wait()

	if n := g.Overlaps(); n != 0 {
		t.Fatalf("surface saw %d overlapping calls", n)
	}

	// every sequence is 4 x (cursor, write) with one tag
	ops := g.Ops()
	if len(ops) != writers*rounds*8 {
		t.Fatalf("unexpected op count %d", len(ops))
	}
	for i := 0; i < len(ops); i += 8 {
		first := strings.TrimSpace(ops[i+1])
		for j := i + 1; j < i+8; j += 2 {
			if strings.TrimSpace(ops[j]) != first {
				t.Fatalf("sequence at op %d interleaved: %q vs %q", i, ops[j], first)
			}
		}
	}
}

func TestSequenceErrorStopsAndSurfaces(t *testing.T) {
	a, g := newArbiter(t, 2, 16)
	boom := errors.New("i2c nack")
	g.FailWrite = boom

	err := a.Show([]string{"x", "y"}, false)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped surface error, got %v", err)
	}
}

func TestCloseWaitsAndRejectsLaterCalls(t *testing.T) {
	a, g := newArbiter(t, 2, 16)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- a.Do(func(w display.Writer) error {
			close(started)
			<-release
			return w.Line(0, "===== Bye =====")
		})
	}()

	<-started
	closed := make(chan error, 1)
	go func() { closed <- a.Close() }()

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("in-flight sequence failed: %v", err)
	}
	if err := <-closed; err != nil {
		t.Fatalf("close: %v", err)
	}

	if got := strings.TrimSpace(g.Row(0)); got != "===== Bye =====" {
		t.Fatalf("in-flight sequence lost: %q", got)
	}
	if !g.Closed() {
		t.Fatalf("surface not closed")
	}
	if err := a.Put(0, 0, "x"); !errors.Is(err, display.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestWriterInvalidAfterSequence(t *testing.T) {
	a, _ := newArbiter(t, 2, 16)

	var leaked display.Writer
	_ = a.Do(func(w display.Writer) error {
		leaked = w
		return nil
	})

	if err := leaked.Line(0, "late"); err == nil {
		t.Fatalf("expected error from leaked writer")
	}
}

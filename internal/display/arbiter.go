// internal/display/arbiter.go
package display

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrClosed      = errors.New("display: closed")
	ErrOutOfBounds = errors.New("display: out of bounds")
)

// Writer is the view of the Surface handed to one write sequence.
// It is only valid until the sequence returns.
type Writer interface {
	Clear() error
	Home() error
	SetCursor(row, col int) error
	Write(text string) error

	// Line rewrites a whole row, padded or truncated to the width.
	Line(row int, text string) error

	Size() Size
}

// Arbiter is the only owner of a Surface. Every write sequence runs
// under one mutex, so sequences from different goroutines never interleave.
type Arbiter struct {
	mu     sync.Mutex
	s      Surface
	size   Size
	closed bool
}

func NewArbiter(s Surface, size Size) (*Arbiter, error) {
	if s == nil {
		return nil, errors.New("display: surface required")
	}
	if size.Rows <= 0 || size.Cols <= 0 {
		return nil, fmt.Errorf("display: invalid size %dx%d", size.Rows, size.Cols)
	}
	return &Arbiter{s: s, size: size}, nil
}

func (a *Arbiter) Size() Size { return a.size }

// Do runs fn as one atomic write sequence.
func (a *Arbiter) Do(fn func(w Writer) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}

	w := &seqWriter{a: a}
	defer func() { w.done = true }()

	return fn(w)
}

// Show draws one line per row. Missing lines are blanked, so a short
// screen fully replaces a longer one. With clear set the Surface is
// cleared first (navigation); without it rows are rewritten in place (tick).
func (a *Arbiter) Show(lines []string, clear bool) error {
	return a.Do(func(w Writer) error {
		if clear {
			if err := w.Clear(); err != nil {
				return err
			}
		}
		for row := 0; row < a.size.Rows; row++ {
			var text string
			if row < len(lines) {
				text = lines[row]
			}
			if err := w.Line(row, text); err != nil {
				return err
			}
		}
		return nil
	})
}

// Put writes text at (row, col) as a single sequence.
func (a *Arbiter) Put(row, col int, text string) error {
	return a.Do(func(w Writer) error {
		if err := w.SetCursor(row, col); err != nil {
			return err
		}
		return w.Write(text)
	})
}

// Close waits for the in-flight sequence and closes the Surface.
func (a *Arbiter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	a.closed = true
	return a.s.Close()
}

// ---- sequence writer ----

type seqWriter struct {
	a    *Arbiter
	row  int
	col  int
	done bool
}

func (w *seqWriter) Size() Size { return w.a.size }

func (w *seqWriter) check() error {
	if w.done {
		return errors.New("display: writer used after its sequence ended")
	}
	return nil
}

func (w *seqWriter) Clear() error {
	if err := w.check(); err != nil {
		return err
	}
	if err := w.a.s.Clear(); err != nil {
		return fmt.Errorf("display: clear: %w", err)
	}
	w.row, w.col = 0, 0
	return nil
}

func (w *seqWriter) Home() error {
	if err := w.check(); err != nil {
		return err
	}
	if err := w.a.s.Home(); err != nil {
		return fmt.Errorf("display: home: %w", err)
	}
	w.row, w.col = 0, 0
	return nil
}

func (w *seqWriter) SetCursor(row, col int) error {
	if err := w.check(); err != nil {
		return err
	}
	if row < 0 || row >= w.a.size.Rows || col < 0 || col >= w.a.size.Cols {
		return fmt.Errorf("%w: row=%d col=%d", ErrOutOfBounds, row, col)
	}
	if err := w.a.s.SetCursor(row, col); err != nil {
		return fmt.Errorf("display: set cursor: %w", err)
	}
	w.row, w.col = row, col
	return nil
}

// Write outputs text at the cursor, truncated at the end of the row.
func (w *seqWriter) Write(text string) error {
	if err := w.check(); err != nil {
		return err
	}
	room := w.a.size.Cols - w.col
	if room <= 0 {
		return fmt.Errorf("%w: row=%d col=%d", ErrOutOfBounds, w.row, w.col)
	}
	n := len([]rune(text))
	if n > room {
		n = room
	}
	if n == 0 {
		return nil
	}
	if err := w.a.s.Write(Fit(text, n)); err != nil {
		return fmt.Errorf("display: write: %w", err)
	}
	w.col += n
	return nil
}

func (w *seqWriter) Line(row int, text string) error {
	if err := w.SetCursor(row, 0); err != nil {
		return err
	}
	return w.Write(Fit(text, w.a.size.Cols))
}

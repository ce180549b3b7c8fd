// internal/display/displaytest/grid.go
package displaytest

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Grid is an in-memory Surface that records what a real display would show.
// It also counts overlapping calls, which a correct Arbiter never produces.
type Grid struct {
	mu     sync.Mutex
	cells  [][]byte
	row    int
	col    int
	ops    []string
	closed bool

	inFlight atomic.Int32
	overlaps atomic.Int32

	// FailWrite, when set, is returned by Write.
	FailWrite error
}

func NewGrid(rows, cols int) *Grid {
	g := &Grid{cells: make([][]byte, rows)}
	for i := range g.cells {
		g.cells[i] = []byte(strings.Repeat(" ", cols))
	}
	return g
}

func (g *Grid) enter() func() {
	if g.inFlight.Add(1) > 1 {
		g.overlaps.Add(1)
	}
	g.mu.Lock()
	return func() {
		g.mu.Unlock()
		g.inFlight.Add(-1)
	}
}

func (g *Grid) Clear() error {
	defer g.enter()()
	for i := range g.cells {
		for j := range g.cells[i] {
			g.cells[i][j] = ' '
		}
	}
	g.row, g.col = 0, 0
	g.ops = append(g.ops, "clear")
	return nil
}

func (g *Grid) Home() error {
	defer g.enter()()
	g.row, g.col = 0, 0
	g.ops = append(g.ops, "home")
	return nil
}

func (g *Grid) SetCursor(row, col int) error {
	defer g.enter()()
	if row < 0 || row >= len(g.cells) || col < 0 || col >= len(g.cells[row]) {
		return fmt.Errorf("grid: cursor %d,%d outside", row, col)
	}
	g.row, g.col = row, col
	g.ops = append(g.ops, fmt.Sprintf("cursor %d,%d", row, col))
	return nil
}

func (g *Grid) Write(text string) error {
	defer g.enter()()
	if g.FailWrite != nil {
		return g.FailWrite
	}
	if g.closed {
		return errors.New("grid: closed")
	}
	for i := 0; i < len(text); i++ {
		if g.col >= len(g.cells[g.row]) {
			return fmt.Errorf("grid: overrun at row %d", g.row)
		}
		g.cells[g.row][g.col] = text[i]
		g.col++
	}
	g.ops = append(g.ops, "write "+text)
	return nil
}

func (g *Grid) Close() error {
	defer g.enter()()
	g.closed = true
	g.ops = append(g.ops, "close")
	return nil
}

// Row returns the current content of one row.
func (g *Grid) Row(i int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return string(g.cells[i])
}

// Rows returns the whole grid, right-trimmed.
func (g *Grid) Rows() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.cells))
	for i, r := range g.cells {
		out[i] = strings.TrimRight(string(r), " ")
	}
	return out
}

// Ops returns the recorded call log.
func (g *Grid) Ops() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.ops...)
}

func (g *Grid) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// Overlaps reports how many calls started while another was running.
func (g *Grid) Overlaps() int { return int(g.overlaps.Load()) }

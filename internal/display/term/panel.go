// internal/display/term/panel.go
package term

import (
	"fmt"
	"sync"

	"github.com/nsf/termbox-go"

	"github.com/tamzrod/drawbar-console/internal/display"
)

// Screen origin of the first character cell; the frame sits around it.
const (
	originX = 2
	originY = 1
)

const (
	fg = termbox.ColorGreen | termbox.AttrBold
	bg = termbox.ColorBlack
)

// Panel simulates the console on a terminal: the character display in a
// frame, the registration LEDs below it and a key legend.
// Panel owns termbox; input.PollTerminal reads its key events.
type Panel struct {
	mu   sync.Mutex
	size display.Size
	x, y int
	leds [2]bool
}

// Open initializes termbox and draws the empty panel.
func Open(size display.Size) (*Panel, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("term: init: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()

	p := &Panel{size: size}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frame()
	p.blank()
	p.drawLEDs()
	p.legend()
	return p, p.flush()
}

func (p *Panel) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blank()
	p.x, p.y = 0, 0
	return p.flush()
}

func (p *Panel) Home() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.x, p.y = 0, 0
	return nil
}

func (p *Panel) SetCursor(row, col int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if row < 0 || row >= p.size.Rows || col < 0 || col >= p.size.Cols {
		return fmt.Errorf("term: cursor %d,%d outside %dx%d", row, col, p.size.Rows, p.size.Cols)
	}
	p.x, p.y = col, row
	return nil
}

func (p *Panel) Write(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range text {
		if p.x >= p.size.Cols {
			break
		}
		termbox.SetCell(originX+p.x, originY+p.y, r, fg, bg)
		p.x++
	}
	return p.flush()
}

func (p *Panel) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	termbox.Close()
	return nil
}

// SetLEDs lights the registration indicators.
func (p *Panel) SetLEDs(one, two bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leds = [2]bool{one, two}
	p.drawLEDs()
	return p.flush()
}

// ---- drawing ----

func (p *Panel) frame() {
	w, h := p.size.Cols, p.size.Rows
	left, top := originX-1, originY-1
	right, bottom := originX+w, originY+h
	for x := left; x <= right; x++ {
		termbox.SetCell(x, top, '-', termbox.ColorDefault, termbox.ColorDefault)
		termbox.SetCell(x, bottom, '-', termbox.ColorDefault, termbox.ColorDefault)
	}
	for y := top; y <= bottom; y++ {
		termbox.SetCell(left, y, '|', termbox.ColorDefault, termbox.ColorDefault)
		termbox.SetCell(right, y, '|', termbox.ColorDefault, termbox.ColorDefault)
	}
	for _, c := range [][2]int{{left, top}, {right, top}, {left, bottom}, {right, bottom}} {
		termbox.SetCell(c[0], c[1], '+', termbox.ColorDefault, termbox.ColorDefault)
	}
}

func (p *Panel) blank() {
	for y := 0; y < p.size.Rows; y++ {
		for x := 0; x < p.size.Cols; x++ {
			termbox.SetCell(originX+x, originY+y, ' ', fg, bg)
		}
	}
}

func (p *Panel) drawLEDs() {
	y := originY + p.size.Rows + 1
	p.text(originX, y, "REG1", termbox.ColorDefault)
	p.led(originX+5, y, p.leds[0])
	p.text(originX+8, y, "REG2", termbox.ColorDefault)
	p.led(originX+13, y, p.leds[1])
}

func (p *Panel) led(x, y int, on bool) {
	ch, color := 'o', termbox.ColorDefault
	if on {
		ch, color = '*', termbox.ColorRed|termbox.AttrBold
	}
	termbox.SetCell(x, y, ch, color, termbox.ColorDefault)
}

var legendLines = []string{
	"left/right  menu       up/down  submenu",
	"1/2         registration",
	"+/-         volume     ]/[      reverb",
	"q           quit",
}

func (p *Panel) legend() {
	y := originY + p.size.Rows + 3
	for i, l := range legendLines {
		p.text(originX-1, y+i, l, termbox.ColorDefault)
	}
}

func (p *Panel) text(x, y int, s string, color termbox.Attribute) {
	for _, r := range s {
		termbox.SetCell(x, y, r, color, termbox.ColorDefault)
		x++
	}
}

func (p *Panel) flush() error {
	if err := termbox.Flush(); err != nil {
		return fmt.Errorf("term: flush: %w", err)
	}
	return nil
}

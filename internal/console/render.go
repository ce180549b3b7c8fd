// internal/console/render.go
package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/tamzrod/drawbar-console/internal/display"
	"github.com/tamzrod/drawbar-console/internal/menu"
	"github.com/tamzrod/drawbar-console/internal/telemetry"
)

// DrawbarLayout places the drawbar digits on the display.
type DrawbarLayout struct {
	Row      int
	UpperCol int // upper slot 0; slots follow left to right
	LowerCol int
}

func (l DrawbarLayout) col(u telemetry.DrawbarUpdate) int {
	if u.Keyboard == telemetry.Lower {
		return l.LowerCol
	}
	return l.UpperCol + u.Slot
}

// ---- level bars ----

func (c *Console) renderLevel(_ context.Context, it menu.Item) menu.Screen {
	c.mu.Lock()
	l := c.volume
	if it.Kind == menu.Reverb {
		l = c.reverb
	}
	c.mu.Unlock()

	return menu.Screen{Lines: []string{
		fmt.Sprintf("%s %d/%d", it.Name, l.Value, l.Max),
		levelBar(l, c.size.Cols),
	}}
}

// levelBar fills width cells in proportion to the level.
func levelBar(l Level, width int) string {
	if l.Max <= 0 || width <= 0 {
		return ""
	}
	n := l.Value * width / l.Max
	if l.Value > 0 && n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

// ---- drawbars ----

// renderDrawbars snapshots the cache. The console re-reads it inside the
// display sequence, so this is only used outside the live path.
func (c *Console) renderDrawbars(_ context.Context, it menu.Item) menu.Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drawbarScreenLocked(it)
}

// drawbarScreenLocked lays the cached digits over the row. c.mu must be held.
func (c *Console) drawbarScreenLocked(it menu.Item) menu.Screen {
	reg := telemetry.Registration(it.Registration)

	lines := make([]string, c.size.Rows)
	lines[0] = it.Name

	row := []byte(display.Fit(lines[c.layout.Row], c.size.Cols))
	upper := c.cache.Upper(reg)
	copy(row[c.layout.UpperCol:], upper[:])
	row[c.layout.LowerCol] = c.cache.Lower(reg)
	lines[c.layout.Row] = string(row)

	return menu.Screen{Lines: lines}
}

// internal/display/surface.go
package display

// Surface is a character display addressed by (row, col).
// Implementations are not safe for concurrent use; only the Arbiter calls them.
type Surface interface {
	Clear() error
	Home() error
	SetCursor(row, col int) error
	Write(text string) error
	Close() error
}

// Size is the fixed character grid of a Surface.
type Size struct {
	Rows int
	Cols int
}

// Fit pads or truncates text to exactly n printable ASCII cells.
// Anything outside 0x20..0x7E is shown as '?'.
func Fit(text string, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, n)
	i := 0
	for _, r := range text {
		if i == n {
			break
		}
		if r < 0x20 || r > 0x7E {
			r = '?'
		}
		out[i] = byte(r)
		i++
	}
	for ; i < n; i++ {
		out[i] = ' '
	}
	return string(out)
}

// internal/input/quadrature.go
package input

// transitions maps prev<<2|cur (state = A<<1|B) to a quarter step.
// Invalid jumps (both lines changed) count as zero.
var transitions = [16]int8{
	0, -1, 1, 0,
	1, 0, 0, -1,
	-1, 0, 0, 1,
	0, 1, -1, 0,
}

// stepsPerDetent is the number of quarter steps in one click.
const stepsPerDetent = 4

// Quadrature decodes the two phase lines of a rotary encoder into detents.
// A leading B is clockwise.
type Quadrature struct {
	state uint8
	acc   int8
}

// NewQuadrature starts from the current line levels.
func NewQuadrature(a, b bool) *Quadrature {
	return &Quadrature{state: levels(a, b)}
}

// Update feeds new line levels. It returns +1 for a clockwise detent,
// -1 for a counter-clockwise one and 0 otherwise.
func (q *Quadrature) Update(a, b bool) int {
	s := levels(a, b)
	q.acc += transitions[q.state<<2|s]
	q.state = s

	switch {
	case q.acc >= stepsPerDetent:
		q.acc = 0
		return 1
	case q.acc <= -stepsPerDetent:
		q.acc = 0
		return -1
	}
	return 0
}

func levels(a, b bool) uint8 {
	var s uint8
	if a {
		s |= 2
	}
	if b {
		s |= 1
	}
	return s
}

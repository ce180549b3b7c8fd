// internal/input/quadrature_test.go
package input

import "testing"

// one clockwise cycle from rest (both high): A falls first
var clockwise = [][2]bool{
	{false, true},
	{false, false},
	{true, false},
	{true, true},
}

func feed(q *Quadrature, seq [][2]bool) (sum int, emitted int) {
	for _, s := range seq {
		if d := q.Update(s[0], s[1]); d != 0 {
			sum += d
			emitted++
		}
	}
	return sum, emitted
}

func reversed(seq [][2]bool) [][2]bool {
	// counter-clockwise visits the same states backwards from rest
	out := make([][2]bool, 0, len(seq))
	for i := len(seq) - 2; i >= 0; i-- {
		out = append(out, seq[i])
	}
	return append(out, [2]bool{true, true})
}

func TestQuadratureClockwiseDetent(t *testing.T) {
	q := NewQuadrature(true, true)

	sum, n := feed(q, clockwise)
	if sum != 1 || n != 1 {
		t.Fatalf("expected one +1 detent, got sum=%d emitted=%d", sum, n)
	}
}

func TestQuadratureCounterClockwiseDetent(t *testing.T) {
	q := NewQuadrature(true, true)

	sum, n := feed(q, reversed(clockwise))
	if sum != -1 || n != 1 {
		t.Fatalf("expected one -1 detent, got sum=%d emitted=%d", sum, n)
	}
}

func TestQuadratureBounceCancels(t *testing.T) {
	q := NewQuadrature(true, true)

	// contact bounce on A: down, up, down
	bounce := [][2]bool{{false, true}, {true, true}, {false, true}, {true, true}}
	if sum, n := feed(q, bounce); n != 0 {
		t.Fatalf("bounce produced detents: sum=%d n=%d", sum, n)
	}

	sum, n := feed(q, clockwise)
	if sum != 1 || n != 1 {
		t.Fatalf("clean turn after bounce: sum=%d n=%d", sum, n)
	}
}

func TestQuadratureManyTurns(t *testing.T) {
	q := NewQuadrature(true, true)

	total := 0
	for i := 0; i < 10; i++ {
		s, _ := feed(q, clockwise)
		total += s
	}
	for i := 0; i < 3; i++ {
		s, _ := feed(q, reversed(clockwise))
		total += s
	}
	if total != 7 {
		t.Fatalf("expected net 7 detents, got %d", total)
	}
}

func TestQuadratureIgnoresInvalidJump(t *testing.T) {
	q := NewQuadrature(true, true)

	if d := q.Update(false, false); d != 0 {
		t.Fatalf("double change produced %d", d)
	}
}

// internal/input/terminal_test.go
package input

import (
	"testing"

	"github.com/nsf/termbox-go"
)

func TestMapKey(t *testing.T) {
	key := func(k termbox.Key) termbox.Event { return termbox.Event{Type: termbox.EventKey, Key: k} }
	ch := func(r rune) termbox.Event { return termbox.Event{Type: termbox.EventKey, Ch: r} }

	cases := []struct {
		ev   termbox.Event
		want Kind
	}{
		{key(termbox.KeyArrowRight), TopForward},
		{key(termbox.KeyArrowLeft), TopBackward},
		{key(termbox.KeyArrowDown), SubSelect},
		{key(termbox.KeyEnter), SubSelect},
		{key(termbox.KeyArrowUp), SubPrev},
		{key(termbox.KeyCtrlC), Quit},
		{ch('1'), Registration1},
		{ch('2'), Registration2},
		{ch('+'), VolumeUp},
		{ch('-'), VolumeDown},
		{ch(']'), ReverbUp},
		{ch('['), ReverbDown},
		{ch('q'), Quit},
	}
	for _, c := range cases {
		got, ok := MapKey(c.ev)
		if !ok || got.Kind != c.want {
			t.Fatalf("MapKey(%+v) = %v, %v; want %v", c.ev, got.Kind, ok, c.want)
		}
	}
}

func TestMapKeyIgnoresOthers(t *testing.T) {
	ignored := []termbox.Event{
		{Type: termbox.EventKey, Ch: 'x'},
		{Type: termbox.EventResize},
		{Type: termbox.EventMouse, Key: termbox.MouseLeft},
	}
	for _, ev := range ignored {
		if _, ok := MapKey(ev); ok {
			t.Fatalf("expected %+v to be ignored", ev)
		}
	}
}

func TestKindString(t *testing.T) {
	if s := Registration2.String(); s != "registration_2" {
		t.Fatalf("got %q", s)
	}
	if s := Kind(99).String(); s != "kind(99)" {
		t.Fatalf("got %q", s)
	}
}

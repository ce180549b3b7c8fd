// internal/input/terminal.go
package input

import (
	"context"

	"github.com/nsf/termbox-go"
)

// MapKey translates a simulator key press into an Event.
func MapKey(ev termbox.Event) (Event, bool) {
	if ev.Type != termbox.EventKey {
		return Event{}, false
	}

	switch ev.Key {
	case termbox.KeyArrowRight:
		return Event{Kind: TopForward}, true
	case termbox.KeyArrowLeft:
		return Event{Kind: TopBackward}, true
	case termbox.KeyArrowDown, termbox.KeyEnter:
		return Event{Kind: SubSelect}, true
	case termbox.KeyArrowUp:
		return Event{Kind: SubPrev}, true
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return Event{Kind: Quit}, true
	}

	switch ev.Ch {
	case '1':
		return Event{Kind: Registration1}, true
	case '2':
		return Event{Kind: Registration2}, true
	case '+', '=':
		return Event{Kind: VolumeUp}, true
	case '-':
		return Event{Kind: VolumeDown}, true
	case ']':
		return Event{Kind: ReverbUp}, true
	case '[':
		return Event{Kind: ReverbDown}, true
	case 'q', 'Q':
		return Event{Kind: Quit}, true
	}
	return Event{}, false
}

// PollTerminal forwards mapped key presses until ctx is done.
// termbox must already be initialized by the simulator panel.
func PollTerminal(ctx context.Context, out chan<- Event) {
	stop := context.AfterFunc(ctx, termbox.Interrupt)
	defer stop()

	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt || ctx.Err() != nil {
			return
		}
		e, ok := MapKey(ev)
		if !ok {
			continue
		}
		select {
		case out <- e:
		case <-ctx.Done():
			return
		}
	}
}

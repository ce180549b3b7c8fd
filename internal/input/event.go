// internal/input/event.go
package input

import "fmt"

// Kind is a discrete operator action.
type Kind uint8

const (
	TopForward Kind = iota + 1
	TopBackward
	SubSelect
	SubPrev
	Registration1
	Registration2
	VolumeUp
	VolumeDown
	ReverbUp
	ReverbDown
	Quit
)

var kindNames = map[Kind]string{
	TopForward:    "top_forward",
	TopBackward:   "top_backward",
	SubSelect:     "sub_select",
	SubPrev:       "sub_prev",
	Registration1: "registration_1",
	Registration2: "registration_2",
	VolumeUp:      "volume_up",
	VolumeDown:    "volume_down",
	ReverbUp:      "reverb_up",
	ReverbDown:    "reverb_down",
	Quit:          "quit",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Event is one input action as delivered to the console.
type Event struct {
	Kind Kind
}

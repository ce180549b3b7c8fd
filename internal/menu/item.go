// internal/menu/item.go
package menu

import (
	"context"
	"errors"
	"fmt"
)

// Kind selects how an item is rendered.
type Kind uint8

const (
	Static Kind = iota
	Dynamic
	Volume
	Reverb
	Drawbars
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case Volume:
		return "volume"
	case Reverb:
		return "reverb"
	case Drawbars:
		return "drawbars"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind maps the config spelling of a kind.
func ParseKind(s string) (Kind, error) {
	for k := Static; k <= Drawbars; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("menu: unknown kind %q", s)
}

// Producer computes the second line of a Dynamic item.
// It must not have side effects.
type Producer func(ctx context.Context) (string, error)

// Item is one node of the immutable menu tree.
type Item struct {
	Name         string
	Kind         Kind
	Text         string   // Static
	Producer     Producer // Dynamic
	Registration int      // Drawbars
	Children     []Item
}

var (
	ErrEmptyName            = errors.New("menu: item name required")
	ErrMissingProducer      = errors.New("menu: dynamic item without producer")
	ErrTooDeep              = errors.New("menu: only two levels are supported")
	ErrRenderCallableFailed = errors.New("menu: render callable failed")
)

// validate checks the tree invariants once, at construction.
func validate(items []Item, depth int) error {
	for _, it := range items {
		if it.Name == "" {
			return ErrEmptyName
		}
		if len(it.Children) > 0 {
			if depth > 0 {
				return fmt.Errorf("%w: %s", ErrTooDeep, it.Name)
			}
			if err := validate(it.Children, depth+1); err != nil {
				return fmt.Errorf("%s: %w", it.Name, err)
			}
			continue
		}
		if it.Kind == Dynamic && it.Producer == nil {
			return fmt.Errorf("%w: %s", ErrMissingProducer, it.Name)
		}
	}
	return nil
}

// clone copies the tree so callers cannot mutate it after New.
func clone(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it
		if len(it.Children) > 0 {
			out[i].Children = clone(it.Children)
		}
	}
	return out
}

// internal/menu/build.go
package menu

import (
	"fmt"

	"github.com/tamzrod/drawbar-console/internal/config"
)

// Resolver turns a dynamic item's source and argument into a Producer.
type Resolver func(source, arg string) (Producer, error)

// Build converts the declarative menu into items, resolving every
// dynamic source up front. Assumes config has already passed Validate.
func Build(items []config.MenuItem, resolve Resolver) ([]Item, error) {
	out := make([]Item, 0, len(items))
	for _, c := range items {
		it, err := buildItem(c, resolve)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := validate(out, 0); err != nil {
		return nil, err
	}
	return out, nil
}

func buildItem(c config.MenuItem, resolve Resolver) (Item, error) {
	it := Item{
		Name:         c.Name,
		Text:         c.Text,
		Registration: c.Registration,
	}

	if len(c.Children) > 0 {
		for _, child := range c.Children {
			ci, err := buildItem(child, resolve)
			if err != nil {
				return Item{}, fmt.Errorf("%s: %w", c.Name, err)
			}
			it.Children = append(it.Children, ci)
		}
		return it, nil
	}

	kind, err := ParseKind(c.Kind)
	if err != nil {
		return Item{}, fmt.Errorf("%s: %w", c.Name, err)
	}
	it.Kind = kind

	if kind == Dynamic {
		if resolve == nil {
			return Item{}, fmt.Errorf("%w: %s", ErrMissingProducer, c.Name)
		}
		p, err := resolve(c.Source, c.Arg)
		if err != nil {
			return Item{}, fmt.Errorf("%s: %w", c.Name, err)
		}
		it.Producer = p
	}
	return it, nil
}

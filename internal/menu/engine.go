// internal/menu/engine.go
package menu

import (
	"context"
	"fmt"
	"time"
)

// Placeholder replaces content that could not be computed.
const Placeholder = "--"

// Cursor addresses one item: Top indexes the top level,
// Sub indexes the children of the top item (0 when it has none).
type Cursor struct {
	Top int
	Sub int
}

// Screen is what should appear on the display, one string per row.
type Screen struct {
	Lines []string
}

// Renderer draws items the engine does not compute itself.
type Renderer interface {
	Render(ctx context.Context, it Item) Screen
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, it Item) Screen

func (f RendererFunc) Render(ctx context.Context, it Item) Screen { return f(ctx, it) }

// Option configures an Engine.
type Option func(*Engine)

// WithRenderer delegates rendering of kind to r.
func WithRenderer(kind Kind, r Renderer) Option {
	return func(e *Engine) { e.delegates[kind] = r }
}

// WithErrorHook is called with ErrRenderCallableFailed-wrapped errors.
func WithErrorHook(fn func(it Item, err error)) Option {
	return func(e *Engine) { e.onError = fn }
}

// WithProducerTimeout bounds each Dynamic producer call.
func WithProducerTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// Engine is a two-level menu with a cyclic cursor.
// Navigation never blocks and never touches the tree.
// An Engine is not safe for concurrent use; its owner serializes access.
type Engine struct {
	items     []Item
	cur       Cursor
	delegates map[Kind]Renderer
	onError   func(Item, error)
	timeout   time.Duration
}

// New validates the tree and places the cursor on the first item.
func New(items []Item, opts ...Option) (*Engine, error) {
	if err := validate(items, 0); err != nil {
		return nil, err
	}
	e := &Engine{
		items:     clone(items),
		delegates: make(map[Kind]Renderer),
		onError:   func(Item, error) {},
		timeout:   2 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Cursor returns the current position.
func (e *Engine) Cursor() Cursor { return e.cur }

// Items returns the number of top-level items.
func (e *Engine) Items() int { return len(e.items) }

// ---- navigation ----

// Forward moves to the next top item and resets the sub cursor.
func (e *Engine) Forward() {
	n := len(e.items)
	if n == 0 {
		return
	}
	e.cur = Cursor{Top: (e.cur.Top + 1) % n}
}

// Backward moves to the previous top item and resets the sub cursor.
func (e *Engine) Backward() {
	n := len(e.items)
	if n == 0 {
		return
	}
	e.cur = Cursor{Top: (e.cur.Top - 1 + n) % n}
}

// SelectNext cycles forward through the children of the current top item.
func (e *Engine) SelectNext() {
	n := e.children()
	if n == 0 {
		return
	}
	e.cur.Sub = (e.cur.Sub + 1) % n
}

// SelectPrev cycles backward through the children of the current top item.
func (e *Engine) SelectPrev() {
	n := e.children()
	if n == 0 {
		return
	}
	e.cur.Sub = (e.cur.Sub - 1 + n) % n
}

func (e *Engine) children() int {
	if len(e.items) == 0 {
		return 0
	}
	return len(e.items[e.cur.Top].Children)
}

// Current returns the item under the cursor: the selected child when the
// top item has children, otherwise the top item itself.
func (e *Engine) Current() (Item, bool) {
	if len(e.items) == 0 {
		return Item{}, false
	}
	top := e.items[e.cur.Top]
	if len(top.Children) == 0 {
		return top, true
	}
	return top.Children[e.cur.Sub], true
}

// ---- rendering ----

// Content renders the current item.
func (e *Engine) Content(ctx context.Context) Screen {
	it, ok := e.Current()
	if !ok {
		return Screen{}
	}
	return e.Render(ctx, it)
}

// Render computes the screen for it. It only reads engine configuration,
// so owners may call it outside their lock with an item from Current.
func (e *Engine) Render(ctx context.Context, it Item) Screen {
	switch it.Kind {
	case Static:
		return Screen{Lines: []string{it.Name, it.Text}}
	case Dynamic:
		return Screen{Lines: []string{it.Name, e.produce(ctx, it)}}
	default:
		if r, ok := e.delegates[it.Kind]; ok {
			return r.Render(ctx, it)
		}
		return Screen{Lines: []string{it.Name, ""}}
	}
}

// produce invokes a Dynamic producer; failures and panics degrade to Placeholder.
func (e *Engine) produce(ctx context.Context, it Item) (out string) {
	defer func() {
		if r := recover(); r != nil {
			e.onError(it, fmt.Errorf("%w: %s: panic: %v", ErrRenderCallableFailed, it.Name, r))
			out = Placeholder
		}
	}()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	s, err := it.Producer(ctx)
	if err != nil {
		e.onError(it, fmt.Errorf("%w: %s: %w", ErrRenderCallableFailed, it.Name, err))
		return Placeholder
	}
	return s
}

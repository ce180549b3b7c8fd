// internal/hostinfo/registry.go
package hostinfo

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tamzrod/drawbar-console/internal/menu"
)

var (
	ErrUnknownSource = errors.New("hostinfo: unknown source")
	ErrBadArg        = errors.New("hostinfo: bad argument")
)

// Factory builds a producer for one configured item. Arguments are
// parsed here, once, so producers only do I/O.
type Factory func(arg string) (menu.Producer, error)

// Registry maps config source names to producer factories.
type Registry struct {
	factories map[string]Factory

	root string // filesystem root for /proc and /sys
	now  func() time.Time
}

type Option func(*Registry)

// WithRoot reads /proc and /sys below root instead of "/".
func WithRoot(root string) Option {
	return func(r *Registry) { r.root = root }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry returns a registry with the built-in sources.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		root:      "/",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.Register("hostname", r.hostname)
	r.Register("ip", r.ip)
	r.Register("uptime", r.uptime)
	r.Register("cpu_temp", r.cpuTemp)
	r.Register("load", r.load)
	r.Register("clock", r.clock)
	r.Register("command", r.command)
	return r
}

// Register adds or replaces a source.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Resolve builds the producer for source with arg. It matches menu.Resolver.
func (r *Registry) Resolve(source, arg string) (menu.Producer, error) {
	f, ok := r.factories[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	p, err := f(arg)
	if err != nil {
		return nil, fmt.Errorf("hostinfo: %s: %w", source, err)
	}
	return p, nil
}

// Sources lists the registered names, sorted.
func (r *Registry) Sources() []string {
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// internal/menu/build_test.go
package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/tamzrod/drawbar-console/internal/config"
)

func fakeResolver(calls *[]string) Resolver {
	return func(source, arg string) (Producer, error) {
		*calls = append(*calls, source+":"+arg)
		if source == "broken" {
			return nil, errors.New("no such source")
		}
		return func(context.Context) (string, error) { return source + "!" + arg, nil }, nil
	}
}

func TestBuildDefaultMenu(t *testing.T) {
	var calls []string
	items, err := Build(config.DefaultMenu(), fakeResolver(&calls))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(items) != 10 {
		t.Fatalf("expected 10 top items, got %d", len(items))
	}
	if items[0].Kind != Drawbars || items[0].Registration != 1 {
		t.Fatalf("first item: %+v", items[0])
	}
	if items[1].Registration != 2 {
		t.Fatalf("second item registration: %d", items[1].Registration)
	}

	system := items[len(items)-1]
	if len(system.Children) != 4 {
		t.Fatalf("system children: %d", len(system.Children))
	}
	// every dynamic source resolved exactly once, at build time
	if len(calls) != 4 || calls[1] != "ip:wlan0" {
		t.Fatalf("resolver calls: %v", calls)
	}

	s, err := system.Children[1].Producer(context.Background())
	if err != nil || s != "ip!wlan0" {
		t.Fatalf("producer: %q, %v", s, err)
	}
}

func TestBuildResolverError(t *testing.T) {
	var calls []string
	_, err := Build([]config.MenuItem{
		{Name: "S", Children: []config.MenuItem{{Name: "X", Kind: "dynamic", Source: "broken"}}},
	}, fakeResolver(&calls))
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestBuildUnknownKind(t *testing.T) {
	if _, err := Build([]config.MenuItem{{Name: "X", Kind: "submenu"}}, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBuildDynamicWithoutResolver(t *testing.T) {
	_, err := Build([]config.MenuItem{{Name: "IP", Kind: "dynamic", Source: "ip"}}, nil)
	if !errors.Is(err, ErrMissingProducer) {
		t.Fatalf("expected ErrMissingProducer, got %v", err)
	}
}

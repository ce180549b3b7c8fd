// internal/hostinfo/sources.go
package hostinfo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/tamzrod/drawbar-console/internal/menu"
)

func (r *Registry) hostname(string) (menu.Producer, error) {
	return func(context.Context) (string, error) {
		return os.Hostname()
	}, nil
}

// ip shows the first IPv4 address of the named interface,
// or of the first non-loopback interface when no name is given.
func (r *Registry) ip(iface string) (menu.Producer, error) {
	return func(context.Context) (string, error) {
		if iface != "" {
			ifi, err := net.InterfaceByName(iface)
			if err != nil {
				return "", err
			}
			return firstIPv4(ifi)
		}

		ifs, err := net.Interfaces()
		if err != nil {
			return "", err
		}
		for i := range ifs {
			if ifs[i].Flags&net.FlagLoopback != 0 || ifs[i].Flags&net.FlagUp == 0 {
				continue
			}
			if s, err := firstIPv4(&ifs[i]); err == nil {
				return s, nil
			}
		}
		return "", errors.New("no ipv4 address")
	}, nil
}

func firstIPv4(ifi *net.Interface) (string, error) {
	addrs, err := ifi.Addrs()
	if err != nil {
		return "", err
	}
	for _, a := range addrs {
		if n, ok := a.(*net.IPNet); ok {
			if v4 := n.IP.To4(); v4 != nil {
				return v4.String(), nil
			}
		}
	}
	return "", fmt.Errorf("%s: no ipv4 address", ifi.Name)
}

func (r *Registry) uptime(string) (menu.Producer, error) {
	return func(context.Context) (string, error) {
		fields, err := r.fields("proc/uptime")
		if err != nil {
			return "", err
		}
		secs, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return "", fmt.Errorf("uptime: %w", err)
		}
		return FormatUptime(time.Duration(secs * float64(time.Second))), nil
	}, nil
}

// FormatUptime renders d as "Nd HH:MM".
func FormatUptime(d time.Duration) string {
	m := int(d / time.Minute)
	return fmt.Sprintf("%dd %02d:%02d", m/(24*60), m/60%24, m%60)
}

// cpuTemp reads a thermal zone in millidegrees; arg selects the zone (default 0).
func (r *Registry) cpuTemp(arg string) (menu.Producer, error) {
	zone := 0
	if arg != "" {
		z, err := strconv.Atoi(arg)
		if err != nil || z < 0 {
			return nil, fmt.Errorf("%w: thermal zone %q", ErrBadArg, arg)
		}
		zone = z
	}
	path := fmt.Sprintf("sys/class/thermal/thermal_zone%d/temp", zone)

	return func(context.Context) (string, error) {
		fields, err := r.fields(path)
		if err != nil {
			return "", err
		}
		milli, err := strconv.Atoi(fields[0])
		if err != nil {
			return "", fmt.Errorf("cpu_temp: %w", err)
		}
		return fmt.Sprintf("%.1f C", float64(milli)/1000), nil
	}, nil
}

func (r *Registry) load(string) (menu.Producer, error) {
	return func(context.Context) (string, error) {
		fields, err := r.fields("proc/loadavg")
		if err != nil {
			return "", err
		}
		if len(fields) < 3 {
			return "", errors.New("loadavg: short read")
		}
		return strings.Join(fields[:3], " "), nil
	}, nil
}

// clock formats the current time; arg is a Go layout (default 15:04:05).
func (r *Registry) clock(layout string) (menu.Producer, error) {
	if layout == "" {
		layout = time.TimeOnly
	}
	return func(context.Context) (string, error) {
		return r.now().Format(layout), nil
	}, nil
}

// command runs a program and shows the first line of its output.
// The argument is split once, shell-style, and never run through a shell.
func (r *Registry) command(arg string) (menu.Producer, error) {
	argv, err := shlex.Split(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArg, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrBadArg)
	}

	return func(ctx context.Context) (string, error) {
		out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
		if err != nil {
			return "", fmt.Errorf("%s: %w", argv[0], err)
		}
		line, _, _ := bytes.Cut(out, []byte{'\n'})
		return strings.TrimSpace(string(line)), nil
	}, nil
}

func (r *Registry) fields(rel string) ([]string, error) {
	raw, err := os.ReadFile(filepath.Join(r.root, rel))
	if err != nil {
		return nil, err
	}
	f := strings.Fields(string(raw))
	if len(f) == 0 {
		return nil, fmt.Errorf("%s: empty", rel)
	}
	return f, nil
}

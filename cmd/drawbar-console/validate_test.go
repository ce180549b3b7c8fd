// cmd/drawbar-console/validate_test.go
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateWritesToCommandOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `console:
  serial:
    device: /dev/ttyACM0
  menu:
    - { name: "Drawbars 1", kind: drawbars, registration: 1 }
    - { name: "Tuning", kind: static, text: "A4 = 440 Hz" }
    - name: "System"
      children:
        - { name: "Host", kind: dynamic, source: hostname }
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	prev := cfgPath
	cfgPath = path
	t.Cleanup(func() { cfgPath = prev })

	var out bytes.Buffer
	cmd := newValidateCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"display  hd44780 2x16 at 0x27",
		`serial   "/dev/ttyACM0" @ 115200`,
		"registration 1",
		"A4 = 440 Hz",
		"System",
		"  Host",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("console:\n  goodbye_ms: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	prev := cfgPath
	cfgPath = path
	t.Cleanup(func() { cfgPath = prev })

	cmd := newValidateCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected validation error")
	}
}

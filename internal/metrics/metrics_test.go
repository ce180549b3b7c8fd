// internal/metrics/metrics_test.go
package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersExposed(t *testing.T) {
	m := New()

	m.Frames.Add(3)
	m.DecodeErrors.WithLabelValues("malformed").Inc()
	m.Registrations.WithLabelValues("2").Inc()

	if got := testutil.ToFloat64(m.Frames); got != 3 {
		t.Fatalf("frames: got %v", got)
	}
	if got := testutil.ToFloat64(m.DecodeErrors.WithLabelValues("malformed")); got != 1 {
		t.Fatalf("decode errors: got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"drawbar_console_frames_decoded_total 3",
		`drawbar_console_registration_selects_total{registration="2"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

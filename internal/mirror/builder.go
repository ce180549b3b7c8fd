// internal/mirror/builder.go
package mirror

import (
	"time"

	cfg "github.com/tamzrod/drawbar-console/internal/config"
	mmodbus "github.com/tamzrod/drawbar-console/internal/mirror/modbus"
)

// Build connects to the mirror endpoint and returns a Writer and its closer.
// Assumes config has already passed Validate and Normalize.
func Build(m cfg.MirrorConfig, deviceName string) (*Writer, func() error, error) {
	c, err := mmodbus.NewEndpointClient(mmodbus.Config{
		Endpoint: m.Endpoint,
		Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	plan := Plan{
		UnitID:     m.UnitID,
		BaseAddr:   m.BaseAddr,
		DeviceName: deviceName,
	}
	return NewWriter(plan, c), c.Close, nil
}

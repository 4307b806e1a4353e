// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("will use the circuit defaults", func(t *testing.T) {
		cfg, err := loadConfig(newViper())
		require.NoError(t, err)

		require.Equal(t, uint32(5), cfg.OTLP.Circuit.TripCount)
		require.Equal(t, 60*time.Second, cfg.OTLP.Circuit.Timeout)
		require.Equal(t, uint32(1), cfg.OTLP.Circuit.HalfOpenRequests)
		require.Zero(t, cfg.OTLP.Circuit.ResetInterval)
	})

	t.Run("will read circuit settings", func(t *testing.T) {
		t.Run("if they are set in the environment", func(t *testing.T) {
			t.Setenv("GHA_OTEL_EXPORT_OTLP_CIRCUIT_HALF_OPEN_REQUESTS", "3")
			t.Setenv("GHA_OTEL_EXPORT_OTLP_CIRCUIT_RESET_INTERVAL", "2m")

			cfg, err := loadConfig(newViper())
			require.NoError(t, err)

			require.Equal(t, uint32(3), cfg.OTLP.Circuit.HalfOpenRequests)
			require.Equal(t, 2*time.Minute, cfg.OTLP.Circuit.ResetInterval)
		})

		t.Run("if they are set in the config file", func(t *testing.T) {
			path := writeFile(t, "config.yaml", `
otlp:
  circuit:
    half_open_requests: 4
    reset_interval: 30s
`)

			v := newViper()
			v.Set("config", path)

			cfg, err := loadConfig(v)
			require.NoError(t, err)

			require.Equal(t, uint32(4), cfg.OTLP.Circuit.HalfOpenRequests)
			require.Equal(t, 30*time.Second, cfg.OTLP.Circuit.ResetInterval)
		})
	})
}

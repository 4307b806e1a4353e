// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"log/slog"
	"strings"
	"time"

	"github.com/z5labs/otelexport/config"
	"github.com/z5labs/otelexport/tracing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the CLI reads its
// configuration from, e.g. GHA_OTEL_EXPORT_OTLP_ENDPOINT.
const EnvPrefix = "GHA_OTEL_EXPORT"

// Config is the merged configuration of flags, environment variables
// and the optional YAML config file.
type Config struct {
	Exporter    string   `config:"exporter"`
	ServiceName string   `config:"service_name"`
	Detectors   []string `config:"detectors"`

	OTLP struct {
		Endpoint string            `config:"endpoint"`
		Insecure bool              `config:"insecure"`
		Headers  map[string]string `config:"headers"`

		Retry struct {
			MaxAttempts int           `config:"max_attempts"`
			MinWait     time.Duration `config:"min_wait"`
			MaxWait     time.Duration `config:"max_wait"`
		} `config:"retry"`

		Circuit struct {
			TripCount        uint32        `config:"trip_count"`
			Timeout          time.Duration `config:"timeout"`
			HalfOpenRequests uint32        `config:"half_open_requests"`
			ResetInterval    time.Duration `config:"reset_interval"`
		} `config:"circuit"`
	} `config:"otlp"`

	GCP struct {
		ProjectID string `config:"project_id"`
	} `config:"gcp"`

	Stdout struct {
		Pretty bool `config:"pretty"`
	} `config:"stdout"`

	Batch tracing.BatchConfig `config:"batch"`

	Input struct {
		Format string `config:"format"`
	} `config:"input"`

	Metrics struct {
		Textfile string `config:"textfile"`
	} `config:"metrics"`

	Log struct {
		Level  slog.Level `config:"level"`
		Format string     `config:"format"`
	} `config:"log"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	batch := tracing.DefaultBatchConfig()

	v.SetDefault("exporter", "otlp-http")
	v.SetDefault("service_name", "")
	v.SetDefault("detectors", []string{"env"})
	v.SetDefault("otlp.endpoint", "")
	v.SetDefault("otlp.insecure", false)
	v.SetDefault("otlp.headers", "")
	v.SetDefault("otlp.retry.max_attempts", 2)
	v.SetDefault("otlp.retry.min_wait", 100*time.Millisecond)
	v.SetDefault("otlp.retry.max_wait", 5*time.Second)
	v.SetDefault("otlp.circuit.trip_count", uint32(5))
	v.SetDefault("otlp.circuit.timeout", 60*time.Second)
	v.SetDefault("otlp.circuit.half_open_requests", uint32(1))
	v.SetDefault("otlp.circuit.reset_interval", time.Duration(0))
	v.SetDefault("gcp.project_id", "")
	v.SetDefault("stdout.pretty", false)
	v.SetDefault("batch.max_queue_size", batch.MaxQueueSize)
	v.SetDefault("batch.max_export_batch_size", batch.MaxExportBatchSize)
	v.SetDefault("batch.scheduled_delay", batch.ScheduledDelay)
	v.SetDefault("batch.export_timeout", batch.ExportTimeout)
	v.SetDefault("input.format", "")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	return v
}

// flagKeys maps flag names onto the config keys they set.
var flagKeys = map[string]string{
	"config":           "config",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"exporter":         "exporter",
	"service-name":     "service_name",
	"detectors":        "detectors",
	"endpoint":         "otlp.endpoint",
	"insecure":         "otlp.insecure",
	"headers":          "otlp.headers",
	"gcp-project":      "gcp.project_id",
	"pretty":           "stdout.pretty",
	"format":           "input.format",
	"metrics-textfile": "metrics.textfile",
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

// loadConfig reads the config file, if one was given, and decodes the
// merged settings.
func loadConfig(v *viper.Viper) (Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, ConfigFileError{Path: path, Cause: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, config.DecoderConfig); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

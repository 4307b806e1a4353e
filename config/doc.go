// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides composable readers for configuration values
// along with the decode hooks used when unmarshalling viper settings.
//
// A [Reader] produces a [Value] which is either set or unset. Readers
// compose with [Or], [Default], [Map] and [Bind] so that a single
// setting can be sourced from several places:
//
//	endpoint, err := config.Read(ctx,
//	    config.Or(
//	        config.NonEmpty(config.Env("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")),
//	        config.NonEmpty(config.Env("OTEL_EXPORTER_OTLP_ENDPOINT")),
//	    ),
//	)
//
// [Read] converts an unset value into [ErrValueNotSet].
//
// Struct decoding uses the "config" struct tag. Pass [DecoderConfig] to
// viper.Unmarshal so durations, log levels, comma separated lists and
// "k=v" header maps given as strings decode into their typed fields.
package config

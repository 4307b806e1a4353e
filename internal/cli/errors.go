// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"errors"
	"fmt"
)

// ErrStdinRepeated is returned when stdin ("-") is given more than once
// as an input.
var ErrStdinRepeated = errors.New("stdin may only be read once")

// ConfigFileError occurs when the config file cannot be read.
type ConfigFileError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e ConfigFileError) Error() string {
	return fmt.Sprintf("failed to read config file %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ConfigFileError) Unwrap() error {
	return e.Cause
}

// UnknownExporterError occurs when the configured exporter isn't supported.
type UnknownExporterError struct {
	Name string
}

// Error implements the error interface.
func (e UnknownExporterError) Error() string {
	return fmt.Sprintf("unknown exporter: %q", e.Name)
}

// UnknownLogFormatError occurs when the configured log format isn't supported.
type UnknownLogFormatError struct {
	Format string
}

// Error implements the error interface.
func (e UnknownLogFormatError) Error() string {
	return fmt.Sprintf("unknown log format: %q", e.Format)
}

// InputError occurs when a span record input cannot be opened or decoded.
type InputError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e InputError) Error() string {
	return fmt.Sprintf("failed to read span records from %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InputError) Unwrap() error {
	return e.Cause
}

// IncompleteExportError is returned when some span records were
// invalid or some spans could not be submitted for export.
type IncompleteExportError struct {
	Invalid int
	Failed  int
}

// Error implements the error interface.
func (e IncompleteExportError) Error() string {
	return fmt.Sprintf("export incomplete: %d invalid span records, %d spans failed to submit", e.Invalid, e.Failed)
}

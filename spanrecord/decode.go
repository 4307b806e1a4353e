// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package spanrecord

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a span record stream.
type Format int

const (
	// JSON accepts a stream of top level values, each either an array
	// of records or a single record object (NDJSON included).
	JSON Format = iota

	// YAML accepts documents which are either a sequence of records
	// or a single record.
	YAML
)

// String implements the [fmt.Stringer] interface.
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// UnknownFormatError occurs when parsing a [Format] name which
// isn't supported.
type UnknownFormatError struct {
	Name string
}

// Error implements the error interface.
func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown span record format: %q", e.Name)
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (f *Format) UnmarshalText(b []byte) error {
	switch name := strings.ToLower(strings.TrimSpace(string(b))); name {
	case "json", "ndjson", "jsonl":
		*f = JSON
	case "yaml", "yml":
		*f = YAML
	default:
		return UnknownFormatError{Name: name}
	}
	return nil
}

// FormatFromPath picks a [Format] from the extension of path. Anything
// which isn't a YAML file, including stdin's "-", is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// InvalidJsonError occurs if the underlying io.Reader contains invalid JSON.
type InvalidJsonError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidJsonError) Unwrap() error {
	return e.Cause
}

// InvalidYamlError occurs if the underlying io.Reader contains invalid YAML.
type InvalidYamlError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

// Decode reads every record from r in the given format. Empty input
// yields no records.
func Decode(r io.Reader, format Format) ([]Record, error) {
	switch format {
	case JSON:
		return decodeJson(r)
	case YAML:
		return decodeYaml(r)
	default:
		return nil, UnknownFormatError{Name: format.String()}
	}
}

func decodeJson(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)

	var records []Record
	for {
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, InvalidJsonError{Cause: err}
		}

		// Top level values may be arrays of records or single records.
		vdec := json.NewDecoder(bytes.NewReader(raw))
		vdec.UseNumber()
		if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
			var rs []Record
			if err := vdec.Decode(&rs); err != nil {
				return nil, InvalidJsonError{Cause: err}
			}
			records = append(records, rs...)
			continue
		}

		var rec Record
		if err := vdec.Decode(&rec); err != nil {
			return nil, InvalidJsonError{Cause: err}
		}
		records = append(records, rec)
	}
}

func decodeYaml(r io.Reader) ([]Record, error) {
	dec := yaml.NewDecoder(r)

	var records []Record
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, InvalidYamlError{Cause: err}
		}
		if len(doc.Content) == 0 {
			continue
		}

		switch root := doc.Content[0]; root.Kind {
		case yaml.SequenceNode:
			var rs []Record
			if err := root.Decode(&rs); err != nil {
				return nil, InvalidYamlError{Cause: err}
			}
			records = append(records, rs...)
		case yaml.MappingNode:
			var rec Record
			if err := root.Decode(&rec); err != nil {
				return nil, InvalidYamlError{Cause: err}
			}
			records = append(records, rec)
		default:
			return nil, InvalidYamlError{Cause: fmt.Errorf("expected a record or a list of records at line %d", root.Line)}
		}
	}
}

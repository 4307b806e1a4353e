// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"
)

// BoolFromString parses the string value using [strconv.ParseBool].
func BoolFromString(r Reader[string]) Reader[bool] {
	return Map(r, func(_ context.Context, s string) (bool, error) {
		return strconv.ParseBool(s)
	})
}

// IntFromString parses the string value using [strconv.Atoi].
func IntFromString(r Reader[string]) Reader[int] {
	return Map(r, func(_ context.Context, s string) (int, error) {
		return strconv.Atoi(s)
	})
}

// DurationFromString parses the string value using [time.ParseDuration].
func DurationFromString(r Reader[string]) Reader[time.Duration] {
	return Map(r, func(_ context.Context, s string) (time.Duration, error) {
		return time.ParseDuration(s)
	})
}

// ReadFile opens the named file for reading. A file which does not
// exist is treated as unset. Callers are responsible for closing it.
func ReadFile(name string) Reader[*os.File] {
	return ReaderFunc[*os.File](func(ctx context.Context) (Value[*os.File], error) {
		f, err := os.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			return Value[*os.File]{}, nil
		}
		if err != nil {
			return Value[*os.File]{}, err
		}
		return ValueOf(f), nil
	})
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func unset[T any]() Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return Value[T]{}, nil
	})
}

func failing[T any](err error) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return Value[T]{}, err
	})
}

func TestValue_Value(t *testing.T) {
	t.Run("will report set", func(t *testing.T) {
		t.Run("if the value was created with ValueOf", func(t *testing.T) {
			v, ok := ValueOf(0).Value()
			require.True(t, ok)
			require.Zero(t, v)
		})
	})

	t.Run("will report unset", func(t *testing.T) {
		t.Run("if the value is the zero Value", func(t *testing.T) {
			_, ok := Value[string]{}.Value()
			require.False(t, ok)
		})
	})
}

func TestRead(t *testing.T) {
	t.Run("will return the value", func(t *testing.T) {
		t.Run("if the reader produces a set value", func(t *testing.T) {
			v, err := Read(context.Background(), ReaderOf("http://localhost:4318"))
			require.NoError(t, err)
			require.Equal(t, "http://localhost:4318", v)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the reader fails", func(t *testing.T) {
			readErr := errors.New("read failed")

			v, err := Read(context.Background(), failing[string](readErr))
			require.ErrorIs(t, err, readErr)
			require.Empty(t, v)
		})

		t.Run("if the value is not set", func(t *testing.T) {
			v, err := Read(context.Background(), unset[int]())
			require.ErrorIs(t, err, ErrValueNotSet)
			require.Zero(t, v)
		})
	})
}

func TestMust(t *testing.T) {
	t.Run("will panic", func(t *testing.T) {
		t.Run("if the value is not set", func(t *testing.T) {
			require.PanicsWithError(t, ErrValueNotSet.Error(), func() {
				Must(context.Background(), unset[int]())
			})
		})

		t.Run("if the reader fails", func(t *testing.T) {
			require.Panics(t, func() {
				Must(context.Background(), failing[int](errors.New("boom")))
			})
		})
	})

	t.Run("will return the value", func(t *testing.T) {
		require.Equal(t, 512, Must(context.Background(), ReaderOf(512)))
	})
}

func TestMustOr(t *testing.T) {
	testCases := []struct {
		name   string
		reader Reader[int]
		def    int
		want   int
	}{
		{
			name:   "set value wins",
			reader: ReaderOf(2048),
			def:    512,
			want:   2048,
		},
		{
			name:   "unset value falls back to default",
			reader: unset[int](),
			def:    512,
			want:   512,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, MustOr(context.Background(), tc.def, tc.reader))
		})
	}
}

func TestDefault(t *testing.T) {
	t.Run("will not hide reader errors", func(t *testing.T) {
		readErr := errors.New("read failed")

		_, err := Read(context.Background(), Default("otlp", failing[string](readErr)))
		require.ErrorIs(t, err, readErr)
	})

	t.Run("will use the default", func(t *testing.T) {
		t.Run("if the value is not set", func(t *testing.T) {
			v, err := Read(context.Background(), Default("otlp", unset[string]()))
			require.NoError(t, err)
			require.Equal(t, "otlp", v)
		})
	})
}

func TestOr(t *testing.T) {
	testCases := []struct {
		name      string
		readers   []Reader[string]
		want      string
		expectSet bool
		expectErr bool
	}{
		{
			name:      "returns the first set value",
			readers:   []Reader[string]{unset[string](), ReaderOf("a"), ReaderOf("b")},
			want:      "a",
			expectSet: true,
		},
		{
			name:    "returns unset if no reader is set",
			readers: []Reader[string]{unset[string](), unset[string]()},
		},
		{
			name:    "returns unset with no readers",
			readers: nil,
		},
		{
			name:      "stops at the first error",
			readers:   []Reader[string]{failing[string](errors.New("boom")), ReaderOf("a")},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Or(tc.readers...).Read(context.Background())
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			v, ok := val.Value()
			require.Equal(t, tc.expectSet, ok)
			require.Equal(t, tc.want, v)
		})
	}
}

func TestMap(t *testing.T) {
	t.Run("will not call the mapper", func(t *testing.T) {
		t.Run("if the value is not set", func(t *testing.T) {
			called := false
			r := Map(unset[string](), func(ctx context.Context, s string) (int, error) {
				called = true
				return 0, nil
			})

			val, err := r.Read(context.Background())
			require.NoError(t, err)
			_, ok := val.Value()
			require.False(t, ok)
			require.False(t, called)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the mapper fails", func(t *testing.T) {
			mapErr := errors.New("map failed")
			r := Map(ReaderOf("x"), func(ctx context.Context, s string) (int, error) {
				return 0, mapErr
			})

			_, err := r.Read(context.Background())
			require.ErrorIs(t, err, mapErr)
		})
	})

	t.Run("will transform a set value", func(t *testing.T) {
		r := Map(ReaderOf("export"), func(ctx context.Context, s string) (int, error) {
			return len(s), nil
		})

		v, err := Read(context.Background(), r)
		require.NoError(t, err)
		require.Equal(t, 6, v)
	})
}

func TestBind(t *testing.T) {
	readers := map[string]Reader[int]{
		"small": ReaderOf(1),
		"large": ReaderOf(100),
	}
	pick := func(ctx context.Context, key string) Reader[int] {
		r, ok := readers[key]
		if !ok {
			return failing[int](errors.New("unknown key"))
		}
		return r
	}

	t.Run("will select the next reader from the value", func(t *testing.T) {
		v, err := Read(context.Background(), Bind(ReaderOf("large"), pick))
		require.NoError(t, err)
		require.Equal(t, 100, v)
	})

	t.Run("will pass through unset values", func(t *testing.T) {
		_, err := Read(context.Background(), Bind(unset[string](), pick))
		require.ErrorIs(t, err, ErrValueNotSet)
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the selected reader fails", func(t *testing.T) {
			_, err := Read(context.Background(), Bind(ReaderOf("medium"), pick))
			require.Error(t, err)
		})
	})
}

func TestEnv(t *testing.T) {
	t.Run("will be set", func(t *testing.T) {
		t.Run("if the variable is present but empty", func(t *testing.T) {
			t.Setenv("OTELEXPORT_TEST_EMPTY", "")

			val, err := Env("OTELEXPORT_TEST_EMPTY").Read(context.Background())
			require.NoError(t, err)
			v, ok := val.Value()
			require.True(t, ok)
			require.Empty(t, v)
		})

		t.Run("if the variable has a value", func(t *testing.T) {
			t.Setenv("OTELEXPORT_TEST_VALUE", "grpc")

			v, err := Read(context.Background(), Env("OTELEXPORT_TEST_VALUE"))
			require.NoError(t, err)
			require.Equal(t, "grpc", v)
		})
	})

	t.Run("will be unset", func(t *testing.T) {
		t.Run("if the variable is missing", func(t *testing.T) {
			_, err := Read(context.Background(), Env("OTELEXPORT_TEST_DOES_NOT_EXIST"))
			require.ErrorIs(t, err, ErrValueNotSet)
		})
	})
}

func TestNonEmpty(t *testing.T) {
	testCases := []struct {
		name      string
		reader    Reader[string]
		expectSet bool
	}{
		{name: "empty string", reader: ReaderOf(""), expectSet: false},
		{name: "unset", reader: unset[string](), expectSet: false},
		{name: "non-empty string", reader: ReaderOf("x"), expectSet: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := NonEmpty(tc.reader).Read(context.Background())
			require.NoError(t, err)
			_, ok := val.Value()
			require.Equal(t, tc.expectSet, ok)
		})
	}
}

func TestParsers(t *testing.T) {
	t.Run("BoolFromString", func(t *testing.T) {
		v, err := Read(context.Background(), BoolFromString(ReaderOf("1")))
		require.NoError(t, err)
		require.True(t, v)

		_, err = Read(context.Background(), BoolFromString(ReaderOf("yes please")))
		require.Error(t, err)
	})

	t.Run("IntFromString", func(t *testing.T) {
		v, err := Read(context.Background(), IntFromString(ReaderOf("-3")))
		require.NoError(t, err)
		require.Equal(t, -3, v)

		_, err = Read(context.Background(), IntFromString(ReaderOf("3.5")))
		require.Error(t, err)
	})

	t.Run("DurationFromString", func(t *testing.T) {
		v, err := Read(context.Background(), DurationFromString(ReaderOf("1m30s")))
		require.NoError(t, err)
		require.Equal(t, 90*time.Second, v)

		_, err = Read(context.Background(), DurationFromString(ReaderOf("soon")))
		require.Error(t, err)
	})
}

func TestReadFile(t *testing.T) {
	t.Run("will open the file", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "spans.json")
		require.NoError(t, os.WriteFile(name, []byte("[]"), 0o600))

		f, err := Read(context.Background(), ReadFile(name))
		require.NoError(t, err)
		require.NotNil(t, f)
		require.NoError(t, f.Close())
	})

	t.Run("will be unset", func(t *testing.T) {
		t.Run("if the file does not exist", func(t *testing.T) {
			val, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")).Read(context.Background())
			require.NoError(t, err)
			_, ok := val.Value()
			require.False(t, ok)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the path is a directory entry that cannot be traversed", func(t *testing.T) {
			if os.Geteuid() == 0 {
				t.Skip("permission bits are not enforced for root")
			}

			dir := filepath.Join(t.TempDir(), "restricted")
			require.NoError(t, os.Mkdir(dir, 0o000))

			f, err := Read(context.Background(), ReadFile(filepath.Join(dir, "file.json")))
			require.Error(t, err)
			require.Nil(t, f)
		})
	})
}

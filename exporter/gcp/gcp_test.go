// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gcp

import (
	"context"
	"errors"
	"testing"

	"github.com/z5labs/otelexport/config"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestBuildSpanExporter(t *testing.T) {
	t.Run("will build the exporter", func(t *testing.T) {
		t.Run("if a project id is given", func(t *testing.T) {
			exp, err := BuildSpanExporter(
				config.ReaderOf("ci-observability"),
				option.WithoutAuthentication(),
			).Build(t.Context())
			require.NoError(t, err)
			require.NotNil(t, exp)
			require.NoError(t, exp.Shutdown(t.Context()))
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the project id cannot be read", func(t *testing.T) {
			readErr := errors.New("bad project")
			projectID := config.ReaderFunc[string](func(ctx context.Context) (config.Value[string], error) {
				return config.Value[string]{}, readErr
			})

			_, err := BuildSpanExporter(projectID).Build(t.Context())
			require.ErrorIs(t, err, readErr)
		})
	})
}

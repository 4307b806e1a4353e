// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command gha-otel-export replays finished span records, such as the
// jobs and steps of a GitHub Actions workflow run, through an
// OpenTelemetry tracing pipeline.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/z5labs/otelexport/internal/cli"
)

func main() {
	err := cli.Execute(context.Background(), os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

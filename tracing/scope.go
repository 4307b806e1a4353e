// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import "go.opentelemetry.io/otel/sdk/instrumentation"

const (
	// ScopeName is the instrumentation scope name stamped on every exported span.
	ScopeName = "gha-otel-export"

	// ScopeVersion is the instrumentation scope version stamped on every exported span.
	ScopeVersion = "1.0.0"
)

// InstrumentationScope returns the static scope used for re-exported spans.
// It does not depend on any pipeline being initialized.
func InstrumentationScope() instrumentation.Scope {
	return instrumentation.Scope{
		Name:    ScopeName,
		Version: ScopeVersion,
	}
}

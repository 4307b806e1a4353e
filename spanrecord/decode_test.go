// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package spanrecord

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("will decode a json array", func(t *testing.T) {
		input := `
		[
			{"name": "build", "trace_id": "` + testTraceID + `", "span_id": "` + testSpanID + `",
			 "start_time": "2026-01-02T15:04:05Z", "end_time": "2026-01-02T15:06:05Z",
			 "attributes": {"ci.attempt": 1}},
			{"name": "test", "trace_id": "` + testTraceID + `", "span_id": "` + testParent + `",
			 "start_time": "2026-01-02T15:06:05Z", "end_time": "2026-01-02T15:07:05Z"}
		]`

		records, err := Decode(strings.NewReader(input), JSON)
		require.NoError(t, err)
		require.Len(t, records, 2)
		require.Equal(t, "build", records[0].Name)
		require.Equal(t, "test", records[1].Name)
		require.Equal(t, json.Number("1"), records[0].Attributes["ci.attempt"])
		require.Equal(t, 2*time.Minute, records[0].EndTime.Sub(records[0].StartTime))
	})

	t.Run("will decode a json object stream", func(t *testing.T) {
		input := `{"name": "checkout"}
{"name": "lint"}
{"name": "release"}
`
		records, err := Decode(strings.NewReader(input), JSON)
		require.NoError(t, err)

		names := make([]string, len(records))
		for i, r := range records {
			names[i] = r.Name
		}
		require.Equal(t, []string{"checkout", "lint", "release"}, names)
	})

	t.Run("will decode every top level json value", func(t *testing.T) {
		testCases := []struct {
			name  string
			input string
			want  []string
		}{
			{
				name:  "if arrays follow each other",
				input: `[{"name": "a"}]` + "\n" + `[{"name": "b"}, {"name": "c"}]`,
				want:  []string{"a", "b", "c"},
			},
			{
				name:  "if an object follows an array",
				input: `[{"name": "a"}]` + "\n" + `[{"name": "b"}]` + "\n" + `{"name": "c"}`,
				want:  []string{"a", "b", "c"},
			},
			{
				name:  "if an array follows an object",
				input: `{"name": "a"} [{"name": "b"}]`,
				want:  []string{"a", "b"},
			},
			{
				name:  "if an empty array is in the stream",
				input: `[] {"name": "a"} []`,
				want:  []string{"a"},
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				records, err := Decode(strings.NewReader(tc.input), JSON)
				require.NoError(t, err)

				names := make([]string, len(records))
				for i, r := range records {
					names[i] = r.Name
				}
				require.Equal(t, tc.want, names)
			})
		}
	})

	t.Run("will decode a yaml sequence", func(t *testing.T) {
		input := `
- name: build
  trace_id: "` + testTraceID + `"
  span_id: "` + testSpanID + `"
  kind: client
  start_time: 2026-01-02T15:04:05Z
  end_time: 2026-01-02T15:06:05Z
  attributes:
    ci.attempt: 2
    ci.labels: [linux, x64]
  status:
    code: ok
`
		records, err := Decode(strings.NewReader(input), YAML)
		require.NoError(t, err)
		require.Len(t, records, 1)

		rec := records[0]
		require.Equal(t, "client", rec.Kind)
		require.Equal(t, "ok", rec.Status.Code)
		require.Equal(t, 2, rec.Attributes["ci.attempt"])
		require.Equal(t, []any{"linux", "x64"}, rec.Attributes["ci.labels"])
		require.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), rec.StartTime.UTC())
	})

	t.Run("will decode multiple yaml documents", func(t *testing.T) {
		input := `name: build
---
- name: test
- name: deploy
`
		records, err := Decode(strings.NewReader(input), YAML)
		require.NoError(t, err)
		require.Len(t, records, 3)
		require.Equal(t, "deploy", records[2].Name)
	})

	t.Run("will return no records", func(t *testing.T) {
		testCases := []struct {
			name   string
			input  string
			format Format
		}{
			{name: "if the json input is empty", input: "", format: JSON},
			{name: "if the json input is only whitespace", input: " \n\t", format: JSON},
			{name: "if the yaml input is empty", input: "", format: YAML},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				records, err := Decode(strings.NewReader(tc.input), tc.format)
				require.NoError(t, err)
				require.Empty(t, records)
			})
		}
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the json is invalid", func(t *testing.T) {
			_, err := Decode(strings.NewReader(`[{"name": }]`), JSON)

			var jerr InvalidJsonError
			require.ErrorAs(t, err, &jerr)
		})

		t.Run("if a json stream value is not an object", func(t *testing.T) {
			_, err := Decode(strings.NewReader(`{"name": "a"} 42`), JSON)

			var jerr InvalidJsonError
			require.ErrorAs(t, err, &jerr)
		})

		t.Run("if junk follows a json array", func(t *testing.T) {
			records, err := Decode(strings.NewReader(`[{"name": "a"}] this is not json`), JSON)

			var jerr InvalidJsonError
			require.ErrorAs(t, err, &jerr)
			require.Nil(t, records)
		})

		t.Run("if an array element is not an object", func(t *testing.T) {
			_, err := Decode(strings.NewReader(`[{"name": "a"}, "b"]`), JSON)

			var jerr InvalidJsonError
			require.ErrorAs(t, err, &jerr)
		})

		t.Run("if the yaml is invalid", func(t *testing.T) {
			_, err := Decode(strings.NewReader("- name: [unclosed"), YAML)

			var yerr InvalidYamlError
			require.ErrorAs(t, err, &yerr)
		})

		t.Run("if the yaml document is a scalar", func(t *testing.T) {
			_, err := Decode(strings.NewReader("just a string"), YAML)

			var yerr InvalidYamlError
			require.ErrorAs(t, err, &yerr)
		})

		t.Run("if the format is unknown", func(t *testing.T) {
			_, err := Decode(strings.NewReader("{}"), Format(7))

			var ferr UnknownFormatError
			require.ErrorAs(t, err, &ferr)
		})
	})
}

func TestFormatFromPath(t *testing.T) {
	testCases := []struct {
		path string
		want Format
	}{
		{path: "spans.json", want: JSON},
		{path: "spans.ndjson", want: JSON},
		{path: "-", want: JSON},
		{path: "run/SPANS.YML", want: YAML},
		{path: "spans.yaml", want: YAML},
		{path: "spans", want: JSON},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			require.Equal(t, tc.want, FormatFromPath(tc.path))
		})
	}
}

func TestFormat_UnmarshalText(t *testing.T) {
	t.Run("will parse known names", func(t *testing.T) {
		var f Format
		require.NoError(t, f.UnmarshalText([]byte(" YML ")))
		require.Equal(t, YAML, f)
		require.Equal(t, "yaml", f.String())

		require.NoError(t, f.UnmarshalText([]byte("jsonl")))
		require.Equal(t, JSON, f)
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the name is unknown", func(t *testing.T) {
			var f Format
			err := f.UnmarshalText([]byte("toml"))

			var ferr UnknownFormatError
			require.ErrorAs(t, err, &ferr)
			require.Equal(t, "toml", ferr.Name)
		})
	})
}

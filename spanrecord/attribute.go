// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package spanrecord

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"go.opentelemetry.io/otel/attribute"
)

// attributes converts decoded values into attributes sorted by key.
// Nil values are dropped and anything without a direct attribute type
// is stringified.
func attributes(m map[string]any) []attribute.KeyValue {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	kvs := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		v := m[k]
		if v == nil {
			continue
		}
		kvs = append(kvs, attributeValue(k, v))
	}
	return kvs
}

func attributeValue(k string, v any) attribute.KeyValue {
	switch x := v.(type) {
	case string:
		return attribute.String(k, x)
	case bool:
		return attribute.Bool(k, x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return attribute.Int64(k, i)
		}
		if f, err := x.Float64(); err == nil {
			return attribute.Float64(k, f)
		}
		return attribute.String(k, x.String())
	case int:
		return attribute.Int(k, x)
	case int64:
		return attribute.Int64(k, x)
	case uint64:
		if x <= math.MaxInt64 {
			return attribute.Int64(k, int64(x))
		}
		return attribute.String(k, fmt.Sprint(x))
	case float64:
		return attribute.Float64(k, x)
	case []any:
		return sliceValue(k, x)
	default:
		return attribute.String(k, fmt.Sprint(v))
	}
}

type scalarKind int

const (
	unknownScalar scalarKind = iota
	stringScalar
	boolScalar
	intScalar
	floatScalar
)

func scalarKindOf(kv attribute.KeyValue) scalarKind {
	switch kv.Value.Type() {
	case attribute.STRING:
		return stringScalar
	case attribute.BOOL:
		return boolScalar
	case attribute.INT64:
		return intScalar
	case attribute.FLOAT64:
		return floatScalar
	default:
		return unknownScalar
	}
}

// sliceValue keeps homogeneous slices typed. Ints mixed with floats
// widen to floats; any other mix is stringified.
func sliceValue(k string, xs []any) attribute.KeyValue {
	if len(xs) == 0 {
		return attribute.StringSlice(k, []string{})
	}

	elems := make([]attribute.KeyValue, len(xs))
	kind := unknownScalar
	for i, x := range xs {
		if x == nil {
			return attribute.String(k, fmt.Sprint(xs))
		}

		elems[i] = attributeValue(k, x)
		ek := scalarKindOf(elems[i])
		switch {
		case ek == unknownScalar:
			return attribute.String(k, fmt.Sprint(xs))
		case kind == unknownScalar, kind == ek:
			kind = ek
		case kind == intScalar && ek == floatScalar, kind == floatScalar && ek == intScalar:
			kind = floatScalar
		default:
			return attribute.String(k, fmt.Sprint(xs))
		}
	}

	switch kind {
	case stringScalar:
		ss := make([]string, len(elems))
		for i, e := range elems {
			ss[i] = e.Value.AsString()
		}
		return attribute.StringSlice(k, ss)
	case boolScalar:
		bs := make([]bool, len(elems))
		for i, e := range elems {
			bs[i] = e.Value.AsBool()
		}
		return attribute.BoolSlice(k, bs)
	case intScalar:
		is := make([]int64, len(elems))
		for i, e := range elems {
			is[i] = e.Value.AsInt64()
		}
		return attribute.Int64Slice(k, is)
	default:
		fs := make([]float64, len(elems))
		for i, e := range elems {
			if e.Value.Type() == attribute.INT64 {
				fs[i] = float64(e.Value.AsInt64())
				continue
			}
			fs[i] = e.Value.AsFloat64()
		}
		return attribute.Float64Slice(k, fs)
	}
}

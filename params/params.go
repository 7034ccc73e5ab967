// Package params holds the generation parameter sets used for model calls and
// the validation rules that keep them inside safe bounds.
package params

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Set is one generation parameter set. The three fields map directly onto the
// options accepted by the model backends.
type Set struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
	NumPredict  int     `json:"num_predict"`
}

// Defaults used when a caller-supplied value cannot be parsed.
const (
	DefaultTemperature = 0.7
	DefaultNumCtx      = 2048
	DefaultNumPredict  = 1024
)

// General bounds, applied to every parameter set before a meta-analysis call.
const (
	MinTemperature = 0.0
	MaxTemperature = 1.0
	MinNumCtx      = 512
	MaxNumCtx      = 8192
	MinNumPredict  = 64
	MaxNumPredict  = 4096
)

// Final-delivery bounds. Stricter than the general bounds on purpose: a
// finalized prompt is about to be sent for real generation, not meta-analysis.
const (
	FinalMinTemperature = 0.1
	FinalMinNumCtx      = 1024
	FinalMinNumPredict  = 512
)

// Validate clamps every field of s into the general bounds. It is idempotent:
// Validate(Validate(s)) == Validate(s).
func Validate(s Set) Set {
	s.Temperature = clampFloat(s.Temperature, MinTemperature, MaxTemperature)
	s.NumCtx = clampInt(s.NumCtx, MinNumCtx, MaxNumCtx)
	s.NumPredict = clampInt(s.NumPredict, MinNumPredict, MaxNumPredict)
	return s
}

// ClampFinal applies the final-delivery bounds.
func ClampFinal(s Set) Set {
	s.Temperature = clampFloat(s.Temperature, FinalMinTemperature, MaxTemperature)
	s.NumCtx = clampInt(s.NumCtx, FinalMinNumCtx, MaxNumCtx)
	s.NumPredict = clampInt(s.NumPredict, FinalMinNumPredict, MaxNumPredict)
	return s
}

// Coerce overlays the raw key/value overrides onto base and validates the
// result. Values may arrive as numbers, json.Number, or numeric strings;
// anything unparsable resets that field to its package default. Coerce never
// fails: the returned warnings describe any value that had to be reset.
func Coerce(raw map[string]any, base Set) (Set, []string) {
	var warnings []string
	out := base

	if v, ok := raw["temperature"]; ok {
		if f, ok := toFloat(v); ok {
			out.Temperature = f
		} else {
			warnings = append(warnings, fmt.Sprintf("invalid temperature %v, using default", v))
			out.Temperature = DefaultTemperature
		}
	}
	if v, ok := raw["num_ctx"]; ok {
		if n, ok := toInt(v); ok {
			out.NumCtx = n
		} else {
			warnings = append(warnings, fmt.Sprintf("invalid num_ctx %v, using default", v))
			out.NumCtx = DefaultNumCtx
		}
	}
	if v, ok := raw["num_predict"]; ok {
		if n, ok := toInt(v); ok {
			out.NumPredict = n
		} else {
			warnings = append(warnings, fmt.Sprintf("invalid num_predict %v, using default", v))
			out.NumPredict = DefaultNumPredict
		}
	}

	return Validate(out), warnings
}

// Merge overlays overrides onto defaults key by key and re-validates. Caller
// overrides are never trusted blindly.
func Merge(defaults Set, overrides map[string]any) (Set, []string) {
	if len(overrides) == 0 {
		return Validate(defaults), nil
	}
	return Coerce(overrides, defaults)
}

// Map returns the set in the wire form expected by the model backends.
func (s Set) Map() map[string]any {
	return map[string]any{
		"temperature": s.Temperature,
		"num_ctx":     s.NumCtx,
		"num_predict": s.NumPredict,
	}
}

func (s Set) String() string {
	return fmt.Sprintf("temp=%.2f ctx=%d predict=%d", s.Temperature, s.NumCtx, s.NumPredict)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case float32:
		return int(x), true
	case json.Number:
		f, err := x.Float64()
		return int(f), err == nil
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		// Tolerate "2048.0" style values.
		f, err := strconv.ParseFloat(s, 64)
		return int(f), err == nil
	default:
		return 0, false
	}
}

package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Keys with a typed home on Task or User. Everything else is kept verbatim
// in the record's Fields map.
const (
	FieldID        = "_id"
	FieldEmail     = "email"
	FieldCategory  = "category"
	FieldPosition  = "position"
	FieldTimestamp = "timestamp"
)

// ParsePosition coerces a client supplied position to an integer. Numbers
// and numeric strings are accepted; anything else, including nil, is 0.
func ParsePosition(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float32:
		return floatPosition(float64(x))
	case float64:
		return floatPosition(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n)
		}
		if f, err := x.Float64(); err == nil {
			return floatPosition(f)
		}
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatPosition(f)
		}
	}
	return 0
}

// floatPosition truncates f, saturating at the int range.
func floatPosition(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// parseTimestamp accepts the shapes a timestamp arrives in from JSON or
// from a store decode.
func parseTimestamp(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		t, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

func copyFields(src map[string]any, extra int) map[string]any {
	out := make(map[string]any, len(src)+extra)
	for k, v := range src {
		out[k] = v
	}
	return out
}

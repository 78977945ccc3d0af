package dispatch

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// fields is a decoded message payload. Accessors never fail: missing or
// mistyped values come back as the accessor's default.
type fields map[string]any

func decodeFields(raw json.RawMessage) fields {
	f := fields{}
	if len(raw) == 0 {
		return f
	}
	if err := json.Unmarshal(raw, &f); err != nil || f == nil {
		return fields{}
	}
	return f
}

func (f fields) number(key string) float64 {
	var v float64
	switch x := f[key].(type) {
	case float64:
		v = x
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		v = p
	default:
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// integer rounds number(key) and clamps it to the int32 range.
func (f fields) integer(key string) int {
	v := math.Round(f.number(key))
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}

func (f fields) str(key string) string {
	s, _ := f[key].(string)
	return s
}

// scalar is str that also renders JSON numbers, so a PIN sent as 8900
// matches "8900".
func (f fields) scalar(key string) string {
	if x, ok := f[key].(float64); ok {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return f.str(key)
}

// flag accepts only JSON booleans; anything else is def.
func (f fields) flag(key string, def bool) bool {
	if b, ok := f[key].(bool); ok {
		return b
	}
	return def
}

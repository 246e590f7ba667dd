package utils

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ToInt converts decoded values to int. Strings are trimmed first, JSON
// numbers and floats are truncated. Anything unparsable yields 0.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		f, _ := v.Float64()
		return int(f)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(v))
		return i
	case []byte:
		return ToInt(string(v))
	default:
		return 0
	}
}

// ToBool converts flag-like values to bool.
// It accepts bool, 1 and the strings "1", "true", "yes" and "on" in any case.
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int:
		return v == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}

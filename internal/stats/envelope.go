package stats

import (
	"encoding/json"
	"sort"
	"strings"
)

// WrapperKeys are the envelope properties probed, in priority order, when a
// response is an object instead of a bare array. Nested wrappers such as
// {"data":{"data":[...]}} are followed one level at a time.
var WrapperKeys = []string{"data", "sales", "bills", "orders", "records", "items", "result", "results"}

const maxWrapperDepth = 3

// NormalizeEnvelope extracts a flat record list from a response envelope of
// unknown shape. The bool reports whether any known shape was recognized so
// callers can log malformed payloads; the returned list is always usable.
// An envelope signalling success=false yields an empty, recognized list.
func NormalizeEnvelope(raw json.RawMessage) ([]map[string]any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, false
	}
	return normalizeValue(decoded, 0)
}

func normalizeValue(v any, depth int) ([]map[string]any, bool) {
	switch val := v.(type) {
	case []any:
		return objectRows(val), true
	case map[string]any:
		if envelopeFailed(val) {
			return nil, true
		}
		for _, key := range WrapperKeys {
			inner, present := val[key]
			if !present {
				continue
			}
			switch nested := inner.(type) {
			case []any:
				return objectRows(nested), true
			case map[string]any:
				if depth < maxWrapperDepth {
					if rows, ok := normalizeValue(nested, depth+1); ok {
						return rows, true
					}
				}
			}
		}
		// Last resort: the first array-valued property, scanned in a
		// deterministic key order.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if arr, ok := val[k].([]any); ok {
				return objectRows(arr), true
			}
		}
	}
	return nil, false
}

// envelopeFailed reports whether the envelope explicitly signals failure.
func envelopeFailed(val map[string]any) bool {
	flag, present := val["success"]
	if !present {
		return false
	}
	switch v := flag.(type) {
	case bool:
		return !v
	case float64:
		return v == 0
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "false" || s == "0"
	default:
		return false
	}
}

func objectRows(items []any) []map[string]any {
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if row, ok := item.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

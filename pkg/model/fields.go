package model

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The console enforces shape only at read time: documents arrive as
// loosely-typed bson maps and every display field is resolved through
// an ordered fallback chain. The helpers below implement one link of a
// chain each; absent, empty, or wrongly-typed values simply fall
// through to the next link.

func firstString(doc bson.M, keys ...string) string {
	for _, key := range keys {
		if s := stringValue(doc[key]); s != "" {
			return s
		}
	}
	return ""
}

func stringValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// stringify renders scalar field values for display. Numeric court ids
// stored as int32/int64/float64 all render as their integer form.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func subDoc(doc bson.M, key string) bson.M {
	switch t := doc[key].(type) {
	case bson.M:
		return t
	case map[string]any:
		return bson.M(t)
	case bson.D:
		return t.Map()
	default:
		return nil
	}
}

// intValue parses a field that holds a number in either numeric or
// string form. Bookings written by different client versions disagree
// on how courtId is stored.
func intValue(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// boolValue treats only a literal true as true; absent values and any
// other type count as false.
func boolValue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func stringSlice(v any) ([]string, bool) {
	arr, ok := v.(primitive.A)
	if !ok {
		if plain, isSlice := v.([]any); isSlice {
			arr = primitive.A(plain)
		} else if strs, isStrs := v.([]string); isStrs {
			return strs, true
		} else {
			return nil, false
		}
	}

	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s := stringify(item); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

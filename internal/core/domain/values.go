package domain

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/google/go-cmp/cmp"
)

// Normalize converts a decoded configuration value into its canonical form so that
// values read from YAML, JSON or built in code compare structurally:
// integers of any width and integral floats become int, lists become []any and
// maps become map[string]any.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, string:
		return x
	case int:
		return x
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint:
		return int(x) //nolint:gosec // configuration values are small
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return int(x)
	case uint64:
		return int(x) //nolint:gosec // configuration values are small
	case float32:
		return normalizeFloat(float64(x))
	case float64:
		return normalizeFloat(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Normalize(e)
		}
		return out
	case []int:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = Normalize(e)
		}
		return out
	case Solution:
		return Normalize(map[string]any(x))
	case ProblemType:
		return Normalize(map[string]any(x))
	case DataType:
		return string(x)
	default:
		return x
	}
}

func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int(f)
	}
	return f
}

// StructurallyEqual compares two configuration values after normalization.
func StructurallyEqual(a, b any) bool {
	return cmp.Equal(Normalize(a), Normalize(b))
}

// AsInt converts a normalized scalar to int.
func AsInt(v any) (int, bool) {
	i, ok := Normalize(v).(int)
	return i, ok
}

// AsInts converts a list value to []int.
func AsInts(v any) ([]int, bool) {
	list, ok := Normalize(v).([]any)
	if !ok {
		return nil, false
	}
	out := make([]int, len(list))
	for i, e := range list {
		n, ok := e.(int)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// AsBool converts a scalar to bool. Integers are accepted as 0/1 flags.
func AsBool(v any) (bool, bool) {
	switch x := Normalize(v).(type) {
	case bool:
		return x, true
	case int:
		return x != 0, true
	default:
		return false, false
	}
}

// fingerprint writes a canonical encoding of v: map keys sorted, every value tagged by kind.
func fingerprint(w io.Writer, v any) {
	switch x := v.(type) {
	case nil:
		_, _ = io.WriteString(w, "n;")
	case bool:
		_, _ = io.WriteString(w, "b"+strconv.FormatBool(x)+";")
	case int:
		_, _ = io.WriteString(w, "i"+strconv.Itoa(x)+";")
	case float64:
		_, _ = io.WriteString(w, "f"+strconv.FormatFloat(x, 'g', -1, 64)+";")
	case string:
		_, _ = io.WriteString(w, "s"+strconv.Quote(x)+";")
	case []any:
		_, _ = io.WriteString(w, "[")
		for _, e := range x {
			fingerprint(w, e)
		}
		_, _ = io.WriteString(w, "]")
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		_, _ = io.WriteString(w, "{")
		for _, k := range keys {
			_, _ = io.WriteString(w, strconv.Quote(k)+":")
			fingerprint(w, x[k])
		}
		_, _ = io.WriteString(w, "}")
	default:
		_, _ = fmt.Fprintf(w, "?%v;", x)
	}
}

// Fingerprint returns a 64-bit hash of the normalized value. Structurally equal values
// always share a fingerprint; the converse must be confirmed with StructurallyEqual.
func Fingerprint(v any) uint64 {
	d := xxhash.New()
	fingerprint(d, Normalize(v))
	return d.Sum64()
}

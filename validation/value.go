package validation

import "encoding/json"

// Kind enumerates the scalar value kinds the engine understands. Containers
// (lists and dictionaries) are handled by their own checker nodes and do not
// appear here.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
)

// kindOf inspects a decoded JSON value (or a static default) and reports its
// scalar kind. JSON numbers are expected as json.Number so that integers and
// floats can be told apart; plain Go ints and floats are accepted for default
// values and already-defaulted documents.
func kindOf(v any) (Kind, bool) {
	switch t := v.(type) {
	case bool:
		return KindBool, true
	case int, int64:
		return KindInt, true
	case float64:
		return KindFloat, true
	case string:
		return KindString, true
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return KindInt, true
		}
		if _, err := t.Float64(); err == nil {
			return KindFloat, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func hasKind(kinds []Kind, k Kind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Number converts a scalar of kind int or float to float64 for use in
// predicates.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Integer converts a scalar of kind int to int64.
func Integer(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case json.Number:
		i, err := t.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// Text returns the string form of a string-kinded scalar.
func Text(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

package fields

import (
	"fmt"
	"strconv"
)

// Option is one entry offered by a radio group or select.
type Option struct {
	Value any
	Label string
}

// ValueString returns the value as written to the value attribute.
func (o Option) ValueString() string {
	return formatValue(o.Value)
}

// Options maps items to options. fn receives the item's position so that
// callers can fall back to it when an item carries no identifier.
func Options[T any](items []T, fn func(item T, index int) Option) []Option {
	out := make([]Option, 0, len(items))
	for i, item := range items {
		out = append(out, fn(item, i))
	}
	return out
}

// LookupBy returns a lookup over candidates keyed by id, for the select
// cascade.
func LookupBy[T any](candidates []T, id func(T) int) func(int) (any, bool) {
	return func(n int) (any, bool) {
		for _, c := range candidates {
			if id(c) == n {
				return c, true
			}
		}
		return nil, false
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

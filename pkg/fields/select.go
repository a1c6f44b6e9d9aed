package fields

import (
	"math"
	"strconv"
	"strings"

	"github.com/vango-dev/userform/pkg/features/form"
	"github.com/vango-dev/userform/pkg/vdom"
)

// Placeholder is the label of the empty entry every select starts with.
const Placeholder = "Select an option"

// Cascade describes the dependent field a select overwrites on change.
type Cascade struct {
	// Field receives the matched candidate, or nil.
	Field string

	// Lookup finds the candidate for a numeric id. See LookupBy.
	Lookup func(id int) (any, bool)
}

// Select renders a dropdown with an empty entry followed by options.
//
// On change the raw value is coerced to a number and written to the bound
// field. When a Cascade is given, the candidate whose id equals that number
// is written to the cascade field, or nil when none matches. The write is
// unconditional on every change. Choosing the empty entry, or a value that
// is not a number, clears both fields.
func Select(f form.Field, options []Option, cascade *Cascade, attrs ...vdom.Attr) *vdom.VNode {
	mustBind(f)
	current := f.String()

	onChange := vdom.OnChange(func(raw string) {
		n, ok := coerceNumber(raw)
		if !ok {
			f.Set(nil)
			if cascade != nil && cascade.Field != "" {
				f.SetField(cascade.Field, nil)
			}
			return
		}
		f.Set(n)
		if cascade == nil || cascade.Field == "" {
			return
		}
		var match any
		if id, whole := n.(int); whole && cascade.Lookup != nil {
			if c, found := cascade.Lookup(id); found {
				match = c
			}
		}
		f.SetField(cascade.Field, match)
	})

	return field(f,
		vdom.Select(
			vdom.Class(ClassControl, ClassSelect),
			vdom.ID(f.Name),
			vdom.Name(f.Name),
			invalid(f),
			attrs,
			onChange,
			vdom.Option(vdom.Value(""), vdom.Selected(current == ""), Placeholder),
			vdom.Range(options, func(opt Option, _ int) *vdom.VNode {
				v := opt.ValueString()
				return vdom.Option(
					vdom.Key(v),
					vdom.Value(v),
					vdom.Selected(current != "" && v == current),
					opt.Label,
				)
			}),
		),
	)
}

// coerceNumber parses raw as a number. Whole numbers become int so that
// they compare equal to record ids.
func coerceNumber(raw string) (any, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	if f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		return int(f), true
	}
	return f, true
}

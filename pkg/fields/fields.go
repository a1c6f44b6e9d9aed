package fields

import (
	"strings"

	"github.com/vango-dev/userform/internal/errors"
	"github.com/vango-dev/userform/pkg/features/form"
	"github.com/vango-dev/userform/pkg/vdom"
)

// CSS class names shared with Stylesheet.
const (
	ClassControl = "form-control"
	ClassSelect  = "form-select"
	ClassCheck   = "form-check"
	ClassError   = "error-message"
	ClassField   = "form-field"
)

// Input renders a single-line control. attrs are passed through to the
// input element (type, placeholder, autocomplete, ...).
func Input(f form.Field, attrs ...vdom.Attr) *vdom.VNode {
	mustBind(f)
	return field(f,
		vdom.Input(
			vdom.Class(ClassControl),
			vdom.ID(f.Name),
			vdom.Name(f.Name),
			vdom.Value(f.String()),
			invalid(f),
			attrs,
			vdom.OnChange(func(raw string) { f.Set(raw) }),
		),
	)
}

// Textarea renders a multi-line control. attrs are passed through.
func Textarea(f form.Field, attrs ...vdom.Attr) *vdom.VNode {
	mustBind(f)
	return field(f,
		vdom.Textarea(
			vdom.Class(ClassControl),
			vdom.ID(f.Name),
			vdom.Name(f.Name),
			invalid(f),
			attrs,
			vdom.OnChange(func(raw string) { f.Set(raw) }),
			f.String(),
		),
	)
}

// Radio renders one radio control per option, all sharing the field name.
// An option is checked when its value equals the field value exactly.
func Radio(f form.Field, options []Option, attrs ...vdom.Attr) *vdom.VNode {
	mustBind(f)
	onChange := vdom.OnChange(func(raw string) {
		for _, opt := range options {
			if opt.ValueString() == raw {
				f.Set(opt.Value)
				return
			}
		}
		f.Set(raw)
	})

	return field(f,
		vdom.Range(options, func(opt Option, _ int) *vdom.VNode {
			id := f.Name + "-" + opt.ValueString()
			return vdom.Div(
				vdom.Key(opt.ValueString()),
				vdom.Class(ClassCheck),
				vdom.Input(
					vdom.Type("radio"),
					vdom.ID(id),
					vdom.Name(f.Name),
					vdom.Value(opt.ValueString()),
					vdom.Checked(f.Value == opt.Value),
					invalid(f),
					attrs,
					onChange,
				),
				vdom.Label(vdom.For(id), opt.Label),
			)
		}),
	)
}

// Checkbox renders a boolean control. An unset field is unchecked.
func Checkbox(f form.Field, label string, attrs ...vdom.Attr) *vdom.VNode {
	mustBind(f)
	return field(f,
		vdom.Div(
			vdom.Class(ClassCheck),
			vdom.Input(
				vdom.Type("checkbox"),
				vdom.ID(f.Name),
				vdom.Name(f.Name),
				vdom.Value("true"),
				vdom.Checked(f.Bool()),
				invalid(f),
				attrs,
				vdom.OnChange(func(raw string) { f.Set(parseCheck(raw)) }),
			),
			vdom.If(label != "", vdom.Label(vdom.For(f.Name), label)),
		),
	)
}

// ErrorMessage renders the inline message for f, or nil.
func ErrorMessage(f form.Field) *vdom.VNode {
	if f.Error == "" {
		return nil
	}
	return vdom.Div(
		vdom.Class(ClassError),
		vdom.ID(errorID(f.Name)),
		vdom.Role("alert"),
		f.Error,
	)
}

func field(f form.Field, control ...any) *vdom.VNode {
	args := append([]any{vdom.Class(ClassField), vdom.Data("field", f.Name)}, control...)
	args = append(args, ErrorMessage(f))
	return vdom.Div(args...)
}

// invalid marks a control whose field has an error.
func invalid(f form.Field) []vdom.Attr {
	if f.Error == "" {
		return nil
	}
	return []vdom.Attr{vdom.AriaInvalid(true), vdom.AriaDescribedBy(errorID(f.Name))}
}

func errorID(name string) string {
	return name + "-error"
}

func mustBind(f form.Field) {
	if f.Name == "" {
		panic(errors.New(errors.CodeMissingField))
	}
}

func parseCheck(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "checked":
		return true
	default:
		return false
	}
}

// Package form provides form state handling with schema validation.
//
// # Overview
//
// A Controller holds a form's values keyed by field name, the validation
// errors derived from them, and per-field touched and dirty state. Values are
// declared up front through the defaults passed to New; field renderers may
// only bind declared fields.
//
// # Basic Usage
//
//	schema := form.Schema{
//	    form.FieldRule("address", form.Required("Address is required")),
//	    form.FieldRule("pick", form.Defined("Please select an option.")),
//	}
//
//	ctrl := form.New(form.Values{"address": "", "pick": nil},
//	    form.WithSchema(schema))
//
//	ctrl.Set("address", "Main St") // re-validates in OnChange mode
//
//	submit := ctrl.HandleSubmit(func(v form.Values) {
//	    log.Println(v)
//	})
//	if !submit() {
//	    fmt.Println(ctrl.Errors()) // map[pick:Please select an option.]
//	}
//
// # Rendering
//
// View takes an immutable snapshot for one render pass. View.Field returns a
// Field carrying the value and error at snapshot time plus a setter that
// writes through to the controller:
//
//	view := ctrl.View()
//	address := view.Field("address")
//	address.Value // snapshot value
//	address.Set("Elm St")
//
// # Validation
//
// A Schema is an ordered list of pure rules from values to per-field
// messages. FieldRule adapts the built-in validators:
//
//   - Required: non-empty value (whitespace-only strings are empty)
//   - Defined: any non-nil value
//   - MinLength/MaxLength: string length constraints
//   - Pattern: regular expression matching
//   - OneOf: membership in a fixed set
//   - Custom: user-defined validation logic
//
// Errors become visible per field once the field is touched, and for every
// field after the first submit attempt.
package form

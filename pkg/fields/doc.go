// Package fields renders styled form controls bound to a form.Field.
//
// Every renderer returns a *vdom.VNode holding the control and, when the
// field has an error, an inline message. Controls carry a change handler
// keyed by the field name; the renderer collects it and the page dispatches
// browser events to it.
//
//	view := ctrl.View()
//	fields.Input(view.Field("address"), vdom.Type("text"), vdom.Placeholder("Enter address"))
//	fields.Radio(view.Field("fan"), []fields.Option{{Value: "true", Label: "Yes"}})
//
// Binding a field without a name panics; see form.View.Field.
package fields

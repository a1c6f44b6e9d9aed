// Package vdom provides the node tree the form UI is built from.
//
// A VNode is an element, a text node, a fragment or a block of raw HTML.
// Elements are created with variadic factory functions that accept
// attributes, children and strings:
//
//	Div(Class("field"),
//	    Label(For("address"), Text("Address")),
//	    Input(Type("text"), Name("address"), OnChange(handler)),
//	)
//
// Change handlers attached with OnChange are not rendered as attributes.
// The HTML renderer collects them keyed by the control's name so the server
// can route browser input events back to the field that produced them.
package vdom

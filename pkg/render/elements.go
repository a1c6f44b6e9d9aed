package render

import "github.com/vango-dev/userform/pkg/vdom"

// isVoidElement returns true if the tag is a void element.
func isVoidElement(tag string) bool {
	return vdom.IsVoidElement(tag)
}

// inlineElements don't need newlines in pretty-printed output. Textarea is
// listed so indentation never leaks into its value.
var inlineElements = map[string]bool{
	"b":        true,
	"br":       true,
	"code":     true,
	"em":       true,
	"i":        true,
	"label":    true,
	"option":   true,
	"small":    true,
	"span":     true,
	"strong":   true,
	"textarea": true,
	"title":    true,
}

// isInlineElement returns true if the tag is an inline element.
func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// booleanAttrs are attributes that don't need a value.
// When true, they're rendered as just the attribute name.
var booleanAttrs = map[string]bool{
	"autofocus":      true,
	"checked":        true,
	"defer":          true,
	"disabled":       true,
	"formnovalidate": true,
	"hidden":         true,
	"multiple":       true,
	"novalidate":     true,
	"readonly":       true,
	"required":       true,
	"selected":       true,
}

// isBooleanAttr returns true if the attribute is a boolean attribute.
func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}

package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// A sets an arbitrary attribute.
func A(key string, value any) Attr { return attr(key, value) }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data creates a data-* attribute.
// Example: Data("field", "address") → data-field="address"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Key sets the sibling identity of a node.
func Key(key string) Attr { return attr("key", key) }

// Form control attributes

func Name(name string) Attr               { return attr("name", name) }
func Type(t string) Attr                  { return attr("type", t) }
func Value(v any) Attr                    { return attr("value", v) }
func Placeholder(text string) Attr        { return attr("placeholder", text) }
func For(id string) Attr                  { return attr("for", id) }
func Rows(n int) Attr                     { return attr("rows", n) }
func Method(m string) Attr                { return attr("method", m) }
func Action(url string) Attr              { return attr("action", url) }
func Checked(checked bool) Attr           { return attr("checked", checked) }
func Selected(selected bool) Attr         { return attr("selected", selected) }
func Disabled(disabled bool) Attr         { return attr("disabled", disabled) }
func Required(required bool) Attr         { return attr("required", required) }
func AriaInvalid(invalid bool) Attr       { return attr("aria-invalid", invalid) }
func AriaDescribedBy(id string) Attr      { return attr("aria-describedby", id) }
func AriaLive(mode string) Attr           { return attr("aria-live", mode) }
func Role(role string) Attr               { return attr("role", role) }
func Lang(lang string) Attr               { return attr("lang", lang) }
func Charset(charset string) Attr         { return attr("charset", charset) }
func Content(content string) Attr         { return attr("content", content) }
func MetaName(name string) Attr           { return attr("name", name) }
func HTTPEquiv(equiv string) Attr         { return attr("http-equiv", equiv) }
func Autocomplete(mode string) Attr       { return attr("autocomplete", mode) }
func NoValidate(novalidate bool) Attr     { return attr("novalidate", novalidate) }
func OnChange(handler ChangeHandler) Attr { return attr("onchange", handler) }

// Package render converts vdom trees into HTML.
//
// Text and attribute values are escaped, void elements are written without a
// closing tag and boolean attributes (disabled, checked, selected) are written
// bare when true and omitted when false.
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// While rendering, change handlers attached to controls are collected keyed by
// the control's name attribute; Handlers returns them so an event carrying a
// field name can be dispatched to the handler that the last render produced.
//
// RenderPage wraps a body tree into a complete document.
package render

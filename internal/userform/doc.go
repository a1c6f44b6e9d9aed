// Package userform is the user form page: its defaults, its schema, the
// pokemon listing the select is filled from, per-browser sessions and the
// HTTP, WebSocket and terminal surfaces that drive them.
//
// A page renders in one of three states, following the listing:
//
//	Pending, Loading  "Loading..."
//	Error             "Error: <reason>"
//	Ready             the form
//
// Every mutation of a form goes through the Session that owns it.
package userform

// Package features groups the state layers field renderers build on.
//
// # Subsystems
//
//   - form: form values, validation rules and submit handling
//   - resource: cached async loading with pending/loading/ready/error states
//
// Each subsystem is its own package:
//
//	import "github.com/vango-dev/userform/pkg/features/form"
//	import "github.com/vango-dev/userform/pkg/features/resource"
package features

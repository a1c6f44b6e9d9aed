// Package errors provides coded, categorized errors for the user form.
//
// Every failure the application surfaces carries a registered code that maps
// to a category, a short message, and a longer explanation:
//
//   - fetch: the remote listing could not be loaded (E100-E199)
//   - validation: submitted values failed the form schema (E200-E299)
//   - contract: a programming contract was broken (E300-E399)
//   - config: configuration could not be loaded or is invalid (E400-E499)
//   - terminal: the interactive form was interrupted (E500-E599)
//
// # Usage
//
//	err := errors.New(errors.CodeFetchStatus).
//	    WithDetail("GET https://pokeapi.co/api/v2/pokemon/ returned 503")
//
//	errors.Is(err, errors.New(errors.CodeFetchStatus)) // true, codes match
//	fmt.Println(err.Format())
package errors

// Package pokeapi fetches the public Pokémon listing that populates the
// user form's select control.
//
// The client issues one GET to the configured endpoint and decodes the
// results array into Records. Failures are coded errors from
// internal/errors: E100 for a non-2xx status, E101 when no response
// arrived and E102 for an undecodable body.
package pokeapi

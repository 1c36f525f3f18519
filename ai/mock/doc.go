// Package mock provides test doubles for the ai package interfaces.
// The doubles default to deterministic behavior and allow custom behavior
// injection via function fields.
package mock

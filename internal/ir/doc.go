// Package ir defines the validated intermediate representation consumed by
// the Betti-RDL backend.
//
// A Program is the frontend's final output: named processes placed in a
// bounded 3-D coordinate space, event definitions, named constants, and
// static resource bounds. Everything downstream (validation, placement,
// injection, codegen, execution) reads this model and never mutates it.
//
// The package also provides canonical JSON serialization (RFC 8785 key
// ordering, NFC strings, no floats, no null) and domain-separated content
// hashing. Canonical bytes are the ONLY serialization used for identity:
// two runs of the same program under the same parameters must hash
// identically across machines and implementations.
package ir

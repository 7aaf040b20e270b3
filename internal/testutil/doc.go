// Package testutil provides deterministic test doubles shared across
// packages, most importantly a scriptable engine kernel that records
// every capability call.
package testutil

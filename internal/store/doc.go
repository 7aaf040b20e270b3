// Package store is the run ledger: a SQLite database recording every
// workload execution with its configuration, telemetry, and parity
// verdict. Writes are idempotent on run id; reads are deterministically
// ordered so traces replay identically.
package store

// Package compiler loads CUE demo programs into the validated IR consumed
// by the backend.
//
// The real Grey frontend (lexer, parser, type checker) lives outside this
// repository; compiler is its stand-in. A demo program is a single CUE file
// with a top-level `program` struct declaring processes, events, constants,
// and resource bounds. Loading returns an owned ir.Program per call - there
// is deliberately no cache of built programs.
package compiler

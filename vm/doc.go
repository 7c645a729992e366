// Package vm implements the golfvm stack machine.
//
// This package contains:
//   - The value model: integers, arrays, byte strings and blocks
//   - Named slots and the primitive table
//   - The block interpreter and its adaptive tier
//   - Block registry and epoch-based invalidation
//   - Warnings, statistics and profile encoding
package vm

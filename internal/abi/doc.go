// Package abi provides internal utilities shared by the wire codec and the
// marshaler.
//
// # Contents
//
//   - coerce.go: lossless coercion from arbitrary Go numerics to wire scalars
//   - helpers.go: overflow-safe arithmetic, alignment, NaN canonicalization, limits
//
// This package is internal to the module.
package abi

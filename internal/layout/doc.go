// Package layout computes Canonical ABI size and alignment for the WIT
// types that describe native representations, and renders them in WIT
// syntax.
//
// Lists and strings occupy a (pointer, length) pair in memory with their
// content stored elsewhere. Records lay fields out in order with padding.
//
// This package is internal to the module.
package layout

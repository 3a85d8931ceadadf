// Package value holds the Go representation of boundary values that have no
// native Go counterpart: handles to scripting-side objects and functions,
// view tags, shared object ids, readable containers and typed arrays.
//
// Plain Go scalars, strings, slices and string-keyed maps are accepted as-is
// by the classifier and marshaler.
package value

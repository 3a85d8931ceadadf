// Package classify computes the tag set of a boundary value.
//
// Classification is shallow: a container is tagged by its own shape, and
// its elements are classified one at a time when the container is encoded.
// Specific tags come with the general tags they imply:
//
//	3.14                       {DOUBLE}
//	int32(7), int(7)           {INT}
//	int64(7), int(1 << 40)     {LONG}
//	[]byte{1, 2}               {UINT8_TYPED_ARRAY, TYPED_ARRAY}
//	[]float32{...}             {PRIMITIVE_ARRAY}
//	[]any{...}, []string{...}  {LIST}
//	map[string]any{...}        {MAP}
//	nil                        {ANY, NULLABLE}
//
// Unknown shapes (structs, channels, funcs, complex numbers, maps without
// string keys) fail with an unclassifiable error unless the classifier was
// built WithAnyFallback.
package classify

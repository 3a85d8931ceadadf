// Package marshal encodes and decodes boundary values by selecting a
// conversion rule from the value's tag set.
//
// # Rule Selection
//
// A rule matches when every tag it requires, ignoring ANY, is in the set's
// shape. Among matches the rule requiring the most tags wins and ties go to
// the rule registered first. {UINT8_TYPED_ARRAY, TYPED_ARRAY} therefore
// selects "uint8-typed-array" over "typed-array". A rule requiring only ANY
// matches any non-empty shape with the lowest specificity.
//
// # Nullability
//
// NULLABLE never takes part in selection. Under a nullable set an absent
// value encodes as the single byte 0x00 and a present value is prefixed by
// 0x01. An absent value under a non-nullable set is an error.
//
// # Wire Format
//
// All integers are little-endian. Containers and dynamic values hold
// self-describing elements:
//
//	element := tag_bits:u32 payload_len:u32 payload
//
// where payload is the element encoded under its own classified set.
// Map entries are written in sorted key order.
//
// # Registry
//
// Registry reads are lock-free. Register copies the rule list and swaps in
// the new snapshot under a single writer lock, so concurrent Select calls
// observe either the old or the new list.
package marshal

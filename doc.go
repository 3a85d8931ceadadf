// Package boundary is a typed value-marshaling core for crossing a
// native/scripting-runtime boundary.
//
// Values are classified into a set of shape tags, and the tag set selects
// the conversion rule that encodes or decodes the native representation.
// Rules are chosen by specificity: the rule whose required tags form the
// largest subset of the value's tags wins. NULLABLE is a modifier that
// short-circuits absent values to a null representation before any rule
// is consulted.
//
// # Architecture Overview
//
//	boundary/            Root package with Memory and Allocator interfaces
//	├── tagset/          Tag vocabulary and the immutable Set type
//	├── value/           Scripting-side value types (handles, typed arrays)
//	├── classify/        Value to tag set classification
//	├── marshal/         Rule registry, encoder, decoder, memory bridge
//	├── memory/          wazero memory and allocator adapters, arena allocator
//	├── wire/            Little-endian primitive reader and writer
//	├── errors/          Structured error types for debugging
//	└── cmd/boundary/    Command line inspector
//
// # Quick Start
//
// Classify and encode a value with the default rules:
//
//	m := marshal.Default()
//
//	set, err := m.Classify(3.14)      // {DOUBLE}
//	data, err := m.Encode(3.14, set)  // f64 little-endian
//	v, err := m.Decode(data, set)     // float64(3.14)
//
// Nullable positions encode absent values as a single zero byte:
//
//	set := tagset.Of(tagset.Double, tagset.Nullable)
//	data, err := m.Encode(nil, set)   // [0x00]
//
// # Custom Rules
//
// Rules are registered on a Registry and matched by their required tags:
//
//	reg, _ := marshal.NewRegistry(marshal.DefaultRules()...)
//	err := reg.Register(marshal.Rule{
//		Name:     "color",
//		Requires: tagset.Of(tagset.Int, tagset.ViewTag),
//		Encode:   encodeColor,
//		Decode:   decodeColor,
//	})
//	m := marshal.New(marshal.WithRegistry(reg))
//
// # Guest Memory
//
// Encoded values can be placed directly into wazero linear memory:
//
//	mem := memory.WrapMemory(instance.Memory())
//	alloc := memory.WrapAllocator(ctx, instance.ExportedFunction("cabi_realloc"))
//	region, err := m.EncodeToMemory(value, set, mem, alloc)
//
// # Error Handling
//
// Errors are *errors.Error values carrying phase, kind, and the path of the
// nested element that failed:
//
//	if errors.Is(err, errors.ErrNoMatchingRule) { ... }
package boundary

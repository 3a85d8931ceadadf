// Package tagset defines the value-shape vocabulary shared by both sides of
// the native/scripting boundary.
//
// A Set combines tags with bitmask semantics. Specific tags are layered over
// general ones, so a byte array carries both Uint8TypedArray and TypedArray.
// Nullable is the only modifier tag; Shape and Modifiers split a set into the
// two halves. Any is a wildcard shape.
//
// Bit assignments are a wire contract:
//
//	Tag               Bit     Tag               Bit
//	──────────────────────────────────────────────────
//	DOUBLE            1<<0    UINT8_TYPED_ARRAY 1<<10
//	INT               1<<1    TYPED_ARRAY       1<<11
//	LONG              1<<2    PRIMITIVE_ARRAY   1<<12
//	FLOAT             1<<3    LIST              1<<13
//	BOOLEAN           1<<4    MAP               1<<14
//	STRING            1<<5    VIEW_TAG          1<<15
//	JS_OBJECT         1<<6    SHARED_OBJECT_ID  1<<16
//	JS_VALUE          1<<7    JS_FUNCTION       1<<17
//	READABLE_ARRAY    1<<8    ANY               1<<18
//	READABLE_MAP      1<<9    NULLABLE          1<<19
//
// NONE is the empty set. Sets are plain values; compare them with ==.
package tagset

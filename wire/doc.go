// Package wire is the byte-level codec used by conversion rules.
//
// All multi-byte values are little-endian, matching linear-memory layout on
// the native side:
//
//	Value        Encoding
//	──────────────────────────────────────
//	bool         u8 (0 or 1)
//	s32/u32/f32  4 bytes
//	s64/u64/f64  8 bytes
//	string       u32 byte length + UTF-8
//	bytes        u32 byte length + payload
//
// Floats are written with NaN payloads canonicalized. Readers are
// bounds-checked and report *errors.Error values in PhaseDecode.
package wire

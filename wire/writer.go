package wire

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/boundary/internal/abi"
)

// Writer appends little-endian primitives to a growing buffer.
// The zero value is ready to use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with room for size bytes.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

// Bytes returns the written bytes. The slice aliases the buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) WriteU16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteU64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) WriteS32(v int32) {
	w.WriteU32(uint32(v))
}

func (w *Writer) WriteS64(v int64) {
	w.WriteU64(uint64(v))
}

// WriteF32 canonicalizes NaN payloads.
func (w *Writer) WriteF32(v float32) {
	w.WriteU32(abi.CanonicalizeF32(math.Float32bits(v)))
}

// WriteF64 canonicalizes NaN payloads.
func (w *Writer) WriteF64(v float64) {
	w.WriteU64(abi.CanonicalizeF64(math.Float64bits(v)))
}

// WriteRaw appends data verbatim.
func (w *Writer) WriteRaw(data []byte) {
	w.buf = append(w.buf, data...)
}

// WriteBytes writes a u32 length prefix followed by data.
func (w *Writer) WriteBytes(data []byte) {
	w.WriteU32(uint32(len(data)))
	w.buf = append(w.buf, data...)
}

// WriteString writes a u32 length prefix followed by the UTF-8 bytes.
func (w *Writer) WriteString(s string) {
	w.WriteU32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// Reserve appends a zero u32 and returns its offset for PatchU32.
func (w *Writer) Reserve() int {
	off := len(w.buf)
	w.WriteU32(0)
	return off
}

// PatchU32 overwrites a u32 previously reserved at off.
func (w *Writer) PatchU32(off int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf[off:], v)
}

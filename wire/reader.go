package wire

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/wippyai/boundary/errors"
	"github.com/wippyai/boundary/internal/abi"
)

// Reader consumes little-endian primitives with bounds checks.
// Every failure is an *errors.Error in PhaseDecode.
type Reader struct {
	buf []byte
	off int
}

func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Offset returns the read position.
func (r *Reader) Offset() int {
	return r.off
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Detail("need %d bytes at offset %d, have %d", n, r.off, r.Remaining()).
			Value(r.off).
			Build()
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBool rejects bytes other than 0 and 1.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Detail("invalid bool byte %#x", b).
			Value(b).
			Build()
	}
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadS32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadS64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	return math.Float64frombits(v), err
}

// ReadRaw returns the next n bytes. The slice aliases the input.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	return r.take(n)
}

// ReadBytes reads a u32 length prefix and returns a copy of the payload.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if n > abi.MaxBytesSize {
		return nil, errors.New(errors.PhaseDecode, errors.KindOverflow).
			Detail("byte length %d exceeds limit %d", n, abi.MaxBytesSize).
			Build()
	}
	b, err := r.take(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadString reads a u32 length prefix and validates UTF-8.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	if n > abi.MaxStringSize {
		return "", errors.New(errors.PhaseDecode, errors.KindOverflow).
			Detail("string length %d exceeds limit %d", n, abi.MaxStringSize).
			Build()
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, nil, b)
	}
	return string(b), nil
}

// ReadCount reads a u32 element count and checks it against limit and the
// minimum bytes each element needs.
func (r *Reader) ReadCount(limit uint32, minElemSize int) (int, error) {
	n, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	if n > limit {
		return 0, errors.New(errors.PhaseDecode, errors.KindOverflow).
			Detail("count %d exceeds limit %d", n, limit).
			Build()
	}
	if minElemSize > 0 {
		need, ok := abi.SafeMulU32(n, uint32(minElemSize))
		if !ok || uint64(need) > uint64(r.Remaining()) {
			return 0, errors.OutOfBounds(errors.PhaseDecode, nil, int(n), r.Remaining()/minElemSize)
		}
	}
	return int(n), nil
}

// ExpectEOF fails when unread bytes remain.
func (r *Reader) ExpectEOF() error {
	if r.Remaining() != 0 {
		return errors.InvalidData(errors.PhaseDecode, nil, "trailing bytes after payload")
	}
	return nil
}

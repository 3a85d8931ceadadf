package marshal

import (
	"go.uber.org/zap"

	"github.com/wippyai/boundary"
	"github.com/wippyai/boundary/errors"
	"github.com/wippyai/boundary/tagset"
)

// RegionAlign is the alignment requested for encoded regions.
const RegionAlign = 8

// Region is an encoded value placed in linear memory.
type Region struct {
	Ptr uint32
	Len uint32
}

// EncodeToMemory encodes v and copies the bytes into a region obtained from
// alloc. An empty encoding yields the zero Region without allocating.
func (m *Marshaler) EncodeToMemory(v any, set tagset.Set, mem boundary.Memory, alloc boundary.Allocator) (Region, error) {
	if mem == nil || alloc == nil {
		return Region{}, errors.InvalidInput(errors.PhaseMemory, "memory and allocator are required")
	}

	data, err := m.Encode(v, set)
	if err != nil {
		return Region{}, err
	}
	if len(data) == 0 {
		return Region{}, nil
	}

	size := uint32(len(data))
	ptr, err := alloc.Alloc(size, RegionAlign)
	if err != nil {
		return Region{}, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Detail("failed to allocate %d bytes (align %d)", size, RegionAlign).
			Cause(err).
			Build()
	}
	if err := mem.Write(ptr, data); err != nil {
		alloc.Free(ptr, size, RegionAlign)
		return Region{}, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "write encoded value")
	}

	m.logger.Debug("encoded to memory",
		zap.Uint32("ptr", ptr),
		zap.Uint32("len", size),
		zap.Stringer("tags", set))
	return Region{Ptr: ptr, Len: size}, nil
}

// DecodeFromMemory reads reg and decodes it under set.
func (m *Marshaler) DecodeFromMemory(reg Region, set tagset.Set, mem boundary.Memory) (any, error) {
	if mem == nil {
		return nil, errors.InvalidInput(errors.PhaseMemory, "memory is required")
	}
	data, err := mem.Read(reg.Ptr, reg.Len)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "read encoded value")
	}
	return m.Decode(data, set)
}

// FreeRegion returns reg to alloc. The zero Region is ignored.
func FreeRegion(alloc boundary.Allocator, reg Region) {
	if alloc == nil || reg.Len == 0 {
		return
	}
	alloc.Free(reg.Ptr, reg.Len, RegionAlign)
}

package memory

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/boundary"
	"github.com/wippyai/boundary/errors"
)

// WrapMemory adapts wazero linear memory. A nil memory yields nil.
func WrapMemory(mem api.Memory) boundary.Memory {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// WrapAllocator adapts a guest cabi_realloc export. A nil function yields nil.
func WrapAllocator(ctx context.Context, fn api.Function) boundary.Allocator {
	if fn == nil {
		return nil
	}
	return &AllocatorWrapper{Ctx: ctx, Fn: fn}
}

// Wrapper adapts wazero api.Memory to boundary.Memory.
type Wrapper struct {
	Mem api.Memory
}

func outOfBounds(offset, length uint32, size uint32) error {
	return errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
		Detail("offset %d length %d exceeds memory size %d", offset, length, size).
		Value(offset).
		Build()
}

// Size returns the current memory size in bytes.
func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}

// Read returns a view of guest memory. The slice aliases the memory and is
// invalidated by growth.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, outOfBounds(offset, length, m.Mem.Size())
	}
	return data, nil
}

func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return outOfBounds(offset, uint32(len(data)), m.Mem.Size())
	}
	return nil
}

// AllocatorWrapper adapts a guest cabi_realloc export to boundary.Allocator.
type AllocatorWrapper struct {
	Ctx context.Context
	Fn  api.Function
}

// Alloc calls cabi_realloc(0, 0, align, size). A zero pointer for a
// non-empty request is a failure.
func (a *AllocatorWrapper) Alloc(size, align uint32) (uint32, error) {
	results, err := a.Fn.Call(a.Ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Detail("cabi_realloc(%d, align %d)", size, align).
			Cause(err).
			Build()
	}
	if len(results) == 0 {
		return 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Detail("cabi_realloc returned no result").
			Build()
	}
	ptr := uint32(results[0])
	if ptr == 0 && size > 0 {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	Logger().Debug("guest alloc",
		zap.Uint32("ptr", ptr),
		zap.Uint32("size", size),
		zap.Uint32("align", align))
	return ptr, nil
}

// Free shrinks the allocation to zero through cabi_realloc.
func (a *AllocatorWrapper) Free(ptr, size, align uint32) {
	if _, err := a.Fn.Call(a.Ctx, uint64(ptr), uint64(size), uint64(align), 0); err != nil {
		Logger().Warn("guest free failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

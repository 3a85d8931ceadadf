package memory

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/boundary"
	"github.com/wippyai/boundary/errors"
	"github.com/wippyai/boundary/internal/abi"
)

// Arena is a bump allocator over the window [base, limit) of a Memory.
// Free is a no-op; Reset releases everything at once. Safe for concurrent use.
type Arena struct {
	mem   boundary.Memory
	base  uint32
	limit uint32
	next  uint32
	mu    sync.Mutex
}

// NewArena validates the window against the memory size when mem reports one.
func NewArena(mem boundary.Memory, base, limit uint32) (*Arena, error) {
	if mem == nil {
		return nil, errors.InvalidInput(errors.PhaseMemory, "arena needs a memory")
	}
	if base > limit {
		return nil, errors.InvalidInput(errors.PhaseMemory, "arena base exceeds limit")
	}
	if sizer, ok := mem.(boundary.MemorySizer); ok && limit > sizer.Size() {
		return nil, errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
			Detail("arena limit %d exceeds memory size %d", limit, sizer.Size()).
			Build()
	}
	return &Arena{mem: mem, base: base, limit: limit, next: base}, nil
}

// Memory returns the memory the arena allocates from.
func (a *Arena) Memory() boundary.Memory {
	return a.mem
}

// Alloc reserves size bytes aligned to align, which must be a power of two.
func (a *Arena) Alloc(size, align uint32) (uint32, error) {
	if align == 0 || align&(align-1) != 0 {
		return 0, errors.InvalidInput(errors.PhaseMemory, "alignment must be a power of two")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ptr := abi.AlignTo(a.next, align)
	end, ok := abi.SafeAddU32(ptr, size)
	if !ok || ptr < a.next || end > a.limit {
		Logger().Debug("arena exhausted",
			zap.Uint32("size", size),
			zap.Uint32("used", a.next-a.base),
			zap.Uint32("capacity", a.limit-a.base))
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	a.next = end
	return ptr, nil
}

func (a *Arena) Free(ptr, size, align uint32) {}

// Reset releases every allocation.
func (a *Arena) Reset() {
	a.mu.Lock()
	a.next = a.base
	a.mu.Unlock()
}

// Used returns the bytes consumed, including alignment padding.
func (a *Arena) Used() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next - a.base
}

// Available returns the bytes left before the limit.
func (a *Arena) Available() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.limit - a.next
}

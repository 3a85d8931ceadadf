package memory

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/boundary/errors"
)

// memoryWASM is a minimal WASM module with 1 page of memory exported as "memory"
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory" (6 bytes + string)
	0x02, 0x00, // kind: memory, index 0
}

// reallocWASM adds a bump cabi_realloc starting at 1024:
//
//	ptr = (next + align - 1) & -align; next = ptr + size; return ptr
var reallocWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x01, 0x09, 0x01, 0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x01, 0x7f, // type: (i32 i32 i32 i32) -> i32
	0x03, 0x02, 0x01, 0x00, // function section
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page
	0x06, 0x07, 0x01, 0x7f, 0x01, 0x41, 0x80, 0x08, 0x0b, // global: mut i32 = 1024
	0x07, 0x19, 0x02, // export section: 2 exports
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00, // "memory"
	0x0c, 0x63, 0x61, 0x62, 0x69, 0x5f, 0x72, 0x65, 0x61, 0x6c, 0x6c, 0x6f, 0x63, 0x00, 0x00, // "cabi_realloc"
	0x0a, 0x1d, 0x01, 0x1b, 0x01, 0x01, 0x7f, // code section, one i32 local
	0x23, 0x00, 0x20, 0x02, 0x6a, 0x41, 0x01, 0x6b, // next + align - 1
	0x41, 0x00, 0x20, 0x02, 0x6b, 0x71, // & -align
	0x22, 0x04, 0x20, 0x03, 0x6a, 0x24, 0x00, // next = ptr + size
	0x20, 0x04, 0x0b, // return ptr
}

func instantiate(t *testing.T, wasm []byte) api.Module {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	mod, err := rt.Instantiate(ctx, wasm)
	if err != nil {
		t.Fatalf("failed to instantiate: %v", err)
	}
	return mod
}

func TestWrapMemory_Nil(t *testing.T) {
	mem := WrapMemory(nil)
	if mem != nil {
		t.Error("expected nil for nil memory")
	}
}

func TestWrapAllocator_Nil(t *testing.T) {
	alloc := WrapAllocator(context.Background(), nil)
	if alloc != nil {
		t.Error("expected nil for nil function")
	}
}

func TestWrapper_ReadWrite(t *testing.T) {
	mod := instantiate(t, memoryWASM)
	mem := WrapMemory(mod.ExportedMemory("memory"))
	if mem == nil {
		t.Fatal("expected non-nil wrapped memory")
	}

	data := []byte{1, 2, 3, 4}
	if err := mem.Write(0, data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	read, err := mem.Read(0, 4)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	for i, b := range read {
		if b != data[i] {
			t.Errorf("byte %d: expected %d, got %d", i, data[i], b)
		}
	}

	// Read aliases guest memory
	read[0] = 9
	if again, _ := mem.Read(0, 1); again[0] != 9 {
		t.Errorf("expected aliased read, got %d", again[0])
	}
}

func TestWrapper_OutOfBounds(t *testing.T) {
	mod := instantiate(t, memoryWASM)
	mem := WrapMemory(mod.ExportedMemory("memory"))
	const pageSize = 65536

	checks := []struct {
		err  error
		name string
	}{
		{func() error { _, err := mem.Read(pageSize-2, 4); return err }(), "read"},
		{mem.Write(pageSize, []byte{1}), "write"},
		{mem.Write(pageSize-2, []byte{1, 2, 3}), "write_straddle"},
		{func() error { _, err := mem.Read(pageSize, 1); return err }(), "read_past_end"},
	}
	for _, c := range checks {
		if !stderrors.Is(c.err, &errors.Error{Phase: errors.PhaseMemory, Kind: errors.KindOutOfBounds}) {
			t.Errorf("%s: expected memory out_of_bounds, got %v", c.name, c.err)
		}
	}
}

func TestWrapper_Size(t *testing.T) {
	mod := instantiate(t, memoryWASM)
	w := &Wrapper{Mem: mod.ExportedMemory("memory")}
	if w.Size() != 65536 {
		t.Errorf("expected one page, got %d", w.Size())
	}
}

func TestAllocatorWrapper(t *testing.T) {
	mod := instantiate(t, reallocWASM)
	alloc := WrapAllocator(context.Background(), mod.ExportedFunction("cabi_realloc"))
	if alloc == nil {
		t.Fatal("expected non-nil allocator")
	}

	first, err := alloc.Alloc(5, 8)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if first != 1024 {
		t.Errorf("first allocation: got %d, want 1024", first)
	}
	second, err := alloc.Alloc(4, 8)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if second != 1032 {
		t.Errorf("second allocation should be aligned: got %d, want 1032", second)
	}
	alloc.Free(second, 4, 8)
}

// Package memory provides linear memory adapters for wazero and a bump
// allocator for hosts that own a scratch window of guest memory.
//
// WrapMemory and WrapAllocator adapt a wazero instance to the boundary
// Memory and Allocator interfaces, the latter through the guest's
// cabi_realloc export. Arena serves hosts that reserve a region up front
// and release it wholesale between calls.
package memory

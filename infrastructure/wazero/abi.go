package wazero

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

const (
	exportMemory      = "memory"
	exportAllocate    = "allocate"
	exportDeallocate  = "deallocate"
	exportInitialize  = "_initialize"
	importLog         = "log"
	importCurrent     = "context_current"
	importGetArgument = "context_get_argument"
)

// packPtrLen packs a pointer and length into a single i64.
// Upper 32 bits: pointer, lower 32 bits: length.
func packPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << 32) | uint64(length)
}

// unpackPtrLen unpacks a pointer and length from a packed i64.
func unpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32)           //nolint:gosec // G115: Packed format stores 32-bit values
	length = uint32(packed & 0xFFFFFFFF) //nolint:gosec // G115: Packed format stores 32-bit values
	return ptr, length
}

// readString copies a packed string out of guest memory.
func readString(mod api.Module, packed uint64, limit uint32) (string, error) {
	ptr, length := unpackPtrLen(packed)
	if length == 0 {
		return "", nil
	}
	if length > limit {
		return "", fmt.Errorf("string of %d bytes exceeds maximum %d bytes", length, limit)
	}
	data, ok := mod.Memory().Read(ptr, length)
	if !ok {
		return "", fmt.Errorf("range %d+%d is outside guest memory", ptr, length)
	}
	return string(data), nil
}

// readBytes copies a packed payload out of guest memory. A null pointer is an error.
func readBytes(mod api.Module, packed uint64, limit uint32) ([]byte, error) {
	ptr, length := unpackPtrLen(packed)
	if ptr == 0 {
		return nil, fmt.Errorf("null pointer")
	}
	if length > limit {
		return nil, fmt.Errorf("payload of %d bytes exceeds maximum %d bytes", length, limit)
	}
	view, ok := mod.Memory().Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("range %d+%d is outside guest memory", ptr, length)
	}
	out := make([]byte, length)
	copy(out, view)
	return out, nil
}

// writeString allocates space in the guest and copies s into it.
// At least one byte is requested so that an empty string still gets a non-zero pointer.
func writeString(ctx context.Context, mod api.Module, s string) (uint64, error) {
	allocate := mod.ExportedFunction(exportAllocate)
	if allocate == nil {
		return 0, fmt.Errorf("guest does not export %q", exportAllocate)
	}

	size := max(len(s), 1)
	results, err := allocate.Call(ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("failed to call guest allocate: %w", err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("allocate returned no results")
	}
	ptr := api.DecodeU32(results[0])
	if ptr == 0 {
		return 0, fmt.Errorf("allocate returned a null pointer")
	}

	if !mod.Memory().Write(ptr, []byte(s)) {
		return 0, fmt.Errorf("failed to write %d bytes to guest memory", len(s))
	}

	return packPtrLen(ptr, uint32(len(s))), nil //nolint:gosec // G115: Length is bounded by guest memory
}

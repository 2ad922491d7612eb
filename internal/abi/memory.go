//go:build wasip1

package abi

import (
	"fmt"
	"sync"
	"unsafe"
)

// MaxTotalAllocations is the maximum total memory the guest hands out through allocate.
const MaxTotalAllocations = 100 * 1024 * 1024 // 100 MB

// memoryManager pins every buffer handed to the host so the Go GC does not collect
// it before the host has copied it out or written into it.
var memoryManager = struct {
	sync.Mutex
	ptrs           map[uint32][]byte // ptr -> slice reference
	totalAllocated int
}{
	ptrs: make(map[uint32][]byte),
}

// allocate reserves size bytes and returns their address. The host calls it to
// place argument values into guest memory.
// Panics if allocation would exceed MaxTotalAllocations.
//
//go:wasmexport allocate
func allocate(size uint32) uint32 {
	if size == 0 {
		return 0
	}

	memoryManager.Lock()
	defer memoryManager.Unlock()

	if memoryManager.totalAllocated+int(size) > MaxTotalAllocations {
		panic(fmt.Sprintf("abi: memory allocation limit exceeded (requested: %d bytes, current: %d bytes, limit: %d bytes)",
			size, memoryManager.totalAllocated, MaxTotalAllocations))
	}

	buf := make([]byte, size)
	ptr := uint32(uintptr(unsafe.Pointer(&buf[0])))

	memoryManager.ptrs[ptr] = buf
	memoryManager.totalAllocated += int(size)

	return ptr
}

// deallocate unpins a buffer. The host calls it once it has copied a result out.
// Untracked pointers are ignored.
//
//go:wasmexport deallocate
func deallocate(ptr uint32, _ uint32) {
	memoryManager.Lock()
	defer memoryManager.Unlock()

	stored, exists := memoryManager.ptrs[ptr]
	if !exists {
		return
	}
	delete(memoryManager.ptrs, ptr)
	memoryManager.totalAllocated -= len(stored)
}

// PtrFromBytes copies data into a pinned buffer and returns it packed.
// Empty data is returned as 0.
func PtrFromBytes(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	size := uint32(len(data)) //nolint:gosec // G115: bounded by MaxTotalAllocations
	ptr := allocate(size)
	copyToMemory(ptr, data)
	return PackPtrLen(ptr, size)
}

// PtrFromString is PtrFromBytes for strings.
func PtrFromString(s string) uint64 {
	return PtrFromBytes([]byte(s))
}

// StringFromPtr reads a value the host wrote through allocate and releases the buffer.
// The boolean is false when the host returned no value.
func StringFromPtr(packed uint64) (string, bool) {
	if Absent(packed) {
		return "", false
	}
	ptr, length := UnpackPtrLen(packed)
	s := string(readFromMemory(ptr, length))
	deallocate(ptr, length)
	return s, true
}

// Release unpins a buffer previously returned by PtrFromBytes.
func Release(packed uint64) {
	if Absent(packed) {
		return
	}
	ptr, length := UnpackPtrLen(packed)
	deallocate(ptr, length)
}

func copyToMemory(ptr uint32, data []byte) {
	//nolint:gosec // G103: Valid unsafe.Pointer use for WASM linear memory access
	dest := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), len(data))
	copy(dest, data)
}

func readFromMemory(ptr uint32, length uint32) []byte {
	//nolint:gosec // G103: Valid unsafe.Pointer use for WASM linear memory access
	src := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), length)
	data := make([]byte, length)
	copy(data, src)
	return data
}

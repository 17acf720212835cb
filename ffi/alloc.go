package ffi

import "unsafe"

// Allocator provides the memory handed to foreign callers. A C shim uses
// malloc/free; Go callers and tests use HeapAllocator.
type Allocator interface {
	// Malloc returns size bytes aligned for a uintptr, or nil.
	Malloc(size uintptr) unsafe.Pointer

	// Free releases memory returned by Malloc.
	Free(p unsafe.Pointer)
}

// HeapAllocator allocates from the Go heap and keeps every block reachable
// until it is freed. It is not safe for concurrent use.
type HeapAllocator struct {
	blocks map[unsafe.Pointer][]uint64
}

// NewHeapAllocator returns an empty HeapAllocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{blocks: make(map[unsafe.Pointer][]uint64)}
}

// Malloc implements Allocator. Zero-size requests still return a distinct,
// freeable block.
func (a *HeapAllocator) Malloc(size uintptr) unsafe.Pointer {
	words := (size + 7) / 8
	if words == 0 {
		words = 1
	}
	block := make([]uint64, words)
	p := unsafe.Pointer(&block[0])
	a.blocks[p] = block
	return p
}

// Free implements Allocator. Freeing an unknown pointer panics.
func (a *HeapAllocator) Free(p unsafe.Pointer) {
	if _, ok := a.blocks[p]; !ok {
		panic("ffi: free of unallocated pointer")
	}
	delete(a.blocks, p)
}

// Outstanding returns the number of blocks not yet freed.
func (a *HeapAllocator) Outstanding() int { return len(a.blocks) }

package cabi

/*
#include <stdlib.h>
*/
import "C"

import "unsafe"

// CAllocator hands out memory from the C heap so foreign callers can keep
// it past any Go garbage collection.
type CAllocator struct{}

// Malloc implements ffi.Allocator.
func (CAllocator) Malloc(size uintptr) unsafe.Pointer { return C.malloc(C.size_t(size)) }

// Free implements ffi.Allocator.
func (CAllocator) Free(p unsafe.Pointer) { C.free(p) }

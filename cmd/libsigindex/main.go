// Command libsigindex builds the C shared library exposing linear signature
// indexes to foreign callers:
//
//	go build -buildmode=c-shared -o libsigindex.so ./cmd/libsigindex
//
// Every function taking an int32_t *code writes an ffi.Code to it when it is
// not NULL; a failing call returns 0 or NULL and leaves nothing to free.
// Handles, arrays and buffers are released with their matching *_free call
// exactly once. Passing a NULL or freed index handle aborts the process.
package main

/*
#include <stdint.h>
#include <stddef.h>
*/
import "C"

import (
	"unsafe"

	"github.com/viant/sigindex/internal/cabi"
)

// size_t and uintptr_t must match uintptr for the pointer casts below.
var (
	_ [unsafe.Sizeof(C.size_t(0)) - unsafe.Sizeof(uintptr(0))]struct{}
	_ [unsafe.Sizeof(uintptr(0)) - unsafe.Sizeof(C.size_t(0))]struct{}
	_ [unsafe.Sizeof(C.uintptr_t(0)) - unsafe.Sizeof(uintptr(0))]struct{}
)

// shim only carries the allocator and handle accounting; all index and
// signature state stays behind caller-held handles.
var shim = cabi.New(cabi.CAllocator{})

func codePtr(code *C.int32_t) *int32 { return (*int32)(unsafe.Pointer(code)) }

func sizePtr(size *C.size_t) *uintptr { return (*uintptr)(unsafe.Pointer(size)) }

func handles(arr *C.uintptr_t) *uintptr { return (*uintptr)(unsafe.Pointer(arr)) }

//export linearindex_new
func linearindex_new() C.uintptr_t {
	return C.uintptr_t(shim.IndexNew())
}

//export linearindex_new_with_sigs
func linearindex_new_with_sigs(sigs *C.uintptr_t, n C.size_t, code *C.int32_t) C.uintptr_t {
	return C.uintptr_t(shim.IndexNewWithSigs(handles(sigs), uintptr(n), codePtr(code)))
}

//export linearindex_free
func linearindex_free(idx C.uintptr_t) {
	shim.IndexFree(uintptr(idx))
}

//export linearindex_len
func linearindex_len(idx C.uintptr_t) C.size_t {
	return C.size_t(shim.IndexLen(uintptr(idx)))
}

//export linearindex_insert
func linearindex_insert(idx C.uintptr_t, sig C.uintptr_t, code *C.int32_t) {
	shim.IndexInsert(uintptr(idx), uintptr(sig), codePtr(code))
}

//export linearindex_signatures
func linearindex_signatures(idx C.uintptr_t, size *C.size_t, code *C.int32_t) *C.uintptr_t {
	return (*C.uintptr_t)(unsafe.Pointer(shim.IndexSignatures(uintptr(idx), sizePtr(size), codePtr(code))))
}

//export linearindex_signatures_free
func linearindex_signatures_free(arr *C.uintptr_t, n C.size_t) {
	shim.SignaturesFree(handles(arr), uintptr(n))
}

//export sigindex_array_free
func sigindex_array_free(arr *C.uintptr_t, n C.size_t) {
	shim.ArrayFree(handles(arr), uintptr(n))
}

//export signature_from_json
func signature_from_json(buf *C.char, n C.size_t, code *C.int32_t) C.uintptr_t {
	return C.uintptr_t(shim.SignatureFromJSON((*byte)(unsafe.Pointer(buf)), uintptr(n), codePtr(code)))
}

//export signature_to_json
func signature_to_json(sig C.uintptr_t, size *C.size_t, code *C.int32_t) *C.char {
	return (*C.char)(unsafe.Pointer(shim.SignatureToJSON(uintptr(sig), sizePtr(size), codePtr(code))))
}

//export signature_name
func signature_name(sig C.uintptr_t, size *C.size_t, code *C.int32_t) *C.char {
	return (*C.char)(unsafe.Pointer(shim.SignatureName(uintptr(sig), sizePtr(size), codePtr(code))))
}

//export signature_eq
func signature_eq(a, b C.uintptr_t) C.int {
	return C.int(shim.SignatureEq(uintptr(a), uintptr(b)))
}

//export signature_free
func signature_free(sig C.uintptr_t) {
	shim.SignatureFree(uintptr(sig))
}

//export sigindex_buffer_free
func sigindex_buffer_free(p *C.char) {
	shim.BufferFree((*byte)(unsafe.Pointer(p)))
}

func main() {}

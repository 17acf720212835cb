// Package cabi implements the C entry points of libsigindex on Go-sized
// types. The command package only converts C types to these and exports
// them; size_t maps to uintptr, int32_t to int32 and every handle to a
// uintptr.
//
// Every call taking a code pointer writes an ffi.Code to it when the pointer
// is not nil. A failing call returns 0 or nil and leaves nothing to free.
package cabi

import (
	"unsafe"

	"github.com/viant/sigindex/ffi"
)

// Shim adapts an ffi.Boundary to the flat calling convention of the C API.
type Shim struct {
	boundary *ffi.Boundary
}

// New returns a Shim allocating through alloc.
func New(alloc ffi.Allocator) *Shim {
	return &Shim{boundary: ffi.New(alloc)}
}

// Live returns the number of handles not yet freed.
func (s *Shim) Live() int64 { return s.boundary.Live() }

func setCode(code *int32, err error) {
	if code != nil {
		*code = int32(ffi.CodeOf(err))
	}
}

func (s *Shim) IndexNew() uintptr {
	return uintptr(s.boundary.NewIndex())
}

// IndexNewWithSigs builds an index from n signature handles at sigs.
func (s *Shim) IndexNewWithSigs(sigs *uintptr, n uintptr, code *int32) uintptr {
	h, err := s.boundary.NewIndexWithSignatures((*ffi.SignatureHandle)(unsafe.Pointer(sigs)), n)
	setCode(code, err)
	return uintptr(h)
}

func (s *Shim) IndexFree(idx uintptr) {
	s.boundary.FreeIndex(ffi.IndexHandle(idx))
}

func (s *Shim) IndexLen(idx uintptr) uintptr {
	return s.boundary.Len(ffi.IndexHandle(idx))
}

func (s *Shim) IndexInsert(idx, sig uintptr, code *int32) {
	setCode(code, s.boundary.Insert(ffi.IndexHandle(idx), ffi.SignatureHandle(sig)))
}

// IndexSignatures exports every signature of idx as a new handle array and
// writes its length to size. A nil size fails with ffi.CodeInvalidArgument.
func (s *Shim) IndexSignatures(idx uintptr, size *uintptr, code *int32) *uintptr {
	arr, err := s.boundary.ExportSignatures(ffi.IndexHandle(idx), size)
	setCode(code, err)
	if err != nil {
		return nil
	}
	return (*uintptr)(unsafe.Pointer(arr))
}

// SignaturesFree frees each of the n handles of arr, then arr.
func (s *Shim) SignaturesFree(arr *uintptr, n uintptr) {
	s.boundary.ReleaseSignatures((*ffi.SignatureHandle)(unsafe.Pointer(arr)), n)
}

// ArrayFree frees arr only; its handles stay live.
func (s *Shim) ArrayFree(arr *uintptr, n uintptr) {
	s.boundary.FreeArray((*ffi.SignatureHandle)(unsafe.Pointer(arr)), n)
}

func (s *Shim) SignatureFromJSON(buf *byte, n uintptr, code *int32) uintptr {
	h, err := s.boundary.SignatureFromJSON(buf, n)
	setCode(code, err)
	return uintptr(h)
}

func (s *Shim) SignatureToJSON(sig uintptr, size *uintptr, code *int32) *byte {
	buf, err := s.boundary.SignatureToJSON(ffi.SignatureHandle(sig), size)
	setCode(code, err)
	if err != nil {
		return nil
	}
	return buf
}

func (s *Shim) SignatureName(sig uintptr, size *uintptr, code *int32) *byte {
	buf, err := s.boundary.SignatureName(ffi.SignatureHandle(sig), size)
	setCode(code, err)
	if err != nil {
		return nil
	}
	return buf
}

// SignatureEq returns 1 when both handles hold equal signatures, else 0.
func (s *Shim) SignatureEq(a, b uintptr) int32 {
	if s.boundary.SignatureEqual(ffi.SignatureHandle(a), ffi.SignatureHandle(b)) {
		return 1
	}
	return 0
}

func (s *Shim) SignatureFree(sig uintptr) {
	s.boundary.FreeSignature(ffi.SignatureHandle(sig))
}

func (s *Shim) BufferFree(p *byte) {
	s.boundary.FreeBuffer(p)
}

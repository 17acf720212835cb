//go:build cgo

package cabi

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sigindex/ffi"
	"github.com/viant/sigindex/signature"
)

func TestShim_CAllocatorRoundTrip(t *testing.T) {
	s := New(CAllocator{})
	a := fromJSON(t, s, sigJSON(t, "a", 1, 2))
	b := fromJSON(t, s, sigJSON(t, "b", 3))

	sigs := []uintptr{a, b}
	code := int32(-1)
	idx := s.IndexNewWithSigs(&sigs[0], uintptr(len(sigs)), &code)
	require.Equal(t, int32(ffi.CodeOK), code)
	require.NotZero(t, idx)
	assert.Equal(t, uintptr(2), s.IndexLen(idx))

	c := fromJSON(t, s, sigJSON(t, "c", 4))
	code = -1
	s.IndexInsert(idx, c, &code)
	assert.Equal(t, int32(ffi.CodeOK), code)
	assert.Equal(t, uintptr(3), s.IndexLen(idx))

	var size uintptr
	code = -1
	arr := s.IndexSignatures(idx, &size, &code)
	require.NotNil(t, arr)
	require.Equal(t, int32(ffi.CodeOK), code)
	require.Equal(t, uintptr(3), size)
	exported := unsafe.Slice(arr, size)
	assert.Equal(t, int32(1), s.SignatureEq(exported[0], a))
	assert.Equal(t, int32(0), s.SignatureEq(exported[0], b))
	assert.Equal(t, int32(1), s.SignatureEq(exported[2], c))

	name := s.SignatureName(exported[1], &size, &code)
	require.NotNil(t, name)
	assert.Equal(t, "b", string(unsafe.Slice(name, size)))
	s.BufferFree(name)

	buf := s.SignatureToJSON(exported[2], &size, &code)
	require.NotNil(t, buf)
	decoded, err := signature.Unmarshal(unsafe.Slice(buf, size))
	require.NoError(t, err)
	assert.Equal(t, "c", decoded.Name)
	s.BufferFree(buf)

	s.SignaturesFree(arr, 3)
	s.IndexFree(idx)
	for _, h := range []uintptr{a, b, c} {
		s.SignatureFree(h)
	}
	assert.Equal(t, int64(0), s.Live())
}

package cabi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sigindex/ffi"
	"github.com/viant/sigindex/signature"
)

func sigJSON(t *testing.T, name string, mins ...uint64) []byte {
	t.Helper()
	data, err := signature.Marshal(signature.New(name, signature.MinHash{KSize: 31, Seed: 42, Molecule: "DNA", Mins: mins}))
	require.NoError(t, err)
	return data
}

func fromJSON(t *testing.T, s *Shim, data []byte) uintptr {
	t.Helper()
	code := int32(-1)
	h := s.SignatureFromJSON(&data[0], uintptr(len(data)), &code)
	require.Equal(t, int32(ffi.CodeOK), code)
	require.NotZero(t, h)
	return h
}

func TestShim_NullSize(t *testing.T) {
	alloc := ffi.NewHeapAllocator()
	s := New(alloc)
	sig := fromJSON(t, s, sigJSON(t, "a", 1))
	idx := s.IndexNew()

	code := int32(-1)
	assert.Nil(t, s.IndexSignatures(idx, nil, &code))
	assert.Equal(t, int32(ffi.CodeInvalidArgument), code)

	code = -1
	assert.Nil(t, s.SignatureToJSON(sig, nil, &code))
	assert.Equal(t, int32(ffi.CodeInvalidArgument), code)

	code = -1
	assert.Nil(t, s.SignatureName(sig, nil, &code))
	assert.Equal(t, int32(ffi.CodeInvalidArgument), code)

	assert.Nil(t, s.IndexSignatures(idx, nil, nil), "a nil code slot is allowed")
	assert.Equal(t, 0, alloc.Outstanding(), "failed calls leave nothing to free")

	s.IndexFree(idx)
	s.SignatureFree(sig)
	assert.Equal(t, int64(0), s.Live())
}

func TestShim_Codes(t *testing.T) {
	alloc := ffi.NewHeapAllocator()
	s := New(alloc)

	bad := []byte("{not json")
	code := int32(-1)
	assert.Zero(t, s.SignatureFromJSON(&bad[0], uintptr(len(bad)), &code))
	assert.Equal(t, int32(ffi.CodeInvalidSignature), code)
	assert.Zero(t, s.SignatureFromJSON(&bad[0], uintptr(len(bad)), nil))

	code = -1
	assert.Zero(t, s.IndexNewWithSigs(nil, 2, &code))
	assert.Equal(t, int32(ffi.CodeInvalidArgument), code)

	zero := []uintptr{0}
	code = -1
	assert.Zero(t, s.IndexNewWithSigs(&zero[0], 1, &code))
	assert.Equal(t, int32(ffi.CodeInvalidArgument), code)

	code = -1
	idx := s.IndexNewWithSigs(nil, 0, &code)
	require.NotZero(t, idx)
	assert.Equal(t, int32(ffi.CodeOK), code)

	var size uintptr = 7
	arr := s.IndexSignatures(idx, &size, &code)
	require.NotNil(t, arr, "empty exports still return a freeable array")
	assert.Equal(t, uintptr(0), size)
	s.ArrayFree(arr, 0)

	s.IndexFree(idx)
	assert.Equal(t, 0, alloc.Outstanding())
	assert.Equal(t, int64(0), s.Live())
}

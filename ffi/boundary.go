package ffi

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/viant/sigindex/index"
	"github.com/viant/sigindex/index/linear"
	"github.com/viant/sigindex/signature"
)

// Boundary performs every conversion between native values and foreign
// handles, and every allocation returned to foreign callers.
type Boundary struct {
	alloc Allocator
	live  atomic.Int64
}

// New returns a Boundary allocating arrays and buffers through alloc.
func New(alloc Allocator) *Boundary {
	return &Boundary{alloc: alloc}
}

// Live returns the number of handles created and not yet freed.
func (b *Boundary) Live() int64 { return b.live.Load() }

// NewIndex returns a handle to an empty index.
func (b *Boundary) NewIndex() IndexHandle {
	return b.newIndex(linear.NewBuilder().Build())
}

// NewIndexWithSignatures builds an index from n signature handles starting at
// sigs. Each signature is cloned into a resident entry; the caller keeps
// ownership of the passed handles. A nil sigs is accepted only when n is 0.
func (b *Boundary) NewIndexWithSignatures(sigs *SignatureHandle, n uintptr) (IndexHandle, error) {
	if sigs == nil && n > 0 {
		return 0, fmt.Errorf("%w: null signature array with count %d", ErrInvalidArgument, n)
	}
	var handles []SignatureHandle
	if n > 0 {
		handles = unsafe.Slice(sigs, n)
	}
	for i, h := range handles {
		if h == 0 {
			return 0, fmt.Errorf("%w: null signature at %d", ErrInvalidArgument, i)
		}
	}
	datasets := make([]*index.SigStore, len(handles))
	for i, h := range handles {
		store, err := index.NewSigStoreBuilder().
			Data(signatures.asNative(h)).
			Filename("").
			Name("").
			Metadata("").
			Storage(nil).
			Build()
		if err != nil {
			return 0, err
		}
		datasets[i] = store
	}
	return b.newIndex(linear.NewBuilder().Datasets(datasets).Build()), nil
}

// FreeIndex releases the index behind h and every entry it owns.
func (b *Boundary) FreeIndex(h IndexHandle) {
	indexes.takeNative(h)
	b.live.Add(-1)
}

// Len returns the number of entries of the index behind h.
func (b *Boundary) Len(h IndexHandle) uintptr {
	return uintptr(indexes.asNative(h).Len())
}

// Insert appends a clone of the signature behind sig to the index behind h.
func (b *Boundary) Insert(h IndexHandle, sig SignatureHandle) error {
	if sig == 0 {
		return fmt.Errorf("%w: null signature", ErrInvalidArgument)
	}
	idx := indexes.asNative(h)
	idx.Insert(index.Resident(signatures.asNative(sig)))
	return nil
}

// ExportSignatures returns a newly allocated array holding one new signature
// handle per entry of the index behind h, and writes its length to size.
// The array is never nil on success, even when empty.
func (b *Boundary) ExportSignatures(h IndexHandle, size *uintptr) (*SignatureHandle, error) {
	if size == nil {
		return nil, fmt.Errorf("%w: null size slot", ErrInvalidArgument)
	}
	sigs, err := indexes.asNative(h).Signatures()
	if err != nil {
		return nil, err
	}
	head, elems, err := b.allocArray(len(sigs))
	if err != nil {
		return nil, err
	}
	for i, sig := range sigs {
		elems[i] = b.newSignature(sig)
	}
	*size = uintptr(len(sigs))
	return head, nil
}

// FreeArray releases an array of n handles returned by ExportSignatures.
// The element handles are not freed.
func (b *Boundary) FreeArray(arr *SignatureHandle, n uintptr) {
	if arr == nil {
		panic("ffi: null signature array")
	}
	b.alloc.Free(unsafe.Pointer(arr))
}

// ReleaseSignatures frees every element of an exported array of length n,
// then the array itself.
func (b *Boundary) ReleaseSignatures(arr *SignatureHandle, n uintptr) {
	if arr == nil {
		panic("ffi: null signature array")
	}
	for _, h := range unsafe.Slice(arr, n) {
		b.FreeSignature(h)
	}
	b.FreeArray(arr, n)
}

// NewSignature transfers sig to a new handle. All signature handles, whether
// built by foreign callers or exported from an index, come from here and are
// released by FreeSignature.
func (b *Boundary) NewSignature(sig *signature.Signature) (SignatureHandle, error) {
	if sig == nil {
		return 0, fmt.Errorf("%w: nil signature", ErrInvalidArgument)
	}
	return b.newSignature(sig), nil
}

// FreeSignature releases the signature behind h.
func (b *Boundary) FreeSignature(h SignatureHandle) {
	signatures.takeNative(h)
	b.live.Add(-1)
}

// Signature returns a copy of the signature behind h.
func (b *Boundary) Signature(h SignatureHandle) *signature.Signature {
	return signatures.asNative(h).Clone()
}

// SignatureEqual reports whether the signatures behind x and y are equal.
func (b *Boundary) SignatureEqual(x, y SignatureHandle) bool {
	return signatures.asNative(x).Equal(signatures.asNative(y))
}

// SignatureFromJSON decodes exactly one signature from n bytes at buf.
func (b *Boundary) SignatureFromJSON(buf *byte, n uintptr) (SignatureHandle, error) {
	if buf == nil && n > 0 {
		return 0, fmt.Errorf("%w: null buffer with length %d", ErrInvalidArgument, n)
	}
	var data []byte
	if n > 0 {
		data = unsafe.Slice(buf, n)
	}
	sig, err := signature.Unmarshal(data)
	if err != nil {
		return 0, err
	}
	return b.newSignature(sig), nil
}

// SignatureToJSON returns a newly allocated buffer holding the JSON encoding
// of the signature behind h, and writes its length to size.
func (b *Boundary) SignatureToJSON(h SignatureHandle, size *uintptr) (*byte, error) {
	if size == nil {
		return nil, fmt.Errorf("%w: null size slot", ErrInvalidArgument)
	}
	data, err := signature.Marshal(signatures.asNative(h))
	if err != nil {
		return nil, err
	}
	return b.exportBytes(data, size)
}

// SignatureName returns a newly allocated buffer holding the display name of
// the signature behind h, without a terminator, and writes its length to
// size. The display name falls back from name to filename to the first
// eight characters of the sketch md5sum.
func (b *Boundary) SignatureName(h SignatureHandle, size *uintptr) (*byte, error) {
	if size == nil {
		return nil, fmt.Errorf("%w: null size slot", ErrInvalidArgument)
	}
	return b.exportBytes([]byte(signatures.asNative(h).DisplayName()), size)
}

// FreeBuffer releases a buffer returned by SignatureToJSON or SignatureName.
func (b *Boundary) FreeBuffer(p *byte) {
	if p == nil {
		panic("ffi: null buffer")
	}
	b.alloc.Free(unsafe.Pointer(p))
}

func (b *Boundary) newIndex(idx *linear.Index) IndexHandle {
	b.live.Add(1)
	return indexes.fromNative(idx)
}

func (b *Boundary) newSignature(sig *signature.Signature) SignatureHandle {
	b.live.Add(1)
	return signatures.fromNative(sig)
}

func (b *Boundary) allocArray(n int) (*SignatureHandle, []SignatureHandle, error) {
	elem := unsafe.Sizeof(SignatureHandle(0))
	count := uintptr(n)
	if count == 0 {
		count = 1
	}
	p := b.alloc.Malloc(count * elem)
	if p == nil {
		return nil, nil, fmt.Errorf("%w: %d signature handles", ErrOutOfMemory, n)
	}
	head := (*SignatureHandle)(p)
	return head, unsafe.Slice(head, n), nil
}

func (b *Boundary) exportBytes(data []byte, size *uintptr) (*byte, error) {
	count := uintptr(len(data))
	if count == 0 {
		count = 1
	}
	p := b.alloc.Malloc(count)
	if p == nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrOutOfMemory, len(data))
	}
	head := (*byte)(p)
	copy(unsafe.Slice(head, len(data)), data)
	*size = uintptr(len(data))
	return head, nil
}

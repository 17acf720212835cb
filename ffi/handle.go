package ffi

import (
	"fmt"
	"runtime/cgo"

	"github.com/viant/sigindex/index/linear"
	"github.com/viant/sigindex/signature"
)

// IndexHandle stands for a *linear.Index owned by a foreign caller.
type IndexHandle uintptr

// SignatureHandle stands for a *signature.Signature owned by a foreign caller.
type SignatureHandle uintptr

// object binds a handle kind H to the native type T it stands for. Its three
// conversions are the only places a handle is turned back into a value.
type object[H ~uintptr, T any] struct{}

// fromNative transfers ownership of v to a new handle.
func (object[H, T]) fromNative(v *T) H {
	return H(cgo.NewHandle(v))
}

// asNative borrows the value behind h. The handle stays valid.
func (object[H, T]) asNative(h H) *T {
	if h == 0 {
		panic(fmt.Sprintf("ffi: null %T", h))
	}
	v, ok := cgo.Handle(h).Value().(*T)
	if !ok {
		panic(fmt.Sprintf("ffi: handle %#x is not a %T", uintptr(h), h))
	}
	return v
}

// takeNative returns the value behind h and invalidates h.
func (o object[H, T]) takeNative(h H) *T {
	v := o.asNative(h)
	cgo.Handle(h).Delete()
	return v
}

var (
	indexes    object[IndexHandle, linear.Index]
	signatures object[SignatureHandle, signature.Signature]
)

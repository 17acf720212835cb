package ffi

import (
	"errors"

	"github.com/viant/sigindex/index"
	"github.com/viant/sigindex/signature"
)

var (
	// ErrInvalidArgument is returned for null pointers where data is required.
	ErrInvalidArgument = errors.New("ffi: invalid argument")

	// ErrOutOfMemory is returned when the allocator cannot satisfy a request.
	ErrOutOfMemory = errors.New("ffi: out of memory")
)

// Code is the numeric error reported to foreign callers.
type Code int32

const (
	CodeOK Code = iota
	CodeInvalidArgument
	CodeStorageUnavailable
	CodeOutOfMemory
	CodeInvalidSignature
	CodeUnknown
)

// CodeOf maps err to its Code; nil maps to CodeOK.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, index.ErrStorageUnavailable):
		return CodeStorageUnavailable
	case errors.Is(err, ErrOutOfMemory):
		return CodeOutOfMemory
	case errors.Is(err, signature.ErrInvalidSignature):
		return CodeInvalidSignature
	}
	return CodeUnknown
}

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeInvalidArgument:
		return "invalid argument"
	case CodeStorageUnavailable:
		return "storage unavailable"
	case CodeOutOfMemory:
		return "out of memory"
	case CodeInvalidSignature:
		return "invalid signature"
	}
	return "unknown"
}

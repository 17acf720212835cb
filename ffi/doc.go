// Package ffi is the boundary between native Go values and foreign callers.
// It is the only package in this module that casts raw addresses or pairs
// allocations with frees by hand.
//
// Ownership rules:
//   - Every handle returned by a New*/Export* call is owned by the caller and
//     must be passed exactly once to its matching Free* call. A freed handle
//     is invalid; passing it again is undefined and is not guarded.
//   - ExportSignatures returns an array allocated through the Boundary's
//     Allocator. The caller frees every element with FreeSignature and then
//     the array with FreeArray, or does both with ReleaseSignatures.
//   - Byte buffers returned by SignatureToJSON and SignatureName are freed
//     with FreeBuffer.
//
// Failures are reported as errors and no handle or allocation is left
// reachable. Contract violations that cannot be reported without touching
// invalid memory (a zero index handle, a handle of the wrong kind) panic.
//
// A Boundary is not synchronized. Concurrent calls on the same index handle
// must be serialized by the caller.
package ffi

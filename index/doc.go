// Package index defines a minimal abstraction for signature indexes that can
// be filled with SigStore entries, enumerated, and scanned for similar
// signatures. A SigStore holds one signature either resident in memory or as
// a reference resolved lazily through a Storage.
//
// Index implementations are not synchronized; concurrent mutation of one
// index must be serialized by the caller.
package index

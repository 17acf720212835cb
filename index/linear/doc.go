// Package linear provides a signature index that keeps its SigStore entries
// in insertion order and answers every query by scanning all of them. Indexes
// can be persisted to a Storage as one payload per signature plus a compact
// binary manifest, and reloaded with every entry resolved lazily.
package linear

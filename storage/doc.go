// Package storage provides index.Storage implementations used to resolve
// deferred SigStore entries. It includes:
//   - SQLite: durable storage in a sig_storage table, zstd-compressed and
//     verified against a content digest on load
//   - Memory: a map-backed storage for tests and short-lived indexes
package storage

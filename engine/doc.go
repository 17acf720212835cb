// Package engine opens SQLite databases for the signature index with the
// modernc.org/sqlite driver and registers the sig_jaccard, sig_containment
// and sig_similarity scalar functions, which score the compressed signature
// payloads written by the storage package without leaving SQL.
package engine

package index

import "github.com/viant/sigindex/signature"

// Index defines a signature index with basic lifecycle methods.
type Index interface {
	// Len returns the number of stored entries.
	Len() int

	// Signatures returns one independent copy per stored entry, in stored
	// order. Lazy entries are fetched through their storage; a failed fetch
	// is returned wrapped in ErrStorageUnavailable.
	Signatures() ([]*signature.Signature, error)

	// Insert appends an entry, preserving insertion order.
	Insert(store *SigStore)
}

// Storage fetches and persists raw signature payloads by path.
// Calls are synchronous; cancellation, if any, belongs to the implementation.
type Storage interface {
	// Save stores content under path and returns the path it was stored at.
	Save(path string, content []byte) (string, error)

	// Load returns the content previously saved under path.
	Load(path string) ([]byte, error)
}

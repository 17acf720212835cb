package index

import "errors"

var (
	// ErrStorageUnavailable is returned when a lazy SigStore cannot be resolved.
	ErrStorageUnavailable = errors.New("index: storage unavailable")

	// ErrInvalidSigStore is returned when a SigStore has neither data nor a storage reference.
	ErrInvalidSigStore = errors.New("index: sigstore needs data or storage")
)

package index

import (
	"fmt"

	"github.com/viant/sigindex/signature"
)

// SigStore wraps one signature with descriptive metadata. The signature is
// either resident or deferred: a deferred entry is loaded from storage the
// first time it is resolved and then held in memory as a fetched entry,
// which keeps its storage path.
type SigStore struct {
	filename string
	name     string
	metadata string
	source   source
}

type source interface {
	load() (*signature.Signature, error)
}

type resident struct {
	sig *signature.Signature
}

func (r resident) load() (*signature.Signature, error) { return r.sig, nil }

type fetched struct {
	path string
	sig  *signature.Signature
}

func (f fetched) load() (*signature.Signature, error) { return f.sig, nil }

type deferred struct {
	path    string
	storage Storage
}

func (d deferred) load() (*signature.Signature, error) {
	if d.storage == nil {
		return nil, fmt.Errorf("%w: no storage for %q", ErrStorageUnavailable, d.path)
	}
	data, err := d.storage.Load(d.path)
	if err != nil {
		return nil, fmt.Errorf("%w: load %q: %w", ErrStorageUnavailable, d.path, err)
	}
	sig, err := signature.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %q: %w", ErrStorageUnavailable, d.path, err)
	}
	return sig, nil
}

// SigStoreBuilder collects SigStore fields. The zero value is ready to use.
type SigStoreBuilder struct {
	data     *signature.Signature
	path     string
	filename string
	name     string
	metadata string
	storage  Storage
}

// NewSigStoreBuilder returns an empty builder.
func NewSigStoreBuilder() *SigStoreBuilder { return &SigStoreBuilder{} }

// Data sets a resident signature; Build stores a clone of it.
func (b *SigStoreBuilder) Data(sig *signature.Signature) *SigStoreBuilder {
	b.data = sig
	return b
}

// Path sets the storage reference used when no data is supplied.
func (b *SigStoreBuilder) Path(path string) *SigStoreBuilder {
	b.path = path
	return b
}

func (b *SigStoreBuilder) Filename(filename string) *SigStoreBuilder {
	b.filename = filename
	return b
}

func (b *SigStoreBuilder) Name(name string) *SigStoreBuilder {
	b.name = name
	return b
}

func (b *SigStoreBuilder) Metadata(metadata string) *SigStoreBuilder {
	b.metadata = metadata
	return b
}

// Storage sets the capability used to resolve a deferred entry.
func (b *SigStoreBuilder) Storage(storage Storage) *SigStoreBuilder {
	b.storage = storage
	return b
}

// Build finalizes the SigStore. Supplied data always wins over a storage
// reference. Without data, both a path and a storage are required.
func (b *SigStoreBuilder) Build() (*SigStore, error) {
	ret := &SigStore{filename: b.filename, name: b.name, metadata: b.metadata}
	switch {
	case b.data != nil:
		ret.source = resident{sig: b.data.Clone()}
	case b.storage != nil && b.path != "":
		ret.source = deferred{path: b.path, storage: b.storage}
	default:
		return nil, ErrInvalidSigStore
	}
	return ret, nil
}

// Resident wraps a clone of sig with empty metadata and no storage.
func Resident(sig *signature.Signature) *SigStore {
	return &SigStore{source: resident{sig: sig.Clone()}}
}

// Filename returns the descriptive filename.
func (s *SigStore) Filename() string { return s.filename }

// Name returns the descriptive name.
func (s *SigStore) Name() string { return s.name }

// Metadata returns the descriptive metadata.
func (s *SigStore) Metadata() string { return s.metadata }

// IsResident reports whether the signature is held in memory, either
// because it was supplied as data or because a deferred entry was resolved.
func (s *SigStore) IsResident() bool {
	switch s.source.(type) {
	case resident, fetched:
		return true
	}
	return false
}

// Path returns the storage reference of an entry loaded from storage, or ""
// for an entry built from data. It survives Resolve.
func (s *SigStore) Path() string {
	switch src := s.source.(type) {
	case deferred:
		return src.path
	case fetched:
		return src.path
	}
	return ""
}

// Resolve returns a copy of the wrapped signature, loading it through storage
// first when the entry is deferred.
func (s *SigStore) Resolve() (*signature.Signature, error) {
	if s.source == nil {
		return nil, ErrInvalidSigStore
	}
	sig, err := s.source.load()
	if err != nil {
		return nil, err
	}
	if d, ok := s.source.(deferred); ok {
		s.source = fetched{path: d.path, sig: sig}
	}
	return sig.Clone(), nil
}

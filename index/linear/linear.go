package linear

import (
	"github.com/viant/sigindex/index"
	"github.com/viant/sigindex/signature"
)

// Index is a linear-scan signature index.
type Index struct {
	datasets []*index.SigStore
}

// Builder configures a new Index. It defaults to an empty dataset list.
type Builder struct {
	datasets []*index.SigStore
}

// NewBuilder returns a builder with no datasets.
func NewBuilder() *Builder { return &Builder{} }

// Datasets overrides the initial contents.
func (b *Builder) Datasets(datasets []*index.SigStore) *Builder {
	b.datasets = datasets
	return b
}

// Build returns an Index holding the configured datasets in order, without
// deduplication.
func (b *Builder) Build() *Index {
	return &Index{datasets: append([]*index.SigStore(nil), b.datasets...)}
}

// FromSignatures wraps a clone of each signature into a resident SigStore
// with empty metadata and no storage.
func FromSignatures(sigs []*signature.Signature) *Index {
	datasets := make([]*index.SigStore, len(sigs))
	for j, sig := range sigs {
		datasets[j] = index.Resident(sig)
	}
	return NewBuilder().Datasets(datasets).Build()
}

// Len returns the number of stored entries.
func (i *Index) Len() int { return len(i.datasets) }

// Insert appends store.
func (i *Index) Insert(store *index.SigStore) {
	i.datasets = append(i.datasets, store)
}

// Signatures resolves every entry in stored order.
func (i *Index) Signatures() ([]*signature.Signature, error) {
	out := make([]*signature.Signature, 0, len(i.datasets))
	for _, store := range i.datasets {
		sig, err := store.Resolve()
		if err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	return out, nil
}

// SigStores returns the stored entries in order.
func (i *Index) SigStores() []*index.SigStore {
	return append([]*index.SigStore(nil), i.datasets...)
}

var _ index.Index = (*Index)(nil)

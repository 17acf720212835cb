package linear

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sigindex/index"
	"github.com/viant/sigindex/signature"
	"github.com/viant/sigindex/storage"
)

func testSig(name string, mins ...uint64) *signature.Signature {
	return signature.New(name, signature.MinHash{KSize: 31, Seed: 42, Molecule: "DNA", Mins: mins})
}

func TestFromSignatures_Len(t *testing.T) {
	for _, n := range []int{0, 1, 3, 17} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			sigs := make([]*signature.Signature, n)
			for j := range sigs {
				sigs[j] = testSig(fmt.Sprintf("s%d", j), uint64(j))
			}
			idx := FromSignatures(sigs)
			assert.Equal(t, n, idx.Len())

			got, err := idx.Signatures()
			require.NoError(t, err)
			require.Len(t, got, n)
			for j := range sigs {
				assert.True(t, sigs[j].Equal(got[j]), "signature %d", j)
			}
		})
	}
}

func TestSignatures_IndependentCopies(t *testing.T) {
	a := testSig("a", 1)
	idx := FromSignatures([]*signature.Signature{a, a})
	assert.Equal(t, 2, idx.Len(), "identical signatures are not deduplicated")

	first, err := idx.Signatures()
	require.NoError(t, err)
	first[0].Name = "mutated"
	first[1].Sketches[0].Mins[0] = 42

	second, err := idx.Signatures()
	require.NoError(t, err)
	assert.True(t, a.Equal(second[0]))
	assert.True(t, a.Equal(second[1]))

	a.Name = "caller-mutated"
	third, err := idx.Signatures()
	require.NoError(t, err)
	assert.Equal(t, "a", third[0].Name)
}

func TestBuilder(t *testing.T) {
	assert.Equal(t, 0, NewBuilder().Build().Len())

	stores := []*index.SigStore{index.Resident(testSig("a", 1)), index.Resident(testSig("b", 2))}
	idx := NewBuilder().Datasets(stores).Build()
	stores[0] = index.Resident(testSig("z", 9))

	got, err := idx.Signatures()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
	assert.Len(t, idx.SigStores(), 2)
}

func TestInsert(t *testing.T) {
	idx := NewBuilder().Build()
	for _, name := range []string{"a", "b", "c"} {
		idx.Insert(index.Resident(testSig(name, 1)))
	}
	assert.Equal(t, 3, idx.Len())
	got, err := idx.Signatures()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestSaveLoad(t *testing.T) {
	sigs := []*signature.Signature{testSig("a", 1, 2), testSig("b", 3), testSig("a", 1, 2)}
	sigs[1].Filename = "b.fa"
	src := FromSignatures(sigs)
	meta, err := index.NewSigStoreBuilder().Data(testSig("d", 7)).Filename("d.fa").Name("dee").Metadata(`{"k":1}`).Build()
	require.NoError(t, err)
	src.Insert(meta)

	mem := storage.NewMemory()
	manifest, err := src.Save(mem, "idx")
	require.NoError(t, err)
	assert.Equal(t, "idx/manifest", manifest)
	// a and the repeated a share one payload
	assert.Equal(t, 4, mem.Len())

	loaded, err := Load(mem, manifest)
	require.NoError(t, err)
	require.Equal(t, src.Len(), loaded.Len())
	paths := make([]string, loaded.Len())
	for j, store := range loaded.SigStores() {
		assert.False(t, store.IsResident())
		paths[j] = store.Path()
		assert.NotEmpty(t, paths[j])
	}
	last := loaded.SigStores()[3]
	assert.Equal(t, "d.fa", last.Filename())
	assert.Equal(t, "dee", last.Name())
	assert.Equal(t, `{"k":1}`, last.Metadata())

	want, err := src.Signatures()
	require.NoError(t, err)
	got, err := loaded.Signatures()
	require.NoError(t, err)
	for j := range want {
		assert.True(t, want[j].Equal(got[j]), "signature %d", j)
	}
	for j, store := range loaded.SigStores() {
		assert.True(t, store.IsResident())
		assert.Equal(t, paths[j], store.Path(), "entry %d keeps its path once resolved", j)
	}
}

type brokenStorage struct{ *storage.Memory }

func (b brokenStorage) Load(path string) ([]byte, error) {
	if path == "idx/manifest" {
		return b.Memory.Load(path)
	}
	return nil, errors.New("backend offline")
}

func TestLoad_PropagatesResolutionFailure(t *testing.T) {
	mem := storage.NewMemory()
	manifest, err := FromSignatures([]*signature.Signature{testSig("a", 1)}).Save(mem, "idx")
	require.NoError(t, err)

	loaded, err := Load(brokenStorage{mem}, manifest)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
	_, err = loaded.Signatures()
	assert.ErrorIs(t, err, index.ErrStorageUnavailable)

	_, err = Load(mem, "missing")
	assert.ErrorIs(t, err, index.ErrStorageUnavailable)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestManifestDecode(t *testing.T) {
	entries := []entry{{filename: "f", name: "n", metadata: "m", path: "p"}, {}}
	data := encodeManifest(entries)
	got, err := decodeManifest(data)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	empty, err := decodeManifest(encodeManifest(nil))
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, bad := range [][]byte{nil, {1, 0}, data[:len(data)-1], append(append([]byte{}, data...), 0), {0xff, 0xff, 0xff, 0xff}} {
		_, err := decodeManifest(bad)
		assert.ErrorIs(t, err, ErrInvalidManifest)
	}
}

package linear

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path"

	"github.com/opencontainers/go-digest"
	"github.com/viant/sigindex/index"
	"github.com/viant/sigindex/signature"
)

// ManifestName is the storage name of the manifest written by Save.
const ManifestName = "manifest"

// ErrInvalidManifest is returned when manifest bytes cannot be decoded.
var ErrInvalidManifest = errors.New("linear: invalid manifest")

type entry struct {
	filename string
	name     string
	metadata string
	path     string
}

// Save writes every signature of i to storage under prefix, followed by a
// manifest describing the entries, and returns the manifest path.
func (i *Index) Save(storage index.Storage, prefix string) (string, error) {
	entries := make([]entry, len(i.datasets))
	for j, store := range i.datasets {
		sig, err := store.Resolve()
		if err != nil {
			return "", err
		}
		data, err := signature.Marshal(sig)
		if err != nil {
			return "", err
		}
		stored, err := storage.Save(path.Join(prefix, digest.FromBytes(data).Encoded()+".sig"), data)
		if err != nil {
			return "", fmt.Errorf("linear: save entry %d: %w", j, err)
		}
		entries[j] = entry{filename: store.Filename(), name: store.Name(), metadata: store.Metadata(), path: stored}
	}
	manifestPath, err := storage.Save(path.Join(prefix, ManifestName), encodeManifest(entries))
	if err != nil {
		return "", fmt.Errorf("linear: save manifest: %w", err)
	}
	return manifestPath, nil
}

// Load reads the manifest at manifestPath and returns an Index whose entries
// are resolved lazily through storage.
func Load(storage index.Storage, manifestPath string) (*Index, error) {
	data, err := storage.Load(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: load manifest %q: %w", index.ErrStorageUnavailable, manifestPath, err)
	}
	entries, err := decodeManifest(data)
	if err != nil {
		return nil, err
	}
	datasets := make([]*index.SigStore, len(entries))
	for j, e := range entries {
		store, err := index.NewSigStoreBuilder().
			Path(e.path).
			Filename(e.filename).
			Name(e.name).
			Metadata(e.metadata).
			Storage(storage).
			Build()
		if err != nil {
			return nil, fmt.Errorf("linear: entry %d: %w", j, err)
		}
		datasets[j] = store
	}
	return NewBuilder().Datasets(datasets).Build(), nil
}

// encodeManifest stores: n(uint32), then for each entry four length-prefixed
// strings: filename, name, metadata, path.
func encodeManifest(entries []entry) []byte {
	size := 4
	for _, e := range entries {
		size += 16 + len(e.filename) + len(e.name) + len(e.metadata) + len(e.path)
	}
	out := make([]byte, 0, size)
	putString := func(s string) {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(s)))
		out = append(out, s...)
	}
	out = binary.LittleEndian.AppendUint32(out, uint32(len(entries)))
	for _, e := range entries {
		putString(e.filename)
		putString(e.name)
		putString(e.metadata)
		putString(e.path)
	}
	return out
}

func decodeManifest(data []byte) ([]entry, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: too short", ErrInvalidManifest)
	}
	off := 0
	getU32 := func() uint32 { v := binary.LittleEndian.Uint32(data[off : off+4]); off += 4; return v }
	getString := func() (string, error) {
		if off+4 > len(data) {
			return "", fmt.Errorf("%w: truncated", ErrInvalidManifest)
		}
		n := int(getU32())
		if n > len(data)-off {
			return "", fmt.Errorf("%w: truncated string", ErrInvalidManifest)
		}
		s := string(data[off : off+n])
		off += n
		return s, nil
	}
	n := int(getU32())
	// each entry takes at least 16 bytes
	if n > (len(data)-off)/16 {
		return nil, fmt.Errorf("%w: %d entries do not fit in %d bytes", ErrInvalidManifest, n, len(data))
	}
	entries := make([]entry, n)
	for j := range entries {
		fields := []*string{&entries[j].filename, &entries[j].name, &entries[j].metadata, &entries[j].path}
		for _, field := range fields {
			s, err := getString()
			if err != nil {
				return nil, err
			}
			*field = s
		}
	}
	if off != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidManifest, len(data)-off)
	}
	return entries, nil
}

package signature

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"slices"
	"strconv"

	"github.com/opencontainers/go-digest"
)

const (
	// DefaultClass is the class tag written into every serialized signature.
	DefaultClass = "sourmash_signature"
	// DefaultHashFunction names the hash used to build the sketches.
	DefaultHashFunction = "0.murmur64"
	// DefaultLicense is the license attached to new signatures.
	DefaultLicense = "CC0"
	// DefaultVersion is the serialization version.
	DefaultVersion = 0.4
)

// Signature is a named set of sketches computed over one sequence source.
type Signature struct {
	Class        string    `json:"class"`
	Email        string    `json:"email"`
	HashFunction string    `json:"hash_function"`
	Filename     string    `json:"filename,omitempty"`
	Name         string    `json:"name,omitempty"`
	License      string    `json:"license"`
	Version      float64   `json:"version"`
	Sketches     []MinHash `json:"signatures"`
}

// MinHash is a bottom-k (Num > 0) or scaled (MaxHash > 0) sketch.
type MinHash struct {
	Num        uint32   `json:"num"`
	KSize      uint32   `json:"ksize"`
	Seed       uint64   `json:"seed"`
	MaxHash    uint64   `json:"max_hash"`
	Mins       []uint64 `json:"mins"`
	Abundances []uint64 `json:"abundances,omitempty"`
	Molecule   string   `json:"molecule"`
	MD5Sum     string   `json:"md5sum,omitempty"`
}

// New returns a signature with default class, hash function, license and version.
func New(name string, sketches ...MinHash) *Signature {
	return &Signature{
		Class:        DefaultClass,
		HashFunction: DefaultHashFunction,
		Name:         name,
		License:      DefaultLicense,
		Version:      DefaultVersion,
		Sketches:     sketches,
	}
}

// Clone returns a deep copy sharing no mutable state with s.
func (s *Signature) Clone() *Signature {
	if s == nil {
		return nil
	}
	out := *s
	if s.Sketches != nil {
		out.Sketches = make([]MinHash, len(s.Sketches))
		for i := range s.Sketches {
			out.Sketches[i] = s.Sketches[i].Clone()
		}
	}
	return &out
}

// Equal reports whether s and other carry the same name, filename and sketch
// content. Two signatures with identical sketches but different names or
// filenames are not equal.
func (s *Signature) Equal(other *Signature) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Name != other.Name || s.Filename != other.Filename {
		return false
	}
	if s.Class != other.Class || s.Email != other.Email ||
		s.HashFunction != other.HashFunction || s.License != other.License {
		return false
	}
	return slices.EqualFunc(s.Sketches, other.Sketches, func(a, b MinHash) bool { return a.Equal(&b) })
}

// Digest identifies the sketch content of s, independent of its name.
func (s *Signature) Digest() digest.Digest {
	buf := make([]byte, 0, 64)
	for i := range s.Sketches {
		buf = s.Sketches[i].appendContent(buf)
	}
	return digest.FromBytes(buf)
}

// MD5Sum returns the md5 hex digest of the first sketch, or "" when s has
// no sketch.
func (s *Signature) MD5Sum() string {
	m, err := s.MinHash()
	if err != nil {
		return ""
	}
	return m.ComputeMD5Sum()
}

// DisplayName returns the name, then the filename, then the first eight
// characters of MD5Sum.
func (s *Signature) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Filename != "":
		return s.Filename
	}
	sum := s.MD5Sum()
	if len(sum) > 8 {
		sum = sum[:8]
	}
	return sum
}

// ContainedBy returns the fraction of s's hashes present in other.
func (s *Signature) ContainedBy(other *Signature) (float64, error) {
	a, b, err := firstSketches(s, other)
	if err != nil {
		return 0, err
	}
	return ContainedBy(a, b)
}

// MaxContainment returns the containment of the smaller sketch in the larger.
func (s *Signature) MaxContainment(other *Signature) (float64, error) {
	a, b, err := firstSketches(s, other)
	if err != nil {
		return 0, err
	}
	return MaxContainment(a, b)
}

func firstSketches(s, other *Signature) (*MinHash, *MinHash, error) {
	a, err := s.MinHash()
	if err != nil {
		return nil, nil, err
	}
	b, err := other.MinHash()
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// MinHash returns the first sketch of s.
func (s *Signature) MinHash() (*MinHash, error) {
	if s == nil || len(s.Sketches) == 0 {
		return nil, ErrNoSketch
	}
	return &s.Sketches[0], nil
}

// Clone returns a deep copy of m.
func (m MinHash) Clone() MinHash {
	m.Mins = slices.Clone(m.Mins)
	m.Abundances = slices.Clone(m.Abundances)
	return m
}

// Equal reports whether m and other describe the same sketch.
func (m *MinHash) Equal(other *MinHash) bool {
	return m.Num == other.Num &&
		m.KSize == other.KSize &&
		m.Seed == other.Seed &&
		m.MaxHash == other.MaxHash &&
		m.Molecule == other.Molecule &&
		slices.Equal(m.Mins, other.Mins) &&
		slices.Equal(m.Abundances, other.Abundances)
}

// ComputeMD5Sum hashes the decimal ksize followed by each hash in decimal.
// Abundances do not contribute.
func (m *MinHash) ComputeMD5Sum() string {
	h := md5.New()
	h.Write(strconv.AppendUint(nil, uint64(m.KSize), 10))
	buf := make([]byte, 0, 20)
	for _, v := range m.Mins {
		h.Write(strconv.AppendUint(buf[:0], v, 10))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// TrackAbundance reports whether m carries per-hash abundances.
func (m *MinHash) TrackAbundance() bool {
	return len(m.Abundances) > 0 && len(m.Abundances) == len(m.Mins)
}

func (m *MinHash) appendContent(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, m.KSize)
	buf = append(buf, m.Molecule...)
	for _, h := range m.Mins {
		buf = binary.LittleEndian.AppendUint64(buf, h)
	}
	return buf
}

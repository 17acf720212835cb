package signature

import (
	"fmt"
	"math"
	"slices"

	"github.com/viant/vec/search"
)

// Compatible returns an error wrapping ErrIncompatible when a and b were built
// with different parameters.
func Compatible(a, b *MinHash) error {
	switch {
	case a.KSize != b.KSize:
		return fmt.Errorf("%w: ksize %d != %d", ErrIncompatible, a.KSize, b.KSize)
	case a.Seed != b.Seed:
		return fmt.Errorf("%w: seed %d != %d", ErrIncompatible, a.Seed, b.Seed)
	case a.Molecule != b.Molecule:
		return fmt.Errorf("%w: molecule %q != %q", ErrIncompatible, a.Molecule, b.Molecule)
	case a.MaxHash != b.MaxHash:
		return fmt.Errorf("%w: max_hash %d != %d", ErrIncompatible, a.MaxHash, b.MaxHash)
	}
	return nil
}

// Jaccard returns |A∩B| / |A∪B| over the sketch hashes.
func Jaccard(a, b *MinHash) (float64, error) {
	if err := Compatible(a, b); err != nil {
		return 0, err
	}
	common := intersection(a.Mins, b.Mins)
	union := len(a.Mins) + len(b.Mins) - common
	if union == 0 {
		return 0, nil
	}
	return float64(common) / float64(union), nil
}

// Containment returns the fraction of a's hashes also present in b.
func Containment(a, b *MinHash) (float64, error) {
	if err := Compatible(a, b); err != nil {
		return 0, err
	}
	if len(a.Mins) == 0 {
		return 0, nil
	}
	return float64(intersection(a.Mins, b.Mins)) / float64(len(a.Mins)), nil
}

// ContainedBy returns the fraction of a's hashes found in b. It is
// Containment under the name used when a is the query.
func ContainedBy(a, b *MinHash) (float64, error) {
	return Containment(a, b)
}

// MaxContainment returns |A∩B| / min(|A|, |B|).
func MaxContainment(a, b *MinHash) (float64, error) {
	if err := Compatible(a, b); err != nil {
		return 0, err
	}
	smaller := min(len(a.Mins), len(b.Mins))
	if smaller == 0 {
		return 0, nil
	}
	return float64(intersection(a.Mins, b.Mins)) / float64(smaller), nil
}

// Angular returns 1 - 2·θ/π where θ is the angle between the abundance
// vectors of a and b aligned over the union of their hashes.
func Angular(a, b *MinHash) (float64, error) {
	if err := Compatible(a, b); err != nil {
		return 0, err
	}
	if !a.TrackAbundance() || !b.TrackAbundance() {
		return 0, fmt.Errorf("%w: angular similarity needs abundances", ErrIncompatible)
	}
	va, vb := alignAbundances(a, b)
	if len(va) == 0 {
		return 0, nil
	}
	ma := search.Float32s(va).Magnitude()
	mb := search.Float32s(vb).Magnitude()
	if ma == 0 || mb == 0 {
		return 0, nil
	}
	cos := 1 - float64(search.Float32s(va).CosineDistance(vb))
	cos = math.Max(-1, math.Min(1, cos))
	return 1 - 2*math.Acos(cos)/math.Pi, nil
}

// Similarity uses Angular when both sketches track abundance, Jaccard otherwise.
func Similarity(a, b *MinHash) (float64, error) {
	if a.TrackAbundance() && b.TrackAbundance() {
		return Angular(a, b)
	}
	return Jaccard(a, b)
}

func intersection(a, b []uint64) int {
	seen := make(map[uint64]struct{}, len(b))
	for _, h := range b {
		seen[h] = struct{}{}
	}
	common := 0
	for _, h := range a {
		if _, ok := seen[h]; ok {
			common++
			delete(seen, h)
		}
	}
	return common
}

func alignAbundances(a, b *MinHash) ([]float32, []float32) {
	counts := make(map[uint64][2]float32, len(a.Mins)+len(b.Mins))
	for i, h := range a.Mins {
		c := counts[h]
		c[0] = float32(a.Abundances[i])
		counts[h] = c
	}
	for i, h := range b.Mins {
		c := counts[h]
		c[1] = float32(b.Abundances[i])
		counts[h] = c
	}
	keys := make([]uint64, 0, len(counts))
	for h := range counts {
		keys = append(keys, h)
	}
	slices.Sort(keys)
	va := make([]float32, len(keys))
	vb := make([]float32, len(keys))
	for i, h := range keys {
		va[i], vb[i] = counts[h][0], counts[h][1]
	}
	return va, vb
}

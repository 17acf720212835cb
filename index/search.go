package index

import (
	"fmt"
	"sort"

	"github.com/viant/sigindex/signature"
)

// Match is a search hit.
type Match struct {
	Score     float64
	Signature *signature.Signature
	Position  int
}

// Search scans every signature of idx and returns those scoring at least
// threshold against query, by decreasing score. Ties keep stored order.
// With containment set, the score is the fraction of query contained in
// the candidate; otherwise signature.Similarity is used.
func Search(idx Index, query *signature.Signature, threshold float64, containment bool) ([]Match, error) {
	q, err := query.MinHash()
	if err != nil {
		return nil, err
	}
	sigs, err := idx.Signatures()
	if err != nil {
		return nil, err
	}
	var matches []Match
	for pos, sig := range sigs {
		mh, err := sig.MinHash()
		if err != nil {
			continue
		}
		var score float64
		if containment {
			score, err = signature.Containment(q, mh)
		} else {
			score, err = signature.Similarity(q, mh)
		}
		if err != nil {
			return nil, fmt.Errorf("index: search %q: %w", sig.Name, err)
		}
		if score >= threshold {
			matches = append(matches, Match{Score: score, Signature: sig, Position: pos})
		}
	}
	sort.SliceStable(matches, func(a, b int) bool { return matches[a].Score > matches[b].Score })
	return matches, nil
}

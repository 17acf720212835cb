package main

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/viant/sigindex/index"
	"github.com/viant/sigindex/index/linear"
	"github.com/viant/sigindex/internal/codec"
	"github.com/viant/sigindex/signature"
)

// sqlBatch bounds the number of paths bound into one IN list.
const sqlBatch = 500

// searchSQL scores the index entries with the sig_* functions registered by
// engine.Open and resolves only the entries that reach threshold. Results
// follow index.Search ordering: decreasing score, ties in stored order.
func searchSQL(ctx context.Context, db *sql.DB, idx *linear.Index, query *signature.Signature, threshold float64, containment bool) ([]index.Match, error) {
	if _, err := query.MinHash(); err != nil {
		return nil, err
	}
	data, err := signature.Marshal(query)
	if err != nil {
		return nil, err
	}
	packed, err := codec.Compress(data)
	if err != nil {
		return nil, err
	}
	fn := "sig_similarity"
	if containment {
		fn = "sig_containment"
	}

	stores := idx.SigStores()
	positions := make(map[string][]int, len(stores))
	var paths []string
	for pos, store := range stores {
		p := store.Path()
		if p == "" {
			return nil, fmt.Errorf("search: entry %d has no storage path", pos)
		}
		if _, ok := positions[p]; !ok {
			paths = append(paths, p)
		}
		positions[p] = append(positions[p], pos)
	}

	var matches []index.Match
	for start := 0; start < len(paths); start += sqlBatch {
		batch := paths[start:min(start+sqlBatch, len(paths))]
		scores, err := scoreBatch(ctx, db, fn, packed, batch)
		if err != nil {
			return nil, err
		}
		for _, p := range batch {
			score, ok := scores[p]
			if !ok {
				return nil, fmt.Errorf("%w: %q not in sig_storage", index.ErrStorageUnavailable, p)
			}
			if !score.Valid || score.Float64 < threshold {
				continue
			}
			for _, pos := range positions[p] {
				sig, err := stores[pos].Resolve()
				if err != nil {
					return nil, err
				}
				matches = append(matches, index.Match{Score: score.Float64, Signature: sig, Position: pos})
			}
		}
	}
	slices.SortFunc(matches, func(a, b index.Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})
	return matches, nil
}

// scoreBatch returns the score of every stored path of paths, keyed by path.
// Entries without a sketch score NULL.
func scoreBatch(ctx context.Context, db *sql.DB, fn string, query []byte, paths []string) (map[string]sql.NullFloat64, error) {
	args := make([]any, 0, len(paths)+1)
	args = append(args, query)
	for _, p := range paths {
		args = append(args, p)
	}
	stmt := fmt.Sprintf(`SELECT path, %s(?, content) FROM sig_storage WHERE path IN (%s)`,
		fn, strings.TrimSuffix(strings.Repeat("?,", len(paths)), ","))
	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %s: %w", fn, err)
	}
	defer rows.Close()

	out := make(map[string]sql.NullFloat64, len(paths))
	for rows.Next() {
		var (
			p     string
			score sql.NullFloat64
		)
		if err := rows.Scan(&p, &score); err != nil {
			return nil, err
		}
		out[p] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: %s: %w", fn, err)
	}
	return out, nil
}
